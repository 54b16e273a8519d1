package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loyalty-system/internal/metrics"
	"loyalty-system/internal/model"
	"loyalty-system/internal/money"
	"loyalty-system/internal/service"
)

// memberSearchHandler handles POST /api/admin/members/search/
func memberSearchHandler(members *service.MemberService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.MemberSearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Phone == "" && req.MemberID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone or memberId is required"})
			return
		}

		result, err := members.Search(c.Request.Context(), req.Phone, req.MemberID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// rechargeHandler handles POST /api/admin/recharge/:memberId/
func rechargeHandler(ledger *service.LedgerService, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.RechargeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		result, err := ledger.Recharge(c.Request.Context(), c.Param("memberId"), req.TierID, c.GetString(ctxMemberID))
		recordLedgerOp(m, "recharge", err)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// consumeHandler handles POST /api/admin/consume/:memberId/
func consumeHandler(ledger *service.LedgerService, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.ConsumeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		amount, err := money.FromFloat(req.Amount)
		if err != nil {
			respondError(c, service.ErrInvalidAmount)
			return
		}

		result, err := ledger.ConsumeBalance(c.Request.Context(), c.Param("memberId"), amount, c.GetString(ctxMemberID))
		recordLedgerOp(m, "consume_balance", err)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// trackSpendHandler handles POST /api/admin/track/:memberId/
func trackSpendHandler(ledger *service.LedgerService, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.TrackSpendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		amount, err := money.FromFloat(req.Amount)
		if err != nil {
			respondError(c, service.ErrInvalidAmount)
			return
		}

		result, err := ledger.TrackCashSpend(c.Request.Context(), c.Param("memberId"), amount, c.GetString(ctxMemberID))
		recordLedgerOp(m, "track_spend", err)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// redeemVoucherHandler handles POST /api/admin/redeem_voucher/
func redeemVoucherHandler(ledger *service.LedgerService, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.RedeemVoucherRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		bill, err := money.FromFloat(req.BillAmount)
		if err != nil {
			respondError(c, service.ErrInvalidAmount)
			return
		}

		result, err := ledger.RedeemVoucher(c.Request.Context(), req.VoucherID, bill, c.GetString(ctxMemberID))
		recordLedgerOp(m, "redeem_voucher", err)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// Voucher type management.

func createVoucherTypeHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.VoucherTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		vt, err := catalog.CreateVoucherType(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, vt)
	}
}

func listVoucherTypesHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		types, err := catalog.ListVoucherTypes(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, types)
	}
}

func updateVoucherTypeHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.VoucherTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		vt, err := catalog.UpdateVoucherType(c.Request.Context(), c.Param("id"), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, vt)
	}
}

func deleteVoucherTypeHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.DeleteVoucherType(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// Recharge tier management.

func createRechargeTierHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.RechargeTierRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		tier, err := catalog.CreateRechargeTier(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, tier)
	}
}

func listRechargeTiersHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tiers, err := catalog.ListRechargeTiers(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tiers)
	}
}

func updateRechargeTierHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.RechargeTierRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		tier, err := catalog.UpdateRechargeTier(c.Request.Context(), c.Param("id"), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tier)
	}
}

func deleteRechargeTierHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.DeleteRechargeTier(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// Points store management.

func createPointsStoreItemHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.PointsStoreItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		item, err := catalog.CreatePointsStoreItem(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func listAllPointsStoreItemsHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := catalog.ListPointsStoreItems(c.Request.Context(), false)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func updatePointsStoreItemHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.PointsStoreItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		item, err := catalog.UpdatePointsStoreItem(c.Request.Context(), c.Param("id"), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func deletePointsStoreItemHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.DeletePointsStoreItem(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// Balance store management.

func createBalanceStoreItemHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.BalanceStoreItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		item, err := catalog.CreateBalanceStoreItem(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func listAllBalanceStoreItemsHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := catalog.ListBalanceStoreItems(c.Request.Context(), false)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func updateBalanceStoreItemHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.BalanceStoreItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		item, err := catalog.UpdateBalanceStoreItem(c.Request.Context(), c.Param("id"), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func deleteBalanceStoreItemHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.DeleteBalanceStoreItem(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// Announcement management.

func createAnnouncementHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.AnnouncementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		item, err := catalog.CreateAnnouncement(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func listAllAnnouncementsHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := catalog.ListAnnouncements(c.Request.Context(), false)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func updateAnnouncementHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.AnnouncementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		item, err := catalog.UpdateAnnouncement(c.Request.Context(), c.Param("id"), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func deleteAnnouncementHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.DeleteAnnouncement(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
