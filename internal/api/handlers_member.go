package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loyalty-system/internal/metrics"
	"loyalty-system/internal/model"
	"loyalty-system/internal/service"
)

// profileHandler handles GET /api/profile/
func profileHandler(members *service.MemberService) gin.HandlerFunc {
	return func(c *gin.Context) {
		member, err := members.Profile(c.Request.Context(), c.GetString(ctxMemberID))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, member)
	}
}

// profileUpdateHandler handles PUT /api/profile/
func profileUpdateHandler(members *service.MemberService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.ProfileUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		member, err := members.UpdateProfile(c.Request.Context(), c.GetString(ctxMemberID), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, member)
	}
}

// myVouchersHandler handles GET /api/profile/vouchers/
func myVouchersHandler(members *service.MemberService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vouchers, err := members.Vouchers(c.Request.Context(), c.GetString(ctxMemberID))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, vouchers)
	}
}

// myTransactionsHandler handles GET /api/profile/transactions/
func myTransactionsHandler(members *service.MemberService) gin.HandlerFunc {
	return func(c *gin.Context) {
		txs, err := members.Transactions(c.Request.Context(), c.GetString(ctxMemberID))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, txs)
	}
}

// pointsStoreHandler handles GET /api/store/points/
func pointsStoreHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := catalog.ListPointsStoreItems(c.Request.Context(), true)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// pointsRedeemHandler handles POST /api/store/redeem/
func pointsRedeemHandler(ledger *service.LedgerService, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.PointsRedeemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		result, err := ledger.RedeemPoints(c.Request.Context(), c.GetString(ctxMemberID), req.RewardID)
		recordLedgerOp(m, "redeem_points", err)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// balanceStoreHandler handles GET /api/store/balance/
func balanceStoreHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := catalog.ListBalanceStoreItems(c.Request.Context(), true)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// balanceRedeemHandler handles POST /api/store/redeem_balance/
func balanceRedeemHandler(ledger *service.LedgerService, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.BalanceRedeemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		result, err := ledger.RedeemBalance(c.Request.Context(), c.GetString(ctxMemberID), req.ItemID)
		recordLedgerOp(m, "redeem_balance", err)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// announcementsHandler handles GET /api/announcements/
func announcementsHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := catalog.ListAnnouncements(c.Request.Context(), true)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// announcementDetailHandler handles GET /api/announcements/:id
func announcementDetailHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := catalog.GetAnnouncement(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !item.IsActive {
			c.JSON(http.StatusNotFound, gin.H{"error": "announcement not found"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// galleryHandler handles GET /api/social/gallery/
func galleryHandler(members *service.MemberService) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := members.Gallery(c.Request.Context(), 100)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
