package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"loyalty-system/internal/metrics"
	"loyalty-system/internal/repository"
	"loyalty-system/internal/service"
)

// Services bundles everything the router needs.
type Services struct {
	Auth    *service.AuthService
	Members *service.MemberService
	Ledger  *service.LedgerService
	Catalog *service.CatalogService
	Reports *service.ReportService

	Idempotency repository.IdempotencyRepository
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	Location    *time.Location
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(s Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.Logger))
	router.Use(observeRequests(s.Metrics))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"X-Idempotency-Replayed"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	loc := s.Location
	if loc == nil {
		loc = time.Local
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/register", registerHandler(s.Auth))
		api.POST("/login", loginHandler(s.Auth))
		api.POST("/staff/login", staffLoginHandler(s.Auth))
	}

	member := api.Group("")
	member.Use(authRequired(s.Auth))
	{
		member.GET("/profile", profileHandler(s.Members))
		member.PUT("/profile", profileUpdateHandler(s.Members))
		member.GET("/profile/vouchers", myVouchersHandler(s.Members))
		member.GET("/profile/transactions", myTransactionsHandler(s.Members))

		member.GET("/store/points", pointsStoreHandler(s.Catalog))
		member.POST("/store/redeem", idempotent(s.Idempotency), pointsRedeemHandler(s.Ledger, s.Metrics))
		member.GET("/store/balance", balanceStoreHandler(s.Catalog))
		member.POST("/store/redeem_balance", idempotent(s.Idempotency), balanceRedeemHandler(s.Ledger, s.Metrics))

		member.GET("/announcements", announcementsHandler(s.Catalog))
		member.GET("/announcements/:id", announcementDetailHandler(s.Catalog))
		member.GET("/social/gallery", galleryHandler(s.Members))
	}

	admin := api.Group("/admin")
	admin.Use(authRequired(s.Auth), staffRequired())
	{
		admin.POST("/members/search", memberSearchHandler(s.Members))

		admin.POST("/recharge/:memberId", idempotent(s.Idempotency), rechargeHandler(s.Ledger, s.Metrics))
		admin.POST("/consume/:memberId", idempotent(s.Idempotency), consumeHandler(s.Ledger, s.Metrics))
		admin.POST("/track/:memberId", idempotent(s.Idempotency), trackSpendHandler(s.Ledger, s.Metrics))
		admin.POST("/redeem_voucher", idempotent(s.Idempotency), redeemVoucherHandler(s.Ledger, s.Metrics))

		admin.GET("/voucher-types", listVoucherTypesHandler(s.Catalog))
		admin.POST("/voucher-types", createVoucherTypeHandler(s.Catalog))
		admin.PUT("/voucher-types/:id", updateVoucherTypeHandler(s.Catalog))
		admin.DELETE("/voucher-types/:id", deleteVoucherTypeHandler(s.Catalog))

		admin.GET("/recharge-tiers", listRechargeTiersHandler(s.Catalog))
		admin.POST("/recharge-tiers", createRechargeTierHandler(s.Catalog))
		admin.PUT("/recharge-tiers/:id", updateRechargeTierHandler(s.Catalog))
		admin.DELETE("/recharge-tiers/:id", deleteRechargeTierHandler(s.Catalog))

		admin.GET("/store/points", listAllPointsStoreItemsHandler(s.Catalog))
		admin.POST("/store/points", createPointsStoreItemHandler(s.Catalog))
		admin.PUT("/store/points/:id", updatePointsStoreItemHandler(s.Catalog))
		admin.DELETE("/store/points/:id", deletePointsStoreItemHandler(s.Catalog))

		admin.GET("/store/balance", listAllBalanceStoreItemsHandler(s.Catalog))
		admin.POST("/store/balance", createBalanceStoreItemHandler(s.Catalog))
		admin.PUT("/store/balance/:id", updateBalanceStoreItemHandler(s.Catalog))
		admin.DELETE("/store/balance/:id", deleteBalanceStoreItemHandler(s.Catalog))

		admin.GET("/announcements", listAllAnnouncementsHandler(s.Catalog))
		admin.POST("/announcements", createAnnouncementHandler(s.Catalog))
		admin.PUT("/announcements/:id", updateAnnouncementHandler(s.Catalog))
		admin.DELETE("/announcements/:id", deleteAnnouncementHandler(s.Catalog))

		admin.GET("/reports", reportsHandler(s.Reports, loc))
		admin.GET("/reports/financial", financialLedgerHandler(s.Reports, loc))
	}

	return router
}
