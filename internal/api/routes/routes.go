package routes

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"keyflow-api-server/config"
	"keyflow-api-server/internal/api/handlers"
	"keyflow-api-server/internal/api/middleware"
	"keyflow-api-server/internal/models"
	"keyflow-api-server/internal/socket"
	"keyflow-api-server/internal/upload"
)

// SetupRouter wires handlers onto the /api surface. uploadDir is served
// statically when the local storage backend is active; pass "" when uploads
// go to S3.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	storage upload.Storage,
	wsHub *socket.Hub,
	uploadDir string,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.CORS.Origins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(cfg.CORS.Origins, ",")
	}
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	corsConfig.AddAllowHeaders("Authorization")
	router.Use(cors.New(corsConfig))

	secret := []byte(cfg.JWT.Secret)

	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	userHandler := &handlers.UserHandler{DB: db, Cfg: cfg}
	dealershipHandler := &handlers.DealershipHandler{DB: db}
	inviteHandler := &handlers.InviteHandler{DB: db, Cfg: cfg}
	keyHandler := &handlers.KeyHandler{DB: db, Cfg: cfg, Hub: wsHub}
	pdiHandler := &handlers.PDIHandler{DB: db}
	repairHandler := &handlers.RepairHandler{DB: db}
	alertHandler := &handlers.AlertHandler{DB: db}
	salesHandler := &handlers.SalesHandler{DB: db}
	statsHandler := &handlers.StatsHandler{DB: db}
	uploadHandler := &handlers.UploadHandler{Storage: storage}
	webSocketHandler := &handlers.WebSocketHandler{Cfg: cfg, Hub: wsHub}

	api := router.Group("/api")
	{
		api.GET("/ws", webSocketHandler.ServeWs)

		if uploadDir != "" {
			api.Static("/uploads", uploadDir)
		}

		// Public routes.
		api.GET("/dealerships/public", dealershipHandler.GetPublicDealerships)
		api.GET("/invites/validate/:token", inviteHandler.ValidateInvite)
		api.POST("/invites/accept", inviteHandler.AcceptInvite)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/owner-login", authHandler.OwnerLogin)
			auth.POST("/admin-login", authHandler.AdminLogin)
			auth.POST("/admin-pin-login", authHandler.AdminPinLogin)
			auth.POST("/user-pin-login", authHandler.UserPinLogin)
			auth.POST("/demo-login", authHandler.DemoLogin)
		}

		// Everything below requires a valid session.
		protected := api.Group("/")
		protected.Use(middleware.Authenticate(db, secret))
		{
			protected.GET("/auth/me", authHandler.Me)
			protected.POST("/auth/change-user-pin", authHandler.ChangeUserPin)
			protected.GET("/demo-limits", authHandler.DemoLimits)

			protected.GET("/dealerships", dealershipHandler.GetDealerships)
			protected.GET("/dealerships/:id", dealershipHandler.GetDealership)
			protected.GET("/dealerships/:id/roles", dealershipHandler.GetDealershipRoles)
			protected.GET("/service-bays/:id", dealershipHandler.GetServiceBays)

			protected.GET("/users", userHandler.GetUsers)
			protected.GET("/users/:id", userHandler.GetUser)

			protected.GET("/keys", keyHandler.GetKeys)
			protected.GET("/keys/:id", keyHandler.GetKey)
			protected.POST("/keys/:id/checkout", keyHandler.CheckoutKey)
			protected.POST("/keys/:id/return", keyHandler.ReturnKey)
			protected.POST("/keys/:id/move-bay", keyHandler.MoveBay)
			protected.POST("/keys/:id/mark-fixed", keyHandler.MarkFixed)
			protected.POST("/keys/:id/add-images", keyHandler.AddImages)
			protected.GET("/keys/:id/history", keyHandler.GetKeyHistory)
			protected.GET("/checkout-history", keyHandler.GetCheckoutHistory)

			protected.PUT("/keys/:id/pdi-status", pdiHandler.UpdatePDIStatus)
			protected.GET("/keys/:id/pdi-audit-log", pdiHandler.GetKeyAuditLog)
			protected.GET("/pdi-audit-log", pdiHandler.GetGlobalAuditLog)

			protected.GET("/repair-requests", repairHandler.GetRepairRequests)
			protected.GET("/time-alerts", alertHandler.GetTimeAlerts)
			protected.GET("/overdue-keys", alertHandler.GetOverdueKeys)

			protected.POST("/upload-image", uploadHandler.UploadImage)
			protected.POST("/upload-image-base64", uploadHandler.UploadImageBase64)

			protected.POST("/sales-goals", salesHandler.CreateSalesGoal)
			protected.GET("/sales-goals", salesHandler.GetSalesGoals)
			protected.PUT("/sales-goals/:id", salesHandler.UpdateSalesGoal)
			protected.POST("/daily-activities", salesHandler.UpsertDailyActivity)
			protected.GET("/daily-activities", salesHandler.GetDailyActivities)
			protected.GET("/sales-progress/:user_id", salesHandler.GetSalesProgress)

			protected.GET("/stats/dashboard", statsHandler.GetDashboardStats)
		}

		// Management routes, owner or dealership admin.
		managed := api.Group("/")
		managed.Use(middleware.Authenticate(db, secret))
		managed.Use(middleware.Authorize(models.RoleOwner, models.RoleDealershipAdmin))
		{
			managed.PUT("/dealerships/:id", dealershipHandler.UpdateDealership)
			managed.POST("/dealerships/:id/roles", dealershipHandler.AddCustomRole)
			managed.DELETE("/dealerships/:id/roles/:roleName", dealershipHandler.RemoveCustomRole)

			managed.POST("/users", userHandler.CreateUser)
			managed.DELETE("/users/:id", userHandler.DeleteUser)

			managed.POST("/invites", inviteHandler.CreateInvite)
			managed.GET("/invites", inviteHandler.GetInvites)
			managed.DELETE("/invites/:id", inviteHandler.DeleteInvite)

			managed.POST("/keys", keyHandler.CreateKey)
			managed.POST("/keys/bulk-import", keyHandler.BulkImportKeys)
			managed.PUT("/keys/:id", keyHandler.UpdateKey)

			managed.DELETE("/repair-requests/:id", repairHandler.ClearRepairRequest)

			managed.POST("/time-alerts", alertHandler.CreateTimeAlert)
			managed.PUT("/time-alerts/:id", alertHandler.UpdateTimeAlert)

			managed.GET("/team-sales-progress", salesHandler.GetTeamSalesProgress)

			managed.POST("/auth/change-admin-pin", authHandler.ChangeAdminPin)
		}

		// Owner-only routes.
		ownerOnly := api.Group("/")
		ownerOnly.Use(middleware.Authenticate(db, secret))
		ownerOnly.Use(middleware.Authorize(models.RoleOwner))
		{
			ownerOnly.POST("/dealerships", dealershipHandler.CreateDealership)
			ownerOnly.DELETE("/dealerships/:id", dealershipHandler.DeleteDealership)
		}
	}

	return router
}
