package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"condofacil_backend/internal/controller"
	"condofacil_backend/internal/middleware"
	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/config"
	"condofacil_backend/pkg/cron"
	"condofacil_backend/pkg/database"
	"condofacil_backend/pkg/email"
	"condofacil_backend/pkg/seed"
	"condofacil_backend/pkg/worker"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Public catalog
	api.Get("/plans", controller.ListPlans)
	api.Get("/features/catalog", controller.ListFeatureCatalog)

	// Demo provisioning (public landing-page flow)
	api.Post("/demo", controller.CreateDemo)
	api.Post("/demo/:token/reset", controller.ResetDemo)

	// Payment webhooks (provider-authenticated, not JWT)
	api.Post("/webhook", controller.HandlePaymentWebhook)

	// Cron endpoints, guarded by CRON_SECRET
	cronGroup := api.Group("/cron", middleware.CronAuth())
	cronGroup.Get("/demo-cleanup", controller.RunDemoCleanup)
	cronGroup.Get("/hard-delete", controller.RunHardDeleteSweep)
	cronGroup.Get("/trial-expiry", controller.RunTrialExpiryCheck)
	cronGroup.Get("/maintenance-due", controller.RunMaintenanceDue)
	cronGroup.Get("/reconcile-payments", controller.RunPaymentReconciliation)
	cronGroup.Get("/dispatch-notifications", controller.RunNotificationDispatch)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)
	protected.Get("/trial/status", controller.GetTrialStatus)

	// Legal acceptance (reachable even with an expired trial)
	legal := protected.Group("/legal")
	legal.Get("/acceptance", controller.CheckLegalAcceptance)
	legal.Post("/accept", controller.AcceptLegalDocument)

	// Settings routes
	settings := protected.Group("/settings")
	settings.Get("/profile", controller.GetProfile)
	settings.Put("/profile", controller.UpdateProfile)
	settings.Put("/password", controller.ChangePassword)
	settings.Post("/avatar", controller.UploadAvatar)

	// Subscription routes stay open for expired trials so the síndico can pay
	subscriptions := protected.Group("/subscriptions")
	subscriptions.Post("/subscribe", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.Subscribe)
	subscriptions.Post("/cancel", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.CancelSubscription)
	subscriptions.Get("/my", controller.GetMySubscription)

	// Feature flags
	features := protected.Group("/features")
	features.Get("/", controller.GetMyFeatures)
	features.Get("/:key", controller.GetFeature)
	features.Get("/:key/history", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.GetFeatureHistory)
	features.Post("/:key/toggle", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.ToggleFeature)

	// Everything below is blocked once the trial expires
	gated := protected.Group("/", middleware.TrialGate())

	units := gated.Group("/units")
	units.Get("/", controller.ListUnits)
	units.Post("/", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.CreateUnit)
	units.Get("/:id/residents", controller.ListUnitResidents)

	residents := gated.Group("/residents")
	residents.Get("/", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.ListResidents)
	residents.Post("/", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.CreateResident)

	notices := gated.Group("/notices")
	notices.Get("/", controller.ListNotices)
	notices.Post("/", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.CreateNotice)
	notices.Delete("/:id", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.DeleteNotice)

	occurrences := gated.Group("/occurrences")
	occurrences.Get("/", controller.ListOccurrences)
	occurrences.Post("/", controller.CreateOccurrence)
	occurrences.Put("/:id/status", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.UpdateOccurrenceStatus)
	occurrences.Post("/:id/photo", controller.UploadOccurrencePhoto)

	// Portaria, gated by the portaria_digital feature
	visitors := gated.Group("/visitors", middleware.CheckFeatureAccess(seed.FeaturePortariaDigital))
	visitors.Get("/", controller.ListVisitors)
	visitors.Post("/", middleware.RequireRole(model.RolePorteiro, model.RoleSindico, model.RoleAdmin), controller.RegisterVisitor)
	visitors.Put("/:id/exit", middleware.RequireRole(model.RolePorteiro, model.RoleSindico, model.RoleAdmin), controller.RegisterVisitorExit)

	// Governance, gated by assembleias_online
	assemblies := gated.Group("/assemblies", middleware.CheckFeatureAccess(seed.FeatureAssembleiasOnline))
	assemblies.Get("/", controller.ListAssemblies)
	assemblies.Post("/", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.CreateAssembly)
	assemblies.Post("/:id/minutes", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.UploadAssemblyMinutes)
	assemblies.Post("/:id/polls", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.CreatePoll)

	polls := gated.Group("/polls", middleware.CheckFeatureAccess(seed.FeatureAssembleiasOnline))
	polls.Post("/:id/vote", controller.Vote)
	polls.Get("/:id/results", controller.GetPollResults)

	tickets := gated.Group("/tickets")
	tickets.Get("/", controller.ListMyTickets)
	tickets.Post("/", controller.CreateTicket)
	tickets.Get("/:id", controller.GetTicket)
	tickets.Post("/:id/messages", controller.AddTicketMessage)
	tickets.Put("/:id/status", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.UpdateTicketStatus)

	charges := gated.Group("/charges")
	charges.Get("/", controller.ListCharges)
	charges.Post("/", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.CreateCharge)
	charges.Put("/:id/cancel", middleware.RequireRole(model.RoleSindico, model.RoleAdmin), controller.CancelCharge)

	maintenance := gated.Group("/maintenance", middleware.RequireRole(model.RoleSindico, model.RoleAdmin))
	maintenance.Get("/", controller.ListMaintenanceTasks)
	maintenance.Post("/", controller.CreateMaintenanceTask)
	maintenance.Put("/:id/complete", controller.CompleteMaintenanceTask)

	// Dashboard
	dashboard := gated.Group("/dashboard", middleware.RequireRole(model.RoleSindico, model.RoleAdmin))
	dashboard.Get("/stats", controller.GetDashboardStats)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment directly")
	}

	cfg := config.Load()

	if err := email.InitEmailService(os.Getenv("RESEND_API_KEY")); err != nil {
		log.Printf("Email service not initialized: %v", err)
	}

	controller.InitSubscriptionController()

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.Condo{},
		&model.Unit{},
		&model.User{},
		&model.Plan{},
		&model.FeatureFlag{},
		&model.PlanFeature{},
		&model.CondoFeature{},
		&model.FeatureActivationLog{},
		&model.AuditLog{},
		&model.Subscription{},
		&model.Charge{},
		&model.Payment{},
		&model.PaymentWebhookLog{},
		&model.Notice{},
		&model.Occurrence{},
		&model.VisitorLog{},
		&model.Assembly{},
		&model.Poll{},
		&model.Vote{},
		&model.SupportTicket{},
		&model.TicketMessage{},
		&model.PendingNotification{},
		&model.DemoSession{},
		&model.MaintenanceTask{},
		&model.LegalAcceptance{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedAll(database.DB)

	cron.InitDemoCleanupCron()
	cron.InitTrialExpiryCron()
	cron.InitHardDeleteCron()
	cron.InitMaintenanceDueCron()
	cron.InitReconciliationCron()

	worker.StartNotificationDispatcher(database.DB)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
