package routes

import (
	"markiz-admin/config"
	authController "markiz-admin/controllers/auth"
	classController "markiz-admin/controllers/class"
	memorizationController "markiz-admin/controllers/memorization"
	"markiz-admin/jobs"
	"markiz-admin/logger"
	"markiz-admin/middleware"
	"markiz-admin/models/account"
	"markiz-admin/services/email"
	notificationService "markiz-admin/services/notification"
	otpService "markiz-admin/services/otp"
	"markiz-admin/services/token"
	"markiz-admin/services/whatsapp"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	asyncLogger := logger.NewAsyncLogger(db)
	tokens := token.NewService(cfg)
	emailSender := email.NewService(cfg)
	whatsappSender := whatsapp.NewService(cfg)
	otp := otpService.NewService(db, emailSender, whatsappSender, cfg.OTPTTL)
	notifications := notificationService.NewService(db)

	auth := authController.NewAuthController(db, tokens, otp, emailSender, asyncLogger, cfg)
	memorize := memorizationController.NewController(db, asyncLogger)
	classes := classController.NewController(db, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// The expiry sweep lives with the routes so it shares the wired services.
	sweeper := jobs.NewExpirySweeper(db, notifications, emailSender, whatsappSender, otp)
	sweeper.Start()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Markiz administration API"})
	})

	api := app.Group("/api")

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	user := api.Group("/user")
	user.Post("/register", auth.Register)
	user.Post("/login", auth.Login)
	user.Post("/refresh", auth.Refresh)
	user.Post("/forget-password", auth.ForgetPassword)
	user.Post("/verify-reset", auth.VerifyReset)
	user.Post("/reset-password", auth.ResetPassword)
	user.Post("/send-email-message", auth.SendEmailMessage)

	/*=============================================================================
	| Protected Routes (any authenticated role)
	===============================================================================*/
	protected := user.Group("").Use(middleware.RequireAuth(tokens))
	protected.Post("/logout", auth.Logout)
	protected.Get("/whoami", auth.Whoami)
	protected.Post("/change-password", auth.ChangePassword)
	protected.Put("/update-self", auth.UpdateSelf)
	protected.Put("/change-name", auth.ChangeName)
	protected.Delete("/delete-self", auth.DeleteSelf)
	protected.Post("/send-email-code", auth.SendEmailCode)
	protected.Post("/send-phone-code", auth.SendPhoneCode)
	protected.Post("/verify-email", auth.VerifyEmail)
	protected.Post("/verify-phone", auth.VerifyPhone)

	/*=============================================================================
	| Admin Routes
	===============================================================================*/
	admin := user.Group("").Use(
		middleware.RequireAuth(tokens),
		middleware.RequireRoles(db, account.RoleAdmin),
	)
	admin.Get("/all", auth.GetAll)
	admin.Get("/single/:id", auth.GetSingle)
	admin.Put("/update", auth.UpdateByAdmin)
	admin.Put("/change-role", auth.ChangeRole)
	admin.Delete("/soft-delete/:id", auth.SoftDelete)
	admin.Get("/recycle-bin", auth.RecycleBin)
	admin.Put("/restore/:id", auth.Restore)
	admin.Delete("/hard-delete/:id", auth.HardDelete)

	/*=============================================================================
	| Memorization Routes
	===============================================================================*/
	memorizeGroup := api.Group("/memorize").Use(middleware.RequireAuth(tokens))

	staff := middleware.RequireRoles(db, account.RoleAdmin, account.RoleTeacher)
	memorizeGroup.Post("/create", staff, memorize.Create)
	memorizeGroup.Put("/start/:id", staff, memorize.Start)
	memorizeGroup.Put("/progress/:id", staff, memorize.UpdateProgress)
	memorizeGroup.Put("/status/:id", staff, memorize.UpdateStatus)
	memorizeGroup.Delete("/delete/:id", middleware.RequireRoles(db, account.RoleAdmin), memorize.Delete)
	memorizeGroup.Get("/all", staff, memorize.GetAll)
	memorizeGroup.Get("/class-stats/:classId", staff, memorize.GetClassStats)
	memorizeGroup.Get("/student/:studentId", memorize.GetByStudent)

	/*=============================================================================
	| Class Routes
	===============================================================================*/
	classGroup := api.Group("/class").Use(
		middleware.RequireAuth(tokens),
		middleware.RequireRoles(db, account.RoleAdmin),
	)
	classGroup.Delete("/delete/:id", classes.Delete)
}
