package router

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/aitutorhq/ai-tutor-api/config"
	"github.com/aitutorhq/ai-tutor-api/database"
	"github.com/aitutorhq/ai-tutor-api/handlers"
	admin_handlers "github.com/aitutorhq/ai-tutor-api/handlers/admin"
	auth_handlers "github.com/aitutorhq/ai-tutor-api/handlers/auth"
	chat_handlers "github.com/aitutorhq/ai-tutor-api/handlers/chat"
	course_handlers "github.com/aitutorhq/ai-tutor-api/handlers/course"
	dashboard_handlers "github.com/aitutorhq/ai-tutor-api/handlers/dashboard"
	question_handlers "github.com/aitutorhq/ai-tutor-api/handlers/question"
	"github.com/aitutorhq/ai-tutor-api/services"
	"github.com/aitutorhq/ai-tutor-api/services/gemini"
	"github.com/aitutorhq/ai-tutor-api/services/spaces"
	"github.com/aitutorhq/ai-tutor-api/utils/auth"
	"github.com/aitutorhq/ai-tutor-api/utils/cache"
	"github.com/aitutorhq/ai-tutor-api/utils/middleware"
)

// SetupRoutes wires all handlers, services and middleware onto the app
func SetupRoutes(app *fiber.App, store database.Storage, cfg *config.Config) {
	db := store.GetDB()

	// JWT manager and token blacklist
	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        cfg.JWTSecret,
		Expiry:        cfg.JWTExpiry,
		RefreshExpiry: cfg.JWTRefreshExpiry,
		Issuer:        cfg.JWTIssuer,
	})
	blacklist := auth.NewBlacklistService(db)

	// Redis-backed brute force protection; disabled when Redis is down
	var bruteForceProtection *middleware.BruteForceProtection
	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection disabled.", err)
	} else {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, blacklist, db)

	// Optional Spaces offload for question attachments
	var spacesClient *spaces.Client
	if cfg.SpacesConfigured() {
		spacesClient, err = spaces.NewClient(spaces.Config{
			AccessKey: cfg.SpacesKey,
			SecretKey: cfg.SpacesSecret,
			Bucket:    cfg.SpacesBucket,
			Region:    cfg.SpacesRegion,
			Endpoint:  cfg.SpacesEndpoint,
		})
		if err != nil {
			log.Printf("Warning: Failed to create Spaces client: %v. Attachments stay inline.", err)
		}
	}

	geminiClient := gemini.NewClient(gemini.Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})

	// Services
	accountService := services.NewAccountService(db)
	courseService := services.NewCourseService(db, accountService)
	questionService := services.NewQuestionService(db, accountService, spacesClient)
	chatService := services.NewChatService(db, geminiClient)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(accountService, jwtManager, blacklist, bruteForceProtection)
	adminHandler := admin_handlers.NewAdminHandler(accountService, chatService, courseService, questionService)
	courseHandler := course_handlers.NewCourseHandler(courseService)
	questionHandler := question_handlers.NewQuestionHandler(questionService)
	chatHandler := chat_handlers.NewChatHandler(chatService)
	dashboardHandler := dashboard_handlers.NewDashboardHandler(courseService, questionService)

	middleware.SetupSecurityMiddleware(app, cfg.CORSOrigins)

	// Health check (public)
	app.Get("/ping", func(c *fiber.Ctx) error { return handlers.HandleCheckHealth(c, store) })
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "API is running"})
	})

	// Auth (public)
	app.Post("/register", authHandler.Register)
	if bruteForceProtection != nil {
		app.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		app.Post("/login", authHandler.Login)
	}
	app.Post("/refresh", authHandler.Refresh)
	app.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Courses: reads public, search before :id so it is not shadowed
	app.Get("/courses", courseHandler.List)
	app.Get("/courses/search", courseHandler.Search)
	app.Post("/courses/enroll", authMiddleware.Required(), courseHandler.Enroll)
	app.Post("/courses/rate", authMiddleware.Required(), courseHandler.Rate)
	app.Get("/courses/:id", courseHandler.Get)

	// Questions: reads public
	app.Get("/questions", questionHandler.List)
	app.Get("/questions/search", questionHandler.Search)
	app.Get("/questions/download/:id", questionHandler.Download)
	app.Get("/questions/:id", questionHandler.Get)

	// Tutor content management (approved tutors only). The dashboard route is
	// deliberately outside this chain so admins can view any tutor's dashboard.
	required := authMiddleware.Required()
	approvedTutor := authMiddleware.RequireApprovedTutor()
	app.Post("/tutor/courses", required, approvedTutor, courseHandler.Create)
	app.Put("/tutor/courses/:id", required, approvedTutor, courseHandler.Update)
	app.Delete("/tutor/courses/:id", required, approvedTutor, courseHandler.Delete)
	app.Post("/tutor/questions", required, approvedTutor, questionHandler.Create)
	app.Put("/tutor/questions/:id", required, approvedTutor, questionHandler.Update)
	app.Delete("/tutor/questions/:id", required, approvedTutor, questionHandler.Delete)

	// Dashboard is visible to the owning tutor and to admins
	app.Get("/tutor/dashboard/:username", authMiddleware.Required(), dashboardHandler.TutorDashboard)

	// AI chat (any authenticated user)
	app.Post("/chat", authMiddleware.Required(), chatHandler.Chat)
	app.Get("/history", authMiddleware.Required(), chatHandler.History)

	// Admin review surface
	admin := app.Group("/admin", authMiddleware.Required(), authMiddleware.RequireAdmin())
	admin.Post("/approve-tutor", adminHandler.ApproveTutor)
	admin.Post("/reject-tutor", adminHandler.RejectTutor)
	admin.Get("/pending-tutors", adminHandler.PendingTutors)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Delete("/users/:username", adminHandler.DeleteUser)
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/chats", adminHandler.Chats)
}
