package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/sahilchouksey/uni-admin-api/database"
	"github.com/sahilchouksey/uni-admin-api/handlers"
	auth_handlers "github.com/sahilchouksey/uni-admin-api/handlers/auth"
	course_handlers "github.com/sahilchouksey/uni-admin-api/handlers/course"
	faculty_handlers "github.com/sahilchouksey/uni-admin-api/handlers/faculty"
	kb_handlers "github.com/sahilchouksey/uni-admin-api/handlers/knowledgeblock"
	major_handlers "github.com/sahilchouksey/uni-admin-api/handlers/major"
	program_handlers "github.com/sahilchouksey/uni-admin-api/handlers/program"
	tuition_handlers "github.com/sahilchouksey/uni-admin-api/handlers/tuition"
	"github.com/sahilchouksey/uni-admin-api/services"
	"github.com/sahilchouksey/uni-admin-api/utils/auth"
	"github.com/sahilchouksey/uni-admin-api/utils/cache"
	"github.com/sahilchouksey/uni-admin-api/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	// Get JWT secret from environment
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "uni-admin-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis is optional; tuition listings fall back to the database when it is down
	var redisCache *cache.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		var err error
		redisCache, err = cache.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Tuition caching will be disabled.", err)
			redisCache = nil
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Services
	aggregator := services.NewCreditAggregator(db)
	compositionService := services.NewCompositionService(db, aggregator)
	tuitionService := services.NewTuitionService(db, redisCache)

	// Handlers
	authHandler := auth_handlers.NewHandler(db, jwtManager)
	facultyHandler := faculty_handlers.NewFacultyHandler(db)
	majorHandler := major_handlers.NewMajorHandler(db)
	courseHandler := course_handlers.NewCourseHandler(db)
	kbHandler := kb_handlers.NewKnowledgeBlockHandler(db, aggregator)
	programHandler := program_handlers.NewProgramHandler(db, tuitionService)
	compositionHandler := program_handlers.NewCompositionHandler(compositionService)
	tuitionHandler := tuition_handlers.NewHandler(tuitionService)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:5173"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/health", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Faculties routes
	faculties := api.Group("/faculties")
	faculties.Get("/", facultyHandler.ListFaculties)
	faculties.Get("/:id", facultyHandler.GetFaculty)
	faculties.Post("/", authMiddleware.Required(), facultyHandler.CreateFaculty)
	faculties.Put("/:id", authMiddleware.Required(), facultyHandler.UpdateFaculty)
	faculties.Delete("/:id", authMiddleware.RequireAdmin(), facultyHandler.DeleteFaculty)

	// Majors routes
	majors := api.Group("/majors")
	majors.Get("/", majorHandler.ListMajors)
	majors.Get("/with-latest-programs", tuitionHandler.GetMajorsWithLatestPrograms)
	majors.Get("/:id", majorHandler.GetMajor)
	majors.Get("/:id/tuition-by-years", tuitionHandler.GetMajorTuitionByYears)
	majors.Post("/", authMiddleware.Required(), majorHandler.CreateMajor)
	majors.Put("/:id", authMiddleware.Required(), majorHandler.UpdateMajor)
	majors.Delete("/:id", authMiddleware.RequireAdmin(), majorHandler.DeleteMajor)

	// Courses routes
	courses := api.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)
	courses.Get("/:id", courseHandler.GetCourse)
	courses.Post("/", authMiddleware.Required(), courseHandler.CreateCourse)
	courses.Put("/:id", authMiddleware.Required(), courseHandler.UpdateCourse)
	courses.Delete("/:id", authMiddleware.RequireAdmin(), courseHandler.DeleteCourse)

	// Knowledge block routes
	blocks := api.Group("/knowledge-blocks")
	blocks.Get("/", kbHandler.ListKnowledgeBlocks)
	blocks.Get("/:id", kbHandler.GetKnowledgeBlock)
	blocks.Post("/", authMiddleware.Required(), kbHandler.CreateKnowledgeBlock)
	blocks.Put("/:id", authMiddleware.Required(), kbHandler.UpdateKnowledgeBlock)
	blocks.Delete("/:id", authMiddleware.RequireAdmin(), kbHandler.DeleteKnowledgeBlock)

	// Programs routes
	programs := api.Group("/programs")
	programs.Get("/", programHandler.ListPrograms)
	programs.Get("/:id", programHandler.GetProgram)
	programs.Post("/", authMiddleware.Required(), programHandler.CreateProgram)
	programs.Put("/:id", authMiddleware.Required(), programHandler.UpdateProgram)
	programs.Delete("/:id", authMiddleware.RequireAdmin(), programHandler.DeleteProgram)

	// Price changes are admin-only and audit logged
	programs.Put("/:id/price",
		authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(db, "update_price", "program"),
		programHandler.SavePrice)

	// Program composition routes
	programs.Get("/:id/courses", compositionHandler.ListCourses)
	programs.Post("/:id/courses", authMiddleware.Required(), compositionHandler.AddCourse)
	programs.Put("/:id/courses/:courseId", authMiddleware.Required(), compositionHandler.UpdateCourse)
	programs.Delete("/:id/courses/:courseId", authMiddleware.Required(), compositionHandler.RemoveCourse)
	programs.Post("/:id/knowledge-blocks", authMiddleware.Required(), compositionHandler.AddKnowledgeBlock)
	programs.Delete("/:id/knowledge-blocks/:blockId", authMiddleware.Required(), compositionHandler.RemoveKnowledgeBlock)

	// Tuition routes
	api.Get("/tuition/:programId", tuitionHandler.GetProgramTuition)
}
