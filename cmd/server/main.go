package main

import (
	"log"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/clearday/clearday-api/internal/config"
	"github.com/clearday/clearday-api/internal/constants"
	"github.com/clearday/clearday-api/internal/database"
	"github.com/clearday/clearday-api/internal/handlers"
	"github.com/clearday/clearday-api/internal/middleware"
	"github.com/clearday/clearday-api/internal/repository"
	"github.com/clearday/clearday-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())

	// Session store: Redis when configured, signed cookies otherwise
	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, categoryRepo)
	projectService := services.NewProjectService(projectRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	assistantService := services.NewAssistantService()
	calendarService := services.NewCalendarService(taskRepo)
	reminderService := services.NewReminderService(taskRepo, nil)

	// Reminder scheduler
	scheduler := services.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.ReminderScanInterval, func() {
		if err := reminderService.Scan(time.Now()); err != nil {
			log.Printf("reminder scan failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule reminder scan: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	projectHandler := handlers.NewProjectHandler(projectService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	assistantHandler := handlers.NewAssistantHandler(assistantService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Clearday API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.PATCH("/:id/toggle", taskHandler.ToggleTask)
			tasks.POST("/:id/subtasks", taskHandler.AddSubtask)
			tasks.PATCH("/:id/subtasks/:subtaskId", taskHandler.ToggleSubtask)
			tasks.DELETE("/:id/subtasks/:subtaskId", taskHandler.DeleteSubtask)
			tasks.POST("/:id/attachments", taskHandler.AddAttachment)
			tasks.DELETE("/:id/attachments/:attachmentId", taskHandler.DeleteAttachment)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/stats", projectHandler.GetProjectStats)
		}

		// Category routes (protected)
		categories := api.Group("/categories")
		categories.Use(middleware.RequireAuth())
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		// Assistant and calendar routes (protected)
		api.POST("/assistant/suggest", middleware.RequireAuth(), assistantHandler.Suggest)
		api.POST("/calendar/sync", middleware.RequireAuth(), calendarHandler.Sync)
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	isProduction := cfg.GinMode == "release"
	options := sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	}

	if cfg.RedisHost != "" {
		store, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			cfg.RedisHost+":"+cfg.RedisPort,
			"", // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store.Options(options)
		return store, nil
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(options)
	return store, nil
}
