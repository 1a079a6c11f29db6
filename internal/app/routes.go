package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/project-task-api/internal/config"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/handlers"
	"github.com/yukikurage/project-task-api/internal/mail"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/resettoken"
	"github.com/yukikurage/project-task-api/internal/services"
	"github.com/yukikurage/project-task-api/internal/token"
	"gorm.io/gorm"
)

// Deps are the collaborators the routes are built from. Redis may be nil.
type Deps struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Store  resettoken.Store
	Mailer mail.Mailer
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg *config.Config, deps Deps) {
	tokens := token.NewManager(token.Options{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TTL:      cfg.Auth.TokenTTL,
	})

	userRepo := repository.NewUserRepository(deps.DB)
	projectRepo := repository.NewProjectRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)

	userSvc := services.NewUserService(userRepo, tokens, cfg.Auth.BcryptCost)
	projectSvc := services.NewProjectService(projectRepo, userRepo)
	taskSvc := services.NewTaskService(taskRepo, projectRepo, userRepo)
	resetSvc := services.NewPasswordResetService(userRepo, deps.Store, deps.Mailer, services.PasswordResetOptions{
		TTL:        cfg.Auth.ResetTokenTTL,
		ResetURL:   cfg.Mail.ResetURL,
		BcryptCost: cfg.Auth.BcryptCost,
	})

	checks := map[string]handlers.Check{
		"database": func(ctx context.Context) error { return database.Health(ctx, deps.DB) },
	}
	if deps.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() }
	}

	healthHandler := handlers.NewHealthHandler(checks)
	userHandler := handlers.NewUserHandler(userSvc)
	projectHandler := handlers.NewProjectHandler(projectSvc)
	taskHandler := handlers.NewTaskHandler(taskSvc)
	passwordHandler := handlers.NewPasswordHandler(resetSvc)

	requireAuth := middleware.RequireAuth(tokens)
	requireAdmin := middleware.RequireRole(constants.RoleAdmin)
	limited := middleware.RateLimit(cfg.RateLimit)
	id := middleware.RequireIDParam("id")

	// Collection routes answer with and without a trailing slash; a redirect
	// would turn a POST into a bodiless GET in some clients.
	api := r.Group("/api")
	api.GET("/health", healthHandler.Health)

	users := api.Group("/usuario")
	{
		users.POST("", userHandler.Create)
		users.POST("/", userHandler.Create)
		users.POST("/login", limited, userHandler.Login)
		users.GET("/verificar-email/:email", userHandler.CheckEmail)

		authed := users.Group("", requireAuth)
		authed.GET("/me", userHandler.Me)
		authed.POST("/logout", userHandler.Logout)
		authed.GET("", requireAdmin, userHandler.List)
		authed.GET("/", requireAdmin, userHandler.List)
		authed.GET("/email/:email", requireAdmin, userHandler.GetByEmail)
		authed.GET("/:id", id, userHandler.Get)
		authed.PUT("/:id", id, userHandler.Update)
		authed.DELETE("/:id", id, userHandler.Delete)
	}

	projects := api.Group("/projeto", requireAuth)
	{
		projects.POST("", projectHandler.Create)
		projects.POST("/", projectHandler.Create)
		projects.GET("/meus-projetos", projectHandler.ListMine)
		projects.GET("", requireAdmin, projectHandler.ListAll)
		projects.GET("/", requireAdmin, projectHandler.ListAll)
		projects.GET("/usuario/:usuario_id", requireAdmin, middleware.RequireIDParam("usuario_id"), projectHandler.ListByUser)
		projects.GET("/:id", id, projectHandler.Get)
		projects.PUT("/:id", id, projectHandler.Update)
		projects.DELETE("/:id", id, projectHandler.Delete)
	}

	tasks := api.Group("/tarefa", requireAuth)
	{
		tasks.POST("", taskHandler.Create)
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/minhas-tarefas", taskHandler.ListMine)
		tasks.GET("/atribuidas-por-mim", taskHandler.ListAssignedByMe)
		tasks.GET("/dashboard", taskHandler.Dashboard)
		tasks.GET("/projeto/:projeto_id", middleware.RequireIDParam("projeto_id"), taskHandler.ListByProject)
		tasks.GET("", requireAdmin, taskHandler.ListAll)
		tasks.GET("/", requireAdmin, taskHandler.ListAll)
		tasks.GET("/:id", id, taskHandler.Get)
		tasks.PUT("/:id", id, taskHandler.Update)
		tasks.DELETE("/:id", id, taskHandler.Delete)
		tasks.PUT("/:id/concluir", id, taskHandler.Complete)
		tasks.PUT("/:id/toggle-concluir", id, taskHandler.ToggleComplete)
	}

	auth := api.Group("/auth", limited)
	{
		auth.POST("/recuperar-senha", passwordHandler.RequestReset)
		auth.POST("/redefinir-senha", passwordHandler.Reset)
	}
}
