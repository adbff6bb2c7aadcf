package app

import (
	"github.com/codewithhoney24/bettertasks/internal/auth"
	"github.com/codewithhoney24/bettertasks/internal/blobstore"
	"github.com/codewithhoney24/bettertasks/internal/cache"
	"github.com/codewithhoney24/bettertasks/internal/chat"
	"github.com/codewithhoney24/bettertasks/internal/config"
	"github.com/codewithhoney24/bettertasks/internal/handlers"
	"github.com/codewithhoney24/bettertasks/internal/repo"
	"github.com/codewithhoney24/bettertasks/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(tokens, userSvc)
	registerAuthRoutes(api, authHandler)

	blobs := blobstore.NewRedis(rdb)
	counter := chat.NewDeletedCounter(blobs)
	transcript := chat.NewTranscriptStore(blobs)

	taskRepo := repo.NewPGTaskRepo(db)
	subtaskRepo := repo.NewPGSubtaskRepo(db)
	taskCache := cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	taskSvc := service.NewTaskService(taskRepo, subtaskRepo, taskCache, counter)
	assistantSvc := service.NewAssistantService(taskSvc, transcript, counter)

	// Каждый ресурс живёт под /users/:user_id — чужой user_id даёт 403.
	protected := api.Group("/users/:user_id", auth.RequireAuth(tokens), auth.RequireOwner())
	registerTaskRoutes(protected, handlers.NewTaskHandler(taskSvc))
	registerSubtaskRoutes(protected, handlers.NewSubtaskHandler(taskSvc))
	registerAssistantRoutes(protected, handlers.NewAssistantHandler(assistantSvc))
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "BetterTasks API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.POST("/tasks", h.Create)
	api.GET("/tasks", h.List)
	api.GET("/tasks/:id", h.GetByID)
	api.PATCH("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
	api.PATCH("/tasks/:id/complete", h.Complete)
	api.GET("/dashboard", h.Dashboard)
}

func registerSubtaskRoutes(api *gin.RouterGroup, h *handlers.SubtaskHandler) {
	// Родительский параметр — тот же :id, что и у /tasks/:id (ограничение роутера).
	api.POST("/tasks/:id/subtasks", h.Create)
	api.GET("/tasks/:id/subtasks", h.List)
	api.PATCH("/tasks/:id/subtasks/:subtask_id", h.Update)
	api.DELETE("/tasks/:id/subtasks/:subtask_id", h.Delete)
}

func registerAssistantRoutes(api *gin.RouterGroup, h *handlers.AssistantHandler) {
	api.POST("/assistant/messages", h.Send)
	api.GET("/assistant/messages", h.History)
	api.DELETE("/assistant/messages", h.Clear)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
}
