package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"github.com/colinruark1/ocean-cleaning/internal/auth"
	"github.com/colinruark1/ocean-cleaning/internal/cache"
	"github.com/colinruark1/ocean-cleaning/internal/config"
	dom "github.com/colinruark1/ocean-cleaning/internal/domain"
	"github.com/colinruark1/ocean-cleaning/internal/handlers"
	"github.com/colinruark1/ocean-cleaning/internal/service"
)

// setup registers all routes on the given engine.
func (a *App) setup(r *gin.Engine) {
	cfg := a.cfg
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler())
	r.GET("/version", versionHandler(cfg))
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	tokens := auth.NewTokenManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL.Duration())
	authn := auth.NewAuthenticator(tokens)
	required := auth.RequireToken(authn)
	optional := auth.OptionalToken(authn)

	// A nil interface, not a typed nil pointer, disables caching.
	var eventCache service.ListCache[dom.Event]
	var postCache service.ListCache[dom.Post]
	if a.redis != nil {
		ttl := cfg.Redis.DefaultTTL.Duration()
		eventCache = cache.NewListCache[dom.Event](a.redis, cache.KeyEvents, ttl)
		postCache = cache.NewListCache[dom.Post](a.redis, cache.KeyPosts, ttl)
	}

	accountSvc := service.NewAccountService(a.store.Users, auth.NewBcryptHasher(cfg.Auth.BcryptCost), tokens)
	userSvc := service.NewUserService(a.store.Users, a.store.Events)
	eventSvc := service.NewEventService(a.store.Events, eventCache)
	postSvc := service.NewPostService(a.store.Posts, postCache)

	api := r.Group("/api/v1")
	registerAuthRoutes(api, handlers.NewAuthHandler(accountSvc, a.logger))
	registerUserRoutes(api, handlers.NewUserHandler(userSvc, a.logger), required)
	registerEventRoutes(api, handlers.NewEventHandler(eventSvc, a.logger), required, optional)
	registerPostRoutes(api, handlers.NewPostHandler(postSvc, a.logger), required, optional)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Ocean Cleanup API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"metrics": "/metrics",
			"api":     "/api/v1",
		})
	}
}

func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
}

func registerUserRoutes(api *gin.RouterGroup, h *handlers.UserHandler, required gin.HandlerFunc) {
	api.GET("/users/me", required, h.Me)
	api.PATCH("/users/me", required, h.UpdateMe)
	api.GET("/users/:userId", h.GetByID)
}

func registerEventRoutes(api *gin.RouterGroup, h *handlers.EventHandler, required, optional gin.HandlerFunc) {
	api.GET("/events", optional, h.List)
	api.POST("/events", required, h.Create)
	api.GET("/events/:eventId", optional, h.Get)
	api.DELETE("/events/:eventId", required, h.Delete)
	api.POST("/events/:eventId/join", required, h.Join)
	api.POST("/events/:eventId/leave", required, h.Leave)
	api.PUT("/events/:eventId/participants", required, h.SetParticipants)
}

func registerPostRoutes(api *gin.RouterGroup, h *handlers.PostHandler, required, optional gin.HandlerFunc) {
	api.GET("/posts", optional, h.List)
	api.POST("/posts", required, h.Create)
	api.GET("/posts/:postId", optional, h.Get)
	api.POST("/posts/:postId/upvote", required, h.Upvote)
}
