package handler

import (
	"asset-marketplace/internal/adapter/http/middleware"
	redisStore "asset-marketplace/internal/adapter/storage/redis"
	"asset-marketplace/internal/adapter/ws"
	"asset-marketplace/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	MarketSvc      ports.MarketplaceService
	AccountRepo    ports.AccountRepository
	EncSvc         ports.EncryptionService
	SigSvc         ports.SignatureService
	NonceStore     ports.NonceStore
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Hub            *ws.Hub // nil = live event feed disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep check of PostgreSQL and Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Live event feed
	if deps.Hub != nil {
		r.GET("/ws/events", deps.Hub.Handle)
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	marketHandler := NewMarketHandler(deps.MarketSvc)

	// Reads are public; anyone can inspect listings and proceeds.
	v1.GET("/listings", rl("listings"), marketHandler.BrowseListings)
	v1.GET("/listings/:nft/:token_id", rl("listings"), marketHandler.GetListing)
	v1.GET("/proceeds/:address", rl("listings"), marketHandler.GetProceeds)

	// --- HMAC-authenticated routes (trading API) ---
	hmacAuth := middleware.HMACAuth(deps.AccountRepo, deps.EncSvc, deps.SigSvc, deps.NonceStore, deps.Logger)
	listings := v1.Group("/listings", hmacAuth)
	{
		listings.POST("", rl("listings"), marketHandler.ListItem)
		listings.PUT("/:nft/:token_id", rl("listings"), marketHandler.UpdatePrice)
		listings.DELETE("/:nft/:token_id", rl("listings"), marketHandler.CancelListing)
		listings.POST("/:nft/:token_id/buy", rl("purchases"), marketHandler.BuyItem)
	}
	v1.POST("/withdrawals", hmacAuth, rl("withdrawals"), marketHandler.WithdrawProceeds)

	// --- JWT-authenticated routes (dashboard) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	dashboardHandler := NewDashboardHandler(deps.MarketSvc)

	me := v1.Group("/me", jwtAuth)
	{
		me.GET("/listings", rl("dashboard"), dashboardHandler.MyListings)
		me.GET("/proceeds", rl("dashboard"), dashboardHandler.MyProceeds)
	}
	v1.GET("/events", jwtAuth, rl("dashboard"), dashboardHandler.RecentEvents)

	return r
}
