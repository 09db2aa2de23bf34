package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Vladimir-spb/foodgram-backend/internal/api"
	"github.com/Vladimir-spb/foodgram-backend/internal/middleware"
	"github.com/Vladimir-spb/foodgram-backend/internal/service"
)

// Handlers groups everything the router wires together.
type Handlers struct {
	Auth    *api.AuthHandler
	Recipe  *api.RecipeHandler
	Catalog *api.CatalogHandler
	Follow  *api.FollowHandler
	Health  *api.HealthHandler
}

// SetupRouter configures the application routes. The rate limiter is
// optional: when nil, writes are not rate limited (tests, local runs
// without redis).
func SetupRouter(
	handlers Handlers,
	authService *service.AuthService,
	limiter *middleware.RateLimiter,
	mediaRoot string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if mediaRoot != "" {
		router.Static("/media", mediaRoot)
	}

	router.GET("/health", handlers.Health.Health)

	requireAuth := middleware.AuthMiddleware(authService)
	optionalAuth := middleware.OptionalAuthMiddleware(authService)

	writeGuard := []gin.HandlerFunc{requireAuth}
	if limiter != nil {
		writeGuard = append(writeGuard, limiter.RateLimitMiddleware())
	}

	root := router.Group("/api")

	auth := root.Group("/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
	}

	users := root.Group("/users")
	{
		users.GET("/me", requireAuth, handlers.Auth.Me)
		users.GET("/subscriptions", requireAuth, handlers.Follow.Subscriptions)
		users.POST("/:id/subscribe", append(writeGuard, handlers.Follow.Subscribe)...)
		users.DELETE("/:id/subscribe", append(writeGuard, handlers.Follow.Unsubscribe)...)
	}

	tags := root.Group("/tags")
	{
		tags.GET("", handlers.Catalog.ListTags)
		tags.GET("/:id", handlers.Catalog.GetTag)
	}

	ingredients := root.Group("/ingredients")
	{
		ingredients.GET("", handlers.Catalog.ListIngredients)
		ingredients.GET("/:id", handlers.Catalog.GetIngredient)
	}

	recipes := root.Group("/recipes")
	{
		recipes.GET("", optionalAuth, handlers.Recipe.ListRecipes)
		recipes.GET("/download_shopping_cart", requireAuth, handlers.Recipe.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, handlers.Recipe.GetRecipe)
		recipes.POST("", append(writeGuard, handlers.Recipe.CreateRecipe)...)
		recipes.PATCH("/:id", append(writeGuard, handlers.Recipe.UpdateRecipe)...)
		recipes.DELETE("/:id", append(writeGuard, handlers.Recipe.DeleteRecipe)...)
		recipes.POST("/:id/favorite", append(writeGuard, handlers.Recipe.AddFavorite)...)
		recipes.DELETE("/:id/favorite", append(writeGuard, handlers.Recipe.RemoveFavorite)...)
		recipes.POST("/:id/shopping_cart", append(writeGuard, handlers.Recipe.AddToShoppingCart)...)
		recipes.DELETE("/:id/shopping_cart", append(writeGuard, handlers.Recipe.RemoveFromShoppingCart)...)
	}

	return router
}
