package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Vladimir-spb/foodgram-backend/internal/database"
	"github.com/Vladimir-spb/foodgram-backend/internal/logger"
	"github.com/Vladimir-spb/foodgram-backend/internal/middleware"
	"github.com/Vladimir-spb/foodgram-backend/internal/models"
	"github.com/Vladimir-spb/foodgram-backend/internal/service"
)

// TestEnv holds the in-memory database, the router, and the services API
// tests exercise.
type TestEnv struct {
	DB          *gorm.DB
	Router      *gin.Engine
	AuthService *service.AuthService
}

// setupTestEnv builds the full route table on an in-memory database, without
// redis or S3.
func setupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	authService := service.NewAuthService(db, "test-secret")
	recipeService := service.NewRecipeService(db)
	favoriteService := service.NewFavoriteService(db)
	shoppingListService := service.NewShoppingListService(db)
	followService := service.NewFollowService(db)
	imageService := service.NewImageService(nil, t.TempDir(), logger.Nop())

	recipeHandler := NewRecipeHandler(
		recipeService, favoriteService, shoppingListService,
		followService, imageService, authService, logger.Nop(),
	)
	authHandler := NewAuthHandler(authService)
	catalogHandler := NewCatalogHandler(db)
	followHandler := NewFollowHandler(followService)
	healthHandler := NewHealthHandler(db)

	requireAuth := middleware.AuthMiddleware(authService)
	optionalAuth := middleware.OptionalAuthMiddleware(authService)

	router := gin.New()
	router.GET("/health", healthHandler.Health)
	root := router.Group("/api")

	root.POST("/auth/register", authHandler.Register)
	root.POST("/auth/login", authHandler.Login)
	root.GET("/users/me", requireAuth, authHandler.Me)
	root.GET("/users/subscriptions", requireAuth, followHandler.Subscriptions)
	root.POST("/users/:id/subscribe", requireAuth, followHandler.Subscribe)
	root.DELETE("/users/:id/subscribe", requireAuth, followHandler.Unsubscribe)
	root.GET("/tags", catalogHandler.ListTags)
	root.GET("/tags/:id", catalogHandler.GetTag)
	root.GET("/ingredients", catalogHandler.ListIngredients)
	root.GET("/ingredients/:id", catalogHandler.GetIngredient)
	root.GET("/recipes", optionalAuth, recipeHandler.ListRecipes)
	root.GET("/recipes/download_shopping_cart", requireAuth, recipeHandler.DownloadShoppingCart)
	root.GET("/recipes/:id", optionalAuth, recipeHandler.GetRecipe)
	root.POST("/recipes", requireAuth, recipeHandler.CreateRecipe)
	root.PATCH("/recipes/:id", requireAuth, recipeHandler.UpdateRecipe)
	root.DELETE("/recipes/:id", requireAuth, recipeHandler.DeleteRecipe)
	root.POST("/recipes/:id/favorite", requireAuth, recipeHandler.AddFavorite)
	root.DELETE("/recipes/:id/favorite", requireAuth, recipeHandler.RemoveFavorite)
	root.POST("/recipes/:id/shopping_cart", requireAuth, recipeHandler.AddToShoppingCart)
	root.DELETE("/recipes/:id/shopping_cart", requireAuth, recipeHandler.RemoveFromShoppingCart)

	return &TestEnv{
		DB:          db,
		Router:      router,
		AuthService: authService,
	}
}

// createUserAndToken registers a user directly and returns the model with a
// valid bearer token.
func (env *TestEnv) createUserAndToken(t *testing.T, username string) (*models.User, string) {
	t.Helper()

	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "unused",
		Role:         models.RoleUser,
	}
	if err := env.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	token, err := env.AuthService.GenerateToken(&service.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return &user, token
}

// seedCatalog inserts one ingredient and one tag and returns them.
func (env *TestEnv) seedCatalog(t *testing.T) (*models.Ingredient, *models.Tag) {
	t.Helper()

	ingredient := models.Ingredient{Name: "flour", MeasurementUnit: "g"}
	if err := env.DB.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to seed ingredient: %v", err)
	}
	tag := models.Tag{Name: "Breakfast", Slug: "breakfast", Color: "#E26C2D"}
	if err := env.DB.Create(&tag).Error; err != nil {
		t.Fatalf("failed to seed tag: %v", err)
	}
	return &ingredient, &tag
}

// performRequest runs a request through the router; body may be nil.
func (env *TestEnv) performRequest(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	return w
}
