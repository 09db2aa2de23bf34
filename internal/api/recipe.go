package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vladimir-spb/foodgram-backend/internal/middleware"
	"github.com/Vladimir-spb/foodgram-backend/internal/pdf"
	"github.com/Vladimir-spb/foodgram-backend/internal/service"
)

type RecipeHandler struct {
	recipes       *service.RecipeService
	favorites     *service.FavoriteService
	shoppingLists *service.ShoppingListService
	follows       *service.FollowService
	images        *service.ImageService
	authService   *service.AuthService
	log           *zap.Logger
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	favorites *service.FavoriteService,
	shoppingLists *service.ShoppingListService,
	follows *service.FollowService,
	images *service.ImageService,
	authService *service.AuthService,
	log *zap.Logger,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		favorites:     favorites,
		shoppingLists: shoppingLists,
		follows:       follows,
		images:        images,
		authService:   authService,
		log:           log,
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewer := middleware.CurrentUserID(c)

	filter := service.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      c.Query("is_favorited") == "1",
		IsInShoppingCart: c.Query("is_in_shopping_cart") == "1",
		RequestUser:      viewer,
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &id
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	recipes, total, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]RecipeView, 0, len(recipes))
	for i := range recipes {
		views = append(views, buildRecipeView(c.Request.Context(), &recipes[i], viewer, h.favorites, h.follows))
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": views,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	viewer := middleware.CurrentUserID(c)
	c.JSON(http.StatusOK, buildRecipeView(c.Request.Context(), recipe, viewer, h.favorites, h.follows))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var in service.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.CurrentUserID(c)

	imageURL, err := h.images.SaveRecipeImage(c.Request.Context(), in.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("image: %v", err)})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, &in, imageURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, buildRecipeView(c.Request.Context(), recipe, userID, h.favorites, h.follows))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}

	var in service.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.CurrentUserID(c)

	existing, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.recipes.CanModify(c.Request.Context(), userID, existing) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author may modify this recipe"})
		return
	}

	imageURL, err := h.images.SaveRecipeImage(c.Request.Context(), in.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("image: %v", err)})
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, &in, imageURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildRecipeView(c.Request.Context(), recipe, userID, h.favorites, h.follows))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)

	existing, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.recipes.CanModify(c.Request.Context(), userID, existing) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author may delete this recipe"})
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addFlag(c, service.FlagFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeFlag(c, service.FlagFavorite)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.addFlag(c, service.FlagShoppingCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.removeFlag(c, service.FlagShoppingCart)
}

func (h *RecipeHandler) addFlag(c *gin.Context, flag service.Flag) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	summary, err := h.favorites.Add(c.Request.Context(), userID, id, flag)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, summary)
}

func (h *RecipeHandler) removeFlag(c *gin.Context, flag service.Flag) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := h.favorites.Remove(c.Request.Context(), userID, id, flag); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart aggregates the user's cart and streams it as a PDF.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	lines, err := h.shoppingLists.BuildShoppingList(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	doc := pdf.Document{
		FileName:  fmt.Sprintf("%s_%s.pdf", time.Now().Format("2006-01-02"), user.Username),
		Title:     "Shopping list",
		UserLabel: fmt.Sprintf("User: %s %s", user.LastName, user.FirstName),
		Lines:     service.FormatLines(lines),
	}

	data, err := pdf.Render(doc)
	if err != nil {
		h.log.Error("failed to render shopping list", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render shopping list"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, "application/pdf", data)
}

func recipeIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return 0, false
	}
	return uint(id), true
}
