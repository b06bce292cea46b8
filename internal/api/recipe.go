package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/backend/internal/middleware"
	"github.com/forkful/backend/internal/service"
)

type RecipeHandler struct {
	recipes       *service.RecipeService
	cart          *service.CartService
	auth          *service.AuthService
	shortLinkBase string
}

func NewRecipeHandler(recipes *service.RecipeService, cart *service.CartService, auth *service.AuthService, shortLinkBase string) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		cart:          cart,
		auth:          auth,
		shortLinkBase: shortLinkBase,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	required := middleware.AuthMiddleware(h.auth)
	optional := middleware.OptionalAuthMiddleware(h.auth)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.List)
		recipes.POST("", required, h.Create)
		recipes.GET("/download_shopping_cart", required, h.DownloadShoppingCart)
		recipes.GET("/:id", optional, h.Get)
		recipes.PATCH("/:id", required, h.Update)
		recipes.DELETE("/:id", required, h.Delete)
		recipes.GET("/:id/get-link", h.GetLink)
		recipes.POST("/:id/favorite", required, h.Favorite)
		recipes.DELETE("/:id/favorite", required, h.Unfavorite)
		recipes.POST("/:id/shopping_cart", required, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", required, h.RemoveFromCart)
	}
}

// RegisterShortLinkRoute mounts the public /s/:code redirect at the engine
// root, outside the API prefix.
func (h *RecipeHandler) RegisterShortLinkRoute(router *gin.Engine) {
	router.GET("/s/:code", h.ResolveShortLink)
}

func (h *RecipeHandler) List(c *gin.Context) {
	limit, page := pagination(c)
	filter := service.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      c.Query("is_favorited") == "1" || c.Query("is_favorited") == "true",
		IsInShoppingCart: c.Query("is_in_shopping_cart") == "1" || c.Query("is_in_shopping_cart") == "true",
		Limit:            limit,
		Page:             page,
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.Author = &authorID
	}

	details, total, err := h.recipes.ListRecipes(c.Request.Context(), filter, middleware.ViewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Count: total, Results: details})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	detail, err := h.recipes.GetRecipeDetail(c.Request.Context(), id, middleware.ViewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewer := middleware.ViewerID(c)
	detail, err := h.recipes.CreateRecipe(c.Request.Context(), *viewer, service.CreateRecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		Tags:        req.Tags,
		Ingredients: toIngredientInputs(req.Ingredients),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req updateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.UpdateRecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		Tags:        req.Tags,
	}
	if req.Ingredients != nil {
		in.Ingredients = toIngredientInputs(req.Ingredients)
	}

	viewer := middleware.ViewerID(c)
	detail, err := h.recipes.UpdateRecipe(c.Request.Context(), id, *viewer, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	viewer := middleware.ViewerID(c)
	if err := h.recipes.DeleteRecipe(c.Request.Context(), id, *viewer); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	code, err := h.recipes.GetShortCode(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	base := h.shortLinkBase
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, c.Request.Host)
	}
	c.JSON(http.StatusOK, gin.H{"short-link": fmt.Sprintf("%s/s/%s", base, code)})
}

func (h *RecipeHandler) ResolveShortLink(c *gin.Context) {
	id, err := h.recipes.GetRecipeByShortCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/api/recipes/"+id.String())
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.addRelation(c, h.cart.AddFavorite)
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.removeRelation(c, h.cart.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, h.cart.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, h.cart.RemoveFromCart)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	pdf, err := h.cart.ShoppingListPDF(c.Request.Context(), *viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="shopping_cart.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *RecipeHandler) addRelation(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) (*service.RecipeShort, error)) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	viewer := middleware.ViewerID(c)
	short, err := add(c.Request.Context(), *viewer, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, short)
}

// toIngredientInputs keeps "supplied but empty" distinct from "omitted":
// an empty request slice maps to an empty, non-nil input slice.
func toIngredientInputs(items []recipeIngredientRequest) []service.IngredientAmountInput {
	inputs := make([]service.IngredientAmountInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.IngredientAmountInput{ID: item.ID, Amount: item.Amount})
	}
	return inputs
}

func (h *RecipeHandler) removeRelation(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	viewer := middleware.ViewerID(c)
	if err := remove(c.Request.Context(), *viewer, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
