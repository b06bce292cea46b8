package api

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/service"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// SetupAPI wires services and handlers onto the router under /api, plus the
// public short-link redirect at the root.
func SetupAPI(router *gin.Engine, db *gorm.DB, jwtSecret, shortLinkBase string) {
	registerValidations()

	authService := service.NewAuthService(db, jwtSecret)
	userService := service.NewUserService(db)
	recipeService := service.NewRecipeService(db)
	cartService := service.NewCartService(db)
	catalogService := service.NewCatalogService(db)

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService, authService)
	recipeHandler := NewRecipeHandler(recipeService, cartService, authService, shortLinkBase)
	catalogHandler := NewCatalogHandler(catalogService)

	api := router.Group("/api")
	{
		authHandler.RegisterRoutes(api)
		userHandler.RegisterRoutes(api)
		recipeHandler.RegisterRoutes(api)
		catalogHandler.RegisterRoutes(api)
	}
	recipeHandler.RegisterShortLinkRoute(router)
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	}
}
