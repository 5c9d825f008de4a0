package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"tastebook/api/internal/blog"
	"tastebook/api/internal/config"
	"tastebook/api/internal/middleware"
	"tastebook/api/internal/repository"
	"tastebook/api/internal/security"
	"tastebook/api/internal/service"
	"tastebook/api/internal/storage"
)

type HandlerSet struct {
	log     zerolog.Logger
	cfg     *config.AppConfig
	codec   *security.TokenCodec
	auth    *service.AuthService
	users   *service.UserService
	recipes *service.RecipeService
	photos  *service.PhotoService
	blog    *blog.Client
	gate    middleware.UserSource
	db      *pgxpool.Pool
	cache   *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store storage.PhotoStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	tagRepo := repository.NewTagRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)

	codec := security.NewTokenCodec(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL,
		cfg.Auth.RefreshTTL,
	)

	return HandlerSet{
		log:     log,
		cfg:     cfg,
		codec:   codec,
		auth:    service.NewAuthService(userRepo, codec, cfg.Auth.PasswordPepper, log),
		users:   service.NewUserService(userRepo, cfg.Auth.PasswordPepper),
		recipes: service.NewRecipeService(recipeRepo, tagRepo, favoriteRepo, log),
		photos:  service.NewPhotoService(store, log),
		blog:    blog.NewClient(cfg.CMS, cache, log),
		gate:    userRepo,
		db:      db,
		cache:   cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	// the identity gate runs on everything and never rejects; each
	// route decides what an anonymous request means
	router.Use(middleware.Identity(h.codec, h.gate))

	router.GET("/healthz", h.Health)

	router.POST("/register", h.RegisterUser)
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)
	router.POST("/renew", h.Renew)
	router.GET("/user", middleware.RequireUser(), h.CurrentUser)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", middleware.RequireUser(), h.CreateRecipe)
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/favorites", middleware.RequireUser(), h.FavoriteRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", middleware.RequireUser(), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.RequireUser(), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.RequireUser(), h.ToggleFavorite)
		recipes.POST("/:id/photo", middleware.RequireUser(), h.UploadPhoto)
		recipes.DELETE("/:id/photo", middleware.RequireUser(), h.DeletePhoto)
	}

	users := router.Group("/users")
	{
		users.GET("", middleware.RequireAdmin(), h.ListUsers)
		users.POST("", middleware.RequireAdmin(), h.CreateUser)
		users.GET("/:id", middleware.RequireUser(), h.GetUser)
		users.PUT("/:id", middleware.RequireUser(), h.UpdateUser)
		users.DELETE("/:id", middleware.RequireAdmin(), h.DeleteUser)
	}

	blogGroup := router.Group("/blog")
	{
		blogGroup.GET("/posts", h.ListBlogPosts)
		blogGroup.GET("/posts/:slug", h.GetBlogPost)
		blogGroup.GET("/categories", h.ListBlogCategories)
	}
}

// pagination reads page/perPage query params with sane bounds.
func pagination(c *gin.Context) (limit, offset int) {
	limit = 20
	offset = 0

	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}
	return limit, offset
}
