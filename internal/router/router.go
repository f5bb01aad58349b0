package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/movievault/internal/handler"
	"github.com/user/movievault/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 认证 ====================
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middleware.RequireAuth(h.Config.AppSecret), h.Me)
	}

	// ==================== 公开目录 API ====================
	api := r.Group("/api")
	{
		api.GET("/tmdb/search", h.SearchCatalog)
		api.GET("/tmdb/discover", h.DiscoverCatalog)
		api.GET("/tmdb/trending", h.TrendingCatalog)
		api.GET("/tmdb/genres", h.CatalogGenres)
		api.GET("/tmdb/ping", h.CatalogPing)
		api.GET("/ai/ping", h.AssistantPing)
	}

	// ==================== 个人库 API（需要登录）====================
	authed := api.Group("")
	authed.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		authed.GET("/watchlist", h.ListWatchlist)
		authed.POST("/watchlist", h.SetWatchlistStatus)
		authed.DELETE("/watchlist", h.RemoveWatchlistEntry)

		authed.POST("/ratings", h.SetRating)

		authed.GET("/notes", h.ListNotes)
		authed.POST("/notes", h.CreateNote)

		authed.GET("/collections", h.ListCollections)
		authed.POST("/collections", h.CreateCollection)
		authed.PATCH("/collections", h.RenameCollection)
		authed.DELETE("/collections", h.DeleteCollection)
		authed.POST("/collections/:id/movies", h.AddCollectionMovie)
		authed.DELETE("/collections/:id/movies", h.RemoveCollectionMovie)

		authed.GET("/movies/search", h.SearchMyMovies)
		authed.GET("/profile/taste", h.TasteProfile)
		authed.GET("/suggest", h.SuggestTonight)

		authed.POST("/ai/chat", h.Chat)

		authed.DELETE("/account", h.DeleteAccount)
	}
}
