package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/movievault/internal/service"
	"github.com/user/movievault/internal/utils"
)

// SearchCatalog 在线目录搜索，实时透传，不走缓存
func (h *Handler) SearchCatalog(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.BadRequest(c, "q is required")
		return
	}

	opts := service.SearchOptions{
		Page:  parseIntQuery(c, "page", 1),
		Year:  parseIntQuery(c, "year", 0),
		Genre: parseIntQuery(c, "genre", 0),
	}

	data, err := h.Catalog.SearchMovies(c.Request.Context(), query, opts)
	if err != nil {
		log.Printf("[TMDB] 搜索失败 (q: %s): %v", query, err)
		utils.InternalServerError(c, "catalog search failed")
		return
	}

	c.JSON(http.StatusOK, data)
}

// DiscoverCatalog 按类型/年份浏览目录，同样不走缓存
func (h *Handler) DiscoverCatalog(c *gin.Context) {
	opts := service.SearchOptions{
		Page:  parseIntQuery(c, "page", 1),
		Year:  parseIntQuery(c, "year", 0),
		Genre: parseIntQuery(c, "genre", 0),
	}

	data, err := h.Catalog.DiscoverMovies(c.Request.Context(), opts)
	if err != nil {
		log.Printf("[TMDB] 浏览失败: %v", err)
		utils.InternalServerError(c, "catalog discover failed")
		return
	}

	c.JSON(http.StatusOK, data)
}

// TrendingCatalog 本周热门，结果缓存 1 小时
func (h *Handler) TrendingCatalog(c *gin.Context) {
	data, err := h.Catalog.Trending(c.Request.Context())
	if err != nil {
		log.Printf("[TMDB] 获取热门失败: %v", err)
		utils.InternalServerError(c, "catalog trending failed")
		return
	}

	c.JSON(http.StatusOK, data)
}

// CatalogGenres 类型清单，结果缓存 24 小时
func (h *Handler) CatalogGenres(c *gin.Context) {
	genres, err := h.Catalog.Genres(c.Request.Context())
	if err != nil {
		log.Printf("[TMDB] 获取类型清单失败: %v", err)
		utils.InternalServerError(c, "catalog genres failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "genres": genres})
}

// CatalogPing 用固定关键词探测目录连通性与 Token 有效性
func (h *Handler) CatalogPing(c *gin.Context) {
	data, err := h.Catalog.SearchMovies(c.Request.Context(), "Dune", service.SearchOptions{Page: 1})
	if err != nil {
		log.Printf("[TMDB] 探测失败: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "totalResults": data.TotalResults})
}

// parseIntQuery 解析整数查询参数，缺失或非法时用默认值
func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
