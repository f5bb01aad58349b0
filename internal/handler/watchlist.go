package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/movievault/internal/middleware"
	"github.com/user/movievault/internal/model"
	"github.com/user/movievault/internal/utils"
)

// WatchlistUpsertReq 加入/更新片单请求
type WatchlistUpsertReq struct {
	TMDBID int    `json:"tmdbId" binding:"required"`
	Status string `json:"status" binding:"required,watchstatus"`
}

// WatchlistRemoveReq 移出片单请求
type WatchlistRemoveReq struct {
	TMDBID int `json:"tmdbId" binding:"required"`
}

// SetWatchlistStatus 加入片单或更新状态，先同步影片元数据再落库
func (h *Handler) SetWatchlistStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	var req WatchlistUpsertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "tmdbId and a valid status are required")
		return
	}

	movie, err := h.Sync.SyncMovie(c.Request.Context(), req.TMDBID)
	if err != nil {
		log.Printf("[Watchlist] 同步影片失败 (tmdbId: %d): %v", req.TMDBID, err)
		utils.InternalServerError(c, "failed to sync movie")
		return
	}

	entry, err := h.Repos.Watchlist.SetStatus(userID, movie.ID, req.Status)
	if err != nil {
		log.Printf("[Watchlist] 更新状态失败 (用户: %d, 影片: %d): %v", userID, movie.ID, err)
		utils.InternalServerError(c, "failed to update watchlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "entry": entry})
}

// RemoveWatchlistEntry 移出片单。影片本身保留，只删关联
func (h *Handler) RemoveWatchlistEntry(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	var req WatchlistRemoveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "tmdbId is required")
		return
	}

	movie, err := h.Repos.Movie.FindByTMDBID(req.TMDBID)
	if err != nil {
		log.Printf("[Watchlist] 查询影片失败 (tmdbId: %d): %v", req.TMDBID, err)
		utils.InternalServerError(c, "failed to remove from watchlist")
		return
	}
	if movie == nil {
		utils.NotFound(c, "movie not found")
		return
	}

	if err := h.Repos.Watchlist.Remove(userID, movie.ID); err != nil {
		log.Printf("[Watchlist] 移除失败 (用户: %d, 影片: %d): %v", userID, movie.ID, err)
		utils.InternalServerError(c, "failed to remove from watchlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListWatchlist 片单列表，可按状态过滤，附带个人评分与最新笔记
func (h *Handler) ListWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	status := c.Query("status")
	if status != "" && !model.ValidWatchStatus(status) {
		utils.BadRequest(c, "invalid status filter")
		return
	}

	items, err := h.Repos.Watchlist.List(userID, status)
	if err != nil {
		log.Printf("[Watchlist] 查询片单失败 (用户: %d): %v", userID, err)
		utils.InternalServerError(c, "failed to load watchlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
}
