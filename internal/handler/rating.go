package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/movievault/internal/middleware"
	"github.com/user/movievault/internal/service"
	"github.com/user/movievault/internal/utils"
)

// RatingReq 评分请求，1-10 整数
type RatingReq struct {
	TMDBID int `json:"tmdbId" binding:"required"`
	Rating int `json:"rating" binding:"required,min=1,max=10"`
}

// SetRating 打分或改分，同一部影片只保留一条评分
func (h *Handler) SetRating(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	var req RatingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "rating must be an integer between 1 and 10")
		return
	}

	movie, err := h.Sync.SyncMovie(c.Request.Context(), req.TMDBID)
	if err != nil {
		log.Printf("[Rating] 同步影片失败 (tmdbId: %d): %v", req.TMDBID, err)
		utils.InternalServerError(c, "failed to sync movie")
		return
	}

	rating, err := h.Repos.Rating.SetValue(userID, movie.ID, req.Rating)
	if err != nil {
		log.Printf("[Rating] 写入评分失败 (用户: %d, 影片: %d): %v", userID, movie.ID, err)
		utils.InternalServerError(c, "failed to save rating")
		return
	}

	// 评分变了，口味画像缓存作废
	service.InvalidateTaste(userID)

	c.JSON(http.StatusOK, gin.H{"ok": true, "rating": rating})
}
