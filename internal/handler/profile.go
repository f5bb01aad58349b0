package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/movievault/internal/middleware"
	"github.com/user/movievault/internal/model"
	"github.com/user/movievault/internal/utils"
)

// TasteProfile 口味画像：平均分、评分数、片长中位数、偏好类型
func (h *Handler) TasteProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	profile, err := h.Recommend.TasteProfile(userID)
	if err != nil {
		log.Printf("[Profile] 生成口味画像失败 (用户: %d): %v", userID, err)
		utils.InternalServerError(c, "failed to build taste profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": profile})
}

// SuggestTonight 今晚看什么：按时长/年份筛选自己的库，再排除不想看的类型
func (h *Handler) SuggestTonight(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	filter := model.SuggestFilter{
		MaxMinutes: parseIntQuery(c, "maxMinutes", 0),
		YearFrom:   parseIntQuery(c, "yearFrom", 0),
		YearTo:     parseIntQuery(c, "yearTo", 0),
	}

	var avoid []string
	if raw := c.Query("avoid"); raw != "" {
		avoid = strings.Split(raw, ",")
	}

	suggestions, err := h.Recommend.SuggestTonight(userID, filter, avoid)
	if err != nil {
		log.Printf("[Profile] 推荐失败 (用户: %d): %v", userID, err)
		utils.InternalServerError(c, "failed to build suggestions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "suggestions": suggestions})
}

// SearchMyMovies 在自己的库里按标题搜索
func (h *Handler) SearchMyMovies(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		utils.BadRequest(c, "q is required")
		return
	}

	limit := parseIntQuery(c, "limit", 10)
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	results, err := h.Repos.Movie.SearchMine(userID, query, limit)
	if err != nil {
		log.Printf("[Profile] 库内搜索失败 (用户: %d, q: %s): %v", userID, query, err)
		utils.InternalServerError(c, "failed to search movies")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "results": results})
}
