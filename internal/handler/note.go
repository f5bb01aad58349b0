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

// NoteReq 笔记请求
type NoteReq struct {
	TMDBID  int    `json:"tmdbId" binding:"required"`
	Content string `json:"content" binding:"required"`
	Spoiler bool   `json:"spoiler"`
}

// CreateNote 追加一条观影笔记。笔记只增不改
func (h *Handler) CreateNote(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	var req NoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "tmdbId and content are required")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		utils.BadRequest(c, "content must not be empty")
		return
	}

	movie, err := h.Sync.SyncMovie(c.Request.Context(), req.TMDBID)
	if err != nil {
		log.Printf("[Note] 同步影片失败 (tmdbId: %d): %v", req.TMDBID, err)
		utils.InternalServerError(c, "failed to sync movie")
		return
	}

	note := &model.Note{
		UserID:  userID,
		MovieID: movie.ID,
		Content: content,
		Spoiler: req.Spoiler,
	}
	if err := h.Repos.Note.Create(note); err != nil {
		log.Printf("[Note] 写入笔记失败 (用户: %d, 影片: %d): %v", userID, movie.ID, err)
		utils.InternalServerError(c, "failed to save note")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "note": note})
}

// ListNotes 当前用户全部笔记，新的在前
func (h *Handler) ListNotes(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	notes, err := h.Repos.Note.ListByUser(userID)
	if err != nil {
		log.Printf("[Note] 查询笔记失败 (用户: %d): %v", userID, err)
		utils.InternalServerError(c, "failed to load notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "notes": notes})
}
