package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/movievault/internal/middleware"
	"github.com/user/movievault/internal/service"
	"github.com/user/movievault/internal/utils"
)

// ChatReq 助手对话请求
type ChatReq struct {
	Messages []service.ChatMessage `json:"messages"`
}

// Chat 对话式助手。上游模型不保留会话状态，只转发最后一条用户消息
func (h *Handler) Chat(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	var req ChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid JSON body")
		return
	}
	if len(req.Messages) == 0 {
		utils.BadRequest(c, "no messages provided")
		return
	}
	for _, msg := range req.Messages {
		if strings.TrimSpace(msg.Content) == "" {
			utils.BadRequest(c, "messages must not be empty")
			return
		}
	}

	prompt := req.Messages[len(req.Messages)-1].Content
	text, err := h.Assistant.Reply(c.Request.Context(), prompt)
	if err != nil {
		log.Printf("[Assistant] 调用失败 (用户: %d): %v", userID, err)
		utils.InternalServerError(c, "assistant request failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// AssistantPing 探测助手上游是否可用
func (h *Handler) AssistantPing(c *gin.Context) {
	text, err := h.Assistant.Reply(c.Request.Context(), "Say hello in one short sentence.")
	if err != nil {
		log.Printf("[Assistant] 探测失败: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "text": text})
}
