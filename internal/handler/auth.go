package handler

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/movievault/internal/middleware"
	"github.com/user/movievault/internal/model"
	"github.com/user/movievault/internal/utils"
)

// LoginReq 登录请求。开发模式认证：可选的单租户邮箱锁定 + 可选的共享口令
type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
}

// Login 凭证登录，首次成功即创建用户，签发 JWT 会话
func (h *Handler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "email is required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		utils.BadRequest(c, "email is required")
		return
	}

	// 单租户锁定：配置了 SINGLE_USER_EMAIL 时只接受这一个邮箱
	if locked := strings.ToLower(h.Config.SingleUserEmail); locked != "" && locked != email {
		utils.Forbidden(c, "single-user mode: use the configured email")
		return
	}

	// 共享口令是部署级密钥，不是用户凭证，不做哈希，仅做常数时间比较
	if h.Config.DevAuthPassword != "" {
		if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.Config.DevAuthPassword)) != 1 {
			utils.Unauthorized(c, "invalid password")
			return
		}
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}

	user, err := h.Repos.User.EnsureUser(email, name)
	if err != nil {
		log.Printf("[Auth] 创建/查找用户失败: %v", err)
		utils.InternalServerError(c, "login failed")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, user.Name, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		log.Printf("[Auth] 签发 Token 失败: %v", err)
		utils.InternalServerError(c, "login failed")
		return
	}

	c.SetCookie("token", token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"token": token,
		"user": model.SessionUser{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
	})
}

// Logout 退出登录，清除会话 Cookie
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me 返回当前会话用户
func (h *Handler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"user": model.SessionUser{
			ID:    userID,
			Email: c.GetString("email"),
			Name:  c.GetString("name"),
		},
	})
}

// DeleteAccount 删除当前用户，片单/评分/笔记/影单级联清理
func (h *Handler) DeleteAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	if err := h.Repos.User.Delete(userID); err != nil {
		log.Printf("[Auth] 删除用户失败 (ID: %d): %v", userID, err)
		utils.InternalServerError(c, "account deletion failed")
		return
	}

	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
