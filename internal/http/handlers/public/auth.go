package public

import (
	"time"

	"github.com/funfair-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 员工登录请求
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 员工登录。登录接口由路由层按 IP+账号限流
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Login, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"user":      user,
		"token":     token,
		"expiresAt": expiresAt.Format(time.RFC3339),
	})
}
