package admin

import (
	"github.com/funfair-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetMe 查询当前登录员工信息（含附加授权角色）
func (h *Handler) GetMe(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	user, err := h.UserService.GetByID(staffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	roles, err := h.AuthzService.GetStaffRoles(staffID)
	if err != nil {
		requestLog(c).Warnw("get_staff_roles_failed", "user_id", staffID, "error", err)
		roles = nil
	}
	response.Success(c, gin.H{"user": user, "extraRoles": roles})
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangePassword 修改当前员工密码
func (h *Handler) ChangePassword(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	if err := h.AuthService.ChangePassword(staffID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
