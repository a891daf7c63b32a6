package admin

import (
	handlershared "github.com/funfair-next/internal/http/handlers/shared"
	"github.com/funfair-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListRoles 查询全部授权角色
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "查询角色失败", err)
		return
	}
	response.Success(c, roles)
}

// RolePolicyRequest 角色策略请求
type RolePolicyRequest struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// GrantRolePolicy 为角色授予策略
func (h *Handler) GrantRolePolicy(c *gin.Context) {
	var req RolePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeInternal, "授权失败", err)
		return
	}
	response.Success(c, nil)
}

// RevokeRolePolicy 撤销角色策略
func (h *Handler) RevokeRolePolicy(c *gin.Context) {
	var req RolePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeInternal, "撤销授权失败", err)
		return
	}
	response.Success(c, nil)
}

// GetRolePolicies 查询角色策略
func (h *Handler) GetRolePolicies(c *gin.Context) {
	role := c.Param("role")
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeInternal, "查询角色策略失败", err)
		return
	}
	response.Success(c, policies)
}

// GetStaffRoles 查询员工的附加授权角色
func (h *Handler) GetStaffRoles(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "用户ID不合法", nil)
		return
	}
	roles, err := h.AuthzService.GetStaffRoles(id)
	if err != nil {
		respondError(c, response.CodeInternal, "查询员工角色失败", err)
		return
	}
	response.Success(c, roles)
}

// SetStaffRolesRequest 员工附加角色设置请求
type SetStaffRolesRequest struct {
	Roles []string `json:"roles"`
}

// SetStaffRoles 覆盖设置员工的附加授权角色
func (h *Handler) SetStaffRoles(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "用户ID不合法", nil)
		return
	}
	var req SetStaffRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	if err := h.AuthzService.SetStaffRoles(id, req.Roles); err != nil {
		respondError(c, response.CodeInternal, "设置角色失败", err)
		return
	}
	response.Success(c, nil)
}
