package admin

import (
	"strings"

	"github.com/funfair-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListSettings 查询全部配置项
func (h *Handler) ListSettings(c *gin.Context) {
	settings, err := h.SettingService.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, settings)
}

// GetSetting 查询单个配置项
func (h *Handler) GetSetting(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		respondError(c, response.CodeBadRequest, "配置键不合法", nil)
		return
	}
	value, err := h.SettingService.GetByKey(key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"key": key, "value": value})
}

// UpdateSettingRequest 配置更新请求
type UpdateSettingRequest struct {
	Desc  string                 `json:"desc"`
	Value map[string]interface{} `json:"value" binding:"required"`
}

// UpdateSetting 写入配置项（不存在时创建）
func (h *Handler) UpdateSetting(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		respondError(c, response.CodeBadRequest, "配置键不合法", nil)
		return
	}
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	value, err := h.SettingService.Update(key, req.Desc, req.Value)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"key": key, "value": value})
}

// DeleteSetting 删除配置项
func (h *Handler) DeleteSetting(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		respondError(c, response.CodeBadRequest, "配置键不合法", nil)
		return
	}
	if err := h.SettingService.Delete(key); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
