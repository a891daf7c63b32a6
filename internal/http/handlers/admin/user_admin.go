package admin

import (
	"strings"

	handlershared "github.com/funfair-next/internal/http/handlers/shared"
	"github.com/funfair-next/internal/http/response"
	"github.com/funfair-next/internal/repository"
	"github.com/funfair-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRequest 用户创建/更新请求
type UserRequest struct {
	Role        string `json:"role"`
	Login       string `json:"login"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Mobile      string `json:"mobile"`
	AvatarURL   string `json:"avatarUrl"`
	Region      string `json:"region"`
	Country     string `json:"country"`
	IsForeigner bool   `json:"isForeigner"`
	Birthday    string `json:"birthday"`
	IDCardNo    string `json:"idCardNo"`
	OpenID      string `json:"openid"`
	StoreID     *uint  `json:"storeId"`
}

func (r UserRequest) toInput() service.UserInput {
	return service.UserInput{
		Role:        r.Role,
		Login:       r.Login,
		Password:    r.Password,
		Name:        r.Name,
		Mobile:      r.Mobile,
		AvatarURL:   r.AvatarURL,
		Region:      r.Region,
		Country:     r.Country,
		IsForeigner: r.IsForeigner,
		Birthday:    r.Birthday,
		IDCardNo:    r.IDCardNo,
		OpenID:      r.OpenID,
		StoreID:     r.StoreID,
	}
}

// CreateUser 创建用户（客户或员工）
func (h *Handler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	user, err := h.UserService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateUser 更新用户资料
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "用户ID不合法", nil)
		return
	}
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	user, err := h.UserService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// GetUser 查询用户详情（含持卡列表）
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "用户ID不合法", nil)
		return
	}
	user, err := h.UserService.GetWithCards(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// ListUsers 查询用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	filter := repository.UserListFilter{
		ListQuery: handlershared.ParseListQuery(c),
		Keyword:   strings.TrimSpace(c.Query("keyword")),
		Role:      strings.TrimSpace(c.Query("role")),
	}
	if raw := strings.TrimSpace(c.Query("slugs")); raw != "" {
		filter.Slugs = strings.Split(raw, ",")
	}
	users, total, err := h.UserService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, users, response.Pagination{
		Skip:  filter.Skip,
		Limit: filter.Limit,
		Total: total,
	})
}
