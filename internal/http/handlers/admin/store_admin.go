package admin

import (
	handlershared "github.com/funfair-next/internal/http/handlers/shared"
	"github.com/funfair-next/internal/http/response"
	"github.com/funfair-next/internal/repository"
	"github.com/funfair-next/internal/service"

	"github.com/gin-gonic/gin"
)

// StoreRequest 门店创建/更新请求
type StoreRequest struct {
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Content    string `json:"content"`
	PosterURL  string `json:"posterUrl"`
	PartyRooms int    `json:"partyRooms"`
	IP         string `json:"ip"`
}

func (r StoreRequest) toInput() service.StoreInput {
	return service.StoreInput{
		Name:       r.Name,
		Address:    r.Address,
		Phone:      r.Phone,
		Content:    r.Content,
		PosterURL:  r.PosterURL,
		PartyRooms: r.PartyRooms,
		IP:         r.IP,
	}
}

// CreateStore 创建门店
func (h *Handler) CreateStore(c *gin.Context) {
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	store, err := h.StoreService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, store)
}

// UpdateStore 更新门店
func (h *Handler) UpdateStore(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "门店ID不合法", nil)
		return
	}
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	store, err := h.StoreService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, store)
}

// GetStore 查询门店详情
func (h *Handler) GetStore(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "门店ID不合法", nil)
		return
	}
	store, err := h.StoreService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, store)
}

// DeleteStore 删除门店
func (h *Handler) DeleteStore(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "门店ID不合法", nil)
		return
	}
	if err := h.StoreService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListStores 查询门店列表
func (h *Handler) ListStores(c *gin.Context) {
	filter := repository.StoreListFilter{
		ListQuery: handlershared.ParseListQuery(c),
	}
	stores, total, err := h.StoreService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, stores, response.Pagination{
		Skip:  filter.Skip,
		Limit: filter.Limit,
		Total: total,
	})
}
