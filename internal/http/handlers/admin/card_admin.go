package admin

import (
	"strings"

	handlershared "github.com/funfair-next/internal/http/handlers/shared"
	"github.com/funfair-next/internal/http/response"
	"github.com/funfair-next/internal/repository"
	"github.com/funfair-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PurchaseCardRequest 开卡请求
type PurchaseCardRequest struct {
	CustomerID uint   `json:"customerId" binding:"required"`
	CardTypeID uint   `json:"cardTypeId" binding:"required"`
	Num        string `json:"num"`
}

// PurchaseCard 按卡种开卡
func (h *Handler) PurchaseCard(c *gin.Context) {
	var req PurchaseCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}

	card, payment, err := h.CardService.PurchaseCard(service.PurchaseCardInput{
		CustomerID:             req.CustomerID,
		CardTypeID:             req.CardTypeID,
		Num:                    strings.TrimSpace(req.Num),
		PaymentGateway:         strings.TrimSpace(c.Query("paymentGateway")),
		AdminAddWithoutPayment: c.Query("adminAddWithoutPayment") == "true",
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"card": card, "payment": payment})
}

// ListCards 查询会员卡列表
func (h *Handler) ListCards(c *gin.Context) {
	filter := repository.CardListFilter{
		ListQuery:  handlershared.ParseListQuery(c),
		CustomerID: handlershared.ParseUintQuery(c, "customerId"),
		Slug:       strings.TrimSpace(c.Query("slug")),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		filter.Statuses = strings.Split(raw, ",")
	}

	cards, total, err := h.CardService.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, cards, response.Pagination{
		Skip:  filter.Skip,
		Limit: filter.Limit,
		Total: total,
	})
}

// GetCard 查询会员卡详情
func (h *Handler) GetCard(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "会员卡ID不合法", nil)
		return
	}
	card, err := h.CardService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, card)
}

// UpdateCardRequest 会员卡修正请求
type UpdateCardRequest struct {
	Num     *string `json:"num"`
	Remarks *string `json:"remarks"`
}

// UpdateCard 更新会员卡可编辑字段
func (h *Handler) UpdateCard(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "会员卡ID不合法", nil)
		return
	}
	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}

	updates := map[string]interface{}{}
	if req.Num != nil {
		updates["num"] = strings.TrimSpace(*req.Num)
	}
	if req.Remarks != nil {
		updates["remarks"] = *req.Remarks
	}
	if len(updates) == 0 {
		respondError(c, response.CodeBadRequest, "没有可更新的字段", nil)
		return
	}

	card, err := h.CardService.UpdateFields(id, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, card)
}

// CancelPendingCard 作废未支付的会员卡
func (h *Handler) CancelPendingCard(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "会员卡ID不合法", nil)
		return
	}
	if err := h.CardService.CancelPending(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// RedeemGiftRequest 礼品卡兑换请求
type RedeemGiftRequest struct {
	GiftCode    string `json:"giftCode" binding:"required"`
	RecipientID uint   `json:"recipientId" binding:"required"`
}

// RedeemGiftCard 礼品卡兑换激活
func (h *Handler) RedeemGiftCard(c *gin.Context) {
	var req RedeemGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求数据不合法", err)
		return
	}
	card, err := h.CardService.RedeemGift(strings.TrimSpace(req.GiftCode), req.RecipientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, card)
}
