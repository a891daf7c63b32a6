package public

import (
	"github.com/funfair-next/internal/http/response"
	"github.com/funfair-next/internal/repository"
	"github.com/funfair-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetConfig 查询生效中的场馆计价参数
func (h *Handler) GetConfig(c *gin.Context) {
	cfg, err := h.PricingService.Config()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cfg)
}

// ListStores 查询全部门店（不分页，供终端选择门店）
func (h *Handler) ListStores(c *gin.Context) {
	stores, _, err := h.StoreService.List(repository.StoreListFilter{
		ListQuery: repository.ListQuery{NoLimit: true, Order: "id"},
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, stores)
}

// Bootstrap 会话配置装配。请求体为调用方已持有的配置种子，已带字段
// 的分支跳过拉取；持有效凭证时附带当前用户与持卡信息。
func (h *Handler) Bootstrap(c *gin.Context) {
	var seed service.SessionConfig
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&seed); err != nil {
			respondError(c, response.CodeBadRequest, "请求数据不合法", err)
			return
		}
	}

	var userID uint
	if value, ok := c.Get("user_id"); ok {
		if id, isUint := value.(uint); isUint {
			userID = id
		}
	}

	result := h.BootstrapService.Load(c.Request.Context(), service.LoadInput{
		Seed:   seed,
		UserID: userID,
	})
	response.Success(c, result)
}
