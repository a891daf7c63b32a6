package public

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// WechatNotify 微信支付回调。验签与结算失败返回非 200，微信侧会重试
func (h *Handler) WechatNotify(c *gin.Context) {
	log := requestLog(c)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warnw("wechat_notify_body_read_failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": "FAIL", "message": "失败"})
		return
	}

	headers := make(map[string]string)
	for key, values := range c.Request.Header {
		if len(values) == 0 {
			continue
		}
		headers[key] = values[0]
	}

	if err := h.PaymentService.HandleWechatNotify(c.Request.Context(), headers, body); err != nil {
		log.Warnw("wechat_notify_handle_failed", "client_ip", c.ClientIP(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": "失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "message": "成功"})
}

// AlipayNotify 支付宝回调。验签通过后返回 success，否则返回 failure
func (h *Handler) AlipayNotify(c *gin.Context) {
	log := requestLog(c)
	if err := c.Request.ParseForm(); err != nil {
		log.Warnw("alipay_notify_parse_form_failed", "error", err)
		c.String(http.StatusOK, "failure")
		return
	}

	if err := h.PaymentService.HandleAlipayNotify(c.Request.PostForm); err != nil {
		log.Warnw("alipay_notify_handle_failed", "client_ip", c.ClientIP(), "error", err)
		c.String(http.StatusOK, "failure")
		return
	}
	c.String(http.StatusOK, "success")
}
