package shared

import (
	"errors"

	"github.com/funfair-next/internal/http/response"
	"github.com/funfair-next/internal/logger"
	"github.com/funfair-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.S().With("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondServiceError 把业务错误映射为统一响应码。未识别的错误按内部错误处理并记录日志。
func RespondServiceError(c *gin.Context, err error) {
	code, known := serviceErrorCode(err)
	if known {
		response.Error(c, code, err.Error())
		return
	}
	RequestLog(c).Errorw("handler_unexpected_error", "error", err)
	response.Error(c, response.CodeInternal, "服务内部错误")
}

func serviceErrorCode(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrStoreNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCardTypeNotFound),
		errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, service.ErrCouponNotFound),
		errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrGiftNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrPostNotFound):
		return response.CodeNotFound, true
	case errors.Is(err, service.ErrSchemaViolation),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrBookingNotPayable),
		errors.Is(err, service.ErrCardNotUsable),
		errors.Is(err, service.ErrExpiredPromotion),
		errors.Is(err, service.ErrPriceMismatch),
		errors.Is(err, service.ErrUnsupportedGateway):
		return response.CodeBadRequest, true
	case errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrInsufficientCardUses),
		errors.Is(err, service.ErrCardLimitExceeded),
		errors.Is(err, service.ErrGiftAlreadyRedeemed),
		errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, service.ErrInsufficientPoints),
		errors.Is(err, service.ErrPaymentAlreadyCompleted),
		errors.Is(err, service.ErrDuplicateLogin),
		errors.Is(err, service.ErrDuplicateStoreName),
		errors.Is(err, service.ErrDuplicateSlug):
		return response.CodeConflict, true
	case errors.Is(err, service.ErrInvalidCredentials):
		return response.CodeUnauthorized, true
	case errors.Is(err, service.ErrForbidden):
		return response.CodeForbidden, true
	case errors.Is(err, service.ErrLoginRateLimited):
		return response.CodeTooManyRequests, true
	case errors.Is(err, service.ErrPaymentGatewayUnready):
		return response.CodeInternal, true
	}
	return 0, false
}
