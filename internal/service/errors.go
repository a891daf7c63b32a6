package service

import "errors"

// 业务错误定义
var (
	// 请求数据错误
	ErrSchemaViolation  = errors.New("请求数据不合法")
	ErrInvalidDateRange = errors.New("时间范围不合法")

	// 资源不存在
	ErrStoreNotFound    = errors.New("门店不存在")
	ErrUserNotFound     = errors.New("用户不存在")
	ErrCardTypeNotFound = errors.New("卡种不存在")
	ErrCardNotFound     = errors.New("会员卡不存在")
	ErrCouponNotFound   = errors.New("优惠券不存在")
	ErrEventNotFound    = errors.New("活动不存在")
	ErrGiftNotFound     = errors.New("礼品不存在")
	ErrBookingNotFound  = errors.New("预约不存在")
	ErrPaymentNotFound  = errors.New("支付记录不存在")
	ErrPostNotFound     = errors.New("公告不存在")

	// 预约与生命周期
	ErrInvalidTransition = errors.New("当前状态不允许该操作")
	ErrBookingNotPayable = errors.New("预约不在待支付状态")

	// 核销与库存
	ErrCapacityExceeded        = errors.New("名额或库存不足")
	ErrInsufficientCardUses    = errors.New("会员卡剩余次数不足")
	ErrCardNotUsable           = errors.New("会员卡不可用")
	ErrCardLimitExceeded       = errors.New("超出该卡种每人限购数量")
	ErrExpiredPromotion        = errors.New("优惠券不在有效期内或已停用")
	ErrGiftAlreadyRedeemed     = errors.New("该礼品卡已兑换过礼品")
	ErrInsufficientBalance     = errors.New("账户余额不足")
	ErrInsufficientPoints      = errors.New("积分不足")
	ErrPriceMismatch           = errors.New("结算金额与应收不符")
	ErrUnsupportedGateway      = errors.New("不支持的支付网关")
	ErrPaymentGatewayUnready   = errors.New("支付网关未配置")
	ErrPaymentAlreadyCompleted = errors.New("该账单已完成支付")

	// 认证与权限
	ErrInvalidCredentials = errors.New("账号或密码错误")
	ErrForbidden          = errors.New("没有权限执行该操作")
	ErrLoginRateLimited   = errors.New("登录尝试过于频繁")

	// 唯一性
	ErrDuplicateLogin     = errors.New("登录名已存在")
	ErrDuplicateStoreName = errors.New("门店名称已存在")
	ErrDuplicateSlug      = errors.New("标识已存在")
)
