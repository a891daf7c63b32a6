package constants

// 预约状态常量
const (
	BookingStatusPending       = "pending"
	BookingStatusBooked        = "booked"
	BookingStatusInService     = "in_service"
	BookingStatusPendingRefund = "pending_refund"
	BookingStatusFinished      = "finished"
	BookingStatusCanceled      = "canceled"
)

// 预约类型常量
const (
	BookingTypePlay  = "play"
	BookingTypeParty = "party"
	BookingTypeEvent = "event"
	BookingTypeGift  = "gift"
	BookingTypeFood  = "food"
)

// 会员卡状态常量
const (
	CardStatusPending   = "pending"   // 待支付
	CardStatusValid     = "valid"     // 已支付、礼品卡未激活
	CardStatusActivated = "activated" // 可用于核销预约
	CardStatusExpired   = "expired"   // 次数用尽或超出有效期
	CardStatusCanceled  = "canceled"  // 未支付即作废
)

// 卡种类型常量
const (
	CardTypeKindTimes   = "times"   // 次卡
	CardTypeKindPeriod  = "period"  // 期限卡（期限内不限次）
	CardTypeKindBalance = "balance" // 储值卡
)

// 支付网关常量
const (
	PaymentGatewayBalance  = "balance"
	PaymentGatewayPoints   = "points"
	PaymentGatewayCard     = "card"
	PaymentGatewayCoupon   = "coupon"
	PaymentGatewayScan     = "scan"
	PaymentGatewayCash     = "cash"
	PaymentGatewayWechat   = "wechat"
	PaymentGatewayAlipay   = "alipay"
	PaymentGatewayUnionpay = "unionpay"
)

// 用户角色常量
const (
	UserRoleAdmin    = "admin"
	UserRoleManager  = "manager"
	UserRoleStaff    = "staff"
	UserRoleCustomer = "customer"
)

// 配置项键名常量（settings 表，覆盖 config.yml 的场馆计价默认值）
const (
	SettingKeySockPrice               = "pricing.sock_price"
	SettingKeyExtraParentFullDayPrice = "pricing.extra_parent_full_day_price"
	SettingKeyKidFullDayPrice         = "pricing.kid_full_day_price"
	SettingKeyFreeParentsPerKid       = "pricing.free_parents_per_kid"
)

// 队列与任务常量
const (
	QueueDefault             = "default"
	QueueCritical            = "critical"
	TaskBookingTimeoutCancel = "booking:timeout_cancel"
	TaskCardExpireSweep      = "card:expire_sweep"
)

var bookingStatuses = map[string]bool{
	BookingStatusPending:       true,
	BookingStatusBooked:        true,
	BookingStatusInService:     true,
	BookingStatusPendingRefund: true,
	BookingStatusFinished:      true,
	BookingStatusCanceled:      true,
}

var bookingTypes = map[string]bool{
	BookingTypePlay:  true,
	BookingTypeParty: true,
	BookingTypeEvent: true,
	BookingTypeGift:  true,
	BookingTypeFood:  true,
}

var cardStatuses = map[string]bool{
	CardStatusPending:   true,
	CardStatusValid:     true,
	CardStatusActivated: true,
	CardStatusExpired:   true,
	CardStatusCanceled:  true,
}

var cardTypeKinds = map[string]bool{
	CardTypeKindTimes:   true,
	CardTypeKindPeriod:  true,
	CardTypeKindBalance: true,
}

var paymentGateways = map[string]bool{
	PaymentGatewayBalance:  true,
	PaymentGatewayPoints:   true,
	PaymentGatewayCard:     true,
	PaymentGatewayCoupon:   true,
	PaymentGatewayScan:     true,
	PaymentGatewayCash:     true,
	PaymentGatewayWechat:   true,
	PaymentGatewayAlipay:   true,
	PaymentGatewayUnionpay: true,
}

var userRoles = map[string]bool{
	UserRoleAdmin:    true,
	UserRoleManager:  true,
	UserRoleStaff:    true,
	UserRoleCustomer: true,
}

// ValidBookingStatus 判断预约状态是否属于已知枚举
func ValidBookingStatus(status string) bool {
	return bookingStatuses[status]
}

// ValidBookingType 判断预约类型是否属于已知枚举
func ValidBookingType(bookingType string) bool {
	return bookingTypes[bookingType]
}

// ValidCardStatus 判断会员卡状态是否属于已知枚举
func ValidCardStatus(status string) bool {
	return cardStatuses[status]
}

// ValidCardTypeKind 判断卡种类型是否属于已知枚举
func ValidCardTypeKind(kind string) bool {
	return cardTypeKinds[kind]
}

// ValidPaymentGateway 判断支付网关是否属于已知枚举
func ValidPaymentGateway(gateway string) bool {
	return paymentGateways[gateway]
}

// ValidUserRole 判断用户角色是否属于已知枚举
func ValidUserRole(role string) bool {
	return userRoles[role]
}

// StaffRole 判断角色是否为门店工作人员（可登录后台）
func StaffRole(role string) bool {
	return role == UserRoleAdmin || role == UserRoleManager || role == UserRoleStaff
}

// OnlinePaymentGateway 判断网关是否走线上支付回调（其余为柜台记账网关）
func OnlinePaymentGateway(gateway string) bool {
	return gateway == PaymentGatewayWechat || gateway == PaymentGatewayAlipay || gateway == PaymentGatewayScan
}
