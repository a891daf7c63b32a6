package repository

// BookingListFilter 查询预约列表的过滤条件
type BookingListFilter struct {
	ListQuery
	Statuses        []string
	Type            string
	StoreID         uint
	Date            string
	CustomerID      uint
	CustomerKeyword string
	EventID         uint
	GiftID          uint
	CouponID        uint
}

// CardListFilter 查询会员卡列表的过滤条件
type CardListFilter struct {
	ListQuery
	Statuses   []string
	CustomerID uint
	Slug       string
}

// CardTypeListFilter 查询卡种列表的过滤条件
type CardTypeListFilter struct {
	ListQuery
	StoreID       uint
	OpenForClient *bool
}

// CouponListFilter 查询优惠券列表的过滤条件
type CouponListFilter struct {
	ListQuery
	StoreID uint
	Enabled *bool
}

// EventListFilter 查询活动列表的过滤条件
type EventListFilter struct {
	ListQuery
	Keyword string
	StoreID uint
}

// GiftListFilter 查询礼品列表的过滤条件
type GiftListFilter struct {
	ListQuery
	Keyword string
	StoreID uint
}

// PaymentListFilter 查询支付列表的过滤条件
type PaymentListFilter struct {
	ListQuery
	Date       string
	Paid       *bool
	CustomerID uint
	BookingID  uint
	Attach     string
	Gateway    string
	Direction  string // payment / refund
}

// StoreListFilter 查询门店列表的过滤条件
type StoreListFilter struct {
	ListQuery
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	ListQuery
	Keyword string
	Role    string
	Slugs   []string // 按持卡卡种筛选
}

// PostListFilter 查询公告列表的过滤条件
type PostListFilter struct {
	ListQuery
	Slug string
	Tag  string
}
