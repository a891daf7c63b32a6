package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking 预约表（核心交易记录，只做状态流转、从不删除）
type Booking struct {
	ID           uint           `gorm:"primarykey" json:"id"`                      // 主键
	BookingNo    string         `gorm:"uniqueIndex;not null" json:"bookingNo"`     // 预约编号
	CustomerID   uint           `gorm:"index;not null" json:"-"`                   // 客户ID
	StoreID      uint           `gorm:"index;not null" json:"-"`                   // 门店ID
	Type         string         `gorm:"index;not null" json:"type"`                // 预约类型
	Date         string         `gorm:"index;type:varchar(20);not null" json:"date"` // 预约日期（YYYY-MM-DD）
	CheckInAt    *time.Time     `gorm:"index" json:"checkInAt,omitempty"`          // 入场时间
	AdultsCount  int            `gorm:"not null;default:0" json:"adultsCount"`     // 成人数
	KidsCount    int            `gorm:"not null;default:0" json:"kidsCount"`       // 儿童数
	SocksCount   int            `gorm:"not null;default:0" json:"socksCount"`      // 袜子数
	BandsPrinted int            `gorm:"not null;default:0" json:"bandsPrinted"`    // 已打印手环数
	Status       string         `gorm:"index;not null" json:"status"`              // 预约状态
	Price        *Money         `gorm:"type:decimal(20,2)" json:"price,omitempty"` // 应付金额
	PriceInPoints *int          `json:"priceInPoints,omitempty"`                   // 应付积分
	CardID       *uint          `gorm:"index" json:"-"`                            // 核销的会员卡ID
	CouponID     *uint          `gorm:"index" json:"-"`                            // 核销的优惠券ID
	EventID      *uint          `gorm:"index" json:"-"`                            // 关联活动ID
	GiftID       *uint          `gorm:"index" json:"-"`                            // 关联礼品ID
	Quantity     *int           `json:"quantity,omitempty"`                        // 兑换数量（礼品预约）
	Remarks      string         `gorm:"type:text" json:"remarks,omitempty"`        // 备注
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`                    // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updatedAt"`                    // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间

	Customer *User     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"` // 客户
	Store    *Store    `gorm:"foreignKey:StoreID" json:"store,omitempty"`       // 门店
	Card     *Card     `gorm:"foreignKey:CardID" json:"card,omitempty"`         // 核销的会员卡
	Coupon   *Coupon   `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`     // 核销的优惠券
	Event    *Event    `gorm:"foreignKey:EventID" json:"event,omitempty"`       // 关联活动
	Gift     *Gift     `gorm:"foreignKey:GiftID" json:"gift,omitempty"`         // 关联礼品
	Payments []Payment `gorm:"foreignKey:BookingID" json:"payments,omitempty"`  // 结算支付记录
}

// TableName 指定表名
func (Booking) TableName() string {
	return "bookings"
}
