package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券表（门店级促销券，核销到预约前不绑定客户）
type Coupon struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                           // 主键
	Title             string         `gorm:"not null" json:"title"`                                          // 券名称
	StoreID           *uint          `gorm:"index" json:"-"`                                                 // 限定门店ID
	Content           string         `gorm:"type:text" json:"content"`                                       // 券说明
	KidsCount         int            `gorm:"not null;default:1" json:"kidsCount"`                            // 覆盖儿童数
	Price             Money          `gorm:"type:decimal(20,2);not null" json:"price"`                       // 抵扣金额
	PriceThirdParty   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"priceThirdParty"`   // 第三方结算价
	FreeParentsPerKid int            `gorm:"not null;default:1" json:"freeParentsPerKid"`                    // 每儿童免费陪同成人数
	Start             time.Time      `json:"start"`                                                          // 生效时间
	End               time.Time      `gorm:"index" json:"end"`                                               // 失效时间
	Enabled           bool           `gorm:"not null;default:true;index" json:"enabled"`                     // 是否可核销
	CreatedAt         time.Time      `gorm:"index" json:"createdAt"`                                         // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updatedAt"`                                         // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间

	Store *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"` // 限定门店
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}

// Redeemable 判断当前时刻是否可核销
func (c *Coupon) Redeemable(now time.Time) bool {
	if !c.Enabled {
		return false
	}
	if !c.Start.IsZero() && now.Before(c.Start) {
		return false
	}
	if !c.End.IsZero() && now.After(c.End) {
		return false
	}
	return true
}
