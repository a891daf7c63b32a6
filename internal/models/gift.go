package models

import (
	"time"

	"gorm.io/gorm"
)

// Gift 礼品表（积分或现金兑换的实物礼品）
type Gift struct {
	ID            uint           `gorm:"primarykey" json:"id"`                      // 主键
	Title         string         `gorm:"not null" json:"title"`                     // 礼品名称
	Content       string         `gorm:"type:text" json:"content"`                  // 礼品说明
	PosterURL     *string        `gorm:"type:varchar(500)" json:"posterUrl"`        // 海报（可为空）
	Quantity      int            `gorm:"not null;default:0" json:"quantity"`        // 剩余数量
	PriceInPoints int            `gorm:"not null;default:0" json:"priceInPoints"`   // 积分价
	Price         *Money         `gorm:"type:decimal(20,2)" json:"price,omitempty"` // 现金价
	StoreID       uint           `gorm:"index;not null" json:"-"`                   // 所属门店ID
	CreatedAt     time.Time      `gorm:"index" json:"createdAt"`                    // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updatedAt"`                    // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间

	Store *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"` // 所属门店
}

// TableName 指定表名
func (Gift) TableName() string {
	return "gifts"
}
