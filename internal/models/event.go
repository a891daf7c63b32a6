package models

import (
	"time"

	"gorm.io/gorm"
)

// Event 门店活动表（名额有限的付费活动）
type Event struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                 // 主键
	Title         string         `gorm:"not null" json:"title"`                                // 活动名称
	Content       string         `gorm:"type:text" json:"content,omitempty"`                   // 活动说明
	PosterURL     *string        `gorm:"type:varchar(500)" json:"posterUrl"`                   // 海报（可为空）
	KidsCountMax  *int           `json:"kidsCountMax"`                                         // 名额上限（空为不限）
	KidsCountLeft *int           `json:"kidsCountLeft"`                                        // 剩余名额（空为不限）
	Props         JSON           `gorm:"type:json" json:"props,omitempty"`                     // 扩展属性
	PriceInPoints int            `gorm:"not null;default:0" json:"priceInPoints"`              // 积分价
	Price         *Money         `gorm:"type:decimal(20,2)" json:"price,omitempty"`            // 现金价
	Date          time.Time      `gorm:"index;not null" json:"date"`                           // 活动日期
	StoreID       uint           `gorm:"index;not null" json:"-"`                              // 举办门店ID
	CreatedAt     time.Time      `gorm:"index" json:"createdAt"`                               // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updatedAt"`                               // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间

	Store *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"` // 举办门店
}

// TableName 指定表名
func (Event) TableName() string {
	return "events"
}

// Capped 判断活动是否有名额上限
func (e *Event) Capped() bool {
	return e.KidsCountLeft != nil
}
