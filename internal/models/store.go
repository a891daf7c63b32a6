package models

import (
	"time"

	"gorm.io/gorm"
)

// Store 门店表
type Store struct {
	ID         uint           `gorm:"primarykey" json:"id"`            // 主键
	Name       string         `gorm:"uniqueIndex;not null" json:"name"` // 门店名称
	Address    string         `gorm:"type:varchar(500)" json:"address"` // 地址
	Phone      string         `gorm:"type:varchar(50)" json:"phone"`    // 联系电话
	Content    string         `gorm:"type:text" json:"content"`         // 门店介绍
	PosterURL  string         `gorm:"type:varchar(500)" json:"posterUrl"` // 门店海报
	PartyRooms int            `gorm:"not null;default:0" json:"partyRooms"` // 派对房数量
	IP         string         `gorm:"type:varchar(64)" json:"ip"`       // 门店终端IP
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`           // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updatedAt"`           // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                   // 软删除时间
}

// TableName 指定表名
func (Store) TableName() string {
	return "stores"
}
