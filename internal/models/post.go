package models

import (
	"time"

	"gorm.io/gorm"
)

// Post 公告表（后台首页公告与活动通知）
type Post struct {
	ID        uint           `gorm:"primarykey" json:"id"`               // 主键
	Title     string         `gorm:"not null" json:"title"`              // 标题
	Slug      string         `gorm:"uniqueIndex" json:"slug,omitempty"`  // 唯一标识
	Content   string         `gorm:"type:text" json:"content"`           // 内容
	Tags      StringArray    `gorm:"type:text" json:"tags"`              // 标签
	PosterURL *string        `gorm:"type:varchar(500)" json:"posterUrl"` // 海报（可为空）
	Target    string         `gorm:"index" json:"target,omitempty"`      // 投放目标
	AuthorID  *uint          `gorm:"index" json:"-"`                     // 作者ID
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`             // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updatedAt"`             // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                     // 软删除时间

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"` // 作者
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}
