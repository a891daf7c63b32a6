package models

import (
	"time"

	"gorm.io/gorm"
)

// CardType 会员卡模板表（可售卡种）
type CardType struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                 // 主键
	Title             string         `gorm:"not null" json:"title"`                                // 卡种名称
	Slug              string         `gorm:"uniqueIndex;not null" json:"slug"`                     // 唯一标识
	Type              string         `gorm:"index;not null" json:"type"`                           // 卡种类型（times/period/balance）
	IsGift            bool           `gorm:"not null;default:false" json:"isGift"`                 // 是否礼品卡
	StoreID           *uint          `gorm:"index" json:"-"`                                       // 限定门店ID（空为全门店通用）
	Content           string         `gorm:"type:text" json:"content"`                             // 卡种说明
	Times             int            `gorm:"not null;default:0" json:"times"`                      // 可用次数（0 为期限内不限次）
	Start             time.Time      `json:"start"`                                                // 有效期开始
	End               time.Time      `gorm:"index" json:"end"`                                     // 有效期结束
	Balance           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance"` // 储值面额
	Price             Money          `gorm:"type:decimal(20,2);not null" json:"price"`             // 售价
	MaxKids           int            `gorm:"not null;default:1" json:"maxKids"`                    // 单次核销覆盖的儿童数
	FreeParentsPerKid int            `gorm:"not null;default:1" json:"freeParentsPerKid"`          // 每儿童免费陪同成人数
	OpenForClient     bool           `gorm:"not null;default:true" json:"openForClient"`           // 是否对客户端开放购买
	CustomerTags      StringArray    `gorm:"type:text" json:"customerTags"`                        // 可购客户标签
	MaxPerCustomer    *int           `json:"maxPerCustomer,omitempty"`                             // 每客户限购数量
	OverPrice         *Money         `gorm:"type:decimal(20,2)" json:"overPrice,omitempty"`        // 超出覆盖儿童数的加收单价
	DiscountPrice     *Money         `gorm:"type:decimal(20,2)" json:"discountPrice,omitempty"`    // 核销时的一口价
	DiscountRate      *float64       `json:"discountRate,omitempty"`                               // 核销时的折扣率
	CreatedAt         time.Time      `gorm:"index" json:"createdAt"`                               // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updatedAt"`                               // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间

	Store *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"` // 限定门店
}

// TableName 指定表名
func (CardType) TableName() string {
	return "card_types"
}
