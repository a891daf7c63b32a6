package models

import (
	"time"

	"gorm.io/gorm"
)

// Card 会员卡实例表。购卡时快照卡种字段，后续卡种的管理性修改不影响已售卡。
type Card struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                 // 主键
	CustomerID        uint           `gorm:"index;not null" json:"-"`                              // 持卡客户ID
	CardTypeID        uint           `gorm:"index;not null" json:"-"`                              // 卡种ID
	TimesLeft         int            `gorm:"not null;default:0" json:"timesLeft"`                  // 剩余次数
	Num               string         `gorm:"index" json:"num,omitempty"`                           // 实体卡号
	Status            string         `gorm:"index;not null" json:"status"`                         // 卡状态
	GiftCode          string         `gorm:"index" json:"giftCode,omitempty"`                      // 礼品码（转赠凭证，核销后置空）
	GiftRedeemed      bool           `gorm:"not null;default:false" json:"-"`                      // 礼品码是否已被领取（仅允许一次转赠）
	Title             string         `gorm:"not null" json:"title"`                                // 卡种名称快照
	Slug              string         `gorm:"index;not null" json:"slug"`                           // 卡种标识快照
	Type              string         `gorm:"index;not null" json:"type"`                           // 卡种类型快照
	IsGift            bool           `gorm:"not null;default:false" json:"isGift"`                 // 是否礼品卡
	Content           string         `gorm:"type:text" json:"content"`                             // 卡种说明快照
	Times             int            `gorm:"not null;default:0" json:"times"`                      // 总次数快照（0 为期限内不限次）
	Start             time.Time      `json:"start"`                                                // 有效期开始
	End               time.Time      `gorm:"index" json:"end"`                                     // 有效期结束（礼品卡以激活时间另算）
	Balance           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance"` // 储值面额快照
	Price             Money          `gorm:"type:decimal(20,2);not null" json:"price"`             // 购卡价格
	MaxKids           int            `gorm:"not null;default:1" json:"maxKids"`                    // 单次核销覆盖的儿童数
	FreeParentsPerKid int            `gorm:"not null;default:1" json:"freeParentsPerKid"`          // 每儿童免费陪同成人数
	OverPrice         *Money         `gorm:"type:decimal(20,2)" json:"overPrice,omitempty"`        // 超出覆盖儿童数的加收单价
	DiscountPrice     *Money         `gorm:"type:decimal(20,2)" json:"discountPrice,omitempty"`    // 核销一口价
	DiscountRate      *float64       `json:"discountRate,omitempty"`                               // 核销折扣率
	ActivatedAt       *time.Time     `gorm:"index" json:"activatedAt,omitempty"`                   // 激活时间
	CreatedAt         time.Time      `gorm:"index" json:"createdAt"`                               // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updatedAt"`                               // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间

	Customer *User     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"` // 持卡客户
	CardType *CardType `gorm:"foreignKey:CardTypeID" json:"-"`                  // 卡种
	Payments []Payment `gorm:"foreignKey:CardID" json:"payments,omitempty"`     // 购卡支付记录
}

// TableName 指定表名
func (Card) TableName() string {
	return "cards"
}

// WindowEnd 返回实际有效期终点。礼品卡有效时长从激活时刻重新起算，
// 未激活时沿用卡种有效期终点。
func (c *Card) WindowEnd() time.Time {
	if c.IsGift && c.ActivatedAt != nil {
		duration := c.End.Sub(c.Start)
		if duration > 0 {
			return c.ActivatedAt.Add(duration)
		}
	}
	return c.End
}

// LimitedTimes 判断是否为计次卡（times = 0 的卡在期限内不限次）
func (c *Card) LimitedTimes() bool {
	return c.Times > 0
}
