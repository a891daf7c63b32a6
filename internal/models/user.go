package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（后台员工与到店客户共用，按 role 区分）
type User struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	Role           string         `gorm:"index;not null;default:'customer'" json:"role"`                // 角色（admin/manager/staff/customer）
	Login          string         `gorm:"index" json:"login,omitempty"`                                 // 登录名（员工）
	PasswordHash   string         `gorm:"type:varchar(200)" json:"-"`                                   // 密码哈希（不返回给前端）
	Name           string         `json:"name,omitempty"`                                               // 姓名
	Mobile         string         `gorm:"index" json:"mobile,omitempty"`                                // 手机号
	AvatarURL      string         `gorm:"type:varchar(500)" json:"avatarUrl,omitempty"`                 // 头像
	Region         string         `json:"region,omitempty"`                                             // 地区
	Country        string         `json:"country,omitempty"`                                            // 国家
	IsForeigner    bool           `gorm:"not null;default:false" json:"isForeigner,omitempty"`          // 是否外宾
	Birthday       string         `gorm:"type:varchar(20)" json:"birthday,omitempty"`                   // 生日
	IDCardNo       string         `gorm:"type:varchar(32)" json:"idCardNo,omitempty"`                   // 身份证号
	OpenID         string         `gorm:"index" json:"openid,omitempty"`                                // 微信 openid
	StoreID        *uint          `gorm:"index" json:"-"`                                               // 所属门店ID
	BalanceDeposit Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balanceDeposit"`  // 储值余额（充值来源）
	BalanceReward  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balanceReward"`   // 赠送余额（奖励来源）
	Points         int            `gorm:"not null;default:0" json:"points"`                             // 积分
	CreatedAt      time.Time      `gorm:"index" json:"createdAt"`                                       // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updatedAt"`                                       // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Store *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`   // 所属门店
	Cards []Card `gorm:"foreignKey:CustomerID" json:"cards,omitempty"` // 持有的会员卡
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// Balance 返回储值与赠送余额之和
func (u *User) Balance() Money {
	return NewMoneyFromDecimal(u.BalanceDeposit.Decimal.Add(u.BalanceReward.Decimal))
}
