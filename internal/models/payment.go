package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment 支付记录表。退款记录通过 OriginalID 指回原支付。
type Payment struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                // 主键
	CustomerID         uint           `gorm:"index;not null" json:"-"`                             // 客户ID
	BookingID          *uint          `gorm:"index" json:"-"`                                      // 关联预约ID
	CardID             *uint          `gorm:"index" json:"-"`                                      // 关联会员卡ID（购卡支付）
	Amount             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"` // 支付金额
	AmountForceDeposit *Money         `gorm:"type:decimal(20,2)" json:"amountForceDeposit,omitempty"` // 指定从储值余额扣除的金额
	AmountDeposit      *Money         `gorm:"type:decimal(20,2)" json:"amountDeposit,omitempty"`   // 实际从储值余额扣除的金额
	AmountInPoints     *int           `json:"amountInPoints,omitempty"`                            // 积分支付数额
	Paid               bool           `gorm:"index;not null;default:false" json:"paid"`            // 是否已支付
	Title              string         `gorm:"not null" json:"title"`                               // 账单标题
	Attach             string         `gorm:"index" json:"attach"`                                 // 业务附言（booking/card 等）
	Gateway            string         `gorm:"index;not null" json:"gateway"`                       // 支付网关
	GatewayData        JSON           `gorm:"type:json" json:"gatewayData"`                        // 网关侧原始数据
	OriginalID         *uint          `gorm:"index" json:"original,omitempty"`                     // 原支付ID（退款记录）
	PaidAt             *time.Time     `gorm:"index" json:"paidAt,omitempty"`                       // 支付完成时间
	CreatedAt          time.Time      `gorm:"index" json:"createdAt"`                              // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updatedAt"`                              // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间

	Customer *User `gorm:"foreignKey:CustomerID" json:"customer,omitempty"` // 客户
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}

// Refund 判断是否为退款记录
func (p *Payment) Refund() bool {
	return p.OriginalID != nil
}

// BalanceSplit 还原余额网关支付的储值/赠送扣款拆分。
// 赠送部分未单独落列，由总额减去储值部分推得。
func (p *Payment) BalanceSplit() (deposit, reward decimal.Decimal) {
	if p.AmountDeposit != nil {
		deposit = p.AmountDeposit.Decimal
	}
	reward = p.Amount.Decimal.Sub(deposit)
	if reward.IsNegative() {
		reward = decimal.Zero
	}
	return deposit, reward
}
