package service

import (
	"testing"
	"time"

	"github.com/funfair-next/internal/constants"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"

	"github.com/shopspring/decimal"
)

func TestRefundRestoresBothBalanceOrigins(t *testing.T) {
	db := openServiceTestDB(t, "payment_refund_balance")
	svc := NewPaymentService(
		repository.NewPaymentRepository(db),
		nil, nil,
		repository.NewUserRepository(db),
		nil, nil,
	)

	customer := models.User{Role: constants.UserRoleCustomer, Name: "退款客户"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	// 原支付总额 100，其中储值 30、赠送 70
	now := time.Now()
	deposit := models.NewMoneyFromDecimal(decimal.NewFromInt(30))
	original := models.Payment{
		CustomerID:    customer.ID,
		Amount:        models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		AmountDeposit: &deposit,
		Paid:          true,
		Title:         "测试账单",
		Gateway:       constants.PaymentGatewayBalance,
		PaidAt:        &now,
	}
	if err := db.Create(&original).Error; err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	refund, err := svc.Refund(original.ID, "测试退款")
	if err != nil {
		t.Fatalf("refund error: %v", err)
	}
	if !refund.Amount.Decimal.Equal(decimal.NewFromInt(-100)) {
		t.Fatalf("expected refund amount -100, got %s", refund.Amount)
	}
	if refund.AmountDeposit == nil || !refund.AmountDeposit.Decimal.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("refund should carry the deposit split, got %+v", refund.AmountDeposit)
	}

	var reloaded models.User
	if err := db.First(&reloaded, customer.ID).Error; err != nil {
		t.Fatalf("reload customer failed: %v", err)
	}
	if !reloaded.BalanceDeposit.Decimal.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected deposit credited 30, got %s", reloaded.BalanceDeposit)
	}
	if !reloaded.BalanceReward.Decimal.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected reward credited 70, got %s", reloaded.BalanceReward)
	}
}

func TestBalanceSplitWithoutDepositColumn(t *testing.T) {
	p := &models.Payment{Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(80))}
	deposit, reward := p.BalanceSplit()
	if !deposit.IsZero() || !reward.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected 0/80 split, got %s/%s", deposit, reward)
	}
}
