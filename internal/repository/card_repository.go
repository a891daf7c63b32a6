package repository

import (
	"errors"

	"github.com/funfair-next/internal/models"

	"gorm.io/gorm"
)

// CardRepository 会员卡数据访问接口
type CardRepository interface {
	GetByID(id uint) (*models.Card, error)
	GetByGiftCode(code string) (*models.Card, error)
	Create(card *models.Card) error
	Update(card *models.Card) error
	UpdateFields(id uint, updates map[string]interface{}) error
	TransitionStatus(id uint, from []string, to string, updates map[string]interface{}) (bool, error)
	ConsumeTimes(id uint, delta int) (bool, error)
	RestoreTimes(id uint, delta int) error
	CountByCustomerAndType(customerID, cardTypeID uint) (int64, error)
	List(filter CardListFilter) ([]models.Card, int64, error)
	ListExpiredCandidates(limit int) ([]models.Card, error)
	WithTx(tx *gorm.DB) CardRepository
}

// GormCardRepository GORM 实现
type GormCardRepository struct {
	db *gorm.DB
}

// NewCardRepository 创建会员卡仓库
func NewCardRepository(db *gorm.DB) *GormCardRepository {
	return &GormCardRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCardRepository) WithTx(tx *gorm.DB) CardRepository {
	if tx == nil {
		return r
	}
	return &GormCardRepository{db: tx}
}

// GetByID 根据ID获取会员卡
func (r *GormCardRepository) GetByID(id uint) (*models.Card, error) {
	var card models.Card
	if err := r.db.Preload("Customer").First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// GetByGiftCode 根据礼品码获取会员卡
func (r *GormCardRepository) GetByGiftCode(code string) (*models.Card, error) {
	var card models.Card
	if err := r.db.Where("gift_code = ?", code).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// Create 创建会员卡
func (r *GormCardRepository) Create(card *models.Card) error {
	return r.db.Create(card).Error
}

// Update 更新会员卡
func (r *GormCardRepository) Update(card *models.Card) error {
	return r.db.Save(card).Error
}

// UpdateFields 更新指定字段
func (r *GormCardRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Card{}).Where("id = ?", id).Updates(updates).Error
}

// TransitionStatus 按当前状态条件流转卡状态；false 表示状态不匹配、零写入
func (r *GormCardRepository) TransitionStatus(id uint, from []string, to string, updates map[string]interface{}) (bool, error) {
	values := map[string]interface{}{"status": to}
	for k, v := range updates {
		values[k] = v
	}
	result := r.db.Model(&models.Card{}).
		Where("id = ?", id).
		Where("status IN ?", from).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ConsumeTimes 扣减剩余次数。条件更新保证 times_left 不会为负；
// 返回 false 表示剩余次数不足。
func (r *GormCardRepository) ConsumeTimes(id uint, delta int) (bool, error) {
	if delta <= 0 {
		delta = 1
	}
	result := r.db.Model(&models.Card{}).
		Where("id = ?", id).
		Where("times_left >= ?", delta).
		UpdateColumn("times_left", gorm.Expr("times_left - ?", delta))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RestoreTimes 回补剩余次数（退款补偿）
func (r *GormCardRepository) RestoreTimes(id uint, delta int) error {
	if delta <= 0 {
		delta = 1
	}
	return r.db.Model(&models.Card{}).
		Where("id = ?", id).
		UpdateColumn("times_left", gorm.Expr("times_left + ?", delta)).Error
}

// CountByCustomerAndType 统计客户持有某卡种的数量（限购校验）
func (r *GormCardRepository) CountByCustomerAndType(customerID, cardTypeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Card{}).
		Where("customer_id = ?", customerID).
		Where("card_type_id = ?", cardTypeID).
		Count(&count).Error
	return count, err
}

// List 获取会员卡列表
func (r *GormCardRepository) List(filter CardListFilter) ([]models.Card, int64, error) {
	var cards []models.Card
	query := r.db.Model(&models.Card{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.CustomerID > 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Slug != "" {
		query = query.Where("slug = ?", filter.Slug)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListQuery(query, filter.ListQuery)
	if err := query.Preload("Customer").Find(&cards).Error; err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// ListExpiredCandidates 获取持久化状态仍为可用但可能已过期的卡（对账任务用）
func (r *GormCardRepository) ListExpiredCandidates(limit int) ([]models.Card, error) {
	if limit <= 0 {
		limit = 200
	}
	var cards []models.Card
	err := r.db.
		Where("status IN ?", []string{"valid", "activated"}).
		Order("id asc").
		Limit(limit).
		Find(&cards).Error
	return cards, err
}
