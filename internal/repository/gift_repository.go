package repository

import (
	"errors"

	"github.com/funfair-next/internal/models"

	"gorm.io/gorm"
)

// GiftRepository 礼品数据访问接口
type GiftRepository interface {
	GetByID(id uint) (*models.Gift, error)
	Create(gift *models.Gift) error
	Update(gift *models.Gift) error
	DecrementQuantity(id uint, delta int) (bool, error)
	IncrementQuantity(id uint, delta int) error
	Delete(id uint) error
	List(filter GiftListFilter) ([]models.Gift, int64, error)
	WithTx(tx *gorm.DB) GiftRepository
}

// GormGiftRepository GORM 实现
type GormGiftRepository struct {
	db *gorm.DB
}

// NewGiftRepository 创建礼品仓库
func NewGiftRepository(db *gorm.DB) *GormGiftRepository {
	return &GormGiftRepository{db: db}
}

// WithTx 绑定事务
func (r *GormGiftRepository) WithTx(tx *gorm.DB) GiftRepository {
	if tx == nil {
		return r
	}
	return &GormGiftRepository{db: tx}
}

// GetByID 根据ID获取礼品
func (r *GormGiftRepository) GetByID(id uint) (*models.Gift, error) {
	var gift models.Gift
	if err := r.db.First(&gift, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &gift, nil
}

// Create 创建礼品
func (r *GormGiftRepository) Create(gift *models.Gift) error {
	return r.db.Create(gift).Error
}

// Update 更新礼品
func (r *GormGiftRepository) Update(gift *models.Gift) error {
	return r.db.Save(gift).Error
}

// DecrementQuantity 扣减库存。条件更新保证库存不会为负，返回 false 表示库存不足。
func (r *GormGiftRepository) DecrementQuantity(id uint, delta int) (bool, error) {
	if delta <= 0 {
		delta = 1
	}
	result := r.db.Model(&models.Gift{}).
		Where("id = ? AND quantity >= ?", id, delta).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", delta))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementQuantity 回补库存（取消补偿）
func (r *GormGiftRepository) IncrementQuantity(id uint, delta int) error {
	if delta <= 0 {
		delta = 1
	}
	return r.db.Model(&models.Gift{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta)).Error
}

// Delete 删除礼品（软删除）
func (r *GormGiftRepository) Delete(id uint) error {
	return r.db.Delete(&models.Gift{}, id).Error
}

// List 获取礼品列表
func (r *GormGiftRepository) List(filter GiftListFilter) ([]models.Gift, int64, error) {
	var gifts []models.Gift
	query := r.db.Model(&models.Gift{})

	if filter.Keyword != "" {
		query = query.Where("title LIKE ?", "%"+filter.Keyword+"%")
	}
	if filter.StoreID > 0 {
		query = query.Where("store_id = ?", filter.StoreID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListQuery(query, filter.ListQuery)
	if err := query.Find(&gifts).Error; err != nil {
		return nil, 0, err
	}
	return gifts, total, nil
}
