package repository

import (
	"errors"

	"github.com/funfair-next/internal/models"

	"gorm.io/gorm"
)

// CardTypeRepository 卡种数据访问接口
type CardTypeRepository interface {
	GetByID(id uint) (*models.CardType, error)
	GetBySlug(slug string) (*models.CardType, error)
	Create(cardType *models.CardType) error
	Update(cardType *models.CardType) error
	List(filter CardTypeListFilter) ([]models.CardType, int64, error)
	WithTx(tx *gorm.DB) CardTypeRepository
}

// GormCardTypeRepository GORM 实现
type GormCardTypeRepository struct {
	db *gorm.DB
}

// NewCardTypeRepository 创建卡种仓库
func NewCardTypeRepository(db *gorm.DB) *GormCardTypeRepository {
	return &GormCardTypeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCardTypeRepository) WithTx(tx *gorm.DB) CardTypeRepository {
	if tx == nil {
		return r
	}
	return &GormCardTypeRepository{db: tx}
}

// GetByID 根据ID获取卡种
func (r *GormCardTypeRepository) GetByID(id uint) (*models.CardType, error) {
	var cardType models.CardType
	if err := r.db.Preload("Store").First(&cardType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cardType, nil
}

// GetBySlug 根据标识获取卡种
func (r *GormCardTypeRepository) GetBySlug(slug string) (*models.CardType, error) {
	var cardType models.CardType
	if err := r.db.Preload("Store").Where("slug = ?", slug).First(&cardType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cardType, nil
}

// Create 创建卡种
func (r *GormCardTypeRepository) Create(cardType *models.CardType) error {
	return r.db.Create(cardType).Error
}

// Update 更新卡种
func (r *GormCardTypeRepository) Update(cardType *models.CardType) error {
	return r.db.Save(cardType).Error
}

// List 获取卡种列表
func (r *GormCardTypeRepository) List(filter CardTypeListFilter) ([]models.CardType, int64, error) {
	var cardTypes []models.CardType
	query := r.db.Model(&models.CardType{})

	if filter.StoreID > 0 {
		query = query.Where("store_id = ? OR store_id IS NULL", filter.StoreID)
	}
	if filter.OpenForClient != nil {
		query = query.Where("open_for_client = ?", *filter.OpenForClient)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListQuery(query, filter.ListQuery)
	if err := query.Preload("Store").Find(&cardTypes).Error; err != nil {
		return nil, 0, err
	}
	return cardTypes, total, nil
}
