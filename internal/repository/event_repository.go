package repository

import (
	"errors"

	"github.com/funfair-next/internal/models"

	"gorm.io/gorm"
)

// EventRepository 活动数据访问接口
type EventRepository interface {
	GetByID(id uint) (*models.Event, error)
	Create(event *models.Event) error
	Update(event *models.Event) error
	DecrementKidsLeft(id uint, delta int) (bool, error)
	IncrementKidsLeft(id uint, delta int) error
	Delete(id uint) error
	List(filter EventListFilter) ([]models.Event, int64, error)
	WithTx(tx *gorm.DB) EventRepository
}

// GormEventRepository GORM 实现
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository 创建活动仓库
func NewEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// WithTx 绑定事务
func (r *GormEventRepository) WithTx(tx *gorm.DB) EventRepository {
	if tx == nil {
		return r
	}
	return &GormEventRepository{db: tx}
}

// GetByID 根据ID获取活动
func (r *GormEventRepository) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.Preload("Store").First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// Create 创建活动
func (r *GormEventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// Update 更新活动
func (r *GormEventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

// DecrementKidsLeft 扣减剩余名额。名额不限（kids_count_left 为空）时直接成功；
// 条件更新保证名额不会为负，返回 false 表示名额不足。
func (r *GormEventRepository) DecrementKidsLeft(id uint, delta int) (bool, error) {
	if delta <= 0 {
		delta = 1
	}
	result := r.db.Model(&models.Event{}).
		Where("id = ?", id).
		Where("kids_count_left IS NULL OR kids_count_left >= ?", delta).
		UpdateColumn("kids_count_left", gorm.Expr(
			"CASE WHEN kids_count_left IS NULL THEN NULL ELSE kids_count_left - ? END", delta,
		))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementKidsLeft 回补剩余名额（取消补偿）
func (r *GormEventRepository) IncrementKidsLeft(id uint, delta int) error {
	if delta <= 0 {
		delta = 1
	}
	return r.db.Model(&models.Event{}).
		Where("id = ?", id).
		Where("kids_count_left IS NOT NULL").
		UpdateColumn("kids_count_left", gorm.Expr("kids_count_left + ?", delta)).Error
}

// Delete 删除活动（软删除）
func (r *GormEventRepository) Delete(id uint) error {
	return r.db.Delete(&models.Event{}, id).Error
}

// List 获取活动列表
func (r *GormEventRepository) List(filter EventListFilter) ([]models.Event, int64, error) {
	var events []models.Event
	query := r.db.Model(&models.Event{})

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
	if err := query.Preload("Store").Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
