package repository

import (
	"errors"

	"github.com/funfair-next/internal/models"

	"gorm.io/gorm"
)

// BookingRepository 预约数据访问接口
type BookingRepository interface {
	GetByID(id uint) (*models.Booking, error)
	GetByNo(bookingNo string) (*models.Booking, error)
	Create(booking *models.Booking) error
	Update(booking *models.Booking) error
	UpdateFields(id uint, updates map[string]interface{}) error
	TransitionStatus(id uint, from []string, to string, updates map[string]interface{}) (bool, error)
	List(filter BookingListFilter) ([]models.Booking, int64, error)
	WithTx(tx *gorm.DB) BookingRepository
}

// GormBookingRepository GORM 实现
type GormBookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository 创建预约仓库
func NewBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// WithTx 绑定事务
func (r *GormBookingRepository) WithTx(tx *gorm.DB) BookingRepository {
	if tx == nil {
		return r
	}
	return &GormBookingRepository{db: tx}
}

// GetByID 根据ID获取预约（含关联实体与支付记录）
func (r *GormBookingRepository) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.
		Preload("Customer").
		Preload("Store").
		Preload("Card").
		Preload("Coupon").
		Preload("Event").
		Preload("Gift").
		Preload("Payments").
		First(&booking, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// GetByNo 根据预约编号获取预约
func (r *GormBookingRepository) GetByNo(bookingNo string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.
		Preload("Customer").
		Preload("Payments").
		Where("booking_no = ?", bookingNo).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// Create 创建预约
func (r *GormBookingRepository) Create(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

// Update 更新预约
func (r *GormBookingRepository) Update(booking *models.Booking) error {
	return r.db.Save(booking).Error
}

// UpdateFields 更新指定字段
func (r *GormBookingRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Booking{}).Where("id = ?", id).Updates(updates).Error
}

// TransitionStatus 按当前状态条件流转预约状态。
// 返回 false 表示当前状态不在 from 集合内（并发流转或非法边），未产生任何写入。
func (r *GormBookingRepository) TransitionStatus(id uint, from []string, to string, updates map[string]interface{}) (bool, error) {
	values := map[string]interface{}{"status": to}
	for k, v := range updates {
		values[k] = v
	}
	result := r.db.Model(&models.Booking{}).
		Where("id = ?", id).
		Where("status IN ?", from).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List 获取预约列表
func (r *GormBookingRepository) List(filter BookingListFilter) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	query := r.db.Model(&models.Booking{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.StoreID > 0 {
		query = query.Where("store_id = ?", filter.StoreID)
	}
	if filter.Date != "" {
		query = query.Where("date = ?", filter.Date)
	}
	if filter.CustomerID > 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.CustomerKeyword != "" {
		keyword := "%" + filter.CustomerKeyword + "%"
		query = query.Where(
			"customer_id IN (?)",
			r.db.Model(&models.User{}).Select("id").Where("name LIKE ? OR mobile LIKE ?", keyword, keyword),
		)
	}
	if filter.EventID > 0 {
		query = query.Where("event_id = ?", filter.EventID)
	}
	if filter.GiftID > 0 {
		query = query.Where("gift_id = ?", filter.GiftID)
	}
	if filter.CouponID > 0 {
		query = query.Where("coupon_id = ?", filter.CouponID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListQuery(query, filter.ListQuery)
	err := query.
		Preload("Customer").
		Preload("Store").
		Preload("Card").
		Preload("Coupon").
		Preload("Event").
		Preload("Gift").
		Preload("Payments").
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}
