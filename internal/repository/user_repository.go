package repository

import (
	"errors"

	"github.com/funfair-next/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetWithCards(id uint) (*models.User, error)
	GetByLogin(login string) (*models.User, error)
	GetByMobile(mobile string) (*models.User, error)
	GetByOpenID(openID string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	UpdateFields(id uint, updates map[string]interface{}) error
	AdjustBalances(id uint, deltaDeposit, deltaReward models.Money, deltaPoints int) (bool, error)
	List(filter UserListFilter) ([]models.User, int64, error)
	WithTx(tx *gorm.DB) UserRepository
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) UserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// GetByID 根据ID获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Store").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetWithCards 获取用户及其名下会员卡
func (r *GormUserRepository) GetWithCards(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Store").Preload("Cards").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByLogin 根据登录名获取用户
func (r *GormUserRepository) GetByLogin(login string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("login = ?", login).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByMobile 根据手机号获取用户
func (r *GormUserRepository) GetByMobile(mobile string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("mobile = ?", mobile).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByOpenID 根据微信 OpenID 获取用户
func (r *GormUserRepository) GetByOpenID(openID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("open_id = ?", openID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateFields 部分字段更新
func (r *GormUserRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

// AdjustBalances 按增量调整储值余额、赠送余额与积分。
// 条件更新保证三项都不会为负，返回 false 表示余额或积分不足。
func (r *GormUserRepository) AdjustBalances(id uint, deltaDeposit, deltaReward models.Money, deltaPoints int) (bool, error) {
	result := r.db.Model(&models.User{}).
		Where("id = ?", id).
		Where("balance_deposit + ? >= 0", deltaDeposit).
		Where("balance_reward + ? >= 0", deltaReward).
		Where("points + ? >= 0", deltaPoints).
		UpdateColumns(map[string]interface{}{
			"balance_deposit": gorm.Expr("balance_deposit + ?", deltaDeposit),
			"balance_reward":  gorm.Expr("balance_reward + ?", deltaReward),
			"points":          gorm.Expr("points + ?", deltaPoints),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List 获取用户列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	var users []models.User
	query := r.db.Model(&models.User{})

	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR mobile LIKE ? OR login LIKE ?", kw, kw, kw)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if len(filter.Slugs) > 0 {
		sub := r.db.Model(&models.Card{}).
			Select("customer_id").
			Where("slug IN ?", filter.Slugs)
		query = query.Where("id IN (?)", sub)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListQuery(query, filter.ListQuery)
	if err := query.Preload("Store").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
