package service

import (
	"strings"

	"github.com/funfair-next/internal/constants"
	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"
)

// UserService 用户服务（员工与客户共用）
type UserService struct {
	repo      repository.UserRepository
	storeRepo repository.StoreRepository
	auth      *AuthService
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, storeRepo repository.StoreRepository, auth *AuthService) *UserService {
	return &UserService{repo: repo, storeRepo: storeRepo, auth: auth}
}

// UserInput 用户创建/更新输入
type UserInput struct {
	Role        string `json:"role"`
	Login       string `json:"login"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Mobile      string `json:"mobile"`
	AvatarURL   string `json:"avatarUrl"`
	Region      string `json:"region"`
	Country     string `json:"country"`
	IsForeigner bool   `json:"isForeigner"`
	Birthday    string `json:"birthday"`
	IDCardNo    string `json:"idCardNo"`
	OpenID      string `json:"openid"`
	StoreID     *uint  `json:"storeId"`
}

// Create 创建用户。员工角色必须提供登录名与密码
func (s *UserService) Create(input UserInput) (*models.User, error) {
	role := input.Role
	if role == "" {
		role = constants.UserRoleCustomer
	}
	if !constants.ValidUserRole(role) {
		return nil, ErrSchemaViolation
	}
	user := &models.User{
		Role:        role,
		Name:        strings.TrimSpace(input.Name),
		Mobile:      strings.TrimSpace(input.Mobile),
		AvatarURL:   input.AvatarURL,
		Region:      input.Region,
		Country:     input.Country,
		IsForeigner: input.IsForeigner,
		Birthday:    input.Birthday,
		IDCardNo:    input.IDCardNo,
		OpenID:      input.OpenID,
		StoreID:     input.StoreID,
	}
	if constants.StaffRole(role) {
		login := strings.TrimSpace(input.Login)
		if login == "" || len(input.Password) < 8 {
			return nil, ErrSchemaViolation
		}
		existing, err := s.repo.GetByLogin(login)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDuplicateLogin
		}
		hash, err := s.auth.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.Login = login
		user.PasswordHash = hash
	}
	if input.StoreID != nil {
		store, err := s.storeRepo.GetByID(*input.StoreID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, ErrStoreNotFound
		}
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update 更新用户资料。不修改余额与积分，余额变动走支付与退款
func (s *UserService) Update(id uint, input UserInput) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if input.Role != "" && input.Role != user.Role {
		if !constants.ValidUserRole(input.Role) {
			return nil, ErrSchemaViolation
		}
		user.Role = input.Role
	}
	if login := strings.TrimSpace(input.Login); login != "" && login != user.Login {
		existing, err := s.repo.GetByLogin(login)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrDuplicateLogin
		}
		user.Login = login
	}
	if input.Password != "" {
		if len(input.Password) < 8 {
			return nil, ErrSchemaViolation
		}
		hash, err := s.auth.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if input.StoreID != nil {
		store, err := s.storeRepo.GetByID(*input.StoreID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, ErrStoreNotFound
		}
		user.StoreID = input.StoreID
	}
	user.Name = strings.TrimSpace(input.Name)
	user.Mobile = strings.TrimSpace(input.Mobile)
	user.AvatarURL = input.AvatarURL
	user.Region = input.Region
	user.Country = input.Country
	user.IsForeigner = input.IsForeigner
	user.Birthday = input.Birthday
	user.IDCardNo = input.IDCardNo
	if input.OpenID != "" {
		user.OpenID = input.OpenID
	}
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID 获取用户
func (s *UserService) GetByID(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetWithCards 获取用户及其持有的会员卡
func (s *UserService) GetWithCards(id uint) (*models.User, error) {
	user, err := s.repo.GetWithCards(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List 获取用户列表
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.repo.List(filter)
}
