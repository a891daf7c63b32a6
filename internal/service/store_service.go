package service

import (
	"strings"

	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"
)

// StoreService 门店服务
type StoreService struct {
	repo repository.StoreRepository
}

// NewStoreService 创建门店服务
func NewStoreService(repo repository.StoreRepository) *StoreService {
	return &StoreService{repo: repo}
}

// StoreInput 门店创建/更新输入
type StoreInput struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Content    string `json:"content"`
	PosterURL  string `json:"posterUrl"`
	PartyRooms int    `json:"partyRooms"`
	IP         string `json:"ip"`
}

// Create 创建门店
func (s *StoreService) Create(input StoreInput) (*models.Store, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrSchemaViolation
	}
	existing, err := s.repo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateStoreName
	}
	store := &models.Store{
		Name:       name,
		Address:    input.Address,
		Phone:      input.Phone,
		Content:    input.Content,
		PosterURL:  input.PosterURL,
		PartyRooms: input.PartyRooms,
		IP:         input.IP,
	}
	if err := s.repo.Create(store); err != nil {
		return nil, err
	}
	return store, nil
}

// Update 更新门店
func (s *StoreService) Update(id uint, input StoreInput) (*models.Store, error) {
	store, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	if name := strings.TrimSpace(input.Name); name != "" && name != store.Name {
		existing, err := s.repo.GetByName(name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrDuplicateStoreName
		}
		store.Name = name
	}
	store.Address = input.Address
	store.Phone = input.Phone
	store.Content = input.Content
	store.PosterURL = input.PosterURL
	store.PartyRooms = input.PartyRooms
	store.IP = input.IP
	if err := s.repo.Update(store); err != nil {
		return nil, err
	}
	return store, nil
}

// GetByID 获取门店
func (s *StoreService) GetByID(id uint) (*models.Store, error) {
	store, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// Delete 删除门店
func (s *StoreService) Delete(id uint) error {
	store, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if store == nil {
		return ErrStoreNotFound
	}
	return s.repo.Delete(id)
}

// List 获取门店列表
func (s *StoreService) List(filter repository.StoreListFilter) ([]models.Store, int64, error) {
	return s.repo.List(filter)
}
