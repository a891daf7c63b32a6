package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/funfair-next/internal/models"
	"github.com/funfair-next/internal/repository"
)

// SettingService 系统设置服务
type SettingService struct {
	repo repository.SettingRepository
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// GetByKey 获取设置值，不存在时返回 nil
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	setting, err := s.repo.Get(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ValueJSON, nil
}

// Update 写入设置值
func (s *SettingService) Update(key, desc string, value map[string]interface{}) (models.JSON, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrSchemaViolation
	}
	setting := &models.Setting{
		Key:       key,
		Desc:      desc,
		ValueJSON: models.JSON(value),
	}
	if err := s.repo.Upsert(setting); err != nil {
		return nil, err
	}
	return setting.ValueJSON, nil
}

// Delete 删除设置项
func (s *SettingService) Delete(key string) error {
	return s.repo.Delete(key)
}

// List 获取全部设置项
func (s *SettingService) List() ([]models.Setting, error) {
	return s.repo.List()
}

// GetFloat 读取数值型设置，缺失或解析失败时返回默认值。
// 数值型设置以 {"value": n} 形式存储。
func (s *SettingService) GetFloat(key string, defaultValue float64) (float64, error) {
	if s == nil {
		return defaultValue, nil
	}
	value, err := s.GetByKey(key)
	if err != nil {
		return defaultValue, err
	}
	if value == nil {
		return defaultValue, nil
	}
	raw, ok := value["value"]
	if !ok {
		return defaultValue, nil
	}
	parsed, err := parseSettingFloat(raw)
	if err != nil {
		return defaultValue, nil
	}
	if parsed < 0 {
		return defaultValue, nil
	}
	return parsed, nil
}

// GetInt 读取整数型设置，缺失或解析失败时返回默认值
func (s *SettingService) GetInt(key string, defaultValue int) (int, error) {
	parsed, err := s.GetFloat(key, float64(defaultValue))
	if err != nil {
		return defaultValue, err
	}
	return int(parsed), nil
}

func parseSettingFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("empty string")
		}
		return strconv.ParseFloat(trimmed, 64)
	default:
		return 0, fmt.Errorf("unsupported setting value type %T", value)
	}
}
