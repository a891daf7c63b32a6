package models

import (
	"github.com/funfair-next/internal/constants"
	"github.com/funfair-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin 初始化默认管理员账号（仅当库中没有任何员工时）
func InitDefaultAdmin(login, password string) error {
	var count int64
	DB.Model(&User{}).
		Where("role IN ?", []string{constants.UserRoleAdmin, constants.UserRoleManager, constants.UserRoleStaff}).
		Count(&count)
	if count > 0 {
		return nil
	}

	if login == "" {
		login = "admin"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Role:         constants.UserRoleAdmin,
		Login:        login,
		PasswordHash: string(hash),
		Name:         "系统管理员",
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "login", login)
		logger.Warnw("default_admin_password_change_required", "login", login)
	} else {
		logger.Warnw("default_admin_created", "login", login, "password_hidden", true)
	}
	return nil
}
