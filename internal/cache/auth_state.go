package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/funfair-next/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// UserAuthState 员工鉴权快照，仅用于服务端 Redis 缓存，
// 避免每个请求都回查数据库。
type UserAuthState struct {
	UserID    uint   `json:"user_id"`
	Login     string `json:"login"`
	Role      string `json:"role"`
	StoreID   uint   `json:"store_id"`
	UpdatedAt int64  `json:"updated_at"`
}

func userAuthStateKey(userID uint) string {
	return fmt.Sprintf("auth:user:%d", userID)
}

// BuildUserAuthState 从用户模型构建鉴权快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	state := &UserAuthState{
		UserID:    user.ID,
		Login:     user.Login,
		Role:      user.Role,
		UpdatedAt: time.Now().Unix(),
	}
	if user.StoreID != nil {
		state.StoreID = *user.StoreID
	}
	return state
}

// GetUserAuthState 获取员工鉴权快照
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserAuthState
	hit, err := GetJSON(ctx, userAuthStateKey(userID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetUserAuthState 写入员工鉴权快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, userAuthStateKey(state.UserID), state, authStateCacheTTL)
}

// DelUserAuthState 删除员工鉴权快照
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, userAuthStateKey(userID))
}
