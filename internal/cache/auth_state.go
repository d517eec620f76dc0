package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/dpit-cms/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// UserAuthState 鉴权中间件使用的用户快照，避免每个请求查询 users 表
type UserAuthState struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	IsStaff  bool   `json:"is_staff"`
	CachedAt int64  `json:"cached_at"`
}

// BuildUserAuthState 从用户模型构建快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:   user.ID,
		Email:    user.Email,
		IsActive: user.IsActive,
		IsStaff:  user.IsStaff,
		CachedAt: time.Now().Unix(),
	}
}

// GetUserAuthState 读取快照，Redis 未启用时总是未命中
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserAuthState
	if hit, err := GetJSON(ctx, authStateKey(userID), &state); err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetUserAuthState 写入快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(state.UserID), state, authStateCacheTTL)
}

func authStateKey(userID uint) string {
	return "auth:user:" + strconv.FormatUint(uint64(userID), 10)
}
