package session

import (
	"context"
	"strings"
	"time"

	"github.com/dpit-cms/internal/logger"
)

const (
	defaultCookieName = "sessionid"
	defaultMaxAge     = 14 * 24 * time.Hour
)

// Options 会话 Cookie 配置
type Options struct {
	CookieName   string
	CookieDomain string
	CookieSecure bool
	MaxAge       time.Duration
}

// Manager 负责按 Cookie 加载与回写会话
type Manager struct {
	store   Store
	options Options
}

// NewManager 创建会话管理器
func NewManager(store Store, options Options) *Manager {
	if strings.TrimSpace(options.CookieName) == "" {
		options.CookieName = defaultCookieName
	}
	if options.MaxAge <= 0 {
		options.MaxAge = defaultMaxAge
	}
	return &Manager{store: store, options: options}
}

// Options 返回生效的配置
func (m *Manager) Options() Options {
	return m.options
}

// Load 按 Cookie 中的 ID 加载会话，缺失或读取失败时新建
func (m *Manager) Load(ctx context.Context, id string) *Session {
	id = strings.TrimSpace(id)
	if id == "" || m.store == nil {
		return New()
	}
	sess, err := m.store.Load(ctx, id)
	if err != nil {
		logger.Warnw("session_load_failed", "error", err)
		return New()
	}
	if sess == nil {
		return New()
	}
	return sess
}

// Save 回写已修改的会话，失败时保留修改标记以便再次回写
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	if sess == nil || m.store == nil || !sess.Modified() {
		return nil
	}
	var err error
	if sess.Len() == 0 && !sess.IsNew() {
		err = m.store.Delete(ctx, sess.ID())
	} else {
		err = m.store.Save(ctx, sess, m.options.MaxAge)
	}
	if err != nil {
		return err
	}
	sess.markSaved()
	return nil
}
