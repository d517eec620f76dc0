package session

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Session 访客会话，值以 JSON 形式保存
type Session struct {
	mu       sync.Mutex
	id       string
	values   map[string]json.RawMessage
	isNew    bool
	modified bool
}

// New 创建新会话
func New() *Session {
	return &Session{
		id:     NewID(),
		values: make(map[string]json.RawMessage),
		isNew:  true,
	}
}

// NewID 生成会话 ID
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Restore 用已存储的数据恢复会话
func Restore(id string, payload []byte) (*Session, error) {
	values := make(map[string]json.RawMessage)
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &values); err != nil {
			return nil, err
		}
	}
	return &Session{id: id, values: values}, nil
}

// ID 会话 ID
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// IsNew 是否为本次请求新建
func (s *Session) IsNew() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isNew
}

// Modified 是否需要回写
func (s *Session) Modified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modified
}

// markSaved 落盘后重置修改标记，同一请求内的重复回写变为空操作
func (s *Session) markSaved() {
	s.mu.Lock()
	s.modified = false
	s.isNew = false
	s.mu.Unlock()
}

// Get 读取 key 并解码到 dest，key 不存在时返回 false
func (s *Session) Get(key string, dest interface{}) (bool, error) {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, err
	}
	return true, nil
}

// Has 判断 key 是否存在
func (s *Session) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

// Set 写入 key
func (s *Session) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = raw
	s.modified = true
	s.mu.Unlock()
	return nil
}

// Delete 删除 key
func (s *Session) Delete(key string) {
	s.mu.Lock()
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.modified = true
	}
	s.mu.Unlock()
}

// Encode 序列化会话数据
func (s *Session) Encode() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.values)
}

// Len 会话 key 数量
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}
