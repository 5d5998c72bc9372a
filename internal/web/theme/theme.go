// Package theme 主题偏好：light / dark / system，持久化在可替换的 Store 中
package theme

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

type Theme string

const (
	Light  Theme = "light"
	Dark   Theme = "dark"
	System Theme = "system"
)

// Default 未保存偏好时使用
const Default = Dark

func Parse(s string) (Theme, error) {
	switch t := Theme(s); t {
	case Light, Dark, System:
		return t, nil
	default:
		return "", fmt.Errorf("tema inválido: %q", s)
	}
}

// Store 键值存储（浏览器场景下对应 cookie）
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

type Manager struct {
	store Store
	key   string
	def   Theme
}

// NewManager def 为空或非法时回落到 Default
func NewManager(store Store, key string, def Theme) *Manager {
	if _, err := Parse(string(def)); err != nil {
		def = Default
	}
	return &Manager{store: store, key: key, def: def}
}

// Theme 已保存的合法偏好，否则默认值
func (m *Manager) Theme() Theme {
	if raw, ok := m.store.Get(m.key); ok {
		if t, err := Parse(raw); err == nil {
			return t
		}
	}
	return m.def
}

// SetTheme 唯一写入 Store 的地方
func (m *Manager) SetTheme(t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}
	m.store.Set(m.key, string(t))
	return nil
}

// RootClass 根元素的 class；system 按客户端的配色偏好解析
func (m *Manager) RootClass(prefersDark bool) string {
	t := m.Theme()
	if t != System {
		return string(t)
	}
	if prefersDark {
		return string(Dark)
	}
	return string(Light)
}

// PrefersDark 读取 Sec-CH-Prefers-Color-Scheme 客户端提示
func PrefersDark(r *http.Request) bool {
	return r.Header.Get("Sec-CH-Prefers-Color-Scheme") == "dark"
}

// ===========================================

// CookieStore 每个请求一个；写入的值在同一请求内立即可读
type CookieStore struct {
	w       http.ResponseWriter
	r       *http.Request
	written map[string]string
}

func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{w: w, r: r, written: map[string]string{}}
}

func (s *CookieStore) Get(key string) (string, bool) {
	if v, ok := s.written[key]; ok {
		return v, true
	}
	c, err := s.r.Cookie(key)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (s *CookieStore) Set(key, value string) {
	s.written[key] = value
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// MemoryStore 进程内存储，测试和会话内使用
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}
