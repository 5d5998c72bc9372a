// Package session 向导的服务端会话：令牌、当前报销单和通知
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	authdomain "github.com/camaramunicipal/prestacontas/internal/auth/domain"
	"github.com/camaramunicipal/prestacontas/internal/web/toast"
)

// contextKey gin.Context 中保存会话的键
const contextKey = "web-session"

// LoginPath 未登录时跳转的页面
const LoginPath = "/login"

// Session 并发安全；实现 apiclient.TokenStore
type Session struct {
	ID     string
	Toasts *toast.Manager

	mu          sync.Mutex
	access      string
	refresh     string
	user        *authdomain.User
	prestacaoID int64
	lastSeen    time.Time
}

func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = token
}

func (s *Session) SetTokens(access, refresh string, user *authdomain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh, s.user = access, refresh, user
}

// Clear 登出：清空令牌、用户和当前报销单
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh, s.user = "", "", nil
	s.prestacaoID = 0
}

func (s *Session) User() *authdomain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

// PrestacaoID 0 表示尚未选择
func (s *Session) PrestacaoID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prestacaoID
}

func (s *Session) SetPrestacaoID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prestacaoID = id
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// ==========================================
// Store
// ==========================================

// Store 内存会话表，按 cookie 中的 uuid 查找
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cookie    string
	idle      time.Duration
	secure    bool
	now       func() time.Time
	newToasts func() *toast.Manager
	logger    *zap.Logger
}

func NewStore(cookie string, idle time.Duration, secure bool, logger *zap.Logger) *Store {
	return &Store{
		sessions:  make(map[string]*Session),
		cookie:    cookie,
		idle:      idle,
		secure:    secure,
		now:       time.Now,
		newToasts: toast.NewManager,
		logger:    logger,
	}
}

// Get 过期的会话会被移除并返回 false
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil, false
	}
	now := st.now()
	if st.idle > 0 && s.idleSince(now) > st.idle {
		st.Delete(id)
		return nil, false
	}
	s.touch(now)
	return s, true
}

func (st *Store) Create() *Session {
	s := &Session{
		ID:       uuid.NewString(),
		Toasts:   st.newToasts(),
		lastSeen: st.now(),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		s.Toasts.Close()
	}
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep 清理空闲超时的会话，返回清理数量
func (st *Store) Sweep() int {
	if st.idle <= 0 {
		return 0
	}
	now := st.now()
	var expired []string
	st.mu.Lock()
	for id, s := range st.sessions {
		if s.idleSince(now) > st.idle {
			expired = append(expired, id)
		}
	}
	st.mu.Unlock()

	for _, id := range expired {
		st.Delete(id)
	}
	return len(expired)
}

// Run 周期性清理，ctx 取消后关闭全部会话并返回
func (st *Store) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			st.closeAll()
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				st.logger.Debug("expired sessions removed", zap.Int("count", n))
			}
		}
	}
}

func (st *Store) closeAll() {
	st.mu.Lock()
	all := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()
	for _, s := range all {
		s.Toasts.Close()
	}
}

// ==========================================
// Gin 中间件
// ==========================================

// Load 读取或创建会话并写入 cookie
func (st *Store) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		var s *Session
		if id, err := c.Cookie(st.cookie); err == nil {
			s, _ = st.Get(id)
		}
		if s == nil {
			s = st.Create()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     st.cookie,
				Value:    s.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   st.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(contextKey, s)
		c.Next()
	}
}

// RequireAuth 没有 access token 时跳转登录页
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := FromContext(c)
		if s == nil || !s.Authenticated() {
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// FromContext 未经过 Load 中间件时返回 nil
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}
