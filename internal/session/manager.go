// Package session 把服务端会话记录与浏览器 Cookie 关联起来。
// Cookie 只保存签名后的会话 ID，身份和提示消息保存在 SessionRepository 中。
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"voting-platform/internal/domain"
	"voting-platform/internal/repository"
)

const (
	// CookieName 是会话 Cookie 的名字
	CookieName = "session"
	contextKey = "session"
)

// Manager 负责会话的加载、轮换与销毁。
type Manager struct {
	repo   repository.SessionRepository
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewManager 创建 Manager。secret 用于签名 Cookie，不能为空。
func NewManager(repo repository.SessionRepository, secret string, ttl time.Duration, secureCookie bool) (*Manager, error) {
	if repo == nil {
		panic("SessionRepository cannot be nil for session Manager")
	}
	if secret == "" {
		return nil, fmt.Errorf("session secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{repo: repo, secret: []byte(secret), ttl: ttl, secure: secureCookie}, nil
}

// state 是挂在 gin.Context 上的当前请求会话
type state struct {
	session   *domain.Session
	persisted bool // 记录是否已写入存储 (新建的匿名会话在需要时才写入)
}

// Load 读取 Cookie 并从存储中恢复会话；Cookie 缺失、无效或会话已过期时创建新的匿名会话。
func (m *Manager) Load(c *gin.Context) *domain.Session {
	if st, ok := c.Get(contextKey); ok {
		return st.(*state).session
	}

	st := &state{session: &domain.Session{ID: uuid.NewString()}}
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		sid, err := parseToken(m.secret, cookie)
		if err != nil {
			logrus.WithError(err).Debug("Session: discarding invalid cookie")
		} else if s, err := m.repo.Find(c.Request.Context(), sid); err == nil {
			st.session = s
			st.persisted = true
		} else if !errors.Is(err, repository.ErrSessionNotFound) {
			logrus.WithError(err).Error("Session: failed to load session")
		}
	}
	c.Set(contextKey, st)
	return st.session
}

// Principal 返回当前请求的已认证身份，匿名时返回 nil
func (m *Manager) Principal(c *gin.Context) *domain.Principal {
	s := m.Load(c)
	if !s.Authenticated() {
		return nil
	}
	return s.Principal
}

// Login 以新的会话 ID 保存身份，旧会话被删除。
func (m *Manager) Login(c *gin.Context, principal *domain.Principal) error {
	old := m.Load(c)
	ctx := c.Request.Context()

	fresh := &domain.Session{ID: uuid.NewString(), Principal: principal}
	if err := m.repo.Save(ctx, fresh, m.ttl); err != nil {
		return fmt.Errorf("session: save login session: %w", err)
	}
	if err := m.repo.Delete(ctx, old.ID); err != nil {
		logrus.WithError(err).Warn("Session: failed to delete previous session")
	}
	c.Set(contextKey, &state{session: fresh, persisted: true})
	return m.writeCookie(c, fresh.ID)
}

// Logout 删除当前会话并换成新的匿名会话
func (m *Manager) Logout(c *gin.Context) error {
	old := m.Load(c)
	if err := m.repo.Delete(c.Request.Context(), old.ID); err != nil {
		return fmt.Errorf("session: delete session: %w", err)
	}
	c.Set(contextKey, &state{session: &domain.Session{ID: uuid.NewString()}})
	return nil
}

// Flash 给当前会话追加一条提示消息，必要时先持久化匿名会话
func (m *Manager) Flash(c *gin.Context, category, message string) {
	if err := m.ensurePersisted(c); err != nil {
		logrus.WithError(err).Error("Session: failed to persist session for flash")
		return
	}
	s := m.Load(c)
	flash := domain.Flash{Category: category, Message: message}
	if err := m.repo.PushFlash(c.Request.Context(), s.ID, flash, m.ttl); err != nil {
		logrus.WithError(err).Error("Session: failed to push flash")
	}
}

// Flashes 取出并清除当前会话的提示消息
func (m *Manager) Flashes(c *gin.Context) []domain.Flash {
	m.Load(c)
	st := m.current(c)
	if !st.persisted {
		return nil
	}
	flashes, err := m.repo.PopFlashes(c.Request.Context(), st.session.ID)
	if err != nil {
		logrus.WithError(err).Error("Session: failed to pop flashes")
		return nil
	}
	return flashes
}

func (m *Manager) current(c *gin.Context) *state {
	st, _ := c.Get(contextKey)
	return st.(*state)
}

func (m *Manager) ensurePersisted(c *gin.Context) error {
	m.Load(c)
	st := m.current(c)
	if st.persisted {
		return nil
	}
	if err := m.repo.Save(c.Request.Context(), st.session, m.ttl); err != nil {
		return err
	}
	st.persisted = true
	return m.writeCookie(c, st.session.ID)
}

func (m *Manager) writeCookie(c *gin.Context, sessionID string) error {
	token, err := signToken(m.secret, sessionID, m.ttl)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
	return nil
}
