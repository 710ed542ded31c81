package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting-platform/internal/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &Config{
		DatabaseURL:     fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", uuid.NewString()),
		SecretKey:       "test-secret",
		ServerPort:      "0",
		LogLevel:        "error",
		AppEnv:          "test",
		KeyPrefix:       "vote:",
		SessionTTL:      time.Hour,
		RateLimitMax:    1000,
		RateLimitWindow: time.Second,
		AuditSchedule:   "@every 5m",
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	app, err := NewAppWithConfig(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := app.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	_, err = app.Seed(context.Background(), nil)
	require.NoError(t, err)
	return app
}

// browser 模拟一个携带 cookie 的浏览器，不自动跟随重定向
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, srv *httptest.Server) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: srv.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(req *http.Request) (int, string, string) {
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp.StatusCode, resp.Header.Get("Location"), string(body)
}

func (b *browser) get(path string) (int, string, string) {
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) (int, string, string) {
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(username, password string) {
	code, location, _ := b.post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(b.t, http.StatusFound, code)
	require.Equal(b.t, "/dashboard", location)
}

func candidateID(t *testing.T, app *App, name string) uint {
	t.Helper()
	var c domain.Candidate
	require.NoError(t, app.DB.Where("name = ?", name).First(&c).Error)
	return c.ID
}

func TestRouter_PublicPages(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.Router)
	defer srv.Close()
	b := newBrowser(t, srv)

	code, _, body := b.get("/ping")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "pong")

	code, _, body = b.get("/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Alice Johnson")
	assert.Contains(t, body, "Carol Davis")

	code, _, body = b.get("/results")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Total votes: 0")

	code, _, body = b.get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "go_goroutines")
}

func TestRouter_ProtectedPagesRedirect(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.Router)
	defer srv.Close()
	b := newBrowser(t, srv)

	code, location, _ := b.get("/dashboard")
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/login", location)

	code, location, _ = b.post(fmt.Sprintf("/vote/%d", candidateID(t, app, "Alice Johnson")), nil)
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/login", location)

	code, location, _ = b.get("/admin")
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/login", location)
	_, _, body := b.get("/login")
	assert.Contains(t, body, "Admin access required!")

	var alice domain.Candidate
	require.NoError(t, app.DB.First(&alice, candidateID(t, app, "Alice Johnson")).Error)
	assert.Equal(t, int64(0), alice.Votes)
}

func TestRouter_RegisterLoginVoteFlow(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.Router)
	defer srv.Close()
	b := newBrowser(t, srv)

	code, location, _ := b.post("/register", url.Values{"username": {"newvoter"}, "password": {"secret1"}})
	require.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/login", location)
	_, _, body := b.get("/login")
	assert.Contains(t, body, "Registration successful! Please login.")

	code, location, _ = b.post("/register", url.Values{"username": {"newvoter"}, "password": {"other"}})
	require.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/register", location)
	_, _, body = b.get("/register")
	assert.Contains(t, body, "Username already exists")

	code, location, _ = b.post("/login", url.Values{"username": {"newvoter"}, "password": {"wrong"}})
	require.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/login", location)
	_, _, body = b.get("/login")
	assert.Contains(t, body, "Invalid username or password")

	b.login("newvoter", "secret1")
	code, _, body = b.get("/dashboard")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Welcome, newvoter")
	assert.Contains(t, body, "You have not voted yet")

	alice := candidateID(t, app, "Alice Johnson")
	code, location, _ = b.post(fmt.Sprintf("/vote/%d", alice), nil)
	require.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/results", location)
	_, _, body = b.get("/results")
	assert.Contains(t, body, "Your vote for Alice Johnson has been recorded!")
	assert.Contains(t, body, "Total votes: 1")
	assert.Contains(t, body, "100.0%")

	// 第二次投票被拒绝，票数不变
	code, location, _ = b.post(fmt.Sprintf("/vote/%d", candidateID(t, app, "Bob Smith")), nil)
	require.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/dashboard", location)
	_, _, body = b.get("/dashboard")
	assert.Contains(t, body, "You have already voted!")
	assert.Contains(t, body, "Alice Johnson")

	var count int64
	require.NoError(t, app.DB.Model(&domain.Vote{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	code, location, _ = b.get("/logout")
	require.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/", location)
	_, _, body = b.get("/")
	assert.Contains(t, body, "You have been logged out.")

	code, location, _ = b.get("/dashboard")
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/login", location)
}

func TestRouter_VoteForUnknownCandidate(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.Router)
	defer srv.Close()
	b := newBrowser(t, srv)

	b.login("demo_voter", "demo123")
	code, location, _ := b.post("/vote/9999", nil)
	require.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/dashboard", location)

	_, _, body := b.get("/dashboard")
	assert.Contains(t, body, "Candidate not found!")
	assert.Contains(t, body, "You have not voted yet")

	code, location, _ = b.post("/vote/abc", nil)
	require.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/dashboard", location)
	_, _, body = b.get("/dashboard")
	assert.Contains(t, body, "Candidate not found!")
}

func TestRouter_AlreadyVotedTakesPrecedence(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.Router)
	defer srv.Close()
	b := newBrowser(t, srv)

	b.login("demo_voter", "demo123")
	code, _, _ := b.post(fmt.Sprintf("/vote/%d", candidateID(t, app, "Carol Davis")), nil)
	require.Equal(t, http.StatusFound, code)
	b.get("/results")

	for _, path := range []string{"/vote/abc", "/vote/0", "/vote/9999"} {
		code, location, _ := b.post(path, nil)
		require.Equal(t, http.StatusFound, code, path)
		assert.Equal(t, "/dashboard", location, path)
		_, _, body := b.get("/dashboard")
		assert.Contains(t, body, "You have already voted!", path)
		assert.NotContains(t, body, "Candidate not found!", path)
	}
}

func TestRouter_AdminAccess(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	voter := newBrowser(t, srv)
	voter.login("john_doe", "password123")
	code, location, _ := voter.get("/admin")
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/login", location)
	code, location, _ = voter.post("/admin/add_candidate", url.Values{"name": {"Mallory"}})
	assert.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/login", location)

	admin := newBrowser(t, srv)
	admin.login("admin", "admin123")
	code, _, body := admin.get("/admin")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "john_doe")

	code, location, _ = admin.post("/admin/add_candidate", url.Values{
		"name":        {"Dave Brown"},
		"party":       {"Independent"},
		"description": {"Local organizer."},
	})
	require.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/admin", location)
	_, _, body = admin.get("/admin")
	assert.Contains(t, body, "Candidate Dave Brown added successfully!")

	code, location, _ = admin.post("/admin/add_candidate", url.Values{"name": {""}})
	require.Equal(t, http.StatusFound, code)
	assert.Equal(t, "/admin", location)
	_, _, body = admin.get("/admin")
	assert.Contains(t, body, "Please fill in all required fields.")

	var names []string
	require.NoError(t, app.DB.Model(&domain.Candidate{}).Pluck("name", &names).Error)
	assert.Contains(t, names, "Dave Brown")
	assert.NotContains(t, names, "Mallory")
}
