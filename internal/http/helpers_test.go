package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"samtech/internal/assets"
	"samtech/internal/domain"
	"samtech/internal/http/handlers"
	applog "samtech/internal/log"
	"samtech/internal/pubsub"
	"samtech/internal/repos"
	"samtech/internal/services"
)

const (
	adminUser = "root"
	adminPass = "Sup3r$ecret"
)

type testApp struct {
	app    *fiber.App
	stores services.Stores
	tokens *services.Tokens
	media  *assets.Local
	svc    handlers.Services
}

type appOptions struct {
	bodyLimit      int
	loginMax       int
	streamLifetime time.Duration
}

func newTestApp(t *testing.T, opts ...appOptions) *testApp {
	t.Helper()
	o := appOptions{bodyLimit: 4 << 20, loginMax: 100}
	if len(opts) > 0 {
		o = opts[0]
	}
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	st := services.Stores{
		Products:  repos.NewProductRepo(db),
		Carts:     repos.NewCartRepo(db),
		Orders:    repos.NewOrderRepo(db),
		Events:    repos.NewEventRepo(db),
		Blogs:     repos.NewBlogRepo(db),
		Careers:   repos.NewCareerRepo(db),
		Messages:  repos.NewMessageRepo(db),
		Customers: repos.NewCustomerRepo(db),
		Admins:    repos.NewAdminRepo(db),
	}
	media, err := assets.NewLocal(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("local assets: %v", err)
	}
	tokens := services.NewTokens("test-secret")
	images := services.NewImageManager(media)
	svc := handlers.Services{
		Catalog:  services.NewCatalogService(st.Products, st.Carts, images),
		Events:   services.NewEventService(st.Events, images),
		Blogs:    services.NewBlogService(st.Blogs),
		Careers:  services.NewCareerService(st.Careers, images),
		Messages: services.NewMessageService(st.Messages, pubsub.NewMemory()),
		Carts:    services.NewCartService(st.Carts, st.Products, time.Hour),
		Orders:   services.NewOrderService(st.Carts, st.Orders),
		Auth:     services.NewAuthService(st.Customers, tokens),
		Admins:   services.NewAdminService(st.Admins, tokens),
	}
	if err := svc.Admins.EnsureSeed(context.Background(), adminUser, adminPass); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler, BodyLimit: o.bodyLimit})
	app.Use(requestid.New())
	deps := handlers.NewDeps(svc, media, false)
	deps.MessageHandler.Lifetime = o.streamLifetime
	handlers.Mount(app, deps, handlers.RouteOptions{LoginMax: o.loginMax, LoginWindow: time.Minute})
	return &testApp{app: app, stores: st, tokens: tokens, media: media, svc: svc}
}

func (a *testApp) adminToken(t *testing.T) string {
	t.Helper()
	_, tok, err := a.svc.Admins.Login(context.Background(), adminUser, adminPass)
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	return tok
}

func (a *testApp) customerToken(t *testing.T, userID string) string {
	t.Helper()
	tok, err := a.tokens.Issue(userID, false, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (a *testApp) product(t *testing.T, title, price string) domain.Product {
	t.Helper()
	p, err := a.svc.Catalog.Create(context.Background(), services.ProductInput{Title: &title, Price: &price}, nil)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func jsonReq(method, path string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func withBearer(req *http.Request, tok string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}

func withSession(req *http.Request, tok string) *http.Request {
	req.AddCookie(&http.Cookie{Name: handlers.TokenCookie, Value: tok})
	return req
}

func (a *testApp) send(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := a.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, want int) []byte {
	t.Helper()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		t.Fatalf("expected %d, got %d body=%s", want, resp.StatusCode, string(body))
	}
	return body
}

func decode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %s: %v", string(body), err)
	}
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Audit  bool           `json:"audit"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	mu sync.Mutex
	w  bytes.Buffer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// captureLogs points the app logger at a buffer while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	lw := &lockedWriter{}
	applog.SetOutput(lw)
	defer applog.SetOutput(os.Stdout)

	fn()

	lw.mu.Lock()
	defer lw.mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(lw.w.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
