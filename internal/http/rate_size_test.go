package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoginThrottle(t *testing.T) {
	a := newTestApp(t, appOptions{bodyLimit: 1 << 20, loginMax: 2})
	creds := map[string]string{"username": adminUser, "password": "wrong"}

	entries := captureLogs(t, func() {
		for i := 0; i < 3; i++ {
			resp := a.send(t, jsonReq("POST", "/api/auth/login", creds))
			if i < 2 && resp.StatusCode == http.StatusTooManyRequests {
				t.Fatalf("hit rate limit too early at %d", i)
			}
			if i == 2 && resp.StatusCode != http.StatusTooManyRequests {
				t.Fatalf("expected 429 after limit, got %d", resp.StatusCode)
			}
		}
	})
	if _, ok := findAction(entries, "rate.login.hit"); !ok {
		t.Fatal("expected rate.login.hit log")
	}
	if _, ok := findAction(entries, "admin.login.fail"); !ok {
		t.Fatal("expected admin.login.fail log")
	}
}

func TestBodySizeLimit(t *testing.T) {
	a := newTestApp(t, appOptions{bodyLimit: 1 << 20, loginMax: 100})

	oversize := bytes.Repeat([]byte("A"), (1<<20)+10)
	req := httptest.NewRequest("POST", "/api/messages", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.app.Test(req, -1)
	// fasthttp may refuse the body before a response is written
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for oversize, got %d", resp.StatusCode)
	}
}
