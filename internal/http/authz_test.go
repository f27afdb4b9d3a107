package handlers_test

import (
	"net/http"
	"testing"
)

func TestAdminRoutesRejectMissingAndCustomerTokens(t *testing.T) {
	a := newTestApp(t)
	customer := a.customerToken(t, "cust-1")

	expectStatus(t, a.send(t, jsonReq("GET", "/api/clients/orders", nil)), http.StatusUnauthorized)
	expectStatus(t, a.send(t, withBearer(jsonReq("GET", "/api/clients/orders", nil), "garbage")), http.StatusUnauthorized)
	expectStatus(t, a.send(t, withBearer(jsonReq("GET", "/api/clients/orders", nil), customer)), http.StatusForbidden)
	expectStatus(t, a.send(t, withBearer(jsonReq("GET", "/api/clients/orders", nil), a.adminToken(t))), http.StatusOK)
}

func TestCartRoutesRequireOwner(t *testing.T) {
	a := newTestApp(t)
	p := a.product(t, "Camera", "10")
	tok := a.customerToken(t, "alice")

	expectStatus(t, a.send(t, jsonReq("GET", "/api/cart/alice", nil)), http.StatusUnauthorized)

	add := jsonReq("POST", "/api/cart", map[string]any{"userId": "bob", "productId": p.ID, "quantity": 1})
	expectStatus(t, a.send(t, withSession(add, tok)), http.StatusForbidden)

	expectStatus(t, a.send(t, withSession(jsonReq("GET", "/api/cart/bob", nil), tok)), http.StatusForbidden)
	expectStatus(t, a.send(t, withSession(jsonReq("GET", "/api/orders/bob", nil), tok)), http.StatusForbidden)
	expectStatus(t, a.send(t, withBearer(jsonReq("GET", "/api/cart/alice", nil), tok)), http.StatusOK)
}

func TestAccessDeniedIsLogged(t *testing.T) {
	a := newTestApp(t)
	customer := a.customerToken(t, "cust-1")

	entries := captureLogs(t, func() {
		_ = a.send(t, withBearer(jsonReq("DELETE", "/api/products/p1", nil), customer))
	})
	e, ok := findAction(entries, "access.denied.admin")
	if !ok {
		t.Fatalf("expected access.denied.admin log, got %+v", entries)
	}
	if e.Level != "warn" {
		t.Fatalf("expected warn level, got %q", e.Level)
	}

	entries = captureLogs(t, func() {
		_ = a.send(t, withSession(jsonReq("GET", "/api/cart/someone-else", nil), customer))
	})
	if _, ok := findAction(entries, "access.denied.owner"); !ok {
		t.Fatal("expected access.denied.owner log")
	}
}
