package handlers_test

import (
	"net/http"
	"net/url"
	"testing"
)

func TestCheckoutRejectsNonMapsLocation(t *testing.T) {
	a := newTestApp(t)
	p := a.product(t, "Camera", "10")
	tok := a.customerToken(t, "alice")
	expectStatus(t, a.send(t, withSession(jsonReq("POST", "/api/cart", map[string]any{"productId": p.ID, "quantity": 1}), tok)), http.StatusOK)

	for _, loc := range []string{"not-a-url", "https://example.com/maps", ""} {
		resp := a.send(t, withSession(jsonReq("POST", "/api/orders", map[string]any{
			"cartId": "whatever", "deliveryLocation": loc, "phoneNumber": "1",
		}), tok))
		expectStatus(t, resp, http.StatusBadRequest)
	}
}

func TestCartInputErrors(t *testing.T) {
	a := newTestApp(t)
	tok := a.customerToken(t, "alice")

	missing := a.send(t, withSession(jsonReq("POST", "/api/cart", map[string]any{"productId": "nope", "quantity": 1}), tok))
	expectStatus(t, missing, http.StatusNotFound)

	p := a.product(t, "Camera", "10")
	zero := a.send(t, withSession(jsonReq("POST", "/api/cart", map[string]any{"productId": p.ID, "quantity": 0}), tok))
	expectStatus(t, zero, http.StatusBadRequest)

	noCart := a.send(t, withSession(jsonReq("DELETE", "/api/cart/alice/"+p.ID, nil), tok))
	expectStatus(t, noCart, http.StatusNotFound)
}

func TestSearchValidation(t *testing.T) {
	a := newTestApp(t)
	admin := a.adminToken(t)

	bad := "/api/messages?search=" + url.QueryEscape("<script>")
	entries := captureLogs(t, func() {
		expectStatus(t, a.send(t, withBearer(jsonReq("GET", bad, nil), admin)), http.StatusBadRequest)
	})
	if _, ok := findAction(entries, "validation.fail"); !ok {
		t.Fatal("expected validation.fail log")
	}
	expectStatus(t, a.send(t, withBearer(jsonReq("GET", "/api/messages?search=quote", nil), admin)), http.StatusOK)
	expectStatus(t, a.send(t, withBearer(jsonReq("GET", "/api/clients/orders?status=bogus", nil), admin)), http.StatusBadRequest)
}

func TestProductIDValidation(t *testing.T) {
	a := newTestApp(t)
	expectStatus(t, a.send(t, jsonReq("GET", "/api/products/"+url.PathEscape("bad id!"), nil)), http.StatusNotFound)
	expectStatus(t, a.send(t, jsonReq("GET", "/api/products/unknown", nil)), http.StatusNotFound)
}
