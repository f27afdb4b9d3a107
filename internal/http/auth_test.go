package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"samtech/internal/domain"
	"samtech/internal/http/handlers"
)

func registerBody() map[string]string {
	return map[string]string{
		"username": "ann", "email": "ann@example.com", "dateOfBirth": "1990-01-01", "gender": "female",
		"phoneNumber": "+254700000000", "password": "hunter22!", "passwordRepeat": "hunter22!",
	}
}

func TestRegisterSetsSessionCookie(t *testing.T) {
	a := newTestApp(t)

	resp := a.send(t, jsonReq("POST", "/clients/api/register", registerBody()))
	body := expectStatus(t, resp, http.StatusCreated)
	tok := cookieValue(resp, handlers.TokenCookie)
	if tok == "" {
		t.Fatal("session cookie missing")
	}
	if strings.Contains(string(body), "hunter22!") || strings.Contains(string(body), "$2") {
		t.Fatalf("password material leaked: %s", body)
	}

	me := a.send(t, withSession(jsonReq("GET", "/clients/api/user", nil), tok))
	var c domain.Customer
	decode(t, expectStatus(t, me, http.StatusOK), &c)
	if c.Email != "ann@example.com" {
		t.Fatalf("unexpected profile %+v", c)
	}

	dup := a.send(t, jsonReq("POST", "/clients/api/register", registerBody()))
	expectStatus(t, dup, http.StatusConflict)
}

func TestPasswordsStoredHashed(t *testing.T) {
	a := newTestApp(t)
	expectStatus(t, a.send(t, jsonReq("POST", "/clients/api/register", registerBody())), http.StatusCreated)

	c, err := a.stores.Customers.ByEmail(context.Background(), "ann@example.com")
	if err != nil {
		t.Fatalf("load customer: %v", err)
	}
	if !strings.HasPrefix(c.Hash, "$2") || strings.Contains(c.Hash, "hunter22!") {
		t.Fatalf("unexpected hash format: %s", c.Hash)
	}
}

func TestLoginSuccessFailAndLogout(t *testing.T) {
	a := newTestApp(t)
	expectStatus(t, a.send(t, jsonReq("POST", "/clients/api/register", registerBody())), http.StatusCreated)

	bad := a.send(t, jsonReq("POST", "/clients/api/login", map[string]string{"email": "ann@example.com", "password": "wrongpass!"}))
	expectStatus(t, bad, http.StatusUnauthorized)

	good := a.send(t, jsonReq("POST", "/clients/api/login", map[string]string{"email": "ann@example.com", "password": "hunter22!"}))
	expectStatus(t, good, http.StatusOK)
	if cookieValue(good, handlers.TokenCookie) == "" {
		t.Fatal("login did not set session cookie")
	}

	out := a.send(t, jsonReq("POST", "/clients/api/logout", nil))
	expectStatus(t, out, http.StatusOK)
	for _, c := range out.Cookies() {
		if c.Name == handlers.TokenCookie && c.Value != "" {
			t.Fatalf("logout kept token %q", c.Value)
		}
	}
}

func TestAdminLoginAndSignupRequiresAdmin(t *testing.T) {
	a := newTestApp(t)

	bad := a.send(t, jsonReq("POST", "/api/auth/login", map[string]string{"username": adminUser, "password": "nope"}))
	expectStatus(t, bad, http.StatusUnauthorized)

	good := a.send(t, jsonReq("POST", "/api/auth/login", map[string]string{"username": adminUser, "password": adminPass}))
	var out struct {
		Token string `json:"token"`
	}
	decode(t, expectStatus(t, good, http.StatusOK), &out)
	if out.Token == "" {
		t.Fatal("admin token missing")
	}

	newAdmin := map[string]string{"username": "ops", "password": "0ps$ecretPw"}
	expectStatus(t, a.send(t, jsonReq("POST", "/api/auth/signup", newAdmin)), http.StatusUnauthorized)
	expectStatus(t, a.send(t, withBearer(jsonReq("POST", "/api/auth/signup", newAdmin), out.Token)), http.StatusCreated)
}
