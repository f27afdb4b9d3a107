package handlers_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"samtech/internal/domain"
)

func multipartReq(t *testing.T, method, path string, fields map[string]string, fileField string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for name, data := range files {
		fw, err := w.CreateFormFile(fileField, name)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write(data)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestProductLifecycleWithImages(t *testing.T) {
	a := newTestApp(t)
	admin := a.adminToken(t)

	var p domain.Product
	entries := captureLogs(t, func() {
		req := multipartReq(t, "POST", "/api/products",
			map[string]string{"title": "Dome Camera", "price": "120.00", "description": "4MP"},
			"images", map[string][]byte{"front.jpg": []byte("jpeg-bytes")})
		decode(t, expectStatus(t, a.send(t, withBearer(req, admin)), http.StatusCreated), &p)
	})
	if e, ok := findAction(entries, "admin.products.create"); !ok || !e.Audit {
		t.Fatal("expected audited admin.products.create log")
	}
	if len(p.Images) != 1 {
		t.Fatalf("expected 1 image, got %+v", p.Images)
	}

	// Local assets are served back under /media.
	img := a.send(t, jsonReq("GET", p.Images[0].URL, nil))
	if got := expectStatus(t, img, http.StatusOK); string(got) != "jpeg-bytes" {
		t.Fatalf("unexpected media body %q", got)
	}

	upd := multipartReq(t, "PUT", "/api/products/"+p.ID, map[string]string{"price": "99.99"},
		"images", map[string][]byte{"side.png": []byte("png-bytes")})
	decode(t, expectStatus(t, a.send(t, withBearer(upd, admin)), http.StatusOK), &p)
	if len(p.Images) != 2 || p.Title != "Dome Camera" || p.Price.String() != "99.99" {
		t.Fatalf("unexpected product after update %+v", p)
	}

	del := "/api/products/" + p.ID + "/images/" + p.Images[0].PublicID
	decode(t, expectStatus(t, a.send(t, withBearer(jsonReq("DELETE", del, nil), admin)), http.StatusOK), &p)
	if len(p.Images) != 1 {
		t.Fatalf("expected 1 image after delete, got %d", len(p.Images))
	}
	expectStatus(t, a.send(t, withBearer(jsonReq("DELETE", del, nil), admin)), http.StatusNotFound)

	expectStatus(t, a.send(t, withBearer(jsonReq("DELETE", "/api/products/"+p.ID, nil), admin)), http.StatusOK)
	expectStatus(t, a.send(t, jsonReq("GET", "/api/products/"+p.ID, nil)), http.StatusNotFound)
	expectStatus(t, a.send(t, jsonReq("GET", p.Images[0].URL, nil)), http.StatusNotFound)
}

func TestProductUploadRejectsBadFiles(t *testing.T) {
	a := newTestApp(t)
	admin := a.adminToken(t)

	req := multipartReq(t, "POST", "/api/products", map[string]string{"title": "X", "price": "1"},
		"images", map[string][]byte{"payload.exe": []byte("MZ")})
	expectStatus(t, a.send(t, withBearer(req, admin)), http.StatusBadRequest)

	var products []domain.Product
	decode(t, expectStatus(t, a.send(t, jsonReq("GET", "/api/products", nil)), http.StatusOK), &products)
	if len(products) != 0 {
		t.Fatalf("rejected upload must not create a product, got %d", len(products))
	}
}

func TestMediaTraversalBlocked(t *testing.T) {
	a := newTestApp(t)
	for _, p := range []string{"/media/../go.mod", "/media/%2e%2e/secret", "/media/product_images/missing.jpg"} {
		resp := a.send(t, httptest.NewRequest("GET", p, nil))
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d body=%s", p, resp.StatusCode, body)
		}
	}
}

func TestEventsBlogsCareers(t *testing.T) {
	a := newTestApp(t)
	admin := a.adminToken(t)

	ev := multipartReq(t, "POST", "/api/events",
		map[string]string{"title": "Expo", "date": "2026-06-01", "youtubeUrls": "https://youtu.be/x"},
		"images", map[string][]byte{"hall.webp": []byte("webp")})
	var e domain.Event
	decode(t, expectStatus(t, a.send(t, withBearer(ev, admin)), http.StatusCreated), &e)
	if len(e.VideoURLs) != 1 || len(e.Images) != 1 {
		t.Fatalf("unexpected event %+v", e)
	}

	blog := map[string]string{"title": "Fiber rollout", "content": "Done.", "author": "Ops"}
	expectStatus(t, a.send(t, jsonReq("POST", "/api/blogs", blog)), http.StatusUnauthorized)
	var b domain.Blog
	decode(t, expectStatus(t, a.send(t, withBearer(jsonReq("POST", "/api/blogs", blog), admin)), http.StatusCreated), &b)
	expectStatus(t, a.send(t, jsonReq("GET", "/api/blogs/"+b.ID, nil)), http.StatusOK)

	cr := multipartReq(t, "POST", "/api/careers", map[string]string{
		"title": "Technician", "description": "Install CCTV", "requirements": "2y",
		"location": "Nairobi", "type": "Contract", "deadline": "2026-09-30",
	}, "pdfFile", map[string][]byte{"role.pdf": []byte("%PDF-1.4")})
	var c domain.Career
	decode(t, expectStatus(t, a.send(t, withBearer(cr, admin)), http.StatusCreated), &c)
	if c.PDF == nil {
		t.Fatal("career PDF missing")
	}
	expectStatus(t, a.send(t, withBearer(jsonReq("DELETE", "/api/careers/"+c.ID, nil), admin)), http.StatusOK)
	expectStatus(t, a.send(t, jsonReq("GET", c.PDF.URL, nil)), http.StatusNotFound)
}
