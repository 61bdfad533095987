package vgtrk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(upstream *httptest.Server) *Client {
	return NewClient(Options{
		APIURL:    upstream.URL,
		PlayerURL: upstream.URL,
	}, zerolog.Nop())
}

func TestClientBrands(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "mobile-russitv1-android" {
			t.Fatalf("user agent = %q", got)
		}
		q := r.URL.Query()
		if q.Get("hasFullVideos") != "true" || q.Get("tags") != "100:200" {
			t.Fatalf("query = %v", q)
		}
		if q.Get("limit") != "20" || q.Get("offset") != "0" {
			t.Fatalf("paging = limit %q offset %q", q.Get("limit"), q.Get("offset"))
		}
		w.Write([]byte(`{
			"data": [{
				"id": 9361,
				"title": "Доктор Рихтер",
				"hasManySeries": "true",
				"seriesIsOver": true,
				"ageRestrictions": "16",
				"countFullVideos": 50
			}],
			"pagination": {"totalCount": 120, "limit": 20, "offset": 0, "pages": 6}
		}`))
	}))
	defer upstream.Close()

	page, err := newTestClient(upstream).Brands(context.Background(), []string{"100", "200"}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("got %d brands, want 1", len(page.Items))
	}
	brand := page.Items[0]
	if brand.ID != 9361 || !bool(brand.HasManySeries) || !bool(brand.SeriesIsOver) {
		t.Fatalf("brand = %+v", brand)
	}
	if brand.AgeRestrictions.Years != 16 || !brand.AgeRestrictions.IsSet {
		t.Fatalf("age restrictions = %+v", brand.AgeRestrictions)
	}
	if page.Page.TotalCount != 120 {
		t.Fatalf("total count = %d, want 120", page.Page.TotalCount)
	}
}

func TestClientVideosDefaults(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("brands") != "9361" || q.Get("limit") != "1" || q.Get("type") != "1" {
			t.Fatalf("query = %v", q)
		}
		if q.Get("hasEpisode") != "1" || q.Get("hasEpisodes") != "1" || q.Get("sortOrder") != "asc" {
			t.Fatalf("query = %v", q)
		}
		w.Write([]byte(`{"data": [], "pagination": {"totalCount": 0}}`))
	}))
	defer upstream.Close()

	if _, err := newTestClient(upstream).Videos(context.Background(), VideoQuery{BrandID: 9361}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientMetadataError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metadata": {"code": 404, "errorMessage": "brand does not exist", "errorType": "NotFound"}}`))
	}))
	defer upstream.Close()

	_, err := newTestClient(upstream).Brand(context.Background(), 1)
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	if upErr.Message != "brand does not exist" {
		t.Fatalf("message = %q, want the errorMessage field", upErr.Message)
	}
}

// errorType stands in when the upstream omits errorMessage.
func TestClientMetadataErrorTypeFallback(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"metadata": {"code": 500, "errorType": "InternalError"}}`))
	}))
	defer upstream.Close()

	_, err := newTestClient(upstream).Brand(context.Background(), 1)
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	if upErr.Message != "InternalError" {
		t.Fatalf("message = %q, want errorType fallback", upErr.Message)
	}
}

func TestClientStatusError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 403, "errors": "video is blocked"}`))
	}))
	defer upstream.Close()

	_, err := newTestClient(upstream).Video(context.Background(), 1)
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	if upErr.Message != "video is blocked" {
		t.Fatalf("message = %q", upErr.Message)
	}
}

func TestClientMalformedResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway timeout</html>`))
	}))
	defer upstream.Close()

	_, err := newTestClient(upstream).Menu(context.Background(), 0, 0)
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
}

func TestClientHTTPErrorStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	_, err := newTestClient(upstream).Menu(context.Background(), 0, 0)
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
}

func TestClientTransportError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	_, err := newTestClient(upstream).Menu(context.Background(), 0, 0)
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("error = %v, want TransportError", err)
	}
}

func TestClientBrandMissing(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	}))
	defer upstream.Close()

	_, err := newTestClient(upstream).Brand(context.Background(), 12345)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestCheckAccess(t *testing.T) {
	blocked := true
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sid") != "russiatv" {
			t.Fatalf("sid = %q", r.URL.Query().Get("sid"))
		}
		if blocked {
			w.Write([]byte(`{"data": {"playlist": {"medialist": [{"id": 555, "errors": "Видео заблокировано"}]}}}`))
			return
		}
		w.Write([]byte(`{"data": {"playlist": {"medialist": [{"id": 555, "errors": ""}]}}}`))
	}))
	defer upstream.Close()

	client := newTestClient(upstream)

	err := client.CheckAccess(context.Background(), 555)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	if notFound.Message != "Видео заблокировано" {
		t.Fatalf("message = %q", notFound.Message)
	}

	blocked = false
	if err := client.CheckAccess(context.Background(), 555); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSanitizeKeyword(t *testing.T) {
	tests := map[string]string{
		"война и мир":    "война и мир",
		"a+b":            "a b",
		`path\to/file`:   "path to file",
		"hello!":         "hello",
		"title: subtitle": "title subtitle",
	}
	for input, want := range tests {
		if got := SanitizeKeyword(input); got != want {
			t.Fatalf("SanitizeKeyword(%q) = %q, want %q", input, got, want)
		}
	}
}
