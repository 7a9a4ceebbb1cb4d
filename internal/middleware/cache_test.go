package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/config"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		KeyStrategy: "uri_query",
		Prefix:      "cache",
	}
}

// The write-path invalidation helper must compute the exact key the
// middleware uses for the corresponding GET, otherwise stale
// availability responses would survive until the TTL backstop.
func TestKeyForURIMatchesMiddlewareKey(t *testing.T) {
	cfg := testCacheConfig()
	e := echo.New()
	req := httptest.NewRequest("GET", "/v1/courts/7/availability?date=2024-06-01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	got := cacheKeyFrom(cfg, c)
	want := KeyForURI(cfg, "/v1/courts/7/availability", "date=2024-06-01")
	if got != want {
		t.Fatalf("middleware key %q != invalidation key %q", got, want)
	}
}

func TestURIKeysDifferPerCourtAndDate(t *testing.T) {
	cfg := testCacheConfig()
	a := KeyForURI(cfg, "/v1/courts/1/availability", "date=2024-06-01")
	b := KeyForURI(cfg, "/v1/courts/2/availability", "date=2024-06-01")
	c := KeyForURI(cfg, "/v1/courts/1/availability", "date=2024-06-02")
	if a == b || a == c || b == c {
		t.Fatalf("keys must be distinct per court and date: %q %q %q", a, b, c)
	}
}

func TestEncodeDecodePayloadRoundTrip(t *testing.T) {
	hdr := map[string][]string{"Content-Type": {"application/json"}}
	body := []byte(`{"ok":true}`)
	payload, err := encodePayload(200, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(payload)
	if !ok {
		t.Fatal("decodePayload failed")
	}
	if status != 200 {
		t.Errorf("status = %d, want 200", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("header lost: %v", gotHdr)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q, want %q", gotBody, body)
	}
}
