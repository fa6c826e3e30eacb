package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/axellelanca/dynamiclinks/internal/models"
	"github.com/axellelanca/dynamiclinks/internal/render"
	"github.com/axellelanca/dynamiclinks/internal/repository"
	"github.com/axellelanca/dynamiclinks/internal/services"
	"github.com/gin-gonic/gin"
)

func setupTestRouter(t *testing.T) (*gin.Engine, repository.LinkRepository) {
	db, err := repository.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	repo := repository.NewLinkRepository(db)

	renderer, err := render.NewRenderer(render.Defaults{Title: "Open in app", Description: "Open this link in the app"})
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r,
		services.NewLinkService(repo, services.NewRandomTokenGenerator(7), 5),
		services.NewResolver(repo),
		renderer,
	)
	return r, repo
}

func shorten(t *testing.T, router *gin.Engine, payload string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/shorten", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Host = "sho.rt"
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func tokenFromShortURL(t *testing.T, body []byte) string {
	var created ShortenResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("Failed to decode shorten response: %v", err)
	}
	if !strings.HasPrefix(created.ShortURL, "http://sho.rt/") {
		t.Fatalf("Expected short URL on request host, got %s", created.ShortURL)
	}
	return strings.TrimPrefix(created.ShortURL, "http://sho.rt/")
}

func get(router *gin.Engine, path, userAgent string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	req.Host = "sho.rt"
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func clickCount(t *testing.T, router *gin.Engine, token string) int64 {
	resp := get(router, "/stats/"+token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected stats 200, got %d", resp.Code)
	}
	var stats StatsResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	return stats.ClickCount
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupTestRouter(t)

	resp := get(router, "/health", "")
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.Code)
	}
}

func TestShortenRequiresLink(t *testing.T) {
	router, _ := setupTestRouter(t)

	for _, payload := range []string{`{}`, `{"dynamicLinkInfo":{}}`} {
		resp := shorten(t, router, payload)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for %s, got %d", payload, resp.Code)
		}
		var body map[string]string
		json.Unmarshal(resp.Body.Bytes(), &body)
		if body["field"] != "dynamicLinkInfo.link" {
			t.Errorf("Expected field dynamicLinkInfo.link, got %q", body["field"])
		}
	}
}

func TestShortenRejectsMalformedBody(t *testing.T) {
	router, _ := setupTestRouter(t)

	resp := shorten(t, router, `{not json`)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestShortenThenRedirectOther(t *testing.T) {
	router, _ := setupTestRouter(t)

	resp := shorten(t, router, `{"dynamicLinkInfo":{"link":"https://example.com/page"},"suffix":{"option":"SHORT"}}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	token := tokenFromShortURL(t, resp.Body.Bytes())

	resp = get(router, "/"+token, "curl/7.64")
	if resp.Code != http.StatusFound {
		t.Errorf("Expected status 302, got %d", resp.Code)
	}
	if location := resp.Header().Get("Location"); location != "https://example.com/page" {
		t.Errorf("Expected Location 'https://example.com/page', got %s", location)
	}

	if count := clickCount(t, router, token); count != 1 {
		t.Errorf("Expected click count 1, got %d", count)
	}
}

func TestShortenThenInterstitialAndroid(t *testing.T) {
	router, _ := setupTestRouter(t)

	resp := shorten(t, router, `{
		"dynamicLinkInfo": {
			"link": "https://example.com/page",
			"androidInfo": {"androidPackageName": "com.example.app"},
			"socialMetaTagInfo": {"socialTitle": "Hello <b>there</b>"},
			"deepLinkPrefix": "wallet",
			"tokenType": "paymentToken",
			"token": "abc"
		}
	}`)
	token := tokenFromShortURL(t, resp.Body.Bytes())

	resp = get(router, "/"+token, "Mozilla/5.0 (Linux; Android 10)")
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "Hello &lt;b&gt;there&lt;/b&gt;") {
		t.Error("Expected escaped social title in interstitial")
	}
	if !strings.Contains(body, "details?id=com.example.app") {
		t.Error("Expected play store link in interstitial")
	}
	if !strings.Contains(body, `content="http://sho.rt/`+token+`"`) {
		t.Error("Expected og:url to be the request URL")
	}
}

func TestResolveNotFound(t *testing.T) {
	router, _ := setupTestRouter(t)

	resp := get(router, "/nonexistent", "curl/7.64")
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}

	resp = get(router, "/stats/nonexistent", "")
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected stats status 404, got %d", resp.Code)
	}
}

func TestResolveExpired(t *testing.T) {
	router, repo := setupTestRouter(t)
	expiredAt := time.Now().UTC().Add(-time.Second)
	link := &models.Link{
		Token:           "expired",
		TargetURL:       "https://example.com",
		DynamicLinkInfo: models.DynamicLinkInfo{Link: "https://example.com"},
		ExpiresAt:       &expiredAt,
	}
	if err := repo.CreateLink(context.Background(), link); err != nil {
		t.Fatalf("Failed to create link: %v", err)
	}

	resp := get(router, "/expired", "curl/7.64")
	if resp.Code != http.StatusGone {
		t.Errorf("Expected status 410, got %d", resp.Code)
	}

	if count := clickCount(t, router, "expired"); count != 0 {
		t.Errorf("Expected click count 0, got %d", count)
	}
}

func TestStatsIsIdempotent(t *testing.T) {
	router, _ := setupTestRouter(t)
	resp := shorten(t, router, `{"dynamicLinkInfo":{"link":"https://example.com"},"expiresInMinutes":10}`)
	token := tokenFromShortURL(t, resp.Body.Bytes())

	get(router, "/"+token, "curl/7.64")
	for i := 0; i < 5; i++ {
		if count := clickCount(t, router, token); count != 1 {
			t.Fatalf("Expected click count to stay 1, got %d", count)
		}
	}

	resp = get(router, "/stats/"+token, "")
	var stats StatsResponse
	json.Unmarshal(resp.Body.Bytes(), &stats)
	if stats.OriginalURL != "https://example.com" {
		t.Errorf("Expected original URL, got %s", stats.OriginalURL)
	}
	if stats.ShortURL != "http://sho.rt/"+token {
		t.Errorf("Unexpected short URL %s", stats.ShortURL)
	}
	if stats.ExpiresAt == nil {
		t.Error("Expected expiry to be reported")
	}
}

func TestConcurrentResolutions(t *testing.T) {
	const n = 25
	router, _ := setupTestRouter(t)
	resp := shorten(t, router, `{"dynamicLinkInfo":{"link":"https://example.com"}}`)
	token := tokenFromShortURL(t, resp.Body.Bytes())

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if resp := get(router, "/"+token, "curl/7.64"); resp.Code != http.StatusFound {
				t.Errorf("Expected status 302, got %d", resp.Code)
			}
		}()
	}
	wg.Wait()

	if count := clickCount(t, router, token); count != n {
		t.Errorf("Expected click count %d, got %d", n, count)
	}
}
