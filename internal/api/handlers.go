package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	customerrors "github.com/axellelanca/dynamiclinks/internal/errors"
	"github.com/axellelanca/dynamiclinks/internal/render"
	"github.com/axellelanca/dynamiclinks/internal/services"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all Gin routes and injects the services they use.
// The catch-all token route is registered last.
func SetupRoutes(router *gin.Engine, linkService *services.LinkService, resolver *services.Resolver, renderer *render.Renderer) {
	router.GET("/health", HealthCheckHandler)
	router.POST("/shorten", ShortenHandler(linkService))
	router.GET("/stats/:token", GetLinkStatsHandler(linkService))
	router.GET("/:token", ResolveHandler(resolver, renderer, time.Now))
}

// HealthCheckHandler handles the /health route to verify service status
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ShortenResponse is returned by POST /shorten.
type ShortenResponse struct {
	ShortURL string `json:"shortUrl"`
}

// StatsResponse is returned by GET /stats/:token.
type StatsResponse struct {
	ShortURL        string      `json:"shortUrl"`
	ClickCount      int64       `json:"clickCount"`
	OriginalURL     string      `json:"originalUrl"`
	DynamicLinkInfo interface{} `json:"dynamicLinkInfo"`
	CreatedAt       time.Time   `json:"createdAt"`
	ExpiresAt       *time.Time  `json:"expiresAt,omitempty"`
}

// ShortenHandler creates a dynamic link and answers with its short URL,
// built from the request host and the generated token.
func ShortenHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.CreateLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		link, err := linkService.CreateLink(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, ShortenResponse{ShortURL: shortURL(c, link.Token)})
	}
}

// ResolveHandler resolves the token in the path and renders the outcome:
// 302 for other clients, the interstitial for android/ios, 404 or 410 otherwise.
func ResolveHandler(resolver *services.Resolver, renderer *render.Renderer, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")

		outcome, err := resolver.Resolve(c.Request.Context(), token, c.GetHeader("User-Agent"), now())
		if err != nil {
			writeError(c, err)
			return
		}

		resp, err := renderer.Render(outcome, requestURL(c))
		if err != nil {
			log.Printf("[API] Error rendering %s: %v", token, err)
			c.String(http.StatusInternalServerError, "Internal server error")
			return
		}

		if resp.Location != "" {
			c.Redirect(resp.Status, resp.Location)
			return
		}
		c.Data(resp.Status, resp.ContentType, resp.Body)
	}
}

// GetLinkStatsHandler reports the click count of a link. It never changes
// resolution state.
func GetLinkStatsHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")

		link, err := linkService.GetLinkStats(c.Request.Context(), token)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, StatsResponse{
			ShortURL:        shortURL(c, link.Token),
			ClickCount:      link.ClickCount,
			OriginalURL:     link.TargetURL,
			DynamicLinkInfo: link.DynamicLinkInfo,
			CreatedAt:       link.CreatedAt,
			ExpiresAt:       link.ExpiresAt,
		})
	}
}

// writeError maps the error taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	var validationErr *customerrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.Is(err, customerrors.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, customerrors.ErrTokenSpaceExhausted):
		log.Printf("[API] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to generate a unique token"})
	case errors.Is(err, customerrors.ErrStoreUnavailable):
		log.Printf("[API] Link store unavailable: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Link store unavailable"})
	default:
		log.Printf("[API] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func scheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

func shortURL(c *gin.Context, token string) string {
	return fmt.Sprintf("%s://%s/%s", scheme(c), c.Request.Host, token)
}

func requestURL(c *gin.Context) string {
	return fmt.Sprintf("%s://%s%s", scheme(c), c.Request.Host, c.Request.URL.RequestURI())
}
