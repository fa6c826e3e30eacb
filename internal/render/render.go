// Package render turns resolution outcomes into HTTP responses.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/axellelanca/dynamiclinks/internal/models"
	"github.com/axellelanca/dynamiclinks/internal/services"
)

//go:embed templates/interstitial.html
var templateFS embed.FS

// DefaultFallbackDelayMS is how long the page waits for the app before falling back.
const DefaultFallbackDelayMS = 2000

// Defaults fill social meta fields a link does not provide.
type Defaults struct {
	Title           string
	Description     string
	ImageURL        string
	FallbackDelayMS int
}

// Response is a rendered HTTP response. Location is set for redirects only.
type Response struct {
	Status      int
	Location    string
	ContentType string
	Body        []byte
}

type interstitialData struct {
	Title        string
	Description  string
	ImageURL     string
	PageURL      string
	DeepLink     string
	FallbackURL  string
	PlayStoreURL string
	AppStoreURL  string
	DelayMS      int
}

// Renderer builds responses for resolver outcomes. It has no side effects.
type Renderer struct {
	tmpl     *template.Template
	defaults Defaults
}

// NewRenderer parses the interstitial template.
func NewRenderer(defaults Defaults) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/interstitial.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse interstitial template: %w", err)
	}
	if defaults.FallbackDelayMS <= 0 {
		defaults.FallbackDelayMS = DefaultFallbackDelayMS
	}
	if defaults.ImageURL == "" {
		defaults.ImageURL = models.DefaultSocialImageLink
	}
	return &Renderer{tmpl: tmpl, defaults: defaults}, nil
}

// Render produces the response for outcome. pageURL is the full URL the
// client requested and ends up in og:url.
func (r *Renderer) Render(outcome services.Outcome, pageURL string) (*Response, error) {
	switch outcome.Kind {
	case services.NotFound:
		return plain(http.StatusNotFound, "Not found"), nil
	case services.Expired:
		return plain(http.StatusGone, "Link expired"), nil
	}

	plan := outcome.Plan
	if plan == nil {
		return nil, fmt.Errorf("found outcome without destination plan")
	}

	if plan.Action == services.ActionRedirect {
		return &Response{Status: http.StatusFound, Location: plan.TargetURL}, nil
	}

	data := interstitialData{
		Title:        firstNonEmpty(plan.Social.Title, r.defaults.Title),
		Description:  firstNonEmpty(plan.Social.Description, r.defaults.Description),
		ImageURL:     firstNonEmpty(plan.Social.ImageURL, r.defaults.ImageURL),
		PageURL:      pageURL,
		DeepLink:     plan.DeepLink,
		FallbackURL:  plan.FallbackURL,
		PlayStoreURL: plan.PlayStoreURL,
		AppStoreURL:  plan.AppleStoreURL,
		DelayMS:      r.defaults.FallbackDelayMS,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render interstitial: %w", err)
	}

	return &Response{
		Status:      http.StatusOK,
		ContentType: "text/html; charset=utf-8",
		Body:        buf.Bytes(),
	}, nil
}

func plain(status int, body string) *Response {
	return &Response{
		Status:      status,
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(body),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
