package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	customerrors "github.com/axellelanca/dynamiclinks/internal/errors"
	"github.com/axellelanca/dynamiclinks/internal/models"
	"github.com/axellelanca/dynamiclinks/internal/platform"
	"github.com/axellelanca/dynamiclinks/internal/repository"
)

// OutcomeKind tells how a token resolved.
type OutcomeKind int

const (
	NotFound OutcomeKind = iota
	Expired
	Found
)

func (k OutcomeKind) String() string {
	switch k {
	case Found:
		return "found"
	case Expired:
		return "expired"
	default:
		return "not_found"
	}
}

// Action is the response the renderer should produce for a Found outcome.
type Action int

const (
	// ActionRedirect sends the client straight to the target URL.
	ActionRedirect Action = iota
	// ActionInterstitial serves the app-opening page.
	ActionInterstitial
)

// DestinationPlan holds every target the renderer may need.
type DestinationPlan struct {
	Action Action
	// DeepLink is {deepLinkPrefix}://{tokenType}={token}.
	DeepLink string
	// FallbackURL is the platform fallback link, or the target URL.
	FallbackURL string
	// AppStoreURL is the store page for the classified platform; empty for Other.
	AppStoreURL string
	// PlayStoreURL and AppleStoreURL are both computed so the page script can
	// dispatch on its own platform check.
	PlayStoreURL  string
	AppleStoreURL string
	TargetURL     string
	Social        models.SocialMetaTagInfo
}

// Outcome is the result of resolving a token.
type Outcome struct {
	Kind     OutcomeKind
	Link     *models.Link
	Platform platform.Platform
	Plan     *DestinationPlan
}

// Resolver turns a token and client context into an Outcome.
type Resolver struct {
	linkRepo repository.LinkRepository
}

// NewResolver creates a Resolver backed by linkRepo.
func NewResolver(linkRepo repository.LinkRepository) *Resolver {
	return &Resolver{linkRepo: linkRepo}
}

// Resolve looks up token and classifies userAgent. Expiry is checked against
// now, independent of whether the store has purged the record yet.
//
// Only a Found outcome increments the click count, exactly once. The returned
// error is non-nil only for store failures.
func (r *Resolver) Resolve(ctx context.Context, token, userAgent string, now time.Time) (Outcome, error) {
	link, err := r.linkRepo.GetLinkByToken(ctx, token)
	if err != nil {
		if errors.Is(err, customerrors.ErrLinkNotFound) {
			return Outcome{Kind: NotFound}, nil
		}
		return Outcome{}, fmt.Errorf("resolve %s: %w", token, err)
	}

	if link.IsExpired(now) {
		return Outcome{Kind: Expired, Link: link}, nil
	}

	if err := r.linkRepo.IncrementClickCount(ctx, token, now); err != nil {
		if errors.Is(err, customerrors.ErrLinkExpired) {
			return Outcome{Kind: Expired, Link: link}, nil
		}
		if errors.Is(err, customerrors.ErrLinkNotFound) {
			log.Printf("[RESOLVER] Link %s disappeared before its click was counted", token)
			return Outcome{Kind: NotFound}, nil
		}
		return Outcome{}, fmt.Errorf("resolve %s: %w", token, err)
	}
	link.ClickCount++

	p := platform.Classify(userAgent)
	return Outcome{
		Kind:     Found,
		Link:     link,
		Platform: p,
		Plan:     PlanDestination(link, p),
	}, nil
}

// PlanDestination computes the targets for link as seen from platform p.
func PlanDestination(link *models.Link, p platform.Platform) *DestinationPlan {
	info := link.DynamicLinkInfo

	plan := &DestinationPlan{
		Action:        ActionRedirect,
		DeepLink:      DeepLink(info),
		PlayStoreURL:  PlayStoreURL(info.AndroidPackage()),
		AppleStoreURL: AppStoreURL(info.IOSBundle()),
		TargetURL:     link.TargetURL,
		Social:        info.Social(),
	}
	if p.IsNative() {
		plan.Action = ActionInterstitial
	}

	switch p {
	case platform.Android:
		plan.FallbackURL = info.AndroidFallback()
		plan.AppStoreURL = plan.PlayStoreURL
	case platform.IOS:
		plan.FallbackURL = info.IOSFallback()
		plan.AppStoreURL = plan.AppleStoreURL
	}
	if plan.FallbackURL == "" {
		plan.FallbackURL = link.TargetURL
	}

	return plan
}

// DeepLink builds the custom-scheme link that opens the native app.
// tokenType and token are echoed as given; the app parses the raw payload.
// With neither set, only the scheme is returned.
func DeepLink(info models.DynamicLinkInfo) string {
	scheme := info.DeepLinkScheme()
	if info.TokenType == "" && info.Token == "" {
		return scheme + "://"
	}
	return fmt.Sprintf("%s://%s=%s", scheme, info.TokenType, info.Token)
}

// PlayStoreURL returns the Google Play page of packageName, or "" when absent.
func PlayStoreURL(packageName string) string {
	if packageName == "" {
		return ""
	}
	return "https://play.google.com/store/apps/details?id=" + url.QueryEscape(packageName)
}

// AppStoreURL returns the Apple App Store page of bundleID, or "" when absent.
func AppStoreURL(bundleID string) string {
	if bundleID == "" {
		return ""
	}
	return "https://apps.apple.com/app/" + url.PathEscape(bundleID)
}
