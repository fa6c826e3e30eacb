// Package services contains the business logic layer for the dynamic link service
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	customerrors "github.com/axellelanca/dynamiclinks/internal/errors"
	"github.com/axellelanca/dynamiclinks/internal/models"
	"github.com/axellelanca/dynamiclinks/internal/repository"
)

// DefaultMaxCreateRetries bounds token regeneration on collisions.
const DefaultMaxCreateRetries = 5

// Suffix is accepted on creation for compatibility; its option has no effect.
type Suffix struct {
	Option string `json:"option"`
}

// CreateLinkRequest is the shorten payload.
type CreateLinkRequest struct {
	DynamicLinkInfo  *models.DynamicLinkInfo `json:"dynamicLinkInfo"`
	Suffix           *Suffix                 `json:"suffix,omitempty"`
	ExpiresInMinutes int                     `json:"expiresInMinutes,omitempty"`
}

// LinkService provides business logic methods for creating links and reading their stats.
type LinkService struct {
	linkRepo   repository.LinkRepository
	tokens     TokenGenerator
	maxRetries int
	now        func() time.Time
}

// NewLinkService creates and returns a new instance of LinkService.
func NewLinkService(linkRepo repository.LinkRepository, tokens TokenGenerator, maxRetries int) *LinkService {
	if maxRetries < 1 {
		maxRetries = DefaultMaxCreateRetries
	}
	return &LinkService{
		linkRepo:   linkRepo,
		tokens:     tokens,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// CreateLink validates the request and stores a new link under a freshly
// generated token.
//
// A token collision reported by the store triggers a new token, up to the
// retry budget, after which ErrTokenSpaceExhausted is returned. Any other store
// error is returned as is.
func (s *LinkService) CreateLink(ctx context.Context, req CreateLinkRequest) (*models.Link, error) {
	if req.DynamicLinkInfo == nil || req.DynamicLinkInfo.Link == "" {
		return nil, customerrors.NewValidationError("dynamicLinkInfo.link", "is required")
	}
	if req.ExpiresInMinutes < 0 {
		return nil, customerrors.NewValidationError("expiresInMinutes", "must not be negative")
	}

	now := s.now().UTC()
	var expiresAt *time.Time
	if req.ExpiresInMinutes > 0 {
		t := now.Add(time.Duration(req.ExpiresInMinutes) * time.Minute)
		expiresAt = &t
	}

	for i := 0; i < s.maxRetries; i++ {
		token, err := s.tokens.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}

		link := &models.Link{
			Token:           token,
			TargetURL:       req.DynamicLinkInfo.Link,
			DynamicLinkInfo: *req.DynamicLinkInfo,
			CreatedAt:       now,
			ExpiresAt:       expiresAt,
		}

		err = s.linkRepo.CreateLink(ctx, link)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, customerrors.ErrDuplicateToken) {
			return nil, err
		}

		log.Printf("Token '%s' already exists, retrying generation (%d/%d)...", token, i+1, s.maxRetries)
	}

	return nil, fmt.Errorf("%w after %d attempts", customerrors.ErrTokenSpaceExhausted, s.maxRetries)
}

// GetLinkStats returns the stored record for token without touching its
// click count. Records past their expiry are still reported until purged.
func (s *LinkService) GetLinkStats(ctx context.Context, token string) (*models.Link, error) {
	return s.linkRepo.GetLinkByToken(ctx, token)
}
