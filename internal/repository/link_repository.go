package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	customerrors "github.com/axellelanca/dynamiclinks/internal/errors"
	"github.com/axellelanca/dynamiclinks/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// LinkRepository est une interface qui définit les méthodes d'accès aux liens.
// Implementations must make IncrementClickCount atomic at the store level:
// the expiry check and the increment happen in one step.
type LinkRepository interface {
	CreateLink(ctx context.Context, link *models.Link) error
	GetLinkByToken(ctx context.Context, token string) (*models.Link, error)
	// IncrementClickCount adds one click unless the link is expired at now,
	// in which case it returns ErrLinkExpired and leaves the count unchanged.
	IncrementClickCount(ctx context.Context, token string, now time.Time) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// OpenDatabase opens the SQLite database used by the GORM Link Store.
// Writes are serialized on a single connection, which also keeps ":memory:"
// databases shared across calls.
func OpenDatabase(name string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// GormLinkRepository est l'implémentation de LinkRepository utilisant GORM.
type GormLinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository crée et retourne une nouvelle instance de GormLinkRepository.
func NewLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// CreateLink insère un nouveau lien dans la base de données.
func (r *GormLinkRepository) CreateLink(ctx context.Context, link *models.Link) error {
	if link.TargetURL == "" {
		return customerrors.NewValidationError("dynamicLinkInfo.link", "is required")
	}
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("token %q: %w", link.Token, customerrors.ErrDuplicateToken)
		}
		return customerrors.StoreUnavailable("create link", err)
	}
	return nil
}

// GetLinkByToken récupère un lien en utilisant son token.
// Expired records are returned as-is; callers decide what expiry means.
func (r *GormLinkRepository) GetLinkByToken(ctx context.Context, token string) (*models.Link, error) {
	var link models.Link
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.ErrLinkNotFound
		}
		return nil, customerrors.StoreUnavailable("get link", err)
	}
	return &link, nil
}

// IncrementClickCount adds one click in a single conditional UPDATE statement.
func (r *GormLinkRepository) IncrementClickCount(ctx context.Context, token string, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Link{}).
		Where("token = ? AND (expires_at IS NULL OR expires_at > ?)", token, now.UTC()).
		UpdateColumn("click_count", gorm.Expr("click_count + ?", 1))
	if res.Error != nil {
		return customerrors.StoreUnavailable("increment clicks", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Link{}).Where("token = ?", token).Count(&count).Error; err != nil {
		return customerrors.StoreUnavailable("increment clicks", err)
	}
	if count > 0 {
		return customerrors.ErrLinkExpired
	}
	return customerrors.ErrLinkNotFound
}

// DeleteExpired supprime les liens dont l'expiration est antérieure à cutoff.
func (r *GormLinkRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", cutoff.UTC()).
		Delete(&models.Link{})
	if res.Error != nil {
		return 0, customerrors.StoreUnavailable("delete expired links", res.Error)
	}
	return res.RowsAffected, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
