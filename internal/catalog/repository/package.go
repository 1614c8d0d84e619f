package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	catalogerrors "doctortravel/internal/catalog/errors"
	"doctortravel/pkg/config"
	"doctortravel/pkg/model"

	"gorm.io/gorm"
)

type PackageRepository interface {
	ListLocal(ctx context.Context, search string) ([]model.LocalPackageInfo, error)
	ListInternational(ctx context.Context, search string) ([]model.PackageInfo, error)
	GetLocal(ctx context.Context, id int64) (*model.LocalPackageInfo, error)
	GetInternational(ctx context.Context, id int64) (*model.PackageInfo, error)
}

type gormPackageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(cfg *config.Config) PackageRepository {
	return &gormPackageRepository{db: cfg.Client.Postgres}
}

func (r *gormPackageRepository) ListLocal(ctx context.Context, search string) ([]model.LocalPackageInfo, error) {
	var rows []model.LocalPackageInfo
	if err := r.query(ctx, search).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list local packages: %w", err)
	}
	return rows, nil
}

func (r *gormPackageRepository) ListInternational(ctx context.Context, search string) ([]model.PackageInfo, error) {
	var rows []model.PackageInfo
	if err := r.query(ctx, search).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return rows, nil
}

func (r *gormPackageRepository) GetLocal(ctx context.Context, id int64) (*model.LocalPackageInfo, error) {
	var row model.LocalPackageInfo
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (r *gormPackageRepository) GetInternational(ctx context.Context, id int64) (*model.PackageInfo, error) {
	var row model.PackageInfo
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (r *gormPackageRepository) query(ctx context.Context, search string) *gorm.DB {
	q := r.db.WithContext(ctx).Order("id")
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		q = q.Where("name ILIKE ? OR destination ILIKE ?", pattern, pattern)
	}
	return q
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return catalogerrors.ErrNotFound
	}
	return fmt.Errorf("failed to get package: %w", err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
