package repository

import (
	"context"
	"errors"
	"fmt"

	favoriteserrors "doctortravel/internal/favorites/errors"
	"doctortravel/pkg/config"
	"doctortravel/pkg/model"

	"gorm.io/gorm"
)

type FavoriteRepository interface {
	FindByUser(ctx context.Context, userID string) ([]model.Favorite, error)
	Insert(ctx context.Context, userID string, key model.PackageKey) error
	Delete(ctx context.Context, userID string, key model.PackageKey) error
}

type gormFavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(cfg *config.Config) FavoriteRepository {
	return &gormFavoriteRepository{db: cfg.Client.Postgres}
}

func NewFavoriteRepositoryWithDB(db *gorm.DB) FavoriteRepository {
	return &gormFavoriteRepository{db: db}
}

// FindByUser returns the user's rows joined with whichever package table
// each row points at.
func (r *gormFavoriteRepository) FindByUser(ctx context.Context, userID string) ([]model.Favorite, error) {
	var rows []model.Favorite
	err := r.db.WithContext(ctx).
		Preload("PackageInfo").
		Preload("LocalPackageInfo").
		Where("user_id = ?", userID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return rows, nil
}

func (r *gormFavoriteRepository) Insert(ctx context.Context, userID string, key model.PackageKey) error {
	id, err := packageID(key)
	if err != nil {
		return err
	}

	row := model.Favorite{UserID: userID}
	if key.IsLocal {
		row.LocalPackageID = &id
	} else {
		row.PackageID = &id
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return favoriteserrors.ErrAlreadyFavorited
		}
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

func (r *gormFavoriteRepository) Delete(ctx context.Context, userID string, key model.PackageKey) error {
	id, err := packageID(key)
	if err != nil {
		return err
	}

	column := "package_id"
	if key.IsLocal {
		column = "local_package_id"
	}

	err = r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(column+" = ?", id).
		Delete(&model.Favorite{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

func packageID(key model.PackageKey) (int64, error) {
	id, err := model.Package{ID: key.ID}.NumericID()
	if err != nil {
		return 0, favoriteserrors.ErrInvalidPackageID
	}
	return id, nil
}
