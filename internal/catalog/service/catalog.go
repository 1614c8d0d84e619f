package service

import (
	"context"
	"errors"

	catalogerrors "doctortravel/internal/catalog/errors"
	"doctortravel/internal/catalog/repository"
	apperrors "doctortravel/pkg/errors"
	"doctortravel/pkg/logger"
	"doctortravel/pkg/model"
	"doctortravel/pkg/sanitizer"
)

type CatalogService interface {
	// List returns local packages first, then international ones.
	List(ctx context.Context, search string) ([]model.Package, error)
	Get(ctx context.Context, id string, isLocal bool) (*model.Package, error)
}

type catalogService struct {
	repo repository.PackageRepository
	log  *logger.Logger
}

func NewCatalogService(repo repository.PackageRepository, log *logger.Logger) CatalogService {
	return &catalogService{repo: repo, log: log}
}

func (s *catalogService) List(ctx context.Context, search string) ([]model.Package, error) {
	search = sanitizer.NormalizeSearch(search)

	local, err := s.repo.ListLocal(ctx, search)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve packages", err)
	}
	international, err := s.repo.ListInternational(ctx, search)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve packages", err)
	}

	packages := make([]model.Package, 0, len(local)+len(international))
	for i := range local {
		packages = append(packages, repository.ToPackage(&local[i].PackageRecord, true))
	}
	for i := range international {
		packages = append(packages, repository.ToPackage(&international[i].PackageRecord, false))
	}
	return packages, nil
}

func (s *catalogService) Get(ctx context.Context, id string, isLocal bool) (*model.Package, error) {
	numericID, err := model.Package{ID: id}.NumericID()
	if err != nil {
		return nil, apperrors.InvalidInput(catalogerrors.ErrInvalidID.Error())
	}

	var record *model.PackageRecord
	if isLocal {
		row, err := s.repo.GetLocal(ctx, numericID)
		if err != nil {
			return nil, s.getError(id, err)
		}
		record = &row.PackageRecord
	} else {
		row, err := s.repo.GetInternational(ctx, numericID)
		if err != nil {
			return nil, s.getError(id, err)
		}
		record = &row.PackageRecord
	}

	pkg := repository.ToPackage(record, isLocal)
	return &pkg, nil
}

func (s *catalogService) getError(id string, err error) error {
	if errors.Is(err, catalogerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Package", id)
	}
	return apperrors.Internal("Failed to retrieve package", err)
}
