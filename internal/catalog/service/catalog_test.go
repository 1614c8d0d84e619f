package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	catalogerrors "doctortravel/internal/catalog/errors"
	apperrors "doctortravel/pkg/errors"
	"doctortravel/pkg/logger"
	"doctortravel/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPackageRepository struct {
	local         []model.LocalPackageInfo
	international []model.PackageInfo
	err           error
	lastSearch    string
}

func (m *mockPackageRepository) ListLocal(_ context.Context, search string) ([]model.LocalPackageInfo, error) {
	m.lastSearch = search
	return m.local, m.err
}

func (m *mockPackageRepository) ListInternational(_ context.Context, _ string) ([]model.PackageInfo, error) {
	return m.international, m.err
}

func (m *mockPackageRepository) GetLocal(_ context.Context, id int64) (*model.LocalPackageInfo, error) {
	for i := range m.local {
		if m.local[i].ID == id {
			return &m.local[i], nil
		}
	}
	return nil, catalogerrors.ErrNotFound
}

func (m *mockPackageRepository) GetInternational(_ context.Context, id int64) (*model.PackageInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.international {
		if m.international[i].ID == id {
			return &m.international[i], nil
		}
	}
	return nil, catalogerrors.ErrNotFound
}

func name(s string) *string { return &s }

func newMockRepo() *mockPackageRepository {
	return &mockPackageRepository{
		local: []model.LocalPackageInfo{
			{PackageRecord: model.PackageRecord{ID: 1, Name: name("Siargao")}},
		},
		international: []model.PackageInfo{
			{PackageRecord: model.PackageRecord{ID: 1, Name: name("Seoul")}},
			{PackageRecord: model.PackageRecord{ID: 2, Name: name("Osaka")}},
		},
	}
}

func TestCatalogService_ListLocalFirst(t *testing.T) {
	repo := newMockRepo()
	svc := NewCatalogService(repo, logger.Discard())

	packages, err := svc.List(context.Background(), "  SEOUL  ")
	require.NoError(t, err)

	require.Len(t, packages, 3)
	assert.Equal(t, model.PackageKey{ID: "1", IsLocal: true}, packages[0].Key())
	assert.Equal(t, model.PackageKey{ID: "1", IsLocal: false}, packages[1].Key())
	assert.Equal(t, "Osaka", packages[2].Name)
	assert.Equal(t, "seoul", repo.lastSearch)
}

func TestCatalogService_ListError(t *testing.T) {
	repo := newMockRepo()
	repo.err = errors.New("connection reset")
	svc := NewCatalogService(repo, logger.Discard())

	_, err := svc.List(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.AsAppError(err).StatusCode())
}

func TestCatalogService_Get(t *testing.T) {
	svc := NewCatalogService(newMockRepo(), logger.Discard())

	pkg, err := svc.Get(context.Background(), "1", true)
	require.NoError(t, err)
	assert.Equal(t, "Siargao", pkg.Name)
	assert.True(t, pkg.IsLocal)

	pkg, err = svc.Get(context.Background(), "1", false)
	require.NoError(t, err)
	assert.Equal(t, "Seoul", pkg.Name)

	_, err = svc.Get(context.Background(), "2", true)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)

	_, err = svc.Get(context.Background(), "abc", false)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.AsAppError(err).Code)
}
