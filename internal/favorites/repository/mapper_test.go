package repository

import (
	"testing"

	"doctortravel/pkg/model"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestToPackages(t *testing.T) {
	rows := []model.Favorite{
		{
			ID: 1,
			LocalPackageInfo: &model.LocalPackageInfo{PackageRecord: model.PackageRecord{
				ID:          11,
				Name:        ptr("Palawan Escape"),
				Destination: ptr("El Nido"),
				Location:    ptr("Palawan"),
				Price:       ptr(12999.5),
				MainPhoto:   ptr("https://img/1.jpg"),
				Description: ptr("Island hopping"),
			}},
		},
		{ID: 2},
		{
			ID:          3,
			PackageInfo: &model.PackageInfo{PackageRecord: model.PackageRecord{ID: 21}},
		},
		{
			ID:               4,
			PackageInfo:      &model.PackageInfo{PackageRecord: model.PackageRecord{ID: 31}},
			LocalPackageInfo: &model.LocalPackageInfo{PackageRecord: model.PackageRecord{ID: 32}},
		},
	}

	got := ToPackages(rows)

	assert.Equal(t, []model.Package{
		{
			ID:          "11",
			Name:        "Palawan Escape",
			Airline:     "Palawan Escape",
			Destination: "El Nido",
			Location:    "Palawan",
			Price:       12999.5,
			Image:       "https://img/1.jpg",
			Description: "Island hopping",
			IsLocal:     true,
		},
		{
			ID:          "21",
			Name:        model.UnknownPackage,
			Airline:     model.UnknownPackage,
			Destination: model.UnknownDestination,
		},
		{
			ID:          "32",
			Name:        model.UnknownPackage,
			Airline:     model.UnknownPackage,
			Destination: model.UnknownDestination,
			IsLocal:     true,
		},
	}, got)
}

func TestToPackages_Empty(t *testing.T) {
	assert.Empty(t, ToPackages(nil))
	assert.Empty(t, ToPackages([]model.Favorite{{ID: 1}, {ID: 2}}))
}
