package repository

import (
	"strconv"

	"doctortravel/pkg/model"
)

// ToPackages maps joined favorite rows to packages. A row whose local package
// is present maps as local; rows that resolve to no package are dropped.
func ToPackages(rows []model.Favorite) []model.Package {
	packages := make([]model.Package, 0, len(rows))
	for _, row := range rows {
		var (
			record  *model.PackageRecord
			isLocal bool
		)
		switch {
		case row.LocalPackageInfo != nil:
			record, isLocal = &row.LocalPackageInfo.PackageRecord, true
		case row.PackageInfo != nil:
			record = &row.PackageInfo.PackageRecord
		default:
			continue
		}
		packages = append(packages, toPackage(record, isLocal))
	}
	return packages
}

func toPackage(r *model.PackageRecord, isLocal bool) model.Package {
	name := model.Str(r.Name)
	if name == "" {
		name = model.UnknownPackage
	}
	destination := model.Str(r.Destination)
	if destination == "" {
		destination = model.UnknownDestination
	}

	var price float64
	if r.Price != nil {
		price = *r.Price
	}

	return model.Package{
		ID:          strconv.FormatInt(r.ID, 10),
		Name:        name,
		Airline:     name,
		Destination: destination,
		Location:    model.Str(r.Location),
		Price:       price,
		Image:       model.Str(r.MainPhoto),
		Description: model.Str(r.Description),
		IsLocal:     isLocal,
	}
}
