package repository

import (
	"encoding/json"
	"strconv"

	"doctortravel/pkg/model"
)

const unknown = "Unknown"

// ToPackage maps a catalog row. Unlike favorites, the display name falls back
// to the destination and the location mirrors the destination.
func ToPackage(r *model.PackageRecord, isLocal bool) model.Package {
	destination := model.Str(r.Destination)

	name := model.Str(r.Name)
	if name == "" {
		name = destination
	}
	if name == "" {
		name = model.UnknownPackage
	}
	if destination == "" {
		destination = unknown
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
		Location:    destination,
		Price:       price,
		Image:       model.Str(r.MainPhoto),
		Description: model.Str(r.Description),
		Itinerary:   decodeList[model.ItineraryDay](r.Itinerary),
		Gallery:     decodeList[string](r.Gallery),
		Duration:    model.Str(r.Duration),
		Stops:       model.Str(r.Stops),
		Inclusions:  model.Str(r.Inclusions),
		Exclusions:  model.Str(r.Exclusions),
		Departure:   model.Str(r.Departure),
		Arrival:     model.Str(r.Arrival),
		Available:   r.Available,
		IsLocal:     isLocal,
	}
}

// decodeList reads a JSON array column. Anything else yields nil.
func decodeList[T any](column *string) []T {
	if column == nil || *column == "" {
		return nil
	}
	var out []T
	if err := json.Unmarshal([]byte(*column), &out); err != nil {
		return nil
	}
	return out
}
