package request

import (
	"ride-share/internal/apperr"
	"ride-share/internal/data/entity"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PickupLocation accepts both wire shapes: flat latitude/longitude
// fields, or a nested coordinates object. Normalize folds either into
// the canonical entity.Location.
type PickupLocation struct {
	Address     string       `json:"address"`
	Latitude    float64      `json:"latitude"`
	Longitude   float64      `json:"longitude"`
	Coordinates *Coordinates `json:"coordinates"`
}

type JoinRideRequest struct {
	PickupLocation PickupLocation `json:"pickupLocation" validate:"required"`
}

// Normalize resolves the accepted shapes into one location. Flat
// fields win over the nested pair when both are present. An incomplete
// triple fails before any transaction is opened.
func (p PickupLocation) Normalize() (entity.Location, error) {
	lat := p.Latitude
	lng := p.Longitude
	if p.Coordinates != nil {
		if lat == 0 {
			lat = p.Coordinates.Lat
		}
		if lng == 0 {
			lng = p.Coordinates.Lng
		}
	}

	loc := entity.Location{
		Address: p.Address,
		Lat:     lat,
		Lng:     lng,
	}

	if !loc.Complete() {
		return entity.Location{}, apperr.ErrInvalidPickup
	}

	return loc, nil
}
