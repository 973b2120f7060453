package entity

// Location is the canonical pickup/route point representation.
// Requests may arrive in two shapes (nested coordinates or flat
// latitude/longitude); they are normalized into this one before
// anything touches the database.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Complete reports whether the location carries the full
// address + coordinate triple.
func (l Location) Complete() bool {
	return l.Address != "" && l.Lat != 0 && l.Lng != 0
}
