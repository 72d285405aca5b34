package model

// Country is a row in the `countries` table.  Names are unique.
type Country struct {
	ID   uint64 `json:"id"`   // countries.id
	Name string `json:"name"` // countries.name
}

// City belongs to a country.  Deleting a country removes its cities.
type City struct {
	ID        uint64 `json:"id"`         // cities.id
	Name      string `json:"name"`       // cities.name
	CountryID uint64 `json:"country_id"` // cities.country_id
}

// Airport is attached to the closest big city.  Routes reference
// airports as their source and destination.
type Airport struct {
	ID             uint64 `json:"id"`                // airports.id
	Name           string `json:"name"`              // airports.name
	ClosestCityID  uint64 `json:"closest_big_city"`  // airports.closest_big_city_id
	ClosestCity    string `json:"city,omitempty"`    // joined cities.name
	ClosestCountry string `json:"country,omitempty"` // joined countries.name
}
