package selector

import "grubguide-api/internal/places"

// PlaceholderPhotos are served by the frontend when a place has no photos.
var PlaceholderPhotos = []string{
	"/images/placeholder-1.jpg",
	"/images/placeholder-2.jpg",
	"/images/placeholder-3.jpg",
	"/images/placeholder-4.jpg",
	"/images/placeholder-5.jpg",
}

// Result is the enriched restaurant returned to the client. Field names follow
// the Places search payload so the frontend can read it unchanged.
type Result struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	FormattedAddress string        `json:"formatted_address"`
	Geometry         Geometry      `json:"geometry"`
	Rating           float64       `json:"rating,omitempty"`
	UserRatingsTotal int           `json:"user_ratings_total,omitempty"`
	PriceLevel       *int          `json:"price_level,omitempty"`
	Types            []string      `json:"types,omitempty"`
	BusinessStatus   string        `json:"business_status,omitempty"`
	OpeningHours     *OpeningHours `json:"opening_hours,omitempty"`
	Photos           []string      `json:"photos"`
	Distance         string        `json:"distance"`
}

type Geometry struct {
	Location places.LatLng `json:"location"`
}

type OpeningHours struct {
	OpenNow bool `json:"open_now"`
}

func newResult(c places.Candidate, photos []string, distance string) Result {
	r := Result{
		PlaceID:          c.PlaceID,
		Name:             c.Name,
		FormattedAddress: c.FormattedAddress,
		Geometry:         Geometry{Location: c.Location},
		Rating:           c.Rating,
		UserRatingsTotal: c.UserRatingsTotal,
		PriceLevel:       c.PriceLevel,
		Types:            c.Types,
		BusinessStatus:   c.BusinessStatus,
		Photos:           photos,
		Distance:         distance,
	}
	if c.OpenNow != nil {
		r.OpeningHours = &OpeningHours{OpenNow: *c.OpenNow}
	}
	return r
}
