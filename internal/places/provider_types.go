package places

// Wire shapes of the Maps web service JSON responses.

const (
	statusOK            = "OK"
	statusZeroResults   = "ZERO_RESULTS"
	statusNotFound      = "NOT_FOUND"
	statusRequestDenied = "REQUEST_DENIED"
)

type providerLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type providerGeometry struct {
	Location providerLocation `json:"location"`
}

type providerPhoto struct {
	PhotoReference string `json:"photo_reference"`
	Height         int    `json:"height"`
	Width          int    `json:"width"`
}

type providerPlace struct {
	PlaceID          string           `json:"place_id"`
	Name             string           `json:"name"`
	FormattedAddress string           `json:"formatted_address"`
	Geometry         providerGeometry `json:"geometry"`
	Photos           []providerPhoto  `json:"photos"`
	Rating           float64          `json:"rating"`
	UserRatingsTotal int              `json:"user_ratings_total"`
	PriceLevel       *int             `json:"price_level"`
	Types            []string         `json:"types"`
	BusinessStatus   string           `json:"business_status"`
	OpeningHours     *struct {
		OpenNow *bool `json:"open_now"`
	} `json:"opening_hours"`
}

type providerTextSearchResponse struct {
	Results      []providerPlace `json:"results"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
}

type providerDetailsResponse struct {
	Result *struct {
		Photos []providerPhoto `json:"photos"`
	} `json:"result"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

type providerTextValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

type providerDistanceMatrixResponse struct {
	Rows []struct {
		Elements []struct {
			Status   string             `json:"status"`
			Distance *providerTextValue `json:"distance"`
			Duration *providerTextValue `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

type providerGeocodeResponse struct {
	Results []struct {
		FormattedAddress string           `json:"formatted_address"`
		Geometry         providerGeometry `json:"geometry"`
		PlaceID          string           `json:"place_id"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}
