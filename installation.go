package zaptec

type Installation struct {
	Id        string  `json:"Id"`
	Name      string  `json:"Name"`
	Address   string  `json:"Address"`
	ZipCode   string  `json:"ZipCode"`
	City      string  `json:"City"`
	CountryId string  `json:"CountryId"`
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`

	// Resolved from CountryId through the schema, empty when unlisted.
	CountryCode string `json:"-"`
}
