package zaptec

type Circuit struct {
	Id             string    `json:"Id"`
	Name           string    `json:"Name"`
	MaxCurrent     float64   `json:"MaxCurrent"`
	IsActive       bool      `json:"IsActive"`
	InstallationId string    `json:"InstallationId"`
	Chargers       []Charger `json:"Chargers"`
}

type InstallationHierarchy struct {
	Id          string    `json:"Id"`
	Name        string    `json:"Name"`
	NetworkType int       `json:"NetworkType"`
	Circuits    []Circuit `json:"Circuits"`

	// Resolved from NetworkType through the schema, empty when unlisted.
	NetworkTypeName string `json:"-"`
}
