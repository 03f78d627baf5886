package zaptec

type Charger struct {
	Id               string `json:"Id"`
	Name             string `json:"Name"`
	DeviceId         string `json:"DeviceId"`
	DeviceType       int    `json:"DeviceType"`
	InstallationName string `json:"InstallationName"`
	InstallationId   string `json:"InstallationId"`
	Active           bool   `json:"Active"`
}

type chargersResponse struct {
	Pages int       `json:"Pages"`
	Data  []Charger `json:"Data"`
}
