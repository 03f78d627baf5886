package zaptec

import (
	"fmt"
	"strconv"
)

const (
	OperationModeDisconnected        = "Disconnected"
	OperationModeConnectedRequesting = "Connected_Requesting"
	OperationModeConnectedCharging   = "Connected_Charging"
)

// Observation is a single raw state record as returned by the charger state
// endpoint.
type Observation struct {
	ChargerId     string `json:"ChargerId"`
	StateId       int    `json:"StateId"`
	Timestamp     string `json:"Timestamp"`
	ValueAsString string `json:"ValueAsString"`
}

// State maps the observations of one charger to their symbolic names. Ids
// missing from the schema are kept under a synthesized key so a partially
// known snapshot still decodes.
type State struct {
	data      map[string]string
	constants *Constants

	meterReading *MeterReading
	meterDecoded bool
}

func NewState(observations []Observation, deviceType int, constants *Constants) *State {
	data := make(map[string]string, len(observations))
	for _, observation := range observations {
		name, err := constants.ObservationName(observation.StateId, deviceType)
		if err != nil {
			name = fmt.Sprintf("Unknown state id '%d' (device type '%d')", observation.StateId, deviceType)
		}
		data[name] = observation.ValueAsString
	}
	return &State{
		data:      data,
		constants: constants,
	}
}

func (s *State) TotalChargePower() (float64, error) {
	return s.floatValue("TotalChargePower")
}

func (s *State) MaxPhases() (int, error) {
	return s.intValue("MaxPhases")
}

func (s *State) TotalChargePowerSession() (float64, error) {
	return s.floatValue("TotalChargePowerSession")
}

func (s *State) Online() (bool, error) {
	online, err := s.intValue("IsOnline")
	if err != nil {
		return false, err
	}
	return online > 0, nil
}

// OperationMode resolves the ChargerOperationMode observation to its symbolic
// name, "Unknown" when the numeric mode is not listed in the schema.
func (s *State) OperationMode() (string, error) {
	value, err := s.value("ChargerOperationMode")
	if err != nil {
		return "", err
	}
	mode, _ := strconv.Atoi(value)
	name, err := s.constants.OperationModeName(mode)
	if err != nil {
		return "Unknown", nil
	}
	return name, nil
}

func (s *State) Charging() (bool, error) {
	mode, err := s.OperationMode()
	if err != nil {
		return false, err
	}
	return mode == OperationModeConnectedCharging || mode == OperationModeConnectedRequesting, nil
}

func (s *State) Disconnected() (bool, error) {
	mode, err := s.OperationMode()
	if err != nil {
		return false, err
	}
	return mode == OperationModeDisconnected, nil
}

// MeterReading decodes the SignedMeterValue observation on first use and
// caches the result. A nil reading means no qualifying OCMF record exists.
func (s *State) MeterReading() (*MeterReading, error) {
	if s.meterDecoded {
		return s.meterReading, nil
	}
	envelope, err := s.value("SignedMeterValue")
	if err != nil {
		return nil, err
	}
	reading, err := ParseMeterReading(envelope)
	if err != nil {
		return nil, err
	}
	s.meterReading = reading
	s.meterDecoded = true
	return reading, nil
}

func (s *State) value(name string) (string, error) {
	value, ok := s.data[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return value, nil
}

func (s *State) floatValue(name string) (float64, error) {
	value, err := s.value(name)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(value, 64)
}

func (s *State) intValue(name string) (int, error) {
	value, err := s.value(name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}
