package zaptec

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

//go:embed data/constants.json
var constantsJSON []byte

type countryRecord struct {
	Name string `json:"Name"`
	Code string `json:"Code"`
}

type deviceSchema struct {
	ObservationIds map[string]int `json:"ObservationIds"`
}

// Constants is the vendor-published schema document: observation, command,
// operation mode, country and network type tables. Loaded once from the
// embedded JSON and never mutated afterwards.
type Constants struct {
	Observations          map[string]int           `json:"Observations"`
	Schema                map[string]deviceSchema  `json:"Schema"`
	DeviceTypes           map[string]int           `json:"DeviceTypes"`
	Commands              map[string]int           `json:"Commands"`
	ChargerOperationModes map[string]int           `json:"ChargerOperationModes"`
	Countries             map[string]countryRecord `json:"Countries"`
	NetworkTypes          map[string]int           `json:"NetworkTypes"`

	mu           sync.Mutex
	deviceTables map[int]map[int]string
}

var _constantsInstance *Constants
var _constantsOnce sync.Once

func GetConstants() *Constants {
	_constantsOnce.Do(func() {
		c, err := ParseConstants(constantsJSON)
		if err != nil {
			log.Panicln(err)
		}
		_constantsInstance = c
	})
	return _constantsInstance
}

func ParseConstants(data []byte) (*Constants, error) {
	c := &Constants{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	c.deviceTables = make(map[int]map[int]string)
	return c, nil
}

// ObservationName resolves a numeric state id for the given device type. The
// device-type-specific table takes precedence over the global one on id
// collisions.
func (c *Constants) ObservationName(stateID int, deviceType int) (string, error) {
	table, err := c.deviceTypeObservations(deviceType)
	if err != nil {
		return "", err
	}
	name, ok := table[stateID]
	if !ok {
		return "", fmt.Errorf("%w: %d (device type %d)", ErrUnknownObservation, stateID, deviceType)
	}
	return name, nil
}

// CommandID resolves a symbolic command name. An unknown name is a caller
// bug, not a runtime condition.
func (c *Constants) CommandID(command string) (int, error) {
	id, ok := c.Commands[command]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
	return id, nil
}

func (c *Constants) OperationModeName(mode int) (string, error) {
	for name, m := range c.ChargerOperationModes {
		if m == mode {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %d", ErrUnknownOperationMode, mode)
}

func (c *Constants) OperationModeID(name string) (int, error) {
	mode, ok := c.ChargerOperationModes[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperationMode, name)
	}
	return mode, nil
}

// CountryCode returns the ISO 3166-1 alpha-3 code for a country id, or ""
// when the id is empty or not listed.
func (c *Constants) CountryCode(countryID string) string {
	return c.Countries[countryID].Code
}

func (c *Constants) NetworkTypeName(networkType int) (string, error) {
	for name, t := range c.NetworkTypes {
		if t == networkType {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %d", ErrUnknownNetworkType, networkType)
}

func (c *Constants) DeviceTypeName(deviceType int) (string, error) {
	for name, t := range c.DeviceTypes {
		if t == deviceType {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %d", ErrUnknownDeviceType, deviceType)
}

// deviceTypeObservations merges the global observation table with the
// device-type overlay. The schema is static, so the merged table is computed
// once per device type.
func (c *Constants) deviceTypeObservations(deviceType int) (map[int]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if table, ok := c.deviceTables[deviceType]; ok {
		return table, nil
	}

	deviceTypeName, err := c.DeviceTypeName(deviceType)
	if err != nil {
		return nil, err
	}

	table := make(map[int]string, len(c.Observations))
	for name, id := range c.Observations {
		table[id] = name
	}
	for name, id := range c.Schema[deviceTypeName].ObservationIds {
		table[id] = name
	}

	c.deviceTables[deviceType] = table
	return table, nil
}
