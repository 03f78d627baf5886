package zaptec

import (
	"encoding/json"
	"strings"
	"time"
)

// MeterReading is a normalized energy counter decoded from an OCMF envelope.
// https://github.com/SAFE-eV/OCMF-Open-Charge-Metering-Format/blob/master/OCMF-en.md
type MeterReading struct {
	ReadingKwh float64
	Timestamp  time.Time
}

const (
	ocmfStatusGood = "G"
	ocmfUnitKwh    = "kWh"
	ocmfUnitWh     = "Wh"
)

type ocmfReading struct {
	Timestamp string  `json:"TM"`
	Value     float64 `json:"RV"`
	Unit      string  `json:"RU"`
	Status    string  `json:"ST"`
}

type ocmfPayload struct {
	Readings []ocmfReading `json:"RD"`
}

// The TM field embeds a millisecond fraction with a comma separator and may
// carry a UTC offset with or without a colon, e.g.
// "2018-07-24T13:22:04,000+0200 S". The trailing character is a sync status.
var ocmfTimeLayouts = []string{
	"2006-01-02T15:04:05,000Z07:00",
	"2006-01-02T15:04:05,000-0700",
	"2006-01-02T15:04:05,000",
	"2006-01-02T15:04:05",
}

// ParseMeterReading decodes an OCMF envelope ("OCMF|<json>|<signature>") into
// a meter reading. It selects the first reading with a good status flag that
// is denominated in Wh or kWh; when no reading qualifies the result is nil
// without an error.
func ParseMeterReading(envelope string) (*MeterReading, error) {
	parts := strings.Split(envelope, "|")
	if len(parts) < 2 {
		return nil, nil
	}

	var payload ocmfPayload
	if err := json.Unmarshal([]byte(parts[1]), &payload); err != nil {
		return nil, err
	}

	for _, reading := range payload.Readings {
		if reading.Status != ocmfStatusGood {
			continue
		}
		if reading.Unit != ocmfUnitWh && reading.Unit != ocmfUnitKwh {
			continue
		}

		timestamp, err := parseOcmfTime(reading.Timestamp)
		if err != nil {
			return nil, err
		}

		kwh := reading.Value
		if reading.Unit == ocmfUnitWh {
			kwh /= 1000.0
		}

		return &MeterReading{
			ReadingKwh: kwh,
			Timestamp:  timestamp,
		}, nil
	}

	return nil, nil
}

func parseOcmfTime(value string) (time.Time, error) {
	raw, _, _ := strings.Cut(value, " ")

	var err error
	for _, layout := range ocmfTimeLayouts {
		var ts time.Time
		ts, err = time.Parse(layout, raw)
		if err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, err
}
