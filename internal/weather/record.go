package weather

import (
	"math"
	"time"
)

// Record is one normalized hourly weather observation or forecast row.
//
// InitTime is always the UTC day floor of Time; it is derived at
// construction and never supplied independently. The single-day filter in
// the pipeline relies on this invariant (InitTime.Hour() == 0 by
// construction for every loaded record).
type Record struct {
	InitTime             time.Time `json:"init_time"`
	Time                 time.Time `json:"time"`
	Temperature2M        float64   `json:"2m_temperature"`
	Precipitation6H      float64   `json:"total_precipitation_6hr"`
	MeanSeaLevelPressure float64   `json:"mean_sea_level_pressure"`
	WindU10M             float64   `json:"10m_u_component_of_wind"`
	WindV10M             float64   `json:"10m_v_component_of_wind"`
	SpecificHumidity100  float64   `json:"100_specific_humidity"`
}

// NewRecord normalizes one raw hourly row. Wind speed/direction arrive in
// the meteorological "from-direction" convention (degrees clockwise from
// north), so u = -speed*sin(theta), v = -speed*cos(theta). Relative
// humidity arrives in percent and is stored as a fraction.
func NewRecord(t time.Time, temperature, precipitation, pressure, windSpeed, windDirectionDeg, relativeHumidity float64) Record {
	theta := windDirectionDeg * math.Pi / 180
	return Record{
		InitTime:             DayFloor(t),
		Time:                 t,
		Temperature2M:        temperature,
		Precipitation6H:      precipitation,
		MeanSeaLevelPressure: pressure,
		WindU10M:             -windSpeed * math.Sin(theta),
		WindV10M:             -windSpeed * math.Cos(theta),
		SpecificHumidity100:  relativeHumidity / 100.0,
	}
}

// DayFloor truncates a timestamp to midnight UTC of its calendar day.
func DayFloor(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
