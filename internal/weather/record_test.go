package weather

import (
	"math"
	"testing"
	"time"
)

func TestNewRecordDerivesInitTime(t *testing.T) {
	ts := time.Date(2024, 6, 3, 17, 0, 0, 0, time.UTC)
	r := NewRecord(ts, 21.5, 0.2, 1013.4, 10, 90, 55)

	want := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	if !r.InitTime.Equal(want) {
		t.Errorf("InitTime = %v, want %v", r.InitTime, want)
	}
	if r.InitTime.Hour() != 0 {
		t.Errorf("InitTime hour = %d, want 0", r.InitTime.Hour())
	}
}

func TestNewRecordWindComponents(t *testing.T) {
	tests := []struct {
		name         string
		speed, dir   float64
		wantU, wantV float64
	}{
		// Wind FROM north blows toward south: v negative
		{"from north", 10, 0, 0, -10},
		// Wind FROM east blows toward west: u negative
		{"from east", 10, 90, -10, 0},
		{"from south", 10, 180, 0, 10},
		{"from west", 10, 270, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecord(time.Now(), 0, 0, 0, tt.speed, tt.dir, 0)
			if math.Abs(r.WindU10M-tt.wantU) > 1e-9 {
				t.Errorf("u = %g, want %g", r.WindU10M, tt.wantU)
			}
			if math.Abs(r.WindV10M-tt.wantV) > 1e-9 {
				t.Errorf("v = %g, want %g", r.WindV10M, tt.wantV)
			}
		})
	}
}

func TestNewRecordHumidityFraction(t *testing.T) {
	r := NewRecord(time.Now(), 0, 0, 0, 0, 0, 55)
	if math.Abs(r.SpecificHumidity100-0.55) > 1e-9 {
		t.Errorf("humidity = %g, want 0.55", r.SpecificHumidity100)
	}
}

func TestDayFloor(t *testing.T) {
	ts := time.Date(2024, 2, 29, 23, 59, 59, 500, time.UTC)
	got := DayFloor(ts)
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DayFloor(%v) = %v, want %v", ts, got, want)
	}
}
