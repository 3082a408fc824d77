package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/tgo/gridsense/internal/weather"
)

func TestClipToWindowExclusiveCutoff(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	records := hourlyRecords(start, 8*24)

	clipped := clipToWindow(records, chartWindow)
	if len(clipped) != 7*24 {
		t.Fatalf("got %d records, want %d", len(clipped), 7*24)
	}
	cutoff := start.Add(chartWindow)
	for _, r := range clipped {
		if !r.Time.Before(cutoff) {
			t.Errorf("record at %v survived the clip, cutoff is %v exclusive", r.Time, cutoff)
		}
	}
}

func TestClipToWindowFindsEarliest(t *testing.T) {
	start := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
	records := hourlyRecords(start, 24)
	// Prepend nothing; append an out-of-order earlier record that moves
	// the window start back far enough to exclude the rest
	early := weather.NewRecord(start.AddDate(0, 0, -10), 15, 0, 1000, 3, 90, 50)
	records = append(records, early)

	clipped := clipToWindow(records, chartWindow)
	if len(clipped) != 1 {
		t.Fatalf("got %d records, want only the earliest", len(clipped))
	}
	if !clipped[0].Time.Equal(early.Time) {
		t.Errorf("kept record at %v, want %v", clipped[0].Time, early.Time)
	}
}

func TestClipToWindowEmpty(t *testing.T) {
	if got := clipToWindow(nil, chartWindow); len(got) != 0 {
		t.Errorf("got %d records from nil input", len(got))
	}
}

func TestRenderFieldChartsProducesAllImages(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	records := hourlyRecords(start, 24)

	images, err := renderFieldCharts(context.Background(), records)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(images) != len(chartFields) {
		t.Fatalf("got %d images, want %d", len(images), len(chartFields))
	}
	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	for i, img := range images {
		if len(img) < len(pngMagic) {
			t.Errorf("image[%d] too short: %d bytes", i, len(img))
			continue
		}
		for j, b := range pngMagic {
			if img[j] != b {
				t.Errorf("image[%d] is not a PNG", i)
				break
			}
		}
	}
}
