package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/tgo/gridsense/internal/weather"
)

// chartWindow caps how much data one chart shows. Wider windows turn
// hourly lines into unreadable clutter, so later rows are silently
// dropped rather than rejected.
const chartWindow = 7 * 24 * time.Hour

type chartField struct {
	key   string
	title string
	value func(r weather.Record) float64
}

// chartFields fixes the set and order of rendered charts; artifact names
// are derived from the keys as "<key>_plot.png".
var chartFields = []chartField{
	{"2m_temperature", "2m Temperature", func(r weather.Record) float64 { return r.Temperature2M }},
	{"total_precipitation_6hr", "6-Hour Total Precipitation", func(r weather.Record) float64 { return r.Precipitation6H }},
	{"mean_sea_level_pressure", "Mean Sea Level Pressure", func(r weather.Record) float64 { return r.MeanSeaLevelPressure }},
	{"10m_u_component_of_wind", "10m u component of wind", func(r weather.Record) float64 { return r.WindU10M }},
	{"10m_v_component_of_wind", "10m v component of wind", func(r weather.Record) float64 { return r.WindV10M }},
	{"100_specific_humidity", "100 Specific Humidity", func(r weather.Record) float64 { return r.SpecificHumidity100 }},
}

// clipToWindow keeps records with Time in [min, min+window), min being
// the earliest timestamp present.
func clipToWindow(records []weather.Record, window time.Duration) []weather.Record {
	if len(records) == 0 {
		return records
	}
	min := records[0].Time
	for _, r := range records[1:] {
		if r.Time.Before(min) {
			min = r.Time
		}
	}
	cutoff := min.Add(window)
	clipped := make([]weather.Record, 0, len(records))
	for _, r := range records {
		if r.Time.Before(cutoff) {
			clipped = append(clipped, r)
		}
	}
	return clipped
}

// renderFieldCharts renders one PNG per chart field, concurrently. The
// renders share only the read-only dataset; all must finish before the
// images are returned, in chartFields order.
func renderFieldCharts(ctx context.Context, records []weather.Record) ([][]byte, error) {
	images := make([][]byte, len(chartFields))
	g, _ := errgroup.WithContext(ctx)
	for i, field := range chartFields {
		i, field := i, field
		g.Go(func() error {
			img, err := renderChart(field, records)
			if err != nil {
				return fmt.Errorf("render %s: %w", field.key, err)
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// renderChart draws one field as a time series, one colored line per
// calendar year, with date-formatted ticks.
func renderChart(field chartField, records []weather.Record) ([]byte, error) {
	p := plot.New()
	p.Title.Text = field.title
	p.X.Label.Text = "Time"
	p.Y.Label.Text = field.title
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan-02 15:04"}
	p.Legend.Top = true

	byYear := make(map[int]plotter.XYs)
	for _, r := range records {
		year := r.Time.Year()
		byYear[year] = append(byYear[year], plotter.XY{
			X: float64(r.Time.Unix()),
			Y: field.value(r),
		})
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	for i, year := range years {
		pts := byYear[year]
		sort.Slice(pts, func(a, b int) bool { return pts[a].X < pts[b].X })
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%d", year), line)
	}

	w, err := p.WriterTo(12*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
