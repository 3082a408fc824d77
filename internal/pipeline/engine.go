package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tgo/gridsense/internal/artifact"
	"github.com/tgo/gridsense/internal/geo"
	"github.com/tgo/gridsense/internal/status"
	"github.com/tgo/gridsense/internal/weather"
)

// Narrator turns a fixed analytical instruction plus chart images into a
// short text narrative. Implemented by the eino-backed model adapter.
type Narrator interface {
	Narrate(ctx context.Context, instruction string, images [][]byte) (string, error)
}

const chartSummaryInstruction = "You are given time-series charts of temperature, " +
	"precipitation, sea-level pressure, wind u/v components, and humidity for one location. " +
	"Write a concise weather narrative (under 200 words) covering notable trends, extremes, " +
	"and day-over-day changes visible across the charts."

// Engine exposes the five weather-analysis pipeline steps. The intended
// order is ResolveLocation -> LoadDataset -> FilterDataset -> RenderCharts
// -> Summarize, but each step only enforces its own prerequisites; the
// caller owns sequencing. Steps for one session are serialized by the
// context store; every step returns a tagged result and never lets an
// error or panic escape.
type Engine struct {
	geocoder  geo.Provider
	weather   weather.Source
	artifacts artifact.Store
	narrator  Narrator
	contexts  *ContextStore
}

func NewEngine(geocoder geo.Provider, source weather.Source, artifacts artifact.Store, narrator Narrator) *Engine {
	return &Engine{
		geocoder:  geocoder,
		weather:   source,
		artifacts: artifacts,
		narrator:  narrator,
		contexts:  NewContextStore(),
	}
}

// Contexts exposes the session context store (for handlers/tests).
func (e *Engine) Contexts() *ContextStore {
	return e.contexts
}

// LocationResult reports resolved coordinates.
type LocationResult struct {
	status.Envelope
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Report    string  `json:"report,omitempty"`
}

// DatasetResult summarizes a load or filter step.
type DatasetResult struct {
	status.Envelope
	Rows   int    `json:"rows"`
	Report string `json:"report,omitempty"`
}

// RenderResult lists the chart artifacts a render step persisted.
type RenderResult struct {
	status.Envelope
	Charts []string `json:"charts,omitempty"`
	Report string   `json:"report,omitempty"`
}

// SummaryResult carries the narrated chart summary.
type SummaryResult struct {
	status.Envelope
	Summary string `json:"summary,omitempty"`
}

// ResolveLocation geocodes an address and stores the coordinates in the
// session context. The geocoder is a fixed-priority fallback chain; each
// tier is tried at most once, and only exhaustion of all tiers fails.
func (e *Engine) ResolveLocation(ctx context.Context, sessionID, address string) (res LocationResult) {
	defer recoverToEnvelope(&res.Envelope)

	sess, release := e.contexts.Acquire(sessionID)
	defer release()

	coords, err := e.geocoder.Resolve(ctx, address)
	if err != nil {
		res.Envelope = status.Err(status.E(status.KindLocationNotFound, "location not found for %q: %v", address, err))
		return res
	}

	sess.Latitude = &coords.Latitude
	sess.Longitude = &coords.Longitude

	res.Envelope = status.OK()
	res.Latitude = coords.Latitude
	res.Longitude = coords.Longitude
	res.Report = fmt.Sprintf("Successfully found coordinates for %s: Latitude=%g, Longitude=%g",
		address, coords.Latitude, coords.Longitude)
	return res
}

// LoadDataset fetches hourly weather rows for the session's coordinates
// over [initTime, endTime] (endTime empty means the single day of
// initTime) and replaces the session dataset with the normalized records.
func (e *Engine) LoadDataset(ctx context.Context, sessionID, initTime, endTime string) (res DatasetResult) {
	defer recoverToEnvelope(&res.Envelope)

	sess, release := e.contexts.Acquire(sessionID)
	defer release()

	if sess.Latitude == nil || sess.Longitude == nil {
		res.Envelope = status.Err(status.E(status.KindMissingPrerequisite,
			"latitude or longitude not found in context; resolve an address first"))
		return res
	}

	start, err := parseTimeArg(initTime)
	if err != nil {
		res.Envelope = status.ErrFrom(err)
		return res
	}
	end := start
	if endTime != "" {
		if end, err = parseTimeArg(endTime); err != nil {
			res.Envelope = status.ErrFrom(err)
			return res
		}
	}

	records, err := e.weather.FetchHourly(ctx, *sess.Latitude, *sess.Longitude, start, end)
	if err != nil {
		res.Envelope = status.Err(upstreamError("weather API", err))
		return res
	}
	if len(records) == 0 {
		res.Envelope = status.Err(status.E(status.KindEmptyUpstreamData, "weather API returned no data"))
		return res
	}

	sess.Dataset = records

	res.Envelope = status.OK()
	res.Rows = len(records)
	res.Report = fmt.Sprintf("Successfully loaded dataset for location (lat: %g, lon: %g). It has %d rows.",
		*sess.Latitude, *sess.Longitude, len(records))
	return res
}

// FilterDataset narrows the session dataset in place. With endTime, it
// keeps records whose InitTime lies in [initTime, endTime] inclusive.
// Without endTime, it keeps only records whose InitTime matches the
// month and day of initTime with hour zero, the strict single-day mode;
// hour zero always holds for loaded records since InitTime is a day
// floor. A zero-match result is success with zero rows, not an error,
// and the reduced dataset is not restored.
func (e *Engine) FilterDataset(ctx context.Context, sessionID, initTime, endTime string) (res DatasetResult) {
	defer recoverToEnvelope(&res.Envelope)

	sess, release := e.contexts.Acquire(sessionID)
	defer release()

	if sess.Dataset == nil {
		res.Envelope = status.Err(status.E(status.KindMissingPrerequisite,
			"no dataset in context; load a dataset first"))
		return res
	}

	target, err := parseTimeArg(initTime)
	if err != nil {
		res.Envelope = status.ErrFrom(err)
		return res
	}

	var keep func(r weather.Record) bool
	if endTime != "" {
		end, err := parseTimeArg(endTime)
		if err != nil {
			res.Envelope = status.ErrFrom(err)
			return res
		}
		keep = func(r weather.Record) bool {
			return !r.InitTime.Before(target) && !r.InitTime.After(end)
		}
	} else {
		keep = func(r weather.Record) bool {
			return r.InitTime.Month() == target.Month() &&
				r.InitTime.Day() == target.Day() &&
				r.InitTime.Hour() == 0
		}
	}

	before := len(sess.Dataset)
	filtered := make([]weather.Record, 0, before)
	for _, r := range sess.Dataset {
		if keep(r) {
			filtered = append(filtered, r)
		}
	}
	sess.Dataset = filtered

	res.Envelope = status.OK()
	res.Rows = len(filtered)
	res.Report = fmt.Sprintf("Filtered dataset. It now has %d rows, down from an original %d rows.",
		len(filtered), before)
	return res
}

// RenderCharts renders one time-series chart per meteorological field
// from the session dataset, clipped to at most 7 days from the earliest
// timestamp, persists each as a session artifact, and records the
// artifact names in the context. Renders run concurrently and all join
// before the result is returned.
func (e *Engine) RenderCharts(ctx context.Context, sessionID string) (res RenderResult) {
	defer recoverToEnvelope(&res.Envelope)

	sess, release := e.contexts.Acquire(sessionID)
	defer release()

	if sess.Dataset == nil {
		res.Envelope = status.Err(status.E(status.KindMissingPrerequisite,
			"no dataset in context; load and filter a dataset first"))
		return res
	}
	for _, r := range sess.Dataset {
		if r.Time.IsZero() {
			res.Envelope = status.Err(status.E(status.KindMissingPrerequisite,
				"dataset record is missing its time field; cannot generate charts"))
			return res
		}
	}

	clipped := clipToWindow(sess.Dataset, chartWindow)
	if len(clipped) == 0 {
		sess.ChartRefs = []string{}
		res.Envelope = status.OK()
		res.Report = "Dataset is empty, no charts generated."
		return res
	}

	images, err := renderFieldCharts(ctx, clipped)
	if err != nil {
		res.Envelope = status.ErrFrom(err)
		return res
	}

	names := make([]string, 0, len(chartFields))
	for i, field := range chartFields {
		name := field.key + "_plot.png"
		if err := e.artifacts.Save(ctx, sessionID, name, images[i]); err != nil {
			res.Envelope = status.Err(upstreamError("artifact store", err))
			return res
		}
		names = append(names, name)
	}
	sess.ChartRefs = names

	res.Envelope = status.OK()
	res.Charts = names
	res.Report = fmt.Sprintf("Successfully generated and saved %d charts as artifacts.", len(names))
	return res
}

// Summarize loads the session's chart artifacts, sends one multipart
// request (fixed instruction plus all images) to the narration model, and
// returns its text. An empty chart list is success with a placeholder.
func (e *Engine) Summarize(ctx context.Context, sessionID string) (res SummaryResult) {
	defer recoverToEnvelope(&res.Envelope)

	sess, release := e.contexts.Acquire(sessionID)
	defer release()

	if sess.ChartRefs == nil {
		res.Envelope = status.Err(status.E(status.KindMissingPrerequisite,
			"no chart references in context; generate charts first"))
		return res
	}
	if len(sess.ChartRefs) == 0 {
		res.Envelope = status.OK()
		res.Summary = "No charts were provided to generate a summary."
		return res
	}
	if e.narrator == nil {
		res.Envelope = status.Err(status.E(status.KindUnexpectedFailure, "summarization model is not configured"))
		return res
	}

	images := make([][]byte, 0, len(sess.ChartRefs))
	for _, name := range sess.ChartRefs {
		data, err := e.artifacts.Load(ctx, sessionID, name)
		if err != nil {
			res.Envelope = status.Err(upstreamError("artifact store", err))
			return res
		}
		images = append(images, data)
	}

	text, err := e.narrator.Narrate(ctx, chartSummaryInstruction, images)
	if err != nil {
		res.Envelope = status.Err(upstreamError("narration model", err))
		return res
	}

	res.Envelope = status.OK()
	res.Summary = text
	return res
}

// parseTimeArg accepts the ISO 8601 shapes callers pass for time
// arguments, from bare dates up to full RFC 3339.
func parseTimeArg(raw string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, status.E(status.KindUnexpectedFailure, "invalid time %q: expected ISO 8601", raw)
}

// upstreamError classifies a failed external call: context expiry maps to
// the timeout kind, everything else to data-source unavailability.
func upstreamError(source string, err error) *status.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return status.E(status.KindUpstreamTimeout, "%s timed out: %v", source, err)
	}
	return status.E(status.KindDataSourceUnavailable, "%s failed: %v", source, err)
}

func recoverToEnvelope(env *status.Envelope) {
	if r := recover(); r != nil {
		*env = status.Err(status.E(status.KindUnexpectedFailure, "operation panicked: %v", r))
	}
}
