package status

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyPassesThroughClassified(t *testing.T) {
	orig := E(KindInsufficientHistory, "need more rows")
	got := Classify(fmt.Errorf("forecast: %w", orig))
	if got.Kind != KindInsufficientHistory {
		t.Errorf("Kind = %q, want %q", got.Kind, KindInsufficientHistory)
	}
}

func TestClassifyDeadline(t *testing.T) {
	got := Classify(fmt.Errorf("fetch: %w", context.DeadlineExceeded))
	if got.Kind != KindUpstreamTimeout {
		t.Errorf("Kind = %q, want %q", got.Kind, KindUpstreamTimeout)
	}
}

func TestClassifyUnknown(t *testing.T) {
	got := Classify(errors.New("boom"))
	if got.Kind != KindUnexpectedFailure {
		t.Errorf("Kind = %q, want %q", got.Kind, KindUnexpectedFailure)
	}
}

func TestClassifyNil(t *testing.T) {
	if got := Classify(nil); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}
}

func TestEnvelopeShapes(t *testing.T) {
	ok := OK()
	if !ok.IsSuccess() || ok.ErrorKind != "" {
		t.Errorf("OK() = %+v", ok)
	}

	e := Err(E(KindLocationNotFound, "no match for %q", "xyzzy"))
	if e.IsSuccess() {
		t.Error("error envelope reports success")
	}
	if e.ErrorKind != KindLocationNotFound {
		t.Errorf("ErrorKind = %q", e.ErrorKind)
	}
	if e.Message != `no match for "xyzzy"` {
		t.Errorf("Message = %q", e.Message)
	}
}
