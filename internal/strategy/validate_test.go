package strategy

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

func TestValidateAcceptsCleanWindow(t *testing.T) {
	w := windowFrom(randomWalk(1, 200), 0.5)
	if !Validate(w) {
		t.Fatalf("clean 200-row window rejected: %v", CheckWindow(w))
	}
}

func TestValidateRejectsShortWindow(t *testing.T) {
	w := windowFrom(randomWalk(1, MinWindowLen-1), 0.5)
	if Validate(w) {
		t.Fatal("49-row window accepted")
	}
	var ide *InsufficientDataError
	if !errors.As(CheckWindow(w), &ide) {
		t.Fatalf("expected InsufficientDataError")
	}
}

func TestValidateRejectsMissingVolume(t *testing.T) {
	full := windowFrom(randomWalk(2, 200), 0.5).Frame()
	w := models.WindowFromFrame(full.Drop(models.ColVolume))
	if Validate(w) {
		t.Fatal("window without volume accepted")
	}
}

func TestValidateRejectsNaN(t *testing.T) {
	closes := randomWalk(3, 100)
	vals := make([]float64, len(closes))
	copy(vals, closes)
	vals[40] = math.NaN()

	df := dataframe.New(
		series.New(closes, series.Float, models.ColOpen),
		series.New(closes, series.Float, models.ColHigh),
		series.New(closes, series.Float, models.ColLow),
		series.New(vals, series.Float, models.ColClose),
		series.New(closes, series.Float, models.ColVolume),
	)
	if Validate(models.WindowFromFrame(df)) {
		t.Fatal("window with NaN close accepted")
	}
}

func TestValidateEmptyFrame(t *testing.T) {
	if Validate(models.WindowFromFrame(dataframe.DataFrame{})) {
		t.Fatal("empty frame accepted")
	}
}
