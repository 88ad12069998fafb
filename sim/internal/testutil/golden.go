// Package testutil provides shared test infrastructure for the pfhub-sim packages.
// It holds the golden schedule dataset types and a float assertion helper.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/schedule_golden.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one run configuration with its expected schedule.
type GoldenTestCase struct {
	Name         string  `json:"name"`
	StartOutput  float64 `json:"startoutput"`
	EndOutput    float64 `json:"endoutput"`
	EndTime      float64 `json:"endtime"`
	MajorOutputs int     `json:"majoroutputs"`
	MinorOutputs int     `json:"minoroutputs"`
	LogScale     bool    `json:"log"`
	OutputAtZero bool    `json:"outputatzero"`

	// Expected timestamps per kind, in emission order.
	Major []float64 `json:"major"`
	Minor []float64 `json:"minor"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "schedule_golden.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
