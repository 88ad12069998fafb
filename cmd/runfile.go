package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// RunFile is a YAML description of a run. Command-line options override it.
//
//	options:
//	  grid: 128
//	  dt: 0.5
//	  endtime: 10000
//	  minoroutputs: 20
//	  startoutput: 1
//	  log: true
//	problem: custom
//	coefficients: [3, 4, 4, 3, 1, 5, 2, 1, 0.5, 2, 0.5, 3]
type RunFile struct {
	// Options are keyed by long option name; unknown keys fail when applied.
	Options      map[string]string `yaml:"options"`
	Problem      string            `yaml:"problem"`
	Coefficients []string          `yaml:"coefficients"`
}

// LoadRunFile parses a run file.
// Uses strict parsing: unrecognized top-level keys (typos) are rejected.
func LoadRunFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	var rf RunFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing run file %s: %w", path, err)
	}
	return &rf, nil
}

// problemArgs returns the positional problem arguments the run file supplies.
func (rf *RunFile) problemArgs() []string {
	if rf.Problem == "" {
		return nil
	}
	return append([]string{rf.Problem}, rf.Coefficients...)
}
