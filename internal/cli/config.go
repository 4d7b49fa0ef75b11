package cli

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/crinex"
	"github.com/arloliu/crinex/diff"
	"github.com/arloliu/crinex/format"
)

// FileConfig is the optional YAML configuration shared by both tools.
//
//	order: 3
//	strict: true
//	revision: modern
//	jobs: 4
//	framing: gzip
//	level: 9
//	metrics_file: /var/lib/node_exporter/crinex.prom
type FileConfig struct {
	// Order is a pointer so that order: 0 is told apart from an absent key.
	Order       *int   `yaml:"order"`
	Strict      bool   `yaml:"strict"`
	Revision    string `yaml:"revision"`
	Jobs        int    `yaml:"jobs"`
	Framing     string `yaml:"framing"`
	Level       int    `yaml:"level"`
	MetricsFile string `yaml:"metrics_file"`
}

// LoadConfig reads a FileConfig from path.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Settings is the resolved configuration of one run.
type Settings struct {
	Order       int
	Strict      bool
	Revision    format.Revision
	Jobs        int
	// Framing is the outer compression of outputs. KeepFraming reuses the
	// framing detected on each input.
	Framing     format.Framing
	KeepFraming bool
	Level       int
	MetricsFile string
	// Stamp replaces the current time in the CRINEX PROG / DATE line when
	// set, making output reproducible.
	Stamp       time.Time

	OutputDir   string
	DeleteInput bool
	Force       bool
	Verify      bool
	Quiet       bool
}

// DefaultSettings returns the settings used without file or flags.
func DefaultSettings() Settings {
	return Settings{
		Order:       diff.DefaultOrder,
		Revision:    format.RevisionAuto,
		Jobs:        runtime.NumCPU(),
		KeepFraming: true,
	}
}

// Merge applies the fields a config file sets. Zero values leave s unchanged.
func (s *Settings) Merge(fc *FileConfig) error {
	if fc == nil {
		return nil
	}
	if fc.Order != nil {
		s.Order = *fc.Order
	}
	if fc.Strict {
		s.Strict = true
	}
	if fc.Revision != "" {
		rev, err := format.ParseRevision(fc.Revision)
		if err != nil {
			return err
		}
		s.Revision = rev
	}
	if fc.Jobs != 0 {
		s.Jobs = fc.Jobs
	}
	if fc.Framing != "" {
		if err := s.SetFraming(fc.Framing); err != nil {
			return err
		}
	}
	if fc.Level != 0 {
		s.Level = fc.Level
	}
	if fc.MetricsFile != "" {
		s.MetricsFile = fc.MetricsFile
	}

	return nil
}

// SetFraming selects the output framing by name; "keep" follows the input.
func (s *Settings) SetFraming(name string) error {
	if name == "keep" {
		s.KeepFraming = true
		return nil
	}

	f, err := format.ParseFraming(name)
	if err != nil {
		return err
	}
	s.Framing, s.KeepFraming = f, false

	return nil
}

// SetStamp sets Stamp from a YYYY-MM-DD date and an optional HH:MM time,
// both UTC.
func (s *Settings) SetStamp(date, clock string) error {
	if date == "" {
		return fmt.Errorf("stamp time %q given without a date", clock)
	}
	if clock == "" {
		clock = "00:00"
	}

	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return fmt.Errorf("invalid stamp: %w", err)
	}
	s.Stamp = t

	return nil
}

// Validate rejects settings no conversion can run with.
func (s *Settings) Validate() error {
	if s.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", s.Jobs)
	}
	if s.Level < 0 {
		return fmt.Errorf("negative compression level %d", s.Level)
	}
	if s.OutputDir != "" {
		fi, err := os.Stat(s.OutputDir)
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return fmt.Errorf("%s is not a directory", s.OutputDir)
		}
	}

	_, err := crinex.NewConfig(s.codecOptions("")...)

	return err
}

func (s *Settings) codecOptions(program string) []crinex.Option {
	opts := []crinex.Option{
		crinex.WithOrder(s.Order),
		crinex.WithStrict(s.Strict),
		crinex.WithRevision(s.Revision),
	}
	if program != "" {
		opts = append(opts, crinex.WithProgram(program))
	}
	if !s.Stamp.IsZero() {
		stamp := s.Stamp
		opts = append(opts, crinex.WithNow(func() time.Time { return stamp }))
	}

	return opts
}
