package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds default run options read from a YAML file. Command-line
// flags take precedence over every field.
//
//	jurisdiction: Washington
//	wwtp_id: "1398"
//	format: json
//	totals_only: false
//	verbose: true
//	last_days: 14
type Profile struct {
	Jurisdiction *string `yaml:"jurisdiction"`
	WWTPID       *string `yaml:"wwtp_id"`
	Format       string  `yaml:"format"`
	TotalsOnly   bool    `yaml:"totals_only"`
	Verbose      bool    `yaml:"verbose"`
	LastDays     int     `yaml:"last_days"`
}

// LoadProfile decodes the profile at path. Unknown keys are rejected and an
// empty file yields an empty profile.
func LoadProfile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	var p Profile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return &p, nil
}
