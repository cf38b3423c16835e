// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/timeline/lib/ref"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "TIMELINE_CONFIG"

// Config is the master configuration for the timeline tools.
type Config struct {
	// Paths configures file locations.
	Paths PathsConfig `yaml:"paths" json:"paths"`

	// Display controls how timelines are rendered.
	Display DisplayConfig `yaml:"display" json:"display"`

	// Rooms carries per-room overrides keyed by room ID.
	Rooms RoomsConfig `yaml:"rooms" json:"rooms"`

	// Viewer configures the interactive viewer.
	Viewer ViewerConfig `yaml:"viewer" json:"viewer"`
}

// PathsConfig configures file locations. Values support ${VAR} and
// ${VAR:-default} expansion.
type PathsConfig struct {
	// EventLog is the default event log read when a command is given
	// no path argument.
	EventLog string `yaml:"event_log" json:"event_log"`

	// LogOutput receives JSON log records from the viewer. Empty
	// disables the tee.
	LogOutput string `yaml:"log_output" json:"log_output"`
}

// DisplayConfig controls rendering.
type DisplayConfig struct {
	// ShowMembershipEvents includes join, leave and profile change
	// lines in rendered timelines.
	// Default: true
	ShowMembershipEvents bool `yaml:"show_membership_events" json:"show_membership_events"`

	// TimeFormat is a Go reference-time layout for message timestamps.
	// Default: 15:04
	TimeFormat string `yaml:"time_format" json:"time_format"`

	// Timezone is an IANA zone name used for day grouping. Empty means
	// the local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Markdown renders message bodies through the markdown renderer in
	// the viewer.
	// Default: true
	Markdown bool `yaml:"markdown" json:"markdown"`
}

// RoomsConfig carries per-room overrides. Keys are room IDs.
type RoomsConfig struct {
	// Names overrides room display names.
	Names map[string]string `yaml:"names" json:"names"`

	// MemberCounts overrides the member count used for formatting.
	// Rooms with two or fewer members render bodies without a sender
	// prefix.
	MemberCounts map[string]int `yaml:"member_counts" json:"member_counts"`
}

// ViewerConfig configures the interactive viewer.
type ViewerConfig struct {
	// SplitRatio is the fraction of the terminal width given to the
	// room list.
	// Default: 0.3
	SplitRatio float64 `yaml:"split_ratio" json:"split_ratio"`

	// HeatDecay is how long a room stays highlighted after activity,
	// as a Go duration string.
	// Default: 5s
	HeatDecay string `yaml:"heat_decay" json:"heat_decay"`
}

// Default returns the default configuration. Loaded files are merged
// over these values.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ShowMembershipEvents: true,
			TimeFormat:           "15:04",
			Markdown:             true,
		},
		Viewer: ViewerConfig{
			SplitRatio: 0.3,
			HeatDecay:  "5s",
		},
	}
}

// Load loads configuration from the file named by TIMELINE_CONFIG.
//
// There are no fallbacks. If the variable is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your timeline.yaml config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Files ending
// in .json or .jsonc are parsed as JSON with comments; everything else
// is YAML.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return json.Unmarshal(jsonc.ToJSON(data), c)
	default:
		return yaml.Unmarshal(data, c)
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.EventLog = expandVars(c.Paths.EventLog, vars)
	c.Paths.LogOutput = expandVars(c.Paths.LogOutput, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Display.TimeFormat == "" {
		errs = append(errs, fmt.Errorf("display.time_format is required"))
	}

	if c.Display.Timezone != "" {
		if _, err := time.LoadLocation(c.Display.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("display.timezone: %w", err))
		}
	}

	for roomID := range c.Rooms.Names {
		if _, err := ref.ParseRoomID(roomID); err != nil {
			errs = append(errs, fmt.Errorf("rooms.names: %w", err))
		}
	}

	for roomID, count := range c.Rooms.MemberCounts {
		if _, err := ref.ParseRoomID(roomID); err != nil {
			errs = append(errs, fmt.Errorf("rooms.member_counts: %w", err))
			continue
		}
		if count < 0 {
			errs = append(errs, fmt.Errorf("rooms.member_counts[%s] must not be negative, got %d", roomID, count))
		}
	}

	if c.Viewer.SplitRatio <= 0 || c.Viewer.SplitRatio >= 1 {
		errs = append(errs, fmt.Errorf("viewer.split_ratio must be between 0 and 1 exclusive, got %v", c.Viewer.SplitRatio))
	}

	if _, err := time.ParseDuration(c.Viewer.HeatDecay); err != nil {
		errs = append(errs, fmt.Errorf("viewer.heat_decay: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Location returns the zone named by display.timezone, or time.Local
// when it is empty or unknown. Call Validate to surface unknown names.
func (c *Config) Location() *time.Location {
	if c.Display.Timezone == "" {
		return time.Local
	}
	location, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return time.Local
	}
	return location
}

// HeatDecayDuration returns viewer.heat_decay parsed, falling back to
// five seconds when it does not parse.
func (c *Config) HeatDecayDuration() time.Duration {
	duration, err := time.ParseDuration(c.Viewer.HeatDecay)
	if err != nil || duration <= 0 {
		return 5 * time.Second
	}
	return duration
}

// RoomNames returns the name overrides keyed by typed room ID. Entries
// with unparseable keys are skipped.
func (c *Config) RoomNames() map[ref.RoomID]string {
	names := make(map[ref.RoomID]string, len(c.Rooms.Names))
	for key, name := range c.Rooms.Names {
		roomID, err := ref.ParseRoomID(key)
		if err != nil {
			continue
		}
		names[roomID] = name
	}
	return names
}

// RoomMemberCounts returns the member count overrides keyed by typed
// room ID. Entries with unparseable keys are skipped.
func (c *Config) RoomMemberCounts() map[ref.RoomID]int {
	counts := make(map[ref.RoomID]int, len(c.Rooms.MemberCounts))
	for key, count := range c.Rooms.MemberCounts {
		roomID, err := ref.ParseRoomID(key)
		if err != nil {
			continue
		}
		counts[roomID] = count
	}
	return counts
}
