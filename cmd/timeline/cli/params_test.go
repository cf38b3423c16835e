// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

// modeValue is a pflag.Value accepting "a" or "b".
type modeValue string

func (m *modeValue) String() string { return string(*m) }
func (m *modeValue) Type() string   { return "mode" }
func (m *modeValue) Set(value string) error {
	if value != "a" && value != "b" {
		return fmt.Errorf("mode must be a or b, got %q", value)
	}
	*m = modeValue(value)
	return nil
}

type allTypesParams struct {
	Name     string        `flag:"name,n" desc:"a name" default:"general"`
	Verbose  bool          `flag:"verbose" desc:"verbose" default:"true"`
	Count    int           `flag:"count" desc:"count" default:"2"`
	Since    int64         `flag:"since" desc:"timestamp"`
	Debounce time.Duration `flag:"debounce" desc:"wait" default:"50ms"`
	Mode     modeValue     `flag:"mode" desc:"mode" default:"a"`
	Ignored  string
}

func TestBindFlags_Defaults(t *testing.T) {
	var params allTypesParams
	flagSet := FlagsFromParams("test", &params)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if params.Name != "general" || !params.Verbose || params.Count != 2 || params.Since != 0 {
		t.Errorf("scalar defaults wrong: %+v", params)
	}
	if params.Debounce != 50*time.Millisecond {
		t.Errorf("Debounce = %v, want 50ms", params.Debounce)
	}
	if params.Mode != "a" {
		t.Errorf("Mode = %q, want a", params.Mode)
	}
	if flagSet.Lookup("ignored") != nil {
		t.Error("untagged field should not become a flag")
	}
}

func TestBindFlags_Parse(t *testing.T) {
	var params allTypesParams
	flagSet := FlagsFromParams("test", &params)
	args := []string{"-n", "ops", "--verbose=false", "--count", "7", "--since", "1700000000000",
		"--debounce", "1s", "--mode", "b", "rest"}
	if err := flagSet.Parse(args); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if params.Name != "ops" || params.Verbose || params.Count != 7 || params.Since != 1700000000000 {
		t.Errorf("parsed scalars wrong: %+v", params)
	}
	if params.Debounce != time.Second || params.Mode != "b" {
		t.Errorf("parsed values wrong: %+v", params)
	}
	if rest := flagSet.Args(); len(rest) != 1 || rest[0] != "rest" {
		t.Errorf("Args() = %v", rest)
	}
}

func TestBindFlags_ValueRejectsInput(t *testing.T) {
	var params allTypesParams
	flagSet := FlagsFromParams("test", &params)
	flagSet.SetOutput(&strings.Builder{})
	if err := flagSet.Parse([]string{"--mode", "c"}); err == nil {
		t.Error("expected error for invalid mode")
	}
}

func TestBindFlags_Errors(t *testing.T) {
	tests := []struct {
		name   string
		params any
		want   string
	}{
		{"not a pointer", allTypesParams{}, "pointer to a struct"},
		{"pointer to non-struct", new(int), "pointer to a struct"},
		{"unsupported type", &struct {
			Value complex64 `flag:"value"`
		}{}, "unsupported type"},
		{"bad default", &struct {
			Count int `flag:"count" default:"many"`
		}{}, "default for --count"},
		{"slice type", &struct {
			Rooms []string `flag:"room"`
		}{}, "unsupported type"},
		{"long shorthand", &struct {
			Room string `flag:"room,rm"`
		}{}, "must be one character"},
		{"duplicate name", &struct {
			A string `flag:"room"`
			B string `flag:"room"`
		}{}, "defined twice"},
		{"duplicate shorthand", &struct {
			Room  string `flag:"room,r"`
			Reply string `flag:"reply,r"`
		}{}, "already in use"},
		{"empty name", &struct {
			Room string `flag:",r"`
		}{}, "no name"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := BindFlags(test.params, pflag.NewFlagSet("test", pflag.ContinueOnError))
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("BindFlags() = %v, want error containing %q", err, test.want)
			}
		})
	}
}

func TestFlagsFromParams_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	FlagsFromParams("test", 42)
}
