// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// FlagsFromParams creates a [pflag.FlagSet] with flags bound to the tagged
// fields of params. params must be a pointer to a struct. Panics on
// invalid input (programming error, not runtime data).
//
// [Command.Execute] calls it with the result of [Command.Params]:
//
//	var params renderParams
//	flagSet := cli.FlagsFromParams("render", &params)
//	err := flagSet.Parse(args)
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags registers pflag entries for each tagged field in params.
// params must be a pointer to a struct.
//
// # Struct tags
//
//   - flag:"name" or flag:"name,n" gives the long name and an optional
//     one-letter shorthand. Fields without a flag tag are skipped.
//   - desc:"help text" is the flag's usage line.
//   - default:"value" is parsed as the field's type. Without it the
//     zero value is the default.
//
// Supported field types are string, bool, int, int64, [time.Duration]
// and any type whose pointer implements [pflag.Value]. Embedded
// structs are bound recursively, so a parameter struct can embed
// [JSONOutput] or a shared options struct.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindStruct(value.Elem(), flagSet)
}

// flagSpec is what a field's tags say about its flag.
type flagSpec struct {
	name        string
	shorthand   string
	usage       string
	defaultText string
}

func bindStruct(structValue reflect.Value, flagSet *pflag.FlagSet) error {
	structType := structValue.Type()
	for index := range structType.NumField() {
		field := structType.Field(index)
		fieldValue := structValue.Field(index)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindStruct(fieldValue, flagSet); err != nil {
				return fmt.Errorf("embedded %s: %w", field.Name, err)
			}
			continue
		}

		tag := field.Tag.Get("flag")
		if tag == "" {
			continue
		}
		name, shorthand, _ := strings.Cut(tag, ",")
		spec := flagSpec{
			name:        name,
			shorthand:   shorthand,
			usage:       field.Tag.Get("desc"),
			defaultText: field.Tag.Get("default"),
		}
		if err := spec.check(flagSet); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
		if err := bindField(fieldValue.Addr().Interface(), flagSet, spec); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

// check catches tag mistakes that pflag would otherwise panic on.
func (spec flagSpec) check(flagSet *pflag.FlagSet) error {
	if spec.name == "" {
		return fmt.Errorf("flag tag has no name")
	}
	if len(spec.shorthand) > 1 {
		return fmt.Errorf("shorthand %q for --%s must be one character", spec.shorthand, spec.name)
	}
	if flagSet.Lookup(spec.name) != nil {
		return fmt.Errorf("flag --%s defined twice", spec.name)
	}
	if spec.shorthand != "" && flagSet.ShorthandLookup(spec.shorthand) != nil {
		return fmt.Errorf("shorthand -%s for --%s already in use", spec.shorthand, spec.name)
	}
	return nil
}

func bindField(pointer any, flagSet *pflag.FlagSet, spec flagSpec) error {
	switch target := pointer.(type) {
	case pflag.Value:
		if spec.defaultText != "" {
			if err := target.Set(spec.defaultText); err != nil {
				return fmt.Errorf("default for --%s: %w", spec.name, err)
			}
		}
		flagSet.VarP(target, spec.name, spec.shorthand, spec.usage)
		return nil
	case *string:
		flagSet.StringVarP(target, spec.name, spec.shorthand, spec.defaultText, spec.usage)
		return nil
	case *bool:
		return withDefault(spec, strconv.ParseBool, func(value bool) {
			flagSet.BoolVarP(target, spec.name, spec.shorthand, value, spec.usage)
		})
	case *int:
		return withDefault(spec, strconv.Atoi, func(value int) {
			flagSet.IntVarP(target, spec.name, spec.shorthand, value, spec.usage)
		})
	case *int64:
		parse := func(text string) (int64, error) { return strconv.ParseInt(text, 10, 64) }
		return withDefault(spec, parse, func(value int64) {
			flagSet.Int64VarP(target, spec.name, spec.shorthand, value, spec.usage)
		})
	case *time.Duration:
		return withDefault(spec, time.ParseDuration, func(value time.Duration) {
			flagSet.DurationVarP(target, spec.name, spec.shorthand, value, spec.usage)
		})
	default:
		return fmt.Errorf("unsupported type %s for flag --%s", reflect.TypeOf(pointer).Elem(), spec.name)
	}
}

// withDefault parses the default tag, if any, and registers the flag
// with it.
func withDefault[T any](spec flagSpec, parse func(string) (T, error), register func(T)) error {
	var value T
	if spec.defaultText != "" {
		parsed, err := parse(spec.defaultText)
		if err != nil {
			return fmt.Errorf("default for --%s: %w", spec.name, err)
		}
		value = parsed
	}
	register(value)
	return nil
}
