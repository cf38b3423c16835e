// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// grammar describes one sigil-prefixed identifier form.
type grammar struct {
	kind   string
	sigil  byte
	server bool // requires ":server" after a non-empty localpart
}

var (
	eventIDGrammar = grammar{kind: "event ID", sigil: '$'}
	roomIDGrammar  = grammar{kind: "room ID", sigil: '!', server: true}
	userIDGrammar  = grammar{kind: "user ID", sigil: '@', server: true}
)

// split validates raw and returns the index of the colon that ends the
// localpart, or 0 for grammars without a server. The server may itself
// contain a colon (host:port), so the first colon splits.
func (g grammar) split(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty %s", g.kind)
	}
	if raw[0] != g.sigil {
		return 0, fmt.Errorf("invalid %s %q: must start with '%c'", g.kind, raw, g.sigil)
	}
	if !g.server {
		if len(raw) == 1 {
			return 0, fmt.Errorf("invalid %s %q: nothing after '%c'", g.kind, raw, g.sigil)
		}
		return 0, nil
	}

	colon := strings.IndexByte(raw, ':')
	switch {
	case colon < 0:
		return 0, fmt.Errorf("invalid %s %q: missing :server", g.kind, raw)
	case colon == 1:
		return 0, fmt.Errorf("invalid %s %q: empty localpart", g.kind, raw)
	case colon == len(raw)-1:
		return 0, fmt.Errorf("invalid %s %q: empty server", g.kind, raw)
	}
	server := raw[colon+1:]
	for index := range len(server) {
		switch c := server[index]; {
		case c <= ' ', c == 0x7f, c == '@', c == '#', c == '!', c == '$':
			return 0, fmt.Errorf("invalid %s %q: invalid character %q in server name", g.kind, raw, c)
		}
	}
	return colon, nil
}

// mustParse panics with the parse error. For tests and fixed inputs.
func mustParse[T any](name, raw string, parse func(string) (T, error)) T {
	value, err := parse(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.%s(%q): %v", name, raw, err))
	}
	return value
}

// unmarshalText decodes an identifier, treating empty input as the
// zero value so optional fields stay optional.
func unmarshalText[T any](data []byte, target *T, parse func(string) (T, error)) error {
	if len(data) == 0 {
		var zero T
		*target = zero
		return nil
	}
	parsed, err := parse(string(data))
	if err != nil {
		return err
	}
	*target = parsed
	return nil
}
