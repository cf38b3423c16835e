// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/bureau-foundation/timeline/lib/ref"
)

// logHeader stands in for a CBOR-only type (cbor struct tags).
type logHeader struct {
	Format  string `cbor:"format"`
	Comment string `cbor:"comment,omitempty"`
	Version int    `cbor:"version"`
}

// sampleRecord uses json struct tags, the convention for types that
// serve both JSON and CBOR.
type sampleRecord struct {
	EventID ref.EventID    `json:"event_id"`
	RoomID  ref.RoomID     `json:"room_id"`
	Sender  ref.UserID     `json:"sender"`
	Content map[string]any `json:"content"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := logHeader{Format: "timeline-events", Comment: "test", Version: 1}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded logHeader
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	// Map iteration order is random; the encoding must not be.
	content := map[string]any{"body": "hi", "msgtype": "m.text", "format": "x", "extra": true}

	first, err := Marshal(content)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for range 20 {
		again, err := Marshal(content)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestIdentifiersEncodeAsText(t *testing.T) {
	record := sampleRecord{
		EventID: ref.MustParseEventID("$abc"),
		RoomID:  ref.MustParseRoomID("!room:example.org"),
		Sender:  ref.MustParseUserID("@alice:example.org"),
		Content: map[string]any{"body": "hello"},
	}
	data, err := Marshal(record)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var generic map[string]any
	if err := Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal generic: %v", err)
	}
	for key, want := range map[string]string{"event_id": "$abc", "room_id": "!room:example.org", "sender": "@alice:example.org"} {
		if got, ok := generic[key].(string); !ok || got != want {
			t.Errorf("%s = %#v, want text %q", key, generic[key], want)
		}
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.EventID != record.EventID || decoded.RoomID != record.RoomID || decoded.Sender != record.Sender {
		t.Errorf("identifiers did not survive: %+v", decoded)
	}
}

func TestUnmarshalRejectsInvalidIdentifier(t *testing.T) {
	data, err := Marshal(map[string]any{"event_id": "no-sigil"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err == nil {
		t.Error("Unmarshal accepted an event ID without '$'")
	}
}

// Nested content decodes into map[string]any, so JSON can re-encode
// it after a CBOR round trip.
func TestNestedContentDecodesAsStringMaps(t *testing.T) {
	record := sampleRecord{Content: map[string]any{
		"m.relates_to": map[string]any{"rel_type": "m.annotation", "key": "👍"},
	}}
	data, err := Marshal(record)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	relation, ok := decoded.Content["m.relates_to"].(map[string]any)
	if !ok {
		t.Fatalf("nested content decoded as %T", decoded.Content["m.relates_to"])
	}
	if relation["key"] != "👍" {
		t.Errorf("key = %v", relation["key"])
	}
	if _, err := json.Marshal(decoded.Content); err != nil {
		t.Errorf("json.Marshal after CBOR roundtrip: %v", err)
	}
}

func TestEncoderDecoderStreamRoundtrip(t *testing.T) {
	headers := []logHeader{
		{Format: "a", Version: 1},
		{Format: "b", Comment: "second", Version: 2},
		{Format: "c"},
	}

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, header := range headers {
		if err := encoder.Encode(header); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i, want := range headers {
		var got logHeader
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode item %d: %v", i, err)
		}
		if got != want {
			t.Errorf("item %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestOmitemptyRespected(t *testing.T) {
	withComment, err := Marshal(logHeader{Format: "a", Comment: "x", Version: 1})
	if err != nil {
		t.Fatal(err)
	}
	withoutComment, err := Marshal(logHeader{Format: "a", Version: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(withoutComment) >= len(withComment) {
		t.Errorf("omitempty not effective: without=%d bytes, with=%d bytes",
			len(withoutComment), len(withComment))
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var header logHeader
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &header); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestUnmarshalRejectsDuplicateKeys(t *testing.T) {
	// {"body": "a", "body": "b"}
	data := []byte{0xA2, 0x64, 'b', 'o', 'd', 'y', 0x61, 'a', 0x64, 'b', 'o', 'd', 'y', 0x61, 'b'}
	var content map[string]any
	if err := Unmarshal(data, &content); err == nil {
		t.Errorf("duplicate key decoded as %v", content)
	}
}

func BenchmarkMarshal(b *testing.B) {
	record := sampleRecord{
		EventID: ref.MustParseEventID("$abc"),
		RoomID:  ref.MustParseRoomID("!room:example.org"),
		Sender:  ref.MustParseUserID("@alice:example.org"),
		Content: map[string]any{"msgtype": "m.text", "body": "hello"},
	}
	b.ReportAllocs()
	for b.Loop() {
		Marshal(record)
	}
}
