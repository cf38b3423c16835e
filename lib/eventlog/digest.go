// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/timeline/lib/codec"
	"github.com/bureau-foundation/timeline/messaging"
)

// Hash is a 32-byte BLAKE3 digest.
type Hash [32]byte

// String returns the hex encoding of the hash.
func (hash Hash) String() string { return hex.EncodeToString(hash[:]) }

// Short returns the first 12 hex characters, for display.
func (hash Hash) Short() string { return hex.EncodeToString(hash[:6]) }

// ParseHash parses a 64-character hex string.
func ParseHash(hexString string) (Hash, error) {
	var hash Hash
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return hash, fmt.Errorf("parsing event log hash: %w", err)
	}
	if len(decoded) != len(hash) {
		return hash, fmt.Errorf("event log hash is %d bytes, want %d", len(decoded), len(hash))
	}
	copy(hash[:], decoded)
	return hash, nil
}

// Domain separation keys for BLAKE3 keyed hashing: the ASCII domain
// name zero-padded to 32 bytes. Changing either invalidates every
// recorded digest.
var (
	eventDomainKey = [32]byte{
		't', 'i', 'm', 'e', 'l', 'i', 'n', 'e', '.', 'e', 'v', 'e', 'n', 't',
	}
	logDomainKey = [32]byte{
		't', 'i', 'm', 'e', 'l', 'i', 'n', 'e', '.', 'l', 'o', 'g',
	}
)

// LogDigest summarizes the contents of an event log.
type LogDigest struct {
	Events int  `json:"events"`
	Hash   Hash `json:"-"`
	// HashHex is Hash in hex, for JSON output.
	HashHex string `json:"hash"`
}

// HashEvent returns the event-domain hash of one event. The event is
// first normalized through its Matrix JSON form (so integers and
// floats from different encodings agree) and then hashed as
// deterministic CBOR.
func HashEvent(event messaging.Event) (Hash, error) {
	canonical, err := canonicalEvent(event)
	if err != nil {
		return Hash{}, err
	}
	return keyedHash(eventDomainKey, canonical), nil
}

// Digest hashes a sequence of events: a binary Merkle tree over the
// per-event hashes, finished with the log-domain key and the event
// count. The result depends only on the events and their order, not
// on the file encoding they were read from.
func Digest(events []messaging.Event) (LogDigest, error) {
	hashes := make([]Hash, len(events))
	for index, event := range events {
		hash, err := HashEvent(event)
		if err != nil {
			return LogDigest{}, fmt.Errorf("record %d: %w", index+1, err)
		}
		hashes[index] = hash
	}
	return finishDigest(hashes), nil
}

// DigestFile streams the log at path through Digest without holding
// the events in memory.
func DigestFile(path string) (LogDigest, error) {
	reader, err := Open(path)
	if err != nil {
		return LogDigest{}, err
	}
	defer reader.Close()

	var hashes []Hash
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return LogDigest{}, fmt.Errorf("%s: %w", path, err)
		}
		hash, err := HashEvent(event)
		if err != nil {
			return LogDigest{}, fmt.Errorf("%s: record %d: %w", path, reader.Records(), err)
		}
		hashes = append(hashes, hash)
	}
	return finishDigest(hashes), nil
}

func finishDigest(hashes []Hash) LogDigest {
	var root Hash
	if len(hashes) > 0 {
		root = merkleRoot(hashes)
	}
	var trailer [40]byte
	copy(trailer[:32], root[:])
	count := uint64(len(hashes))
	for index := range 8 {
		trailer[32+index] = byte(count >> (8 * (7 - index)))
	}
	hash := keyedHash(logDomainKey, trailer[:])
	return LogDigest{Events: len(hashes), Hash: hash, HashHex: hash.String()}
}

func canonicalEvent(event messaging.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encoding event %s: %w", event.EventID, err)
	}
	var normalized messaging.Event
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, fmt.Errorf("normalizing event %s: %w", event.EventID, err)
	}
	return codec.Marshal(normalized)
}

// merkleRoot builds a binary tree bottom-up over hashes. An odd node
// at the end of a level is promoted unchanged rather than duplicated,
// so a sequence and its prefix never share a root.
func merkleRoot(hashes []Hash) Hash {
	hasher, err := blake3.NewKeyed(eventDomainKey[:])
	if err != nil {
		panic("eventlog: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	var combined [64]byte

	level := make([]Hash, len(hashes))
	copy(level, hashes)
	for len(level) > 1 {
		next := make([]Hash, (len(level)+1)/2)
		for index := 0; index < len(level)-1; index += 2 {
			copy(combined[:32], level[index][:])
			copy(combined[32:], level[index+1][:])
			hasher.Reset()
			hasher.Write(combined[:])
			copy(next[index/2][:], hasher.Sum(nil))
		}
		if len(level)%2 == 1 {
			next[len(next)-1] = level[len(level)-1]
		}
		level = next
	}
	return level[0]
}

func keyedHash(key [32]byte, data []byte) Hash {
	// NewKeyed only fails for keys that are not 32 bytes.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("eventlog: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}
