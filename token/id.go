// Package token holds the token identifier shared by the oracle, the ledger
// and the contract surface.
package token

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// KeySize is the length of an encoded token key.
const KeySize = 32

// ID identifies a token in the collection. Identifiers use the full 256-bit
// unsigned range of the token standard.
type ID = uint256.Int

// NewID returns the ID for a small integer.
func NewID(n uint64) ID {
	return *uint256.NewInt(n)
}

// NewIDs returns IDs for a list of small integers, preserving order.
func NewIDs(ns ...uint64) []ID {
	ids := make([]ID, len(ns))
	for i, n := range ns {
		ids[i] = NewID(n)
	}
	return ids
}

// ParseID parses a decimal or 0x-prefixed hexadecimal token ID.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}, fmt.Errorf("%w: empty", ErrInvalidID)
	}
	var (
		v   *uint256.Int
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = uint256.FromHex("0x" + trimHexZeros(s[2:]))
	} else {
		v, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q: %w", ErrInvalidID, s, err)
	}
	return *v, nil
}

// trimHexZeros drops zero padding such as the 32-byte ABI form, which FromHex
// rejects. An all-zero value keeps a single digit.
func trimHexZeros(digits string) string {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" && digits != "" {
		return "0"
	}
	return trimmed
}

// ParseIDs parses a comma-separated list of token IDs. Order is preserved and
// duplicates are kept; rejecting them is the ledger's job.
func ParseIDs(list string) ([]ID, error) {
	parts := strings.Split(list, ",")
	ids := make([]ID, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		id, err := ParseID(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Key encodes an ID as a 32-byte big-endian key so that byte order matches
// numeric order.
func Key(id ID) []byte {
	k := id.Bytes32()
	return k[:]
}

// FromKey decodes a key produced by Key.
func FromKey(k []byte) (ID, error) {
	if len(k) != KeySize {
		return ID{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, KeySize, len(k))
	}
	var id ID
	id.SetBytes(k)
	return id, nil
}

// String formats an ID in decimal.
func String(id ID) string {
	return id.Dec()
}

// Strings formats a list of IDs in decimal.
func Strings(ids []ID) []string {
	out := make([]string, len(ids))
	for i := range ids {
		out[i] = ids[i].Dec()
	}
	return out
}
