package payout

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	schemeHeaderSize = 4  // num_entries(4)
	schemeEntrySize  = 28 // recipient(20) + share(8)
)

// Encode serializes a scheme to its binary storage form.
func Encode(s Scheme) ([]byte, error) {
	if uint64(len(s)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d entries", ErrTooManyEntries, len(s))
	}
	buf := make([]byte, schemeHeaderSize+schemeEntrySize*len(s))
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(s)))
	offset := schemeHeaderSize
	for _, e := range s {
		copy(buf[offset:offset+20], e.Recipient[:])
		offset += 20
		binary.BigEndian.PutUint64(buf[offset:offset+8], e.Share)
		offset += 8
	}
	return buf, nil
}

// Decode parses a scheme produced by Encode. It checks framing only; callers
// that need the scheme invariants run Validate.
func Decode(data []byte) (Scheme, error) {
	if len(data) < schemeHeaderSize {
		return nil, fmt.Errorf("%w: too short (%d bytes)", ErrInvalidSchemeData, len(data))
	}
	n := int(binary.BigEndian.Uint32(data[0:4]))
	expected := schemeHeaderSize + schemeEntrySize*n
	if len(data) != expected {
		return nil, fmt.Errorf("%w: expected %d bytes for %d entries, got %d",
			ErrInvalidSchemeData, expected, n, len(data))
	}

	s := make(Scheme, n)
	offset := schemeHeaderSize
	for i := 0; i < n; i++ {
		copy(s[i].Recipient[:], data[offset:offset+20])
		offset += 20
		s[i].Share = binary.BigEndian.Uint64(data[offset : offset+8])
		offset += 8
	}
	return s, nil
}
