package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want uint64
	}{
		{"decimal", "42", 42},
		{"hex", "0x2a", 42},
		{"upper hex prefix", "0X2A", 42},
		{"whitespace", "  7 ", 7},
		{"zero", "0", 0},
		{"hex leading zero", "0x01", 1},
		{"abi padded hex", "0x" + strings.Repeat("0", 62) + "2a", 42},
		{"hex all zeros", "0x0000", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseID(tt.in)
			require.NoError(t, err)
			assert.Equal(t, NewID(tt.want), id)
		})
	}
}

func TestParseID_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "-1", "0xzz", "0x"} {
		_, err := ParseID(in)
		assert.ErrorIs(t, err, ErrInvalidID, "input %q", in)
	}
}

func TestParseIDs_KeepsOrderAndDuplicates(t *testing.T) {
	ids, err := ParseIDs("3, 1,3,,2")
	require.NoError(t, err)
	assert.Equal(t, NewIDs(3, 1, 3, 2), ids)
}

func TestKey_OrderMatchesNumericOrder(t *testing.T) {
	a, b := NewID(255), NewID(256)
	ka, kb := Key(a), Key(b)
	require.Len(t, ka, KeySize)
	assert.True(t, string(ka) < string(kb))

	back, err := FromKey(kb)
	require.NoError(t, err)
	assert.Equal(t, b, back)
}

func TestFromKey_WrongSize(t *testing.T) {
	_, err := FromKey([]byte{0x01})
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, []string{"1", "20"}, Strings(NewIDs(1, 20)))
	assert.Equal(t, "300", String(NewID(300)))
}
