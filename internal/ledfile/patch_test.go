package ledfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAssignment(t *testing.T) {
	tests := []struct {
		raw  byte
		want Assignment
	}{
		{0xA2, Assignment{Kind: Unassigned}},
		{0xA1, Assignment{Kind: Aux1}},
		{0xA0, Assignment{Kind: Aux2}},
		{37, Patch(3, 7)},
		{0, Patch(0, 0)},
		{159, Patch(15, 9)},
		// outside the console's fixture range, kept as is
		{0xA3, Patch(16, 3)},
		{0xFF, Patch(25, 5)},
	}
	for _, tt := range tests {
		got := DecodeAssignment(tt.raw)
		assert.Equal(t, tt.want, got, "raw %#x", tt.raw)

		back, err := got.Encode()
		require.NoError(t, err)
		assert.Equal(t, tt.raw, back, "raw %#x", tt.raw)
	}
}

func TestDecodeAssignment_AllBytesLossless(t *testing.T) {
	for b := 0; b <= 0xFF; b++ {
		back, err := DecodeAssignment(byte(b)).Encode()
		require.NoError(t, err)
		require.Equal(t, byte(b), back)
	}
}

func TestAssignmentEncode_Invalid(t *testing.T) {
	for _, a := range []Assignment{
		Patch(1, 10), // channel out of range
		Patch(16, 0), // collides with 0xA0
		Patch(16, 2), // collides with 0xA2
		Patch(26, 0), // above 0xFF
		{Kind: 9},
	} {
		_, err := a.Encode()
		assert.ErrorIs(t, err, ErrInvalidAssignment, "%+v", a)
	}
}

func TestAssignmentChannelID(t *testing.T) {
	assert.Equal(t, ChannelAux1, Assignment{Kind: Aux1}.ChannelID())
	assert.Equal(t, ChannelAux2, Assignment{Kind: Aux2}.ChannelID())
	assert.Equal(t, 7, Patch(3, 7).ChannelID())
	assert.Equal(t, -1, Assignment{Kind: Unassigned}.ChannelID())
}

func TestPatchTableAddressesOf(t *testing.T) {
	f := New()
	f.Patch[0] = Patch(2, 1)
	f.Patch[99] = Patch(2, 1)
	f.Patch[100] = Patch(2, 2)

	assert.Equal(t, []int{0, 99}, f.Patch.AddressesOf(2, 1))
	assert.Empty(t, f.Patch.AddressesOf(5, 5))
}

func TestLabel(t *testing.T) {
	f := New()
	require.NoError(t, f.Names.SetCustom(7, "Red"))

	assert.Equal(t, "Fixture 4: Red (Channel 8)", f.Label(Patch(3, 7)))
	assert.Equal(t, "Fixture 1: PAN", f.Label(Patch(0, ChannelPan)))
	assert.Equal(t, "AUX 2", f.Label(Assignment{Kind: Aux1}))
	assert.Equal(t, "AUX 1", f.Label(Assignment{Kind: Aux2}))
	assert.Equal(t, "unassigned", f.Label(Assignment{Kind: Unassigned}))
}
