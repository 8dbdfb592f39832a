package ledfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	var names NameTable
	copy(names[0][:], "Red\x00\x00\x00\x00")

	assert.Equal(t, "Red (Channel 1)", names.DisplayName(0))
	assert.Equal(t, "Channel 2", names.DisplayName(1))
	assert.Equal(t, "PAN", names.DisplayName(ChannelPan))
	assert.Equal(t, "TILT", names.DisplayName(ChannelTilt))
	assert.Equal(t, "AUX 1", names.DisplayName(10))
	assert.Equal(t, "AUX 2", names.DisplayName(11))
	assert.Equal(t, InvalidChannelName, names.DisplayName(99))
	assert.Equal(t, InvalidChannelName, names.DisplayName(-1))
}

func TestDisplayName_EmptyCustom(t *testing.T) {
	var names NameTable
	assert.Equal(t, "Channel 1", names.DisplayName(0))
}

func TestChannelNameNonASCII(t *testing.T) {
	n := ChannelName{'W', 0xE9, 'i', 0, 0, 0, 0}
	assert.Equal(t, "W�i", n.String())
}

func TestChannelNameInnerNUL(t *testing.T) {
	// only trailing NULs are stripped
	n := ChannelName{'a', 0, 'b', 0, 0, 0, 0}
	assert.Equal(t, "a\x00b", n.String())
}

func TestSetCustom(t *testing.T) {
	var names NameTable
	require.NoError(t, names.SetCustom(ChannelTilt, "Tilt-XY"))
	assert.Equal(t, "Tilt-XY (TILT)", names.DisplayName(ChannelTilt))
	assert.Equal(t, "Tilt-XY", names.Custom(ChannelTilt))

	require.NoError(t, names.SetCustom(ChannelTilt, ""))
	assert.Equal(t, "TILT", names.DisplayName(ChannelTilt))

	assert.ErrorIs(t, names.SetCustom(0, "TooLongName"), ErrInvalidName)
	assert.ErrorIs(t, names.SetCustom(0, "Grün"), ErrInvalidName)
	assert.ErrorIs(t, names.SetCustom(12, "x"), ErrInvalidName)
}

func TestDefaultName(t *testing.T) {
	assert.Equal(t, "Channel 8", DefaultName(7))
	assert.Equal(t, InvalidChannelName, DefaultName(12))
}
