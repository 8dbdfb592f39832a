package ledfile

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomScene(rng *rand.Rand) Scene {
	var s Scene
	for f := 0; f < Fixtures; f++ {
		for c := 0; c < Channels; c++ {
			s.Values[f][c] = byte(rng.Intn(256))
			s.Active[f][c] = rng.Intn(2) == 1
		}
	}
	s.FlagsA = [2]byte{byte(rng.Intn(256)), byte(rng.Intn(256))}
	s.ValueCount = byte(rng.Intn(256))
	s.FlagsB = byte(rng.Intn(256))
	return s
}

func TestSceneSize(t *testing.T) {
	assert.Equal(t, 184, SceneSize)
}

func TestSceneRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(16))
	for i := 0; i < 500; i++ {
		want := randomScene(rng)

		var buf bytes.Buffer
		w := newWriter(&buf)
		encodeScene(w, &want)
		require.NoError(t, w.err)
		require.Equal(t, SceneSize, buf.Len())

		var got Scene
		require.NoError(t, decodeScene(newReader(&buf), &got))
		require.Equal(t, want, got)
	}
}

func TestSceneBitmapLayout(t *testing.T) {
	raw := make([]byte, SceneSize)
	raw[0] = 11   // fixture 1 channel 1
	raw[159] = 99 // fixture 16 channel 10
	// bit 0 -> (0,0), bit 11 -> (1,1), bit 159 -> (15,9)
	raw[cells+0] = 0x01
	raw[cells+1] = 0x08
	raw[cells+19] = 0x80
	raw[180], raw[181], raw[182], raw[183] = 0xAA, 0xBB, 3, 0xCC

	var s Scene
	require.NoError(t, decodeScene(newReader(bytes.NewReader(raw)), &s))

	assert.Equal(t, byte(11), s.Values[0][0])
	assert.Equal(t, byte(99), s.Values[15][9])
	assert.True(t, s.Active[0][0])
	assert.True(t, s.Active[1][1])
	assert.True(t, s.Active[15][9])
	assert.Equal(t, 3, s.ActiveCount())
	assert.Equal(t, [2]byte{0xAA, 0xBB}, s.FlagsA)
	assert.Equal(t, byte(3), s.ValueCount)
	assert.Equal(t, byte(0xCC), s.FlagsB)
}

func TestSceneInactiveValuesKept(t *testing.T) {
	var s Scene
	s.Values[4][2] = 200

	var buf bytes.Buffer
	encodeScene(newWriter(&buf), &s)

	var got Scene
	require.NoError(t, decodeScene(newReader(&buf), &got))
	assert.False(t, got.IsPopulated())
	assert.Equal(t, byte(200), got.Values[4][2])
}

func TestSceneIsPopulated(t *testing.T) {
	var s Scene
	assert.False(t, s.IsPopulated())
	s.Active[7][3] = true
	assert.True(t, s.IsPopulated())
}

func TestSceneTruncated(t *testing.T) {
	var s Scene
	err := decodeScene(newReader(bytes.NewReader(make([]byte, SceneSize-1))), &s)
	assert.ErrorIs(t, err, ErrTruncatedInput)
}
