package ledfile

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

type failingWriter struct {
	budget int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.budget {
		n := w.budget
		w.budget = 0
		return n, errors.New("disk full")
	}
	w.budget -= len(p)
	return len(p), nil
}

func TestLayoutOffsets(t *testing.T) {
	assert.Equal(t, 0x00200, offScenes)
	assert.Equal(t, 0x5AB00, offNames)
	assert.Equal(t, 0x5AB54, offPatch)
	assert.Equal(t, 0x5AD54, offChaseHeaders)
	assert.Equal(t, 0x5AD84, offAcme)
	assert.Equal(t, 0x5AD89, offChannelFlags)
	assert.Equal(t, 0x5AF89, offStepLists)
	assert.Equal(t, 0x6A989, offBlock6A989)
	assert.Equal(t, 0x6A98D, offDimmers)
	assert.Equal(t, 0x6AA3D, offTrailer)
	assert.Equal(t, 88003, trailerSize)
}

func TestDecode_InvalidMagicNumber(t *testing.T) {
	codec, _ := newTestCodec(t, ModeFaithful)
	img := minimalImage()
	copy(img, "succeedex")

	cr := &countingReader{r: bytes.NewReader(img)}
	f, err := codec.Decode(cr)
	assert.Nil(t, f)
	assert.ErrorIs(t, err, ErrInvalidMagicNumber)
	assert.Equal(t, magicSize, cr.n)
}

func TestDecode_MagicPaddingMustBeZero(t *testing.T) {
	codec, _ := newTestCodec(t, ModeFaithful)
	img := minimalImage()
	img[magicSize-1] = 1

	_, err := codec.Decode(bytes.NewReader(img))
	assert.ErrorIs(t, err, ErrInvalidMagicNumber)
}

func TestDecode_InvalidAcmeMarker(t *testing.T) {
	codec, _ := newTestCodec(t, ModeFaithful)
	img := minimalImage()
	copy(img[offAcme:], "acne\x00")

	f, err := codec.Decode(bytes.NewReader(img))
	assert.Nil(t, f)
	assert.ErrorIs(t, err, ErrInvalidAcmeMarker)
}

func TestDecode_Truncated(t *testing.T) {
	codec, _ := newTestCodec(t, ModeFaithful)
	img := minimalImage()

	for _, cut := range []int{0, 100, offScenes + 5, offNames + 3, offPatch + 1, offAcme + 2, offStepLists + 7, offDimmers, offTrailer - 1} {
		f, err := codec.Decode(bytes.NewReader(img[:cut]))
		assert.Nil(t, f, "cut at %#x", cut)
		assert.ErrorIs(t, err, ErrTruncatedInput, "cut at %#x", cut)
	}
}

func TestDecode_Minimal(t *testing.T) {
	codec, hook := newTestCodec(t, ModeFaithful)
	f, err := codec.Decode(bytes.NewReader(minimalImage()))
	require.NoError(t, err)

	// zero patch bytes mean fixture 1 channel 1
	assert.Equal(t, Patch(0, 0), f.Patch[0])
	assert.False(t, f.StaticScenes[0].IsPopulated())
	assert.Equal(t, "Channel 1", f.Names.DisplayName(0))

	// every unconfirmed region of an all-zero image deviates
	regions := map[string]bool{}
	for _, d := range f.Deviations() {
		regions[d.Region] = true
	}
	assert.Equal(t, map[string]bool{"chase reserved": true, "channel flags": true, "block 0x6A989": true, "trailer": true}, regions)
	assert.Len(t, warnings(hook), 4)
}

func TestDecode_ShortTrailer(t *testing.T) {
	codec, hook := newTestCodec(t, ModeFaithful)
	img := minimalImage()

	f, err := codec.Decode(bytes.NewReader(img[:offTrailer+100]))
	require.NoError(t, err)
	assert.Equal(t, trailerSize-100, f.Unconfirmed.Missing)

	devs := f.Deviations()
	assert.Contains(t, devs, Deviation{Region: "trailer", Offset: offTrailer, Count: 100, Expected: "0xFF"})
	assert.Contains(t, devs, Deviation{Region: "missing", Offset: offTrailer + 100, Count: trailerSize - 100, Expected: "0xFF"})
	assert.Len(t, warnings(hook), 5)

	var out bytes.Buffer
	require.NoError(t, codec.Encode(&out, f))
	require.Equal(t, FileSize, out.Len())
	assert.Equal(t, img[:offTrailer+100], out.Bytes()[:offTrailer+100])
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, trailerSize-100), out.Bytes()[offTrailer+100:])
}

func TestDecode_TrailerCutShort(t *testing.T) {
	codec, _ := newTestCodec(t, ModeFaithful)
	var full bytes.Buffer
	require.NoError(t, codec.Encode(&full, New()))

	for _, cut := range []int{offTrailer, FileSize - 1} {
		f, err := codec.Decode(bytes.NewReader(full.Bytes()[:cut]))
		require.NoError(t, err, "cut at %#x", cut)
		assert.Equal(t, []Deviation{{Region: "missing", Offset: int64(cut), Count: FileSize - cut, Expected: "0xFF"}}, f.Deviations())

		var out bytes.Buffer
		require.NoError(t, codec.Encode(&out, f))
		assert.True(t, bytes.Equal(full.Bytes(), out.Bytes()), "cut at %#x", cut)
	}
}

func TestRoundTrip_Faithful(t *testing.T) {
	codec, _ := newTestCodec(t, ModeFaithful)
	img := minimalImage()

	f, err := codec.Decode(bytes.NewReader(img))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, codec.Encode(&out, f))
	assert.Equal(t, FileSize, out.Len())
	assert.True(t, bytes.Equal(img, out.Bytes()), "faithful encode must reproduce the input")
}

func TestRoundTrip_FaithfulPopulated(t *testing.T) {
	codec, _ := newTestCodec(t, ModeFaithful)
	f := New()
	f.StaticScenes[2].Values[3][4] = 77
	f.StaticScenes[2].Active[3][4] = true
	f.ChaseSteps[1999].Active[15][9] = true
	f.Chases[5].StepCount = 2
	f.Chases[5].StepIDs[0] = 1999
	f.Chases[5].StepIDs[1] = 4
	f.Patch[0] = Patch(2, 4)
	f.Patch[1] = Assignment{Kind: Aux1}
	f.Dimmers.Modes[3] = 2
	f.Dimmers.Apply[3][0] = 1
	require.NoError(t, f.Names.SetCustom(0, "Red"))
	f.Unconfirmed.ChannelFlags[10] = 0x09

	var first bytes.Buffer
	require.NoError(t, codec.Encode(&first, f))

	got, err := codec.Decode(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, f, got)

	var second bytes.Buffer
	require.NoError(t, codec.Encode(&second, got))
	assert.True(t, bytes.Equal(first.Bytes(), second.Bytes()))
}

func TestRoundTrip_Canonical(t *testing.T) {
	faithful, _ := newTestCodec(t, ModeFaithful)
	canonical, _ := newTestCodec(t, ModeCanonical)
	img := minimalImage()

	f, err := faithful.Decode(bytes.NewReader(img))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, canonical.Encode(&out, f))
	got := out.Bytes()
	require.Len(t, got, FileSize)

	// decoded sections are identical
	assert.Equal(t, img[:offChaseHeaders], got[:offChaseHeaders])
	assert.Equal(t, img[offStepLists:offBlock6A989], got[offStepLists:offBlock6A989])
	assert.Equal(t, img[offDimmers:offTrailer], got[offDimmers:offTrailer])

	// unconfirmed regions carry the observed constants
	for i := 0; i < Chases; i++ {
		assert.Equal(t, byte(0x05), got[offChaseHeaders+i*chaseHeaderSize+2])
	}
	assert.Equal(t, acmeMarker, got[offAcme:offChannelFlags])
	assert.Equal(t, bytes.Repeat([]byte{0x02}, DMXChannels), got[offChannelFlags:offStepLists])
	assert.Equal(t, []byte{0x4B, 0x01, 0x00, 0x00}, got[offBlock6A989:offDimmers])
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, trailerSize), got[offTrailer:])

	reloaded, err := faithful.Decode(bytes.NewReader(got))
	require.NoError(t, err)
	assert.Empty(t, reloaded.Deviations())
}

func TestNew_EncodesSameInBothModes(t *testing.T) {
	faithful, _ := newTestCodec(t, ModeFaithful)
	canonical, hook := newTestCodec(t, ModeCanonical)

	var a, b bytes.Buffer
	require.NoError(t, faithful.Encode(&a, New()))
	require.NoError(t, canonical.Encode(&b, New()))
	assert.True(t, bytes.Equal(a.Bytes(), b.Bytes()))

	f, err := canonical.Decode(bytes.NewReader(a.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, f.Deviations())
	assert.Empty(t, warnings(hook))
	assert.Equal(t, Assignment{Kind: Unassigned}, f.Patch[511])
}

func TestDecode_ExcessBytes(t *testing.T) {
	codec, _ := newTestCodec(t, ModeFaithful)
	var img bytes.Buffer
	require.NoError(t, codec.Encode(&img, New()))
	img.Write([]byte{1, 2, 3})

	f, err := codec.Decode(&img)
	require.NoError(t, err)
	require.Len(t, f.Deviations(), 1)
	assert.Equal(t, Deviation{Region: "excess", Offset: FileSize, Count: 3, Expected: "end of file"}, f.Deviations()[0])

	var out bytes.Buffer
	require.NoError(t, codec.Encode(&out, f))
	assert.Equal(t, FileSize, out.Len())
}

func TestDeviationOffsets(t *testing.T) {
	f := New()
	f.Chases[2].Reserved = 0
	f.Unconfirmed.Trailer[10] = 0x00
	f.Unconfirmed.Trailer[20] = 0x01

	devs := f.Deviations()
	require.Len(t, devs, 2)
	assert.Equal(t, Deviation{Region: "chase reserved", Offset: 0x5AD54 + 2*3 + 2, Count: 1, Expected: "0x05"}, devs[0])
	assert.Equal(t, Deviation{Region: "trailer", Offset: 0x6AA3D + 10, Count: 2, Expected: "0xFF"}, devs[1])
}

func TestEncode_WriteFailure(t *testing.T) {
	codec, _ := newTestCodec(t, ModeFaithful)
	err := codec.Encode(&failingWriter{budget: 1000}, New())
	assert.ErrorIs(t, err, ErrWriteFailure)
}

func TestEncode_InvalidPatch(t *testing.T) {
	codec, _ := newTestCodec(t, ModeFaithful)
	f := New()
	f.Patch[3] = Patch(1, 12)

	var out bytes.Buffer
	err := codec.Encode(&out, f)
	assert.ErrorIs(t, err, ErrInvalidAssignment)
	assert.Zero(t, out.Len(), "nothing is written for an invalid model")
}

func TestSaveLoad(t *testing.T) {
	codec, hook := newTestCodec(t, ModeFaithful)
	path := filepath.Join(t.TempDir(), "ledcommander.bin")

	f := New()
	f.StaticScenes[0].Active[0][0] = true
	f.StaticScenes[0].Values[0][0] = 255
	require.NoError(t, codec.Save(path, f))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(FileSize), info.Size())

	got, err := codec.Load(path)
	require.NoError(t, err)
	assert.Equal(t, f, got)
	assert.Empty(t, warnings(hook))

	// no temporary files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_KeepsOriginalOnInvalidModel(t *testing.T) {
	codec, _ := newTestCodec(t, ModeFaithful)
	path := filepath.Join(t.TempDir(), "ledcommander.bin")
	require.NoError(t, codec.Save(path, New()))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	f := New()
	f.Chases[0].StepCount = MaxSteps + 1
	assert.ErrorIs(t, codec.Save(path, f), ErrStepCountOutOfRange)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoad_Errors(t *testing.T) {
	codec, _ := newTestCodec(t, ModeFaithful)
	dir := t.TempDir()

	_, err := codec.Load(filepath.Join(dir, "missing.bin"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.bin")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o600))
	_, err = codec.Load(bad)
	assert.ErrorIs(t, err, ErrTruncatedInput)

	img := minimalImage()
	copy(img, "failed")
	wrong := filepath.Join(dir, "wrong.bin")
	require.NoError(t, os.WriteFile(wrong, img, 0o600))
	_, err = codec.Load(wrong)
	assert.ErrorIs(t, err, ErrInvalidMagicNumber)
}

func TestSave_MissingDirectory(t *testing.T) {
	codec, _ := newTestCodec(t, ModeFaithful)
	err := codec.Save(filepath.Join(t.TempDir(), "nope", "x.bin"), New())
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeFaithful, false},
		{"faithful", ModeFaithful, false},
		{" Canonical ", ModeCanonical, false},
		{"lossy", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, "canonical", ModeCanonical.String())
}
