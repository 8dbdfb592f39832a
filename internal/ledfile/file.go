// Package ledfile decodes and encodes the configuration image of the
// LED commander 16/2 DMX console.
//
// The image is a fixed 0x80200 byte blob read and written in one pass:
//
//	0x00000  "succeeded" + NUL padding (512)
//	0x00200  16 static scenes + 2000 chase steps (184 each)
//	0x5AB00  channel names (12 x 7)
//	0x5AB54  DMX patch (512)
//	0x5AD54  chase step counts (16 x 3)
//	0x5AD84  "acme\x00"
//	0x5AD89  unconfirmed, one byte per DMX address
//	0x5AF89  chase step lists (16 x 2000 x 2)
//	0x6A989  unconfirmed (4)
//	0x6A98D  virtual dimmer modes (16)
//	0x6A99D  virtual dimmer apply flags (16 x 10)
//	0x6AA3D  trailer, 0xFF
//
// Only the two markers are checked. Everything else is kept as read. An image
// that ends inside the trailer loads, the missing tail counts as 0xFF.
package ledfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/powerswitch/led-commander-16-2/internal/logger"
)

// FileSize - полный размер образа конфигурации.
const FileSize = 0x80200

const (
	magicSize       = 512
	nameTableSize   = NamedChannels * NameSize
	chaseHeaderSize = 3
	stepListSize    = MaxSteps * 2
	dimmerSize      = Fixtures + Fixtures*Channels

	offScenes       = magicSize
	offNames        = offScenes + (StaticScenes+ChaseSteps)*SceneSize
	offPatch        = offNames + nameTableSize
	offChaseHeaders = offPatch + DMXChannels
	offAcme         = offChaseHeaders + Chases*chaseHeaderSize
	offChannelFlags = offAcme + 5
	offStepLists    = offChannelFlags + DMXChannels
	offBlock6A989   = offStepLists + Chases*stepListSize
	offDimmers      = offBlock6A989 + 4
	offTrailer      = offDimmers + dimmerSize

	trailerSize = FileSize - offTrailer
)

var (
	magicNumber = append([]byte("succeeded"), make([]byte, magicSize-len("succeeded"))...)
	acmeMarker  = []byte("acme\x00")
)

// Mode selects how the encoder treats unconfirmed bytes.
type Mode int

const (
	// ModeFaithful replays unconfirmed bytes exactly as they were read.
	ModeFaithful Mode = iota
	// ModeCanonical writes the observed constants instead.
	ModeCanonical
)

func (m Mode) String() string {
	switch m {
	case ModeFaithful:
		return "faithful"
	case ModeCanonical:
		return "canonical"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a config value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "faithful":
		return ModeFaithful, nil
	case "canonical":
		return ModeCanonical, nil
	}
	return 0, fmt.Errorf("unknown codec mode %q", s)
}

// File is the decoded configuration image.
type File struct {
	StaticScenes [StaticScenes]Scene
	ChaseSteps   [ChaseSteps]Scene
	Names        NameTable
	Patch        PatchTable
	Chases       [Chases]Chase
	Dimmers      VirtualDimmers
	Unconfirmed  Unconfirmed
}

// New returns an empty configuration: nothing patched, no scenes, no chases,
// unconfirmed regions set to their observed constants.
func New() *File {
	f := &File{Unconfirmed: canonicalUnconfirmed()}
	for i := range f.Patch {
		f.Patch[i] = Assignment{Kind: Unassigned}
	}
	for i := range f.Chases {
		f.Chases[i].Reserved = chaseReserved
	}
	return f
}

// Codec reads and writes configuration images.
type Codec struct {
	log  logger.Logger
	mode Mode
}

// NewCodec конструктор.
func NewCodec(log logger.Logger, mode Mode) *Codec {
	return &Codec{log: log, mode: mode}
}

func (c *Codec) Mode() Mode {
	return c.mode
}

// Load reads the image at path.
func (c *Codec) Load(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fd.Close()

	f, err := c.Decode(bufio.NewReader(fd))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return f, nil
}

// Save writes f to path. The image goes to a temporary file next to path
// first and replaces path only when complete.
func (c *Codec) Save(path string, f *File) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = c.Encode(bw, f); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("save %s: %w: %w", path, ErrWriteFailure, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w: %w", path, ErrWriteFailure, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	c.log.With(logger.Fields{"module": "ledfile"}).Infof("wrote %s (%s)", path, c.mode)
	return nil
}

// Decode reads one image from r. On error no model is returned.
func (c *Codec) Decode(r io.Reader) (*File, error) {
	log := c.log.With(logger.Fields{"module": "ledfile"})
	cur := newReader(r)
	f := &File{}

	magic, err := cur.readExact(magicSize)
	if err != nil {
		return nil, fmt.Errorf("magic number: %w", err)
	}
	if !bytes.Equal(magic, magicNumber) {
		return nil, ErrInvalidMagicNumber
	}
	log.Debug("magic number ok")

	for i := range f.StaticScenes {
		if err := decodeScene(cur, &f.StaticScenes[i]); err != nil {
			return nil, fmt.Errorf("static scene %d: %w", i+1, err)
		}
	}
	for i := range f.ChaseSteps {
		if err := decodeScene(cur, &f.ChaseSteps[i]); err != nil {
			return nil, fmt.Errorf("chase step %d: %w", i+1, err)
		}
	}

	if err := decodeNames(cur, &f.Names); err != nil {
		return nil, fmt.Errorf("channel names: %w", err)
	}
	for id := range f.Names {
		log.Debugf("%s name: '%s'", DefaultName(id), f.Names.Custom(id))
	}

	if err := decodePatch(cur, &f.Patch); err != nil {
		return nil, fmt.Errorf("dmx patch: %w", err)
	}
	for addr, a := range f.Patch {
		if a.Kind != Unassigned {
			log.Debugf("DMX Channel %d: %s", addr+1, f.Label(a))
		}
	}

	for i := range f.Chases {
		if err := decodeChaseHeader(cur, &f.Chases[i]); err != nil {
			return nil, fmt.Errorf("chase %d header: %w", i+1, err)
		}
	}

	acme, err := cur.readExact(len(acmeMarker))
	if err != nil {
		return nil, fmt.Errorf("acme marker: %w", err)
	}
	if !bytes.Equal(acme, acmeMarker) {
		return nil, ErrInvalidAcmeMarker
	}
	log.Debug("acme marker ok")

	u := &f.Unconfirmed
	if err := cur.readInto(u.ChannelFlags[:]); err != nil {
		return nil, fmt.Errorf("channel flags: %w", err)
	}
	for i := range f.Chases {
		if err := decodeChaseBody(cur, &f.Chases[i]); err != nil {
			return nil, fmt.Errorf("chase %d steps: %w", i+1, err)
		}
	}
	if err := cur.readInto(u.Block6A989[:]); err != nil {
		return nil, fmt.Errorf("block 0x6A989: %w", err)
	}
	if err := decodeDimmers(cur, &f.Dimmers); err != nil {
		return nil, fmt.Errorf("virtual dimmers: %w", err)
	}
	n, err := cur.readAvailable(u.Trailer[:])
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}
	if n < trailerSize {
		// короткий образ: недостающий хвост заполняется 0xFF
		u.Missing = trailerSize - n
		for i := n; i < trailerSize; i++ {
			u.Trailer[i] = trailerObserved
		}
	} else if u.Excess, err = cur.drain(); err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}

	for _, d := range f.Deviations() {
		log.Warnf("unconfirmed region deviates: %s", d)
	}
	return f, nil
}

// Encode writes f to w in file order.
func (c *Codec) Encode(w io.Writer, f *File) error {
	if err := f.Validate(); err != nil {
		return err
	}
	cur := newWriter(w)

	cur.writeExact(magicNumber)
	for i := range f.StaticScenes {
		encodeScene(cur, &f.StaticScenes[i])
	}
	for i := range f.ChaseSteps {
		encodeScene(cur, &f.ChaseSteps[i])
	}
	encodeNames(cur, &f.Names)
	if err := encodePatch(cur, &f.Patch); err != nil {
		return err
	}
	for i := range f.Chases {
		encodeChaseHeader(cur, &f.Chases[i], c.mode)
	}
	cur.writeExact(acmeMarker)

	u := &f.Unconfirmed
	if c.mode == ModeCanonical {
		canonical := canonicalUnconfirmed()
		u = &canonical
	}
	cur.writeExact(u.ChannelFlags[:])
	for i := range f.Chases {
		encodeChaseBody(cur, &f.Chases[i])
	}
	cur.writeExact(u.Block6A989[:])
	encodeDimmers(cur, &f.Dimmers)
	cur.writeExact(u.Trailer[:])

	if cur.err != nil {
		return cur.err
	}
	if cur.off != FileSize {
		return fmt.Errorf("encoded %d bytes, want %d", cur.off, FileSize)
	}
	return nil
}

// Validate reports values the encoder cannot represent.
func (f *File) Validate() error {
	var errs []error
	for i := range f.Chases {
		if n := f.Chases[i].StepCount; n > MaxSteps {
			errs = append(errs, fmt.Errorf("chase %d: %w: %d > %d", i+1, ErrStepCountOutOfRange, n, MaxSteps))
		}
	}
	for addr, a := range f.Patch {
		if _, err := a.Encode(); err != nil {
			errs = append(errs, fmt.Errorf("dmx address %d: %w", addr+1, err))
		}
	}
	return errors.Join(errs...)
}

// Label names the target of a DMX assignment, e.g. "Fixture 4: Red (Channel 8)".
func (f *File) Label(a Assignment) string {
	switch a.Kind {
	case Unassigned:
		return "unassigned"
	case FixtureChannel:
		return fmt.Sprintf("Fixture %d: %s", int(a.Fixture)+1, f.Names.DisplayName(a.ChannelID()))
	}
	return f.Names.DisplayName(a.ChannelID())
}
