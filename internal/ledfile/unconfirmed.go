package ledfile

import "fmt"

// Observed contents of the regions nobody has decoded yet.
var (
	channelFlagsObserved byte = 0x02
	block6A989Observed        = [4]byte{0x4B, 0x01, 0x00, 0x00}
	trailerObserved      byte = 0xFF
)

// Unconfirmed carries the raw bytes of every region whose meaning is not
// known. The comments hold the current hypothesis only.
type Unconfirmed struct {
	// ChannelFlags follows the acme marker, one byte per DMX address.
	// Always 0x02 so far.
	ChannelFlags [DMXChannels]byte
	// Block6A989 sits between the step lists and the virtual dimmer modes.
	// Seen as 4B 01 00 00.
	Block6A989 [4]byte
	// Trailer fills the image up to FileSize, probably unused. All 0xFF.
	Trailer [trailerSize]byte
	// Excess counts bytes found after the end of the image. They are not
	// written back.
	Excess int64
	// Missing counts trailer bytes absent from a short image. Encode fills
	// them with 0xFF.
	Missing int
}

func canonicalUnconfirmed() Unconfirmed {
	var u Unconfirmed
	u.reset()
	return u
}

func (u *Unconfirmed) reset() {
	for i := range u.ChannelFlags {
		u.ChannelFlags[i] = channelFlagsObserved
	}
	u.Block6A989 = block6A989Observed
	for i := range u.Trailer {
		u.Trailer[i] = trailerObserved
	}
	u.Excess = 0
	u.Missing = 0
}

// Deviation describes an unconfirmed region whose bytes differ from what has
// been observed so far.
type Deviation struct {
	Region   string `json:"region" yaml:"region"`
	Offset   int64  `json:"offset" yaml:"offset"`
	Count    int    `json:"count" yaml:"count"`
	Expected string `json:"expected" yaml:"expected"`
}

func (d Deviation) String() string {
	return fmt.Sprintf("%s: %d byte(s) differ from %s, first at %#x", d.Region, d.Count, d.Expected, d.Offset)
}

// Deviations lists every unconfirmed byte range that differs from its
// observed constant.
func (f *File) Deviations() []Deviation {
	var out []Deviation
	check := func(region, expected string, n int, got, want func(i int) byte, at func(i int) int64) {
		first, count := -1, 0
		for i := 0; i < n; i++ {
			if got(i) != want(i) {
				if first < 0 {
					first = i
				}
				count++
			}
		}
		if count > 0 {
			out = append(out, Deviation{Region: region, Offset: at(first), Count: count, Expected: expected})
		}
	}
	constant := func(b byte) func(int) byte { return func(int) byte { return b } }
	linear := func(base int64) func(int) int64 { return func(i int) int64 { return base + int64(i) } }

	check("chase reserved", "0x05", Chases,
		func(i int) byte { return f.Chases[i].Reserved },
		constant(chaseReserved),
		func(i int) int64 { return offChaseHeaders + int64(i)*chaseHeaderSize + 2 })

	u := &f.Unconfirmed
	check("channel flags", "0x02", DMXChannels,
		func(i int) byte { return u.ChannelFlags[i] }, constant(channelFlagsObserved), linear(offChannelFlags))
	check("block 0x6A989", "4B 01 00 00", len(u.Block6A989),
		func(i int) byte { return u.Block6A989[i] }, func(i int) byte { return block6A989Observed[i] }, linear(offBlock6A989))
	check("trailer", "0xFF", trailerSize,
		func(i int) byte { return u.Trailer[i] }, constant(trailerObserved), linear(offTrailer))

	if u.Missing > 0 {
		out = append(out, Deviation{Region: "missing", Offset: FileSize - int64(u.Missing), Count: u.Missing, Expected: "0xFF"})
	}
	if u.Excess > 0 {
		out = append(out, Deviation{Region: "excess", Offset: FileSize, Count: int(u.Excess), Expected: "end of file"})
	}
	return out
}
