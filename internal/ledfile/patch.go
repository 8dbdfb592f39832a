package ledfile

import "fmt"

// DMXChannels - размер вселенной DMX.
const DMXChannels = 512

const (
	rawAux2       byte = 0xA0
	rawAux1       byte = 0xA1
	rawUnassigned byte = 0xA2
)

// AssignmentKind tells what a DMX address is patched to.
type AssignmentKind uint8

const (
	Unassigned AssignmentKind = iota
	Aux1
	Aux2
	FixtureChannel
)

func (k AssignmentKind) String() string {
	switch k {
	case Unassigned:
		return "unassigned"
	case Aux1:
		return "aux1"
	case Aux2:
		return "aux2"
	case FixtureChannel:
		return "fixture"
	}
	return fmt.Sprintf("AssignmentKind(%d)", uint8(k))
}

// Assignment is the target of one DMX address. Fixture and Channel are only
// meaningful for FixtureChannel.
type Assignment struct {
	Kind    AssignmentKind
	Fixture uint8
	Channel uint8
}

// Patch returns a FixtureChannel assignment.
func Patch(fixture, channel uint8) Assignment {
	return Assignment{Kind: FixtureChannel, Fixture: fixture, Channel: channel}
}

// DecodeAssignment classifies a raw patch byte. Every byte value maps to an
// assignment; 0xA3-0xFF fall through to the fixture*10+channel rule.
func DecodeAssignment(b byte) Assignment {
	switch b {
	case rawUnassigned:
		return Assignment{Kind: Unassigned}
	case rawAux1:
		return Assignment{Kind: Aux1}
	case rawAux2:
		return Assignment{Kind: Aux2}
	}
	return Patch(b/Channels, b%Channels)
}

// Encode is the inverse of DecodeAssignment.
func (a Assignment) Encode() (byte, error) {
	switch a.Kind {
	case Unassigned:
		return rawUnassigned, nil
	case Aux1:
		return rawAux1, nil
	case Aux2:
		return rawAux2, nil
	case FixtureChannel:
		if a.Channel >= Channels {
			return 0, fmt.Errorf("%w: channel %d", ErrInvalidAssignment, a.Channel)
		}
		raw := int(a.Fixture)*Channels + int(a.Channel)
		if raw > 0xFF || (raw >= int(rawAux2) && raw <= int(rawUnassigned)) {
			return 0, fmt.Errorf("%w: fixture %d channel %d encodes to %#x", ErrInvalidAssignment, a.Fixture, a.Channel, raw)
		}
		return byte(raw), nil
	}
	return 0, fmt.Errorf("%w: kind %v", ErrInvalidAssignment, a.Kind)
}

// ChannelID returns the id used to look up the channel name, or -1 for
// unassigned addresses.
func (a Assignment) ChannelID() int {
	switch a.Kind {
	case Aux1:
		return ChannelAux1
	case Aux2:
		return ChannelAux2
	case FixtureChannel:
		return int(a.Channel)
	}
	return -1
}

// PatchTable maps every DMX address (0-indexed) to its assignment.
type PatchTable [DMXChannels]Assignment

// AddressesOf returns the 0-indexed DMX addresses patched to a fixture channel.
func (t *PatchTable) AddressesOf(fixture, channel uint8) []int {
	var out []int
	for addr, a := range t {
		if a.Kind == FixtureChannel && a.Fixture == fixture && a.Channel == channel {
			out = append(out, addr)
		}
	}
	return out
}

func decodePatch(r *reader, t *PatchTable) error {
	buf, err := r.readExact(DMXChannels)
	if err != nil {
		return err
	}
	for addr, b := range buf {
		t[addr] = DecodeAssignment(b)
	}
	return nil
}

func encodePatch(w *writer, t *PatchTable) error {
	buf := make([]byte, DMXChannels)
	for addr, a := range t {
		b, err := a.Encode()
		if err != nil {
			return fmt.Errorf("dmx address %d: %w", addr+1, err)
		}
		buf[addr] = b
	}
	w.writeExact(buf)
	return nil
}
