package ledfile

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// NameSize - длина имени канала в байтах.
	NameSize = 7

	// NamedChannels: 8 generic channels, PAN, TILT, AUX 1, AUX 2.
	NamedChannels = 12

	ChannelPan  = 8
	ChannelTilt = 9

	// ChannelAux2 and ChannelAux1 are the ids the DMX patch uses for its aux
	// entries (0xA0 and 0xA1).
	ChannelAux2 = 10
	ChannelAux1 = 11

	InvalidChannelName = "<invalid channel id>"
)

var defaultNames = [NamedChannels]string{
	"Channel 1", "Channel 2", "Channel 3", "Channel 4",
	"Channel 5", "Channel 6", "Channel 7", "Channel 8",
	"PAN", "TILT", "AUX 1", "AUX 2",
}

// DefaultName returns the built-in label of a channel id.
func DefaultName(id int) string {
	if id < 0 || id >= NamedChannels {
		return InvalidChannelName
	}
	return defaultNames[id]
}

// ChannelName is a custom label, NUL padded.
type ChannelName [NameSize]byte

// String decodes the label as ASCII. Bytes above 0x7F become U+FFFD.
func (n ChannelName) String() string {
	raw := bytes.TrimRight(n[:], "\x00")
	var sb strings.Builder
	for _, b := range raw {
		if b >= utf8.RuneSelf {
			sb.WriteRune(utf8.RuneError)
			continue
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

// NameTable holds the custom labels of all named channels.
type NameTable [NamedChannels]ChannelName

// Custom returns the decoded custom label, empty when none is set.
func (t *NameTable) Custom(id int) string {
	if id < 0 || id >= NamedChannels {
		return ""
	}
	return t[id].String()
}

// DisplayName returns "custom (default)" or the default name alone.
func (t *NameTable) DisplayName(id int) string {
	if id < 0 || id >= NamedChannels {
		return InvalidChannelName
	}
	if custom := t[id].String(); custom != "" {
		return fmt.Sprintf("%s (%s)", custom, defaultNames[id])
	}
	return defaultNames[id]
}

// SetCustom stores a label of at most NameSize ASCII bytes. An empty label
// restores the default name.
func (t *NameTable) SetCustom(id int, label string) error {
	if id < 0 || id >= NamedChannels {
		return fmt.Errorf("%w: channel id %d", ErrInvalidName, id)
	}
	if len(label) > NameSize {
		return fmt.Errorf("%w: %q is longer than %d bytes", ErrInvalidName, label, NameSize)
	}
	for i := 0; i < len(label); i++ {
		if label[i] == 0 || label[i] >= utf8.RuneSelf {
			return fmt.Errorf("%w: %q contains NUL or non-ascii bytes", ErrInvalidName, label)
		}
	}
	var n ChannelName
	copy(n[:], label)
	t[id] = n
	return nil
}

func decodeNames(r *reader, t *NameTable) error {
	for id := range t {
		if err := r.readInto(t[id][:]); err != nil {
			return err
		}
	}
	return nil
}

func encodeNames(w *writer, t *NameTable) {
	for id := range t {
		w.writeExact(t[id][:])
	}
}
