package ledfile

// VirtualDimmers holds the virtual dimmer settings of every fixture.
//
// Mode 0 is off. Non-zero modes were seen as RGB and, from firmware 1.5 on,
// RGBAUVW; the byte is kept raw. Apply bytes are kept raw as well, any
// non-zero value means the dimmer acts on that channel.
type VirtualDimmers struct {
	Modes [Fixtures]byte
	Apply [Fixtures][Channels]byte
}

// Enabled reports a non-zero mode for fixture.
func (d *VirtualDimmers) Enabled(fixture int) bool {
	return fixture >= 0 && fixture < Fixtures && d.Modes[fixture] != 0
}

// Applied reports whether the dimmer of fixture acts on channel.
func (d *VirtualDimmers) Applied(fixture, channel int) bool {
	if fixture < 0 || fixture >= Fixtures || channel < 0 || channel >= Channels {
		return false
	}
	return d.Apply[fixture][channel] != 0
}

func decodeDimmers(r *reader, d *VirtualDimmers) error {
	if err := r.readInto(d.Modes[:]); err != nil {
		return err
	}
	for f := range d.Apply {
		if err := r.readInto(d.Apply[f][:]); err != nil {
			return err
		}
	}
	return nil
}

func encodeDimmers(w *writer, d *VirtualDimmers) {
	w.writeExact(d.Modes[:])
	for f := range d.Apply {
		w.writeExact(d.Apply[f][:])
	}
}
