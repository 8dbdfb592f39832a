package ledfile

import "encoding/binary"

const (
	Chases = 16

	// MaxSteps - ёмкость списка шагов одной программы.
	MaxSteps = 2000

	// chaseReserved is the byte observed after every step count.
	chaseReserved byte = 0x05
)

// Chase is an ordered list of references into File.ChaseSteps.
type Chase struct {
	StepCount uint16
	// Reserved is unconfirmed, observed 0x05.
	Reserved byte
	// StepIDs beyond StepCount are padding and are kept verbatim.
	StepIDs [MaxSteps]uint16
}

// Steps returns the meaningful prefix of StepIDs.
func (c *Chase) Steps() []uint16 {
	n := int(c.StepCount)
	if n > MaxSteps {
		n = MaxSteps
	}
	return c.StepIDs[:n]
}

func decodeChaseHeader(r *reader, c *Chase) error {
	count, err := r.readU16()
	if err != nil {
		return err
	}
	reserved, err := r.readByte()
	if err != nil {
		return err
	}
	c.StepCount = count
	c.Reserved = reserved
	return nil
}

func encodeChaseHeader(w *writer, c *Chase, mode Mode) {
	w.writeU16(c.StepCount)
	if mode == ModeCanonical {
		w.writeByte(chaseReserved)
		return
	}
	w.writeByte(c.Reserved)
}

func decodeChaseBody(r *reader, c *Chase) error {
	buf, err := r.readExact(MaxSteps * 2)
	if err != nil {
		return err
	}
	for i := range c.StepIDs {
		c.StepIDs[i] = binary.LittleEndian.Uint16(buf[i*2:])
	}
	return nil
}

func encodeChaseBody(w *writer, c *Chase) {
	buf := make([]byte, MaxSteps*2)
	for i, id := range c.StepIDs {
		binary.LittleEndian.PutUint16(buf[i*2:], id)
	}
	w.writeExact(buf)
}
