package ledfile

import (
	"encoding/binary"
	"fmt"
	"io"
)

// reader is a forward-only cursor over the file image.
type reader struct {
	r   io.Reader
	off int64
}

func newReader(r io.Reader) *reader {
	return &reader{r: r}
}

// readExact returns exactly n bytes or ErrTruncatedInput.
func (c *reader) readExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := c.readInto(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (c *reader) readInto(buf []byte) error {
	k, err := io.ReadFull(c.r, buf)
	off := c.off
	c.off += int64(k)
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return fmt.Errorf("%w: need %d bytes at offset %#x, got %d", ErrTruncatedInput, len(buf), off, k)
	case err != nil:
		return fmt.Errorf("read at offset %#x: %w", off, err)
	}
	return nil
}

func (c *reader) readByte() (byte, error) {
	var b [1]byte
	if err := c.readInto(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *reader) readU16() (uint16, error) {
	var b [2]byte
	if err := c.readInto(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// readAvailable fills buf as far as the input goes. Running out of input is
// not an error, the number of bytes read tells.
func (c *reader) readAvailable(buf []byte) (int, error) {
	k, err := io.ReadFull(c.r, buf)
	off := c.off
	c.off += int64(k)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return k, fmt.Errorf("read at offset %#x: %w", off, err)
	}
	return k, nil
}

// drain consumes whatever follows and returns its length.
func (c *reader) drain() (int64, error) {
	n, err := io.Copy(io.Discard, c.r)
	c.off += n
	if err != nil {
		return n, fmt.Errorf("read at offset %#x: %w", c.off, err)
	}
	return n, nil
}

// writer is the encoding counterpart of reader. The first failure sticks,
// later writes are no-ops.
type writer struct {
	w   io.Writer
	off int64
	err error
}

func newWriter(w io.Writer) *writer {
	return &writer{w: w}
}

func (c *writer) writeExact(b []byte) {
	if c.err != nil {
		return
	}
	n, err := c.w.Write(b)
	c.off += int64(n)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		c.err = fmt.Errorf("%w at offset %#x: %w", ErrWriteFailure, c.off, err)
	}
}

func (c *writer) writeByte(b byte) {
	c.writeExact([]byte{b})
}

func (c *writer) writeU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	c.writeExact(b[:])
}
