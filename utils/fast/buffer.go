package fast

// buffer.go provides a lightweight, non-thread-safe wrapper around byte slices.
//
// The ledger codec reads and writes fixed-width records front to back, so the
// Reader is just a cursor over a slice and the Writer just appends.
// Reads do NOT check bounds: reading past the end panics with a slice bounds
// error, and callers (utils/borsh) recover that into a malformed-encoding error.

type Reader struct {
	buf    []byte
	offset int
}

type Writer struct {
	buf []byte
}

// NewReader creates a Reader to consume the provided byte slice.
func NewReader(bb []byte) *Reader {
	return &Reader{
		buf:    bb,
		offset: 0,
	}
}

// NewWriter creates a Writer that appends to the provided initial slice.
// Usually called with `make([]byte, 0, size)` when the record size is known.
func NewWriter(bb []byte) *Writer {
	return &Writer{
		buf: bb,
	}
}

// WriteByte appends a single byte to the buffer.
func (b *Writer) WriteByte(v byte) {
	b.buf = append(b.buf, v)
}

// Write appends a slice of bytes to the buffer.
func (b *Writer) Write(v []byte) {
	b.buf = append(b.buf, v...)
}

// WriteZeros appends n zero bytes. Used to pad records to their allocated size.
func (b *Writer) WriteZeros(n int) {
	for i := 0; i < n; i++ {
		b.buf = append(b.buf, 0)
	}
}

// Len returns the number of bytes written so far.
func (b *Writer) Len() int {
	return len(b.buf)
}

// Read consumes and returns the next n bytes.
//
// The returned slice shares memory with the underlying buffer.
// Panics if fewer than n bytes remain.
func (b *Reader) Read(n int) []byte {
	res := b.buf[b.offset : b.offset+n]
	b.offset += n
	return res
}

// ReadByte consumes and returns a single byte. Panics if the buffer is exhausted.
func (b *Reader) ReadByte() byte {
	res := b.buf[b.offset]
	b.offset++
	return res
}

// Position returns the current cursor index of the Reader.
func (b *Reader) Position() int {
	return b.offset
}

// Remaining returns the unread tail of the buffer without consuming it.
func (b *Reader) Remaining() []byte {
	return b.buf[b.offset:]
}

// Bytes returns the entire underlying buffer of the Reader.
func (b *Reader) Bytes() []byte {
	return b.buf
}

// Bytes returns the accumulated content of the Writer.
func (b *Writer) Bytes() []byte {
	return b.buf
}

// Empty checks if the Reader has reached the end of the buffer.
func (b *Reader) Empty() bool {
	return len(b.buf) == b.offset
}
