/*
Primitive encoders for the ledger's wire and record layout.

Every value is fixed width and little-endian, in declaration order, with no
field tags and no length prefixes:

	u8/bool      1 byte (bool must be 0 or 1)
	u16/u32/u64  2/4/8 bytes
	i64          8 bytes, two's complement
	[N]byte      N raw bytes
	Option<T>    1 tag byte (0 = none, 1 = some) followed by T when some

Readers panic on truncated input or invalid tags; the adapters in binary.go
turn those panics into errors.
*/
package borsh

import (
	"encoding/binary"
	"errors"

	"github.com/rony4d/go-streak-ledger/utils/fast"
)

var (
	ErrNonCanonicalEncoding = errors.New("non canonical encoding: invalid tag or unexpected trailing bytes")
	ErrMalformedEncoding    = errors.New("malformed encoding: structure invalid or truncated")
	ErrRecordTooLarge       = errors.New("record does not fit its allocated size")
)

// Writer appends fixed-width little-endian values.
type Writer struct {
	BytesW *fast.Writer
}

// Reader consumes fixed-width little-endian values.
type Reader struct {
	BytesR *fast.Reader
}

// NewWriter creates a writer with capacity pre-allocated for a record of the given size.
func NewWriter(capacity int) *Writer {
	return &Writer{
		BytesW: fast.NewWriter(make([]byte, 0, capacity)),
	}
}

// NewReader wraps raw bytes.
func NewReader(raw []byte) *Reader {
	return &Reader{
		BytesR: fast.NewReader(raw),
	}
}

func (w *Writer) U8(v uint8) {
	w.BytesW.WriteByte(v)
}

func (r *Reader) U8() uint8 {
	return r.BytesR.ReadByte()
}

func (w *Writer) U16(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	w.BytesW.Write(buf[:])
}

func (r *Reader) U16() uint16 {
	return binary.LittleEndian.Uint16(r.BytesR.Read(2))
}

func (w *Writer) U32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.BytesW.Write(buf[:])
}

func (r *Reader) U32() uint32 {
	return binary.LittleEndian.Uint32(r.BytesR.Read(4))
}

func (w *Writer) U64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.BytesW.Write(buf[:])
}

func (r *Reader) U64() uint64 {
	return binary.LittleEndian.Uint64(r.BytesR.Read(8))
}

// I64 is stored as the two's complement bit pattern of v.
func (w *Writer) I64(v int64) {
	w.U64(uint64(v))
}

func (r *Reader) I64() int64 {
	return int64(r.U64())
}

func (w *Writer) Bool(v bool) {
	if v {
		w.U8(1)
		return
	}
	w.U8(0)
}

// Bool rejects any byte other than 0 or 1.
func (r *Reader) Bool() bool {
	switch r.U8() {
	case 0:
		return false
	case 1:
		return true
	default:
		panic(ErrNonCanonicalEncoding)
	}
}

// FixedBytes writes v as-is. The reader must know the length.
func (w *Writer) FixedBytes(v []byte) {
	w.BytesW.Write(v)
}

// FixedBytes reads exactly n bytes into a fresh slice.
func (r *Reader) FixedBytes(n int) []byte {
	out := make([]byte, n)
	copy(out, r.BytesR.Read(n))
	return out
}

// Fixed32 reads a 32-byte value, the size of every identity in the ledger.
func (r *Reader) Fixed32() (out [32]byte) {
	copy(out[:], r.BytesR.Read(32))
	return out
}

// OptionFixed writes a presence tag, followed by v when v is non-nil.
func (w *Writer) OptionFixed(v []byte) {
	if v == nil {
		w.U8(0)
		return
	}
	w.U8(1)
	w.FixedBytes(v)
}

// OptionFixed32 reads an optional 32-byte value. It returns nil for none.
func (r *Reader) OptionFixed32() *[32]byte {
	if !r.Bool() {
		return nil
	}
	v := r.Fixed32()
	return &v
}
