package fast

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBuffer_RecordLifecycle writes a small fixed-size record and reads it back field by field.
func TestBuffer_RecordLifecycle(t *testing.T) {
	const size = 48
	var (
		w    *Writer
		tag  = []byte{0x90, 0x5e, 0xd0, 0xac, 0xf8, 0x63, 0x86, 0x78}
		body = bytes.Repeat([]byte{0xAB}, 32)
	)

	t.Run("Writer", func(t *testing.T) {
		require := require.New(t)

		w = NewWriter(make([]byte, 0, size))
		w.Write(tag)
		w.Write(body)
		w.WriteByte(1)
		require.Equal(len(tag)+len(body)+1, w.Len())

		w.WriteZeros(size - w.Len())
		require.Equal(size, len(w.Bytes()))
	})

	t.Run("Reader", func(t *testing.T) {
		require := require.New(t)

		r := NewReader(w.Bytes())
		require.False(r.Empty())
		require.Equal(0, r.Position())

		require.Equal(tag, r.Read(len(tag)))
		require.Equal(body, r.Read(len(body)))
		require.Equal(byte(1), r.ReadByte())
		require.Equal(len(tag)+len(body)+1, r.Position())

		tail := r.Remaining()
		require.Len(tail, size-r.Position())
		require.Equal(make([]byte, len(tail)), tail)
		// Remaining does not advance the cursor
		require.False(r.Empty())

		r.Read(len(tail))
		require.True(r.Empty())
	})
}

func TestBuffer_Boundaries(t *testing.T) {
	t.Run("Empty Buffer", func(t *testing.T) {
		r := NewReader([]byte{})
		require.True(t, r.Empty())
		require.Equal(t, 0, r.Position())
		require.Empty(t, r.Remaining())
	})

	t.Run("Read past end panics", func(t *testing.T) {
		r := NewReader([]byte{1, 2})
		require.Panics(t, func() { r.Read(3) })
		require.Panics(t, func() {
			r := NewReader(nil)
			r.ReadByte()
		})
	})

	t.Run("Write to nil buffer", func(t *testing.T) {
		w := NewWriter(nil)
		w.WriteByte(0xAA)
		w.WriteZeros(2)
		require.Equal(t, []byte{0xAA, 0, 0}, w.Bytes())
	})
}

func Benchmark(b *testing.B) {
	b.Run("Write", func(b *testing.B) {
		b.Run("Std", func(b *testing.B) {
			w := bytes.NewBuffer(make([]byte, 0, b.N))
			for i := 0; i < b.N; i++ {
				w.WriteByte(byte(i))
			}
			require.Equal(b, b.N, len(w.Bytes()))
		})
		b.Run("Fast", func(b *testing.B) {
			w := NewWriter(make([]byte, 0, b.N))
			for i := 0; i < b.N; i++ {
				w.WriteByte(byte(i))
			}
			require.Equal(b, b.N, len(w.Bytes()))
		})
	})

	b.Run("Read", func(b *testing.B) {
		src := make([]byte, 201)
		_, _ = rand.Read(src)

		b.Run("Std", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				r := bytes.NewReader(src)
				for j := 0; j < len(src); j++ {
					_, _ = r.ReadByte()
				}
			}
		})
		b.Run("Fast", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				r := NewReader(src)
				for j := 0; j < len(src); j++ {
					_ = r.ReadByte()
				}
			}
		})
	})
}
