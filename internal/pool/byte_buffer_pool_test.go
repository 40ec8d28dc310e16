package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, cap(bb.B))
}

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte("hello"))
	bb.MustWrite([]byte(" world"))

	require.Equal(t, []byte("hello world"), bb.Bytes())
	require.Equal(t, 11, bb.Len())

	capBefore := cap(bb.B)
	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.Equal(t, capBefore, cap(bb.B))
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("no-op with enough capacity", func(t *testing.T) {
		bb := NewByteBuffer(64)
		bb.Grow(32)
		require.Equal(t, 64, cap(bb.B))
	})

	t.Run("grows small buffers by the default size", func(t *testing.T) {
		bb := NewByteBuffer(8)
		bb.MustWrite([]byte("abcdefgh"))
		bb.Grow(4)
		require.GreaterOrEqual(t, cap(bb.B)-bb.Len(), RecordBufferDefaultSize)
		require.Equal(t, []byte("abcdefgh"), bb.Bytes())
	})

	t.Run("grows by the required size when larger", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(RecordBufferDefaultSize * 3)
		require.GreaterOrEqual(t, cap(bb.B), RecordBufferDefaultSize*3)
	})

	t.Run("grows large buffers by a quarter", func(t *testing.T) {
		bb := NewByteBuffer(8 * RecordBufferDefaultSize)
		bb.B = bb.B[:cap(bb.B)]
		bb.Grow(1)
		require.Equal(t, 8*RecordBufferDefaultSize+2*RecordBufferDefaultSize, cap(bb.B))
	})
}

func TestByteBuffer_Clone(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte("abc"))

	out := bb.Clone()
	bb.Reset()
	bb.MustWrite([]byte("xyz"))

	require.Equal(t, []byte("abc"), out)
}

func TestByteBufferPool(t *testing.T) {
	t.Run("recycles reset buffers", func(t *testing.T) {
		p := NewByteBufferPool(32, 1024)
		bb := p.Get()
		bb.MustWrite([]byte("data"))
		p.Put(bb)

		again := p.Get()
		require.Equal(t, 0, again.Len())
	})

	t.Run("drops oversized buffers", func(t *testing.T) {
		p := NewByteBufferPool(32, 64)
		bb := p.Get()
		bb.Grow(1024)
		p.Put(bb)

		fresh := p.Get()
		require.Equal(t, 32, cap(fresh.B))
	})

	t.Run("nil put is ignored", func(t *testing.T) {
		p := NewByteBufferPool(32, 64)
		require.NotPanics(t, func() { p.Put(nil) })
	})

	t.Run("default pools", func(t *testing.T) {
		rb := GetRecordBuffer()
		require.Equal(t, 0, rb.Len())
		PutRecordBuffer(rb)

		bb := GetBlockBuffer()
		require.Equal(t, 0, bb.Len())
		PutBlockBuffer(bb)
	})

	t.Run("concurrent use", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				bb := GetRecordBuffer()
				bb.MustWrite([]byte{byte(i)})
				require.Equal(t, 1, bb.Len())
				PutRecordBuffer(bb)
			}()
		}
		wg.Wait()
	})
}
