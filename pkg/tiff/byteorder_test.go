package tiff

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLittleEndian(t *testing.T) {
	assert.True(t, IsLittleEndian([]byte("II*\x00")))
	assert.False(t, IsLittleEndian([]byte("MM\x00*")))
	assert.False(t, IsLittleEndian([]byte("IM")))
	assert.False(t, IsLittleEndian([]byte("I")))
	assert.False(t, IsLittleEndian(nil))
}

func TestReadInt(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}

	v, err := ReadInt(data, 0, 4, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04030201), v)

	v, err = ReadInt(data, 0, 4, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), v)

	v, err = ReadInt(data, 1, 2, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0302), v)

	v, err = ReadInt(data, 3, 1, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04), v)
}

func TestReadInt_OutOfRange(t *testing.T) {
	data := []byte{1, 2, 3}
	_, err := ReadInt(data, 2, 2, true)
	assert.ErrorIs(t, err, ErrRange)

	_, err = ReadInt(data, -1, 1, true)
	assert.ErrorIs(t, err, ErrRange)

	_, err = ReadInt(data, 0, 5, true)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrRange)
}

func TestWriteIntBytes_Order(t *testing.T) {
	assert.Equal(t, []byte{0x34, 0x12}, WriteIntBytes(0x1234, 2, true))
	assert.Equal(t, []byte{0x12, 0x34}, WriteIntBytes(0x1234, 2, false))
	assert.Equal(t, []byte{0x2A, 0x00}, WriteIntBytes(42, 2, true))
	assert.Equal(t, []byte{0x00, 0x2A}, WriteIntBytes(42, 2, false))
}

func TestRoundTrip_Exhaustive(t *testing.T) {
	for _, le := range []bool{true, false} {
		for v := uint32(0); v <= math.MaxUint8; v++ {
			got, err := ReadInt(WriteIntBytes(v, 1, le), 0, 1, le)
			require.NoError(t, err)
			require.Equal(t, v, got)
		}
		for v := uint32(0); v <= math.MaxUint16; v++ {
			got, err := ReadInt(WriteIntBytes(v, 2, le), 0, 2, le)
			require.NoError(t, err)
			require.Equal(t, v, got)
		}
	}
}

func TestRoundTrip_FourBytes(t *testing.T) {
	values := []uint32{0, 1, 0xFF, 0x100, 0xFFFF, 0x10000, 0x00FF00FF, 0x12345678, 0xDEADBEEF, math.MaxUint32}
	// walk a stride across the whole range as well
	for v := uint64(0); v <= math.MaxUint32; v += 104729 * 7 {
		values = append(values, uint32(v))
	}
	for _, le := range []bool{true, false} {
		for _, v := range values {
			got, err := ReadInt(WriteIntBytes(v, 4, le), 0, 4, le)
			require.NoError(t, err)
			require.Equal(t, v, got, "value %d little=%v", v, le)
		}
	}
}

func TestPutInt_InPlace(t *testing.T) {
	buf := []byte{0xAA, 0xAA, 0xAA, 0xAA}
	PutInt(buf[1:3], 0xBEEF, false)
	assert.Equal(t, []byte{0xAA, 0xBE, 0xEF, 0xAA}, buf)
	PutInt(buf[1:3], 0xBEEF, true)
	assert.Equal(t, []byte{0xAA, 0xEF, 0xBE, 0xAA}, buf)
}
