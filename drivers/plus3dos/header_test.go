package plus3dos_test

import (
	"testing"

	"github.com/dargueta/zxdisk"
	"github.com/dargueta/zxdisk/drivers/plus3dos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHolaHeader() *plus3dos.Header {
	header := plus3dos.NewHeader()
	header.Length = 0x8c
	header.BasicHeader = [8]byte{0, 0x0c, 0, 0, 0x80, 0x0c, 0, 0}
	return header
}

func TestHeaderEncode__Layout(t *testing.T) {
	header := newHolaHeader()
	header.MakeChecksum()

	data := header.Encode()
	require.Len(t, data, plus3dos.HeaderSize)
	assert.Equal(t, []byte("PLUS3DOS"), data[:8])
	assert.Equal(t, []byte{0x1a, 1, 0}, data[8:11])
	assert.Equal(t, []byte{0x8c, 0, 0, 0}, data[11:15])
	assert.Equal(t, header.BasicHeader[:], data[15:23])
	assert.Equal(t, make([]byte, 104), data[23:127])
	assert.EqualValues(t, 0x9c, data[127])
}

func TestHeaderChecksum(t *testing.T) {
	header := newHolaHeader()
	assert.EqualValues(t, 0x9c, header.ComputeChecksum())
	assert.False(t, header.CheckChecksum(), "checksum isn't set until MakeChecksum")

	header.MakeChecksum()
	assert.EqualValues(t, 0x9c, header.Checksum)
	assert.True(t, header.CheckChecksum())

	header.Length++
	assert.False(t, header.CheckChecksum())
}

func TestHeaderDecode__RoundTrip(t *testing.T) {
	header := newHolaHeader()
	header.MakeChecksum()

	decoded, err := plus3dos.DecodeHeader(append(header.Encode(), 1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, header, decoded)
	assert.True(t, decoded.CheckChecksum())
	assert.Equal(t, 12, decoded.DataLength())
	assert.EqualValues(t, plus3dos.FileTypeProgram, decoded.FileType())
}

func TestHeaderDecode__Errors(t *testing.T) {
	data := newHolaHeader().Encode()

	_, err := plus3dos.DecodeHeader(data[:127])
	assert.ErrorIs(t, err, zxdisk.ErrTruncatedRecord)

	copy(data, "PLUS4DOS")
	_, err = plus3dos.DecodeHeader(data)
	assert.ErrorIs(t, err, zxdisk.ErrInvalidSignature)
	assert.False(t, plus3dos.HasHeader(data))
}

func TestNewHeader__Defaults(t *testing.T) {
	header := plus3dos.NewHeader()
	assert.EqualValues(t, 0x1a, header.SoftEOF)
	assert.EqualValues(t, 1, header.Issue)
	assert.EqualValues(t, 0, header.Version)
	assert.EqualValues(t, 0, header.Length)
	assert.Equal(t, [8]byte{}, header.BasicHeader)
	assert.EqualValues(t, 0, header.Checksum)
	assert.Equal(t, 0, header.DataLength())
}
