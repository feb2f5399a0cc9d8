package mv_test

import (
	"testing"

	"github.com/dargueta/zxdisk"
	"github.com/dargueta/zxdisk/disks/mv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDIBEncode__Default(t *testing.T) {
	data := mv.NewDiskInformationBlock().Encode()
	require.Len(t, data, mv.DiskInformationBlockSize)

	assert.Equal(t, []byte("MV - CPCEMU Disk-File\r\nDisk-Info\r\n"), data[:34])
	assert.Equal(t, make([]byte, 14), data[34:48], "creator name")
	assert.EqualValues(t, 0x28, data[48], "track count")
	assert.EqualValues(t, 1, data[49], "side count")
	assert.Equal(t, []byte{0x80, 0x01}, data[50:52], "track size")
	assert.Equal(t, make([]byte, 204), data[52:])
}

func TestDIBDecode__RoundTrip(t *testing.T) {
	dib := &mv.DiskInformationBlock{
		Descriptor:  mv.DefaultDiskDescriptor,
		CreatorName: "zxdisk",
		TrackCount:  80,
		SideCount:   2,
		TrackSize:   0x1300,
	}

	data := dib.Encode()
	assert.Equal(t, []byte("zxdisk\x00\x00\x00\x00\x00\x00\x00\x00"), data[34:48])

	decoded, err := mv.DecodeDiskInformationBlock(data)
	require.NoError(t, err)
	assert.Equal(t, dib, decoded)
	assert.Equal(t, data, decoded.Encode())
}

func TestDIBEncode__LongTextIsTruncated(t *testing.T) {
	dib := mv.NewDiskInformationBlock()
	dib.CreatorName = "A very long creator name"

	data := dib.Encode()
	require.Len(t, data, mv.DiskInformationBlockSize)
	assert.Equal(t, []byte("A very long cr"), data[34:48])
	assert.EqualValues(t, 0x28, data[48], "track count must not be overwritten")
}

func TestDIBDecode__Truncated(t *testing.T) {
	_, err := mv.DecodeDiskInformationBlock(make([]byte, 255))
	assert.ErrorIs(t, err, zxdisk.ErrTruncatedRecord)
}

func TestDIBTrackRange(t *testing.T) {
	dib := mv.NewDiskInformationBlock()
	dib.TrackSize = 0x1300

	start, end := dib.TrackRange(1)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0x1300, end)

	start, end = dib.TrackRange(3)
	assert.Equal(t, 0x2600, start)
	assert.Equal(t, 0x3900, end)

	assert.Equal(t, 0x100+40*0x1300, dib.ImageSize())
}
