package mv_test

import (
	"bytes"
	"testing"

	"github.com/dargueta/zxdisk"
	"github.com/dargueta/zxdisk/disks/mv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectorEncode(t *testing.T) {
	tests := []struct {
		Name     string
		Data     []byte
		Size     int
		Expected []byte
	}{
		{"empty", []byte{}, 4, []byte{0xe5, 0xe5, 0xe5, 0xe5}},
		{"padded", []byte{1, 2}, 4, []byte{1, 2, 0xe5, 0xe5}},
		{"exact", []byte{1, 2, 3, 4}, 4, []byte{1, 2, 3, 4}},
		{"too long", []byte{1, 2, 3, 4, 5, 6}, 4, []byte{1, 2, 3, 4}},
		{"zero size", []byte{1, 2}, 0, []byte{}},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			sector := mv.NewSector(test.Data, test.Size, 0xe5)
			assert.Equal(t, test.Expected, sector.Encode())
		})
	}
}

func TestSectorRealData(t *testing.T) {
	tests := []struct {
		Name     string
		Data     []byte
		Expected []byte
	}{
		{"no filler", []byte{1, 2, 3, 4}, []byte{1, 2, 3, 4}},
		{"trailing filler", []byte{1, 2, 0xe5, 0xe5}, []byte{1, 2}},
		{"single byte at position 2", []byte{0xe5, 0xe5, 7, 0xe5}, []byte{0xe5, 0xe5, 7}},
		{"inner filler kept", []byte{1, 0xe5, 2, 0xe5}, []byte{1, 0xe5, 2}},
		{"all filler", []byte{0xe5, 0xe5, 0xe5, 0xe5}, []byte{}},
		{"past sector size ignored", []byte{1, 0xe5, 0xe5, 0xe5, 7, 7}, []byte{1}},
		{"empty", []byte{}, []byte{}},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			sector := mv.NewSector(test.Data, 4, 0xe5)
			assert.Equal(t, test.Expected, sector.RealData())
			assert.Equal(t, len(test.Expected) == 0, sector.IsBlank())
		})
	}
}

func TestNewSector__CopiesData(t *testing.T) {
	data := []byte{1, 2, 3}
	sector := mv.NewSector(data, 4, 0)
	data[0] = 99
	assert.EqualValues(t, 1, sector.Data[0])
}

func TestDecodeSectors(t *testing.T) {
	sibs := []*mv.SectorInformationBlock{
		{Track: 1, Side: 1, SectorID: 1, SectorSize: 256},
		{Track: 1, Side: 1, SectorID: 2, SectorSize: 512},
	}
	data := append(bytes.Repeat([]byte{0x11}, 256), bytes.Repeat([]byte{0x22}, 600)...)

	sectors, err := mv.DecodeSectors(sibs, data, 0xe5)
	require.NoError(t, err)
	require.Len(t, sectors, 2)
	assert.Equal(t, bytes.Repeat([]byte{0x11}, 256), sectors[0].Data)
	assert.Equal(t, bytes.Repeat([]byte{0x22}, 512), sectors[1].Data)
	assert.Equal(t, 512, sectors[1].SectorSize)
	assert.EqualValues(t, 0xe5, sectors[1].FillerByte)

	_, err = mv.DecodeSectors(sibs, data[:700], 0xe5)
	assert.ErrorIs(t, err, zxdisk.ErrTruncatedRecord)
}
