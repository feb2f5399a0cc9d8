package mv_test

import (
	"testing"

	"github.com/dargueta/zxdisk"
	"github.com/dargueta/zxdisk/disks/mv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSIBEncode__Default(t *testing.T) {
	sib := mv.NewSectorInformationBlock()
	assert.Equal(t, []byte{0, 0, 1, 0, 0, 0, 0, 0}, sib.Encode())
}

func TestSIBDecode__Basic(t *testing.T) {
	sib, err := mv.DecodeSectorInformationBlock([]byte{2, 1, 0xc1, 2, 0x40, 0x80, 9, 9})
	require.NoError(t, err)

	assert.Equal(t, 3, sib.Track)
	assert.Equal(t, 2, sib.Side)
	assert.EqualValues(t, 0xc1, sib.SectorID)
	assert.Equal(t, 512, sib.SectorSize)
	assert.Equal(t, [2]uint8{0x40, 0x80}, sib.FDC)

	// The reserved bytes aren't kept.
	assert.Equal(t, []byte{2, 1, 0xc1, 2, 0x40, 0x80, 0, 0}, sib.Encode())
}

func TestSIBDecode__Truncated(t *testing.T) {
	_, err := mv.DecodeSectorInformationBlock([]byte{0, 0, 1, 2})
	assert.ErrorIs(t, err, zxdisk.ErrTruncatedRecord)
}

func TestSIBEncode__OutOfRangeIsTruncated(t *testing.T) {
	sib := &mv.SectorInformationBlock{
		Track:      300,
		Side:       1,
		SectorID:   9,
		SectorSize: 700,
	}
	assert.Equal(t, []byte{43, 0, 9, 2, 0, 0, 0, 0}, sib.Encode())
}

func TestDecodeSIBs__Count(t *testing.T) {
	data := []byte{
		0, 0, 1, 2, 0, 0, 0, 0,
		0, 0, 2, 2, 0, 0, 0, 0,
		0, 0, 3, 2,
	}

	tests := []struct {
		Name        string
		Count       int
		ExpectedIDs []uint8
	}{
		{"as many as fit", -1, []uint8{1, 2}},
		{"none", 0, []uint8{}},
		{"exact", 2, []uint8{1, 2}},
		{"fewer than available", 1, []uint8{1}},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			sibs, err := mv.DecodeSectorInformationBlocks(data, test.Count)
			require.NoError(t, err)

			ids := []uint8{}
			for _, sib := range sibs {
				ids = append(ids, sib.SectorID)
			}
			assert.Equal(t, test.ExpectedIDs, ids)
		})
	}
}

func TestDecodeSIBs__TooMany(t *testing.T) {
	_, err := mv.DecodeSectorInformationBlocks(make([]byte, 16), 3)
	assert.ErrorIs(t, err, zxdisk.ErrTruncatedRecord)
}

func TestNewEmptySIBList(t *testing.T) {
	sibs := mv.NewEmptySIBList(3)
	require.Len(t, sibs, 3)
	for i, sib := range sibs {
		assert.EqualValues(t, i+1, sib.SectorID)
		assert.Equal(t, 1, sib.Track)
		assert.Equal(t, 1, sib.Side)
	}
	assert.Empty(t, mv.NewEmptySIBList(0))
}

func TestSIBClone(t *testing.T) {
	sib := mv.NewSectorInformationBlock()
	dup := sib.Clone()
	dup.SectorID = 7
	assert.EqualValues(t, 1, sib.SectorID)
}
