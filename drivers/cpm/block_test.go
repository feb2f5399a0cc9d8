package cpm_test

import (
	"bytes"
	"testing"

	"github.com/dargueta/zxdisk/drivers/cpm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBlocks(t *testing.T) {
	data := bytes.Repeat([]byte{0xe5}, 4*16+5)
	copy(data[16:], []byte{1, 2, 3})
	copy(data[32:], bytes.Repeat([]byte{9}, 16))

	blocks := cpm.SplitBlocks(data, 16, 0xe5)
	require.Len(t, blocks, 4)

	assert.Equal(t, 0, blocks[0].Number)
	assert.Empty(t, blocks[0].Data)
	assert.Equal(t, []byte{1, 2, 3}, blocks[1].Data)
	assert.Equal(t, bytes.Repeat([]byte{9}, 16), blocks[2].Data)
	assert.Equal(t, 3, blocks[3].Number)
	assert.Equal(t, 16, blocks[3].Size)
	assert.EqualValues(t, 0xe5, blocks[3].FillerByte)
}

func TestSplitBlocks__BadSize(t *testing.T) {
	assert.Empty(t, cpm.SplitBlocks([]byte{1, 2, 3}, 0, 0xe5))
}
