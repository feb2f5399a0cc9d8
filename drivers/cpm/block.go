package cpm

import (
	"github.com/dargueta/zxdisk/disks/mv"
)

// DefaultBlockSize is the allocation block size of +3 and CPC disks.
const DefaultBlockSize = 0x400

// Block is one allocation block of the data area.
type Block struct {
	Number int
	// Size is the capacity of the block, in bytes.
	Size int
	// FillerByte marks unused space in the block.
	FillerByte uint8
	// Data is the contents of the block with trailing filler removed. A block
	// that's entirely filler has empty Data.
	Data []byte
}

// SplitBlocks cuts `data` into blocks of `blockSize` bytes, numbered from 0.
// Only whole blocks are returned; a partial block at the end is ignored.
func SplitBlocks(data []byte, blockSize int, fillerByte uint8) []*Block {
	if blockSize <= 0 {
		return []*Block{}
	}

	count := len(data) / blockSize
	blocks := make([]*Block, 0, count)
	for i := 0; i < count; i++ {
		contents := mv.Sector{
			SectorSize: blockSize,
			FillerByte: fillerByte,
			Data:       data[i*blockSize : (i+1)*blockSize],
		}
		blocks = append(blocks, &Block{
			Number:     i,
			Size:       blockSize,
			FillerByte: fillerByte,
			Data:       contents.RealData(),
		})
	}
	return blocks
}
