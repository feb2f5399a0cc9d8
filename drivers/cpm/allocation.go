package cpm

import (
	"github.com/boljen/go-bitmap"
	"github.com/dargueta/zxdisk"
	"github.com/hashicorp/go-multierror"
)

// AllocationMap tracks which blocks of the data area are in use.
type AllocationMap struct {
	bitmap      bitmap.Bitmap
	TotalBlocks int
}

// NewAllocationMap creates a map of `totalBlocks` blocks with the first
// `directoryBlocks` (where the directory lives) marked as allocated.
func NewAllocationMap(totalBlocks, directoryBlocks int) *AllocationMap {
	alloc := &AllocationMap{
		bitmap:      bitmap.New(totalBlocks),
		TotalBlocks: totalBlocks,
	}
	for i := 0; i < directoryBlocks && i < totalBlocks; i++ {
		alloc.bitmap.Set(i, true)
	}
	return alloc
}

// AllocationMapFromDirectory builds the allocation map described by the
// in-use entries of `dir`.
//
// Problems found along the way (pointers past the end of the disk, blocks
// claimed twice) are all returned together. The map is still usable in that
// case; out-of-range pointers are left out of it.
func AllocationMapFromDirectory(
	dir *Directory, totalBlocks, directoryBlocks int,
) (*AllocationMap, error) {
	alloc := NewAllocationMap(totalBlocks, directoryBlocks)
	var result *multierror.Error

	for _, entry := range dir.Entries {
		if entry.IsUnused() {
			continue
		}
		for _, pointer := range entry.Pointers {
			if pointer == 0 {
				continue
			}

			block := int(pointer)
			if block >= totalBlocks {
				result = multierror.Append(
					result,
					zxdisk.ErrValueOutOfRange.WithMessagef(
						"%s points to block %d, disk has %d", entry.Name(), block, totalBlocks),
				)
				continue
			}
			if alloc.bitmap.Get(block) {
				result = multierror.Append(
					result,
					zxdisk.ErrInvariantViolation.WithMessagef(
						"%s points to block %d, which is already in use", entry.Name(), block),
				)
			}
			alloc.bitmap.Set(block, true)
		}
	}
	return alloc, result.ErrorOrNil()
}

// IsAllocated returns true if the block is in use. Blocks past the end of the
// map are reported as allocated.
func (alloc *AllocationMap) IsAllocated(block int) bool {
	if block < 0 || block >= alloc.TotalBlocks {
		return true
	}
	return alloc.bitmap.Get(block)
}

// FreeBlocks returns the number of unallocated blocks.
func (alloc *AllocationMap) FreeBlocks() int {
	free := 0
	for i := 0; i < alloc.TotalBlocks; i++ {
		if !alloc.IsAllocated(i) {
			free++
		}
	}
	return free
}
