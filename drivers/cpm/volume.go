package cpm

import (
	"sort"

	"github.com/dargueta/zxdisk"
	"github.com/dargueta/zxdisk/disks"
	"github.com/dargueta/zxdisk/disks/mv"
	"github.com/dargueta/zxdisk/drivers/plus3dos"
	log "github.com/sirupsen/logrus"
)

// Parameters describes how a CP/M file system is laid out on the disk.
type Parameters struct {
	// BlockSize is the size of an allocation block, in bytes.
	BlockSize int
	// ReservedTracks is the number of tracks at the start of the disk that
	// aren't part of the data area.
	ReservedTracks int
	// DirectoryBlocks is the number of blocks at the start of the data area
	// occupied by the directory.
	DirectoryBlocks int
}

// DefaultParameters returns the layout of a +3 180K disk.
func DefaultParameters() Parameters {
	return Parameters{
		BlockSize:       DefaultBlockSize,
		ReservedTracks:  1,
		DirectoryBlocks: 2,
	}
}

// ParametersFromGeometry returns the default parameters with the number of
// reserved tracks taken from `geometry`.
func ParametersFromGeometry(geometry disks.DiskGeometry) Parameters {
	params := DefaultParameters()
	params.ReservedTracks = int(geometry.HiddenTracks)
	return params
}

// Volume is a read-only view of the CP/M file system on an MV disk.
type Volume struct {
	params Parameters
	data   []byte
}

// FileInfo describes a file found on a Volume.
type FileInfo struct {
	User uint8
	Name string
	// Size is the size of the file's data. If the file has a valid +3DOS
	// header, it's the length recorded there minus the header itself;
	// otherwise it's the record count from the directory times 128.
	Size       int
	Blocks     []uint8
	ReadOnly   bool
	SystemFile bool
	Archived   bool
	// Header is the file's +3DOS header, or nil if it doesn't have one.
	Header *plus3dos.Header
}

// NewVolume lays out the data area of `disk`: the sectors of every track after
// the reserved ones, each track's sectors in order of sector ID.
func NewVolume(disk *mv.Disk, params Parameters) (*Volume, error) {
	if params.BlockSize <= 0 || params.DirectoryBlocks <= 0 {
		return nil, zxdisk.ErrInvalidArgument.WithMessagef(
			"block size and directory size must be positive, got %d and %d",
			params.BlockSize,
			params.DirectoryBlocks,
		)
	}
	if params.ReservedTracks < 0 {
		return nil, zxdisk.ErrInvalidArgument.WithMessagef(
			"reserved track count can't be negative, got %d", params.ReservedTracks)
	}
	if params.ReservedTracks >= len(disk.Tracks) {
		return nil, zxdisk.ErrInvalidArgument.WithMessagef(
			"disk has %d tracks, all of them reserved", len(disk.Tracks))
	}

	var data []byte
	for _, track := range disk.Tracks[params.ReservedTracks:] {
		order := make([]int, len(track.Sectors))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return sectorID(track, order[a]) < sectorID(track, order[b])
		})

		for _, i := range order {
			data = append(data, track.Sectors[i].Encode()...)
		}
	}

	if len(data) < params.DirectoryBlocks*params.BlockSize {
		return nil, zxdisk.ErrTruncatedRecord.WithMessagef(
			"data area is %d bytes, too small for a %d-block directory",
			len(data),
			params.DirectoryBlocks,
		)
	}

	log.Debugf("CP/M data area is %d bytes, %d blocks", len(data), len(data)/params.BlockSize)
	return &Volume{params: params, data: data}, nil
}

func sectorID(track *mv.Track, index int) int {
	if index < len(track.TIB.SIBs) {
		return int(track.TIB.SIBs[index].SectorID)
	}
	return 0x100 + index
}

// TotalBlocks returns the number of whole blocks in the data area.
func (vol *Volume) TotalBlocks() int {
	return len(vol.data) / vol.params.BlockSize
}

// Block returns a copy of the contents of block `number`.
func (vol *Volume) Block(number int) ([]byte, error) {
	if number < 0 || number >= vol.TotalBlocks() {
		return nil, zxdisk.ErrValueOutOfRange.WithMessagef(
			"block %d not in [0, %d)", number, vol.TotalBlocks())
	}

	start := number * vol.params.BlockSize
	output := make([]byte, vol.params.BlockSize)
	copy(output, vol.data[start:start+vol.params.BlockSize])
	return output, nil
}

// Blocks splits the whole data area into blocks with their filler trimmed.
func (vol *Volume) Blocks() []*Block {
	return SplitBlocks(vol.data, vol.params.BlockSize, mv.DefaultFillerByte)
}

// Directory decodes the directory at the start of the data area.
func (vol *Volume) Directory() (*Directory, error) {
	return DecodeDirectory(vol.data[:vol.params.DirectoryBlocks*vol.params.BlockSize])
}

// AllocationMap returns the allocation map described by the directory.
func (vol *Volume) AllocationMap() (*AllocationMap, error) {
	dir, err := vol.Directory()
	if err != nil {
		return nil, err
	}
	return AllocationMapFromDirectory(dir, vol.TotalBlocks(), vol.params.DirectoryBlocks)
}

func (vol *Volume) findFile(name string) (*File, error) {
	dir, err := vol.Directory()
	if err != nil {
		return nil, err
	}

	file := dir.Find(name)
	if file == nil {
		return nil, zxdisk.ErrNotFound.WithMessagef("%q", name)
	}
	return file, nil
}

func (vol *Volume) readFile(file *File) ([]byte, error) {
	var output []byte
	for _, pointer := range file.Blocks() {
		block, err := vol.Block(int(pointer))
		if err != nil {
			return nil, zxdisk.ErrValueOutOfRange.WithMessagef("%s: %s", file.Name, err)
		}
		output = append(output, block...)
	}

	if size := file.Size(); size < len(output) {
		output = output[:size]
	}
	return output, nil
}

// ReadFile returns the contents of the named file, including any +3DOS header,
// rounded up to a whole record.
func (vol *Volume) ReadFile(name string) ([]byte, error) {
	file, err := vol.findFile(name)
	if err != nil {
		return nil, err
	}
	return vol.readFile(file)
}

// Header returns the +3DOS header of the named file. It fails with
// ErrInvalidSignature if the file doesn't have one.
func (vol *Volume) Header(name string) (*plus3dos.Header, error) {
	data, err := vol.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return plus3dos.DecodeHeader(data)
}

// Stat returns information about the named file.
func (vol *Volume) Stat(name string) (FileInfo, error) {
	file, err := vol.findFile(name)
	if err != nil {
		return FileInfo{}, err
	}
	return vol.stat(file)
}

// List returns information about every file on the volume, in directory order.
func (vol *Volume) List() ([]FileInfo, error) {
	dir, err := vol.Directory()
	if err != nil {
		return nil, err
	}

	files := dir.Files()
	infos := make([]FileInfo, 0, len(files))
	for _, file := range files {
		info, err := vol.stat(file)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (vol *Volume) stat(file *File) (FileInfo, error) {
	info := FileInfo{
		User:       file.User,
		Name:       file.Name,
		Size:       file.Size(),
		Blocks:     file.Blocks(),
		ReadOnly:   file.ReadOnly(),
		SystemFile: file.SystemFile(),
		Archived:   file.Archived(),
	}

	data, err := vol.readFile(file)
	if err != nil {
		return info, err
	}

	if plus3dos.HasHeader(data) {
		header, err := plus3dos.DecodeHeader(data)
		if err == nil && header.CheckChecksum() {
			info.Header = header
			info.Size = header.DataLength()
		} else {
			log.Warnf("%s: +3DOS header is damaged, using directory size", file.Name)
		}
	}
	return info, nil
}

// ReadFileData returns the contents of the named file without its +3DOS header,
// cut to the exact length recorded there. Files without a header are returned
// as ReadFile returns them.
func (vol *Volume) ReadFileData(name string) ([]byte, error) {
	file, err := vol.findFile(name)
	if err != nil {
		return nil, err
	}

	data, err := vol.readFile(file)
	if err != nil {
		return nil, err
	}

	info, err := vol.stat(file)
	if err != nil {
		return nil, err
	}
	if info.Header == nil {
		return data, nil
	}

	end := plus3dos.HeaderSize + info.Size
	if end > len(data) {
		end = len(data)
	}
	return data[plus3dos.HeaderSize:end], nil
}
