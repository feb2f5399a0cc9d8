package cpm

import (
	"fmt"
	"sort"
	"strings"
)

// Directory is the list of entries in a CP/M directory, in on-disk order,
// including unused ones.
type Directory struct {
	Entries []*Entry
}

// File groups the entries (extents) belonging to a single file.
type File struct {
	User    uint8
	Name    string
	Extents []*Entry
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{Entries: []*Entry{}}
}

// DecodeDirectory splits `data` into 32-byte entries and decodes each. A
// partial entry at the end is ignored.
func DecodeDirectory(data []byte) (*Directory, error) {
	count := len(data) / EntrySize
	dir := &Directory{Entries: make([]*Entry, 0, count)}

	for i := 0; i < count; i++ {
		entry, err := DecodeEntry(data[i*EntrySize : (i+1)*EntrySize])
		if err != nil {
			return nil, fmt.Errorf("directory entry %d: %w", i, err)
		}
		dir.Add(entry)
	}
	return dir, nil
}

// Add appends an entry to the directory.
func (dir *Directory) Add(entry *Entry) {
	dir.Entries = append(dir.Entries, entry)
}

// Encode concatenates the on-disk form of every entry.
func (dir *Directory) Encode() ([]byte, error) {
	output := make([]byte, 0, len(dir.Entries)*EntrySize)
	for i, entry := range dir.Entries {
		entryData, err := entry.Encode()
		if err != nil {
			return nil, fmt.Errorf("directory entry %d: %w", i, err)
		}
		output = append(output, entryData...)
	}
	return output, nil
}

// Files groups the in-use entries by user and name, in order of first
// appearance. Each file's extents are sorted by extent number.
func (dir *Directory) Files() []*File {
	files := []*File{}
	index := map[string]*File{}

	for _, entry := range dir.Entries {
		if entry.IsUnused() {
			continue
		}

		key := fmt.Sprintf("%d:%s", entry.Status, strings.ToUpper(entry.Name()))
		file, ok := index[key]
		if !ok {
			file = &File{User: entry.Status, Name: entry.Name()}
			index[key] = file
			files = append(files, file)
		}
		file.Extents = append(file.Extents, entry)
	}

	for _, file := range files {
		sort.SliceStable(file.Extents, func(i, j int) bool {
			return file.Extents[i].ExtentNumber() < file.Extents[j].ExtentNumber()
		})
	}
	return files
}

// Find returns the file with the given name, ignoring case. If several users
// have a file with that name, the first one in the directory wins. It returns
// nil if there's no such file.
func (dir *Directory) Find(name string) *File {
	for _, file := range dir.Files() {
		if strings.EqualFold(file.Name, name) {
			return file
		}
	}
	return nil
}

// Size returns the size of the file, rounded up to a whole record.
func (file *File) Size() int {
	size := 0
	for _, extent := range file.Extents {
		size += extent.Size()
	}
	return size
}

// Blocks returns the block pointers of every extent in order, skipping nulls.
func (file *File) Blocks() []uint8 {
	var blocks []uint8
	for _, extent := range file.Extents {
		for _, pointer := range extent.Pointers {
			if pointer != 0 {
				blocks = append(blocks, pointer)
			}
		}
	}
	return blocks
}

// ReadOnly returns the read-only flag of the file's first extent.
func (file *File) ReadOnly() bool {
	return file.Extents[0].ReadOnly
}

// SystemFile returns the system flag of the file's first extent.
func (file *File) SystemFile() bool {
	return file.Extents[0].SystemFile
}

// Archived returns the archived flag of the file's first extent.
func (file *File) Archived() bool {
	return file.Extents[0].Archived
}
