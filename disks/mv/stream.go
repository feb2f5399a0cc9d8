package mv

import (
	"io"
)

// ReadDisk reads an entire image from `input` and decodes it.
func ReadDisk(input io.Reader) (*Disk, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return nil, err
	}
	return DecodeDisk(data)
}

// WriteTo encodes the disk and writes it to `output`. It implements
// io.WriterTo.
func (disk *Disk) WriteTo(output io.Writer) (int64, error) {
	data, err := disk.Encode()
	if err != nil {
		return 0, err
	}
	n, err := output.Write(data)
	return int64(n), err
}
