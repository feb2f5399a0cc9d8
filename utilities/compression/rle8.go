package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

const maxRunLength = 257

// CompressRLE8 reads bytes from the input and writes compressed data to the
// output until the input is exhausted. The return value is the number of bytes
// written, only valid if no error occurred.
func CompressRLE8(input io.Reader, output io.Writer) (int64, error) {
	source := bufio.NewReader(input)
	sink := bufio.NewWriter(output)
	totalBytesWritten := int64(0)

	currentByte := -1
	runLength := 0

	flushRun := func() error {
		for runLength > 0 {
			var chunk []byte
			if runLength == 1 {
				chunk = []byte{byte(currentByte)}
				runLength = 0
			} else {
				length := runLength
				if length > maxRunLength {
					length = maxRunLength
				}
				chunk = []byte{byte(currentByte), byte(currentByte), byte(length - 2)}
				runLength -= length
			}

			n, err := sink.Write(chunk)
			totalBytesWritten += int64(n)
			if err != nil {
				return err
			}
		}
		return nil
	}

	for {
		b, err := source.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return totalBytesWritten, fmt.Errorf("error reading input: %w", err)
		}

		if int(b) == currentByte {
			runLength++
			continue
		}
		if err := flushRun(); err != nil {
			return totalBytesWritten, fmt.Errorf("failed to write to output: %w", err)
		}
		currentByte = int(b)
		runLength = 1
	}

	if err := flushRun(); err != nil {
		return totalBytesWritten, fmt.Errorf("failed to write to output: %w", err)
	}
	return totalBytesWritten, sink.Flush()
}

// DecompressRLE8 is the inverse of CompressRLE8. The return value is the number
// of bytes written to the output.
func DecompressRLE8(input io.Reader, output io.Writer) (int64, error) {
	source := bufio.NewReader(input)
	sink := bufio.NewWriter(output)
	lastByteRead := -1
	totalBytesWritten := int64(0)

	for {
		currentByte, err := source.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return totalBytesWritten, sink.Flush()
			}
			return totalBytesWritten, fmt.Errorf("error reading input: %w", err)
		}

		var currentOutput []byte
		if int(currentByte) == lastByteRead {
			// Second byte of a pair, so a repeat count follows.
			repeatCountByte, err := source.ReadByte()
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = fmt.Errorf(
						"%w: missing repeat count after two %02x bytes",
						io.ErrUnexpectedEOF,
						uint(lastByteRead),
					)
				}
				return totalBytesWritten, err
			}

			// The first byte of the pair was already written on the previous
			// iteration, hence +1 and not +2.
			currentOutput = bytes.Repeat([]byte{currentByte}, int(repeatCountByte)+1)

			// Without this a run of 258+ bytes would decompress with extra
			// bytes in it.
			lastByteRead = -1
		} else {
			lastByteRead = int(currentByte)
			currentOutput = []byte{currentByte}
		}

		n, err := sink.Write(currentOutput)
		totalBytesWritten += int64(n)
		if err != nil {
			return totalBytesWritten, fmt.Errorf("failed to write to output: %w", err)
		}
	}
}
