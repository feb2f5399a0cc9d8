// Package compression shrinks disk images for storage in the repository and
// expands them again for tests and the command-line tool.
//
// Images are run-length encoded with RLE8 and the result is gzipped. Freshly
// formatted floppy images are almost entirely 0xE5 filler, so RLE8 alone takes
// a 190 KiB +3 image down to a few kilobytes, and gzip removes most of what's
// left.
//
// RLE8 is the scheme used by the BMP file format: if a byte B occurs N times
// where N >= 2, B is written twice, followed by a third (unsigned) byte saying
// how many additional times B occurred. For example:
//
//	WXXXXXXXXXXXXXXXYZZ
//	W XX 13 Y ZZ 0
//
// A run can be at most 257 bytes long; longer runs are split. A run of 300 "X"
// is stored as `XX 255 XX 41`.
package compression
