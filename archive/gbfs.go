// Package archive reads and writes GBFS file archives, the container the
// packager uses to bundle media next to the player image.
package archive

import (
	"encoding/binary"
	"errors"
	"strings"
)

const (
	magic = "PinEightGBFS\r\n\x1a\n"

	headerSize = 32
	entrySize  = 32
	nameLen    = 24
)

var (
	ErrBadArchive = errors.New("archive: bad GBFS image")
	ErrNotFound   = errors.New("archive: file not found")
)

// File is one named blob inside an archive.
type File struct {
	Name string
	Data []byte
}

// Archive is a parsed, read-only GBFS image.
type Archive struct {
	files []File
}

// Open parses a GBFS image held in memory. File data aliases the input
// slice.
func Open(data []byte) (*Archive, error) {
	if len(data) < headerSize || string(data[:16]) != magic {
		return nil, ErrBadArchive
	}

	totalLen := binary.LittleEndian.Uint32(data[16:20])
	dirOff := binary.LittleEndian.Uint16(data[20:22])
	dirCount := binary.LittleEndian.Uint16(data[22:24])
	if int(totalLen) > len(data) {
		return nil, ErrBadArchive
	}

	a := &Archive{}
	for i := 0; i < int(dirCount); i++ {
		off := int(dirOff) + i*entrySize
		if off+entrySize > len(data) {
			return nil, ErrBadArchive
		}
		entry := data[off : off+entrySize]

		name := string(entry[:nameLen])
		if idx := strings.IndexByte(name, 0); idx >= 0 {
			name = name[:idx]
		}
		size := binary.LittleEndian.Uint32(entry[24:28])
		dataOff := binary.LittleEndian.Uint32(entry[28:32])
		if int(dataOff)+int(size) > len(data) {
			return nil, ErrBadArchive
		}

		a.files = append(a.files, File{Name: name, Data: data[dataOff : dataOff+size]})
	}
	return a, nil
}

// Find scans a larger image (for example a padded ROM) for an embedded
// GBFS archive on a 256-byte boundary.
func Find(image []byte) (*Archive, error) {
	for off := 0; off+headerSize <= len(image); off += 256 {
		if string(image[off:off+16]) == magic {
			return Open(image[off:])
		}
	}
	return nil, ErrBadArchive
}

// Len returns the number of files in the archive.
func (a *Archive) Len() int { return len(a.files) }

// Get returns the named file's data.
func (a *Archive) Get(name string) ([]byte, error) {
	for _, f := range a.files {
		if f.Name == name {
			return f.Data, nil
		}
	}
	return nil, ErrNotFound
}

// hasExtension reports whether name ends in "."+ext, case-insensitive.
func hasExtension(name, ext string) bool {
	if len(name) < len(ext)+1 {
		return false
	}
	if name[len(name)-len(ext)-1] != '.' {
		return false
	}
	return strings.EqualFold(name[len(name)-len(ext):], ext)
}

// FindByExtension returns the first file with the given extension
// (without the dot), case-insensitive.
func (a *Archive) FindByExtension(ext string) (File, error) {
	for _, f := range a.files {
		if hasExtension(f.Name, ext) {
			return f, nil
		}
	}
	return File{}, ErrNotFound
}

// CountByExtension counts files with the given extension.
func (a *Archive) CountByExtension(ext string) int {
	n := 0
	for _, f := range a.files {
		if hasExtension(f.Name, ext) {
			n++
		}
	}
	return n
}

func align4(x uint32) uint32 {
	return (x + 3) &^ 3
}

// Build serializes files into a GBFS image.
func Build(files []File) ([]byte, error) {
	headerBytes := uint32(headerSize)
	dirBytes := uint32(len(files)) * entrySize
	offset := align4(headerBytes + dirBytes)

	offsets := make([]uint32, len(files))
	for i, f := range files {
		if len(f.Name) > nameLen {
			return nil, errors.New("archive: name too long")
		}
		offsets[i] = offset
		offset = align4(offset + uint32(len(f.Data)))
	}
	total := offset

	out := make([]byte, total)
	copy(out[:16], magic)
	binary.LittleEndian.PutUint32(out[16:20], total)
	binary.LittleEndian.PutUint16(out[20:22], uint16(headerBytes))
	binary.LittleEndian.PutUint16(out[22:24], uint16(len(files)))

	for i, f := range files {
		entry := out[headerBytes+uint32(i)*entrySize:]
		copy(entry[:nameLen], f.Name)
		binary.LittleEndian.PutUint32(entry[24:28], uint32(len(f.Data)))
		binary.LittleEndian.PutUint32(entry[28:32], offsets[i])
		copy(out[offsets[i]:], f.Data)
	}
	return out, nil
}
