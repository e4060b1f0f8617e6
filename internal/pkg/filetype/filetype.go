package filetype

import "bytes"

// Type is an image type accepted as PDF logo.
type Type string

const (
	PNG     Type = "png"
	JPG     Type = "jpg"
	Unknown Type = ""
)

var (
	pngMagic = []byte{0x89, 0x50, 0x4e, 0x47}
	jpgMagic = []byte{0xff, 0xd8}
)

// Detect identifies png and jpg content by its magic bytes.
func Detect(b []byte) Type {
	switch {
	case bytes.HasPrefix(b, pngMagic):
		return PNG
	case bytes.HasPrefix(b, jpgMagic):
		return JPG
	default:
		return Unknown
	}
}
