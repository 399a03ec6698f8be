package utils

import "bytes"

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	gifMagic  = []byte("GIF8")
	webpRIFF  = []byte("RIFF")
	webpTag   = []byte("WEBP")
)

// SniffImageFormat inspects magic bytes and returns the format name the
// Gemini SDK expects ("png", "jpeg", "gif", "webp"), or "" when unknown.
func SniffImageFormat(data []byte) string {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return "png"
	case bytes.HasPrefix(data, jpegMagic):
		return "jpeg"
	case bytes.HasPrefix(data, gifMagic):
		return "gif"
	case len(data) >= 12 && bytes.HasPrefix(data, webpRIFF) && bytes.Equal(data[8:12], webpTag):
		return "webp"
	default:
		return ""
	}
}

// IsValidImageType checks if the content type is a supported image type
func IsValidImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
