package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"lecture-rag-backend/internal/logger"
	"lecture-rag-backend/utils"
)

// PDFExtractor pulls text and embedded raster images from PDF files.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract reads the PDF at path and returns the concatenated page text
// and the raw bytes of every embedded raster image that decodes
// cleanly. Images that fail to decode are skipped.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (string, [][]byte, error) {
	start := time.Now()

	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return "", nil, fmt.Errorf("context deadline exceeded before extraction")
		}
	}

	stat, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to stat PDF file: %w", err)
	}
	if stat.Size() > 200<<20 { // 200MB safety cap
		return "", nil, fmt.Errorf("pdf too large for in-memory extraction")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read PDF file: %w", err)
	}

	text, err := extractText(content)
	if err != nil {
		return "", nil, err
	}

	images := extractImageStreams(content)

	logger.Debug("PDF extracted",
		"path", path,
		"chars", len(text),
		"images", len(images),
		"duration", time.Since(start).String())

	return text, images, nil
}

func extractText(content []byte) (text string, err error) {
	// The pdf library panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parsing failed: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var textBuilder strings.Builder
	pages := reader.NumPage()

	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		pageText, err := page.GetPlainText(fonts)
		if err != nil {
			logger.Warn("Failed to extract text from page", "page", i, "error", err)
			continue
		}

		if textBuilder.Len() > 0 {
			textBuilder.WriteString("\n")
		}
		textBuilder.WriteString(pageText)
	}

	return textBuilder.String(), nil
}

var (
	streamMarker    = []byte("stream")
	endstreamMarker = []byte("endstream")
	objMarker       = []byte("obj")
	jpegMagic       = []byte{0xFF, 0xD8, 0xFF}
)

// extractImageStreams scans the raw PDF for image streams. DCTDecode
// streams hold verbatim JPEG bytes; FlateDecode image XObjects with an
// 8-bit gray or RGB pixel layout are re-encoded as PNG. Anything that
// does not decode cleanly is skipped.
func extractImageStreams(content []byte) [][]byte {
	var images [][]byte

	offset := 0
	for {
		idx := bytes.Index(content[offset:], streamMarker)
		if idx < 0 {
			break
		}
		keyword := offset + idx
		pos := keyword + len(streamMarker)
		offset = pos

		// The stream keyword is terminated by an EOL; anything else is
		// the word appearing inside other data (including "endstream").
		if pos >= len(content) || (content[pos] != '\r' && content[pos] != '\n') {
			continue
		}
		if bytes.HasSuffix(content[:keyword], []byte("end")) {
			continue
		}
		for pos < len(content) && (content[pos] == '\r' || content[pos] == '\n') {
			pos++
		}

		end := bytes.Index(content[pos:], endstreamMarker)
		if end < 0 {
			break
		}
		data := bytes.TrimRight(content[pos:pos+end], "\r\n")
		offset = pos + end + len(endstreamMarker)

		if img := decodeImageStream(dictBefore(content, keyword), data); img != nil {
			images = append(images, img)
		}
	}

	return images
}

// dictBefore returns the object header preceding a stream keyword,
// which holds the image dictionary.
func dictBefore(content []byte, streamPos int) []byte {
	idx := bytes.LastIndex(content[:streamPos], objMarker)
	if idx < 0 {
		return content[:streamPos]
	}
	return content[idx:streamPos]
}

func decodeImageStream(dict, data []byte) []byte {
	if bytes.HasPrefix(data, jpegMagic) {
		// A JPEG ends with the EOI marker FF D9
		if len(data) < 4 || data[len(data)-2] != 0xFF || data[len(data)-1] != 0xD9 {
			return nil
		}
		img := make([]byte, len(data))
		copy(img, data)
		return img
	}

	if !bytes.Contains(dict, []byte("/Image")) || !bytes.Contains(dict, []byte("/FlateDecode")) {
		return nil
	}

	width := dictInt(dict, "/Width")
	height := dictInt(dict, "/Height")
	if width <= 0 || height <= 0 || dictInt(dict, "/BitsPerComponent") != 8 {
		return nil
	}

	var components int
	switch {
	case bytes.Contains(dict, []byte("/DeviceRGB")):
		components = 3
	case bytes.Contains(dict, []byte("/DeviceGray")):
		components = 1
	default:
		return nil
	}

	raw, err := utils.DecompressData(data, utils.CompressionZlib)
	if err != nil || len(raw) < width*height*components {
		return nil
	}
	return encodePNG(raw, width, height, components)
}

func encodePNG(raw []byte, width, height, components int) []byte {
	var img image.Image
	if components == 1 {
		gray := image.NewGray(image.Rect(0, 0, width, height))
		copy(gray.Pix, raw[:width*height])
		img = gray
	} else {
		rgba := image.NewNRGBA(image.Rect(0, 0, width, height))
		for i := 0; i < width*height; i++ {
			rgba.Pix[i*4] = raw[i*3]
			rgba.Pix[i*4+1] = raw[i*3+1]
			rgba.Pix[i*4+2] = raw[i*3+2]
			rgba.Pix[i*4+3] = 0xFF
		}
		img = rgba
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// dictInt parses the integer value following key in a PDF dictionary.
func dictInt(dict []byte, key string) int {
	idx := bytes.Index(dict, []byte(key))
	if idx < 0 {
		return 0
	}
	rest := dict[idx+len(key):]

	i := 0
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t' || rest[i] == '\r' || rest[i] == '\n') {
		i++
	}

	n := 0
	digits := false
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		n = n*10 + int(rest[i]-'0')
		i++
		digits = true
	}
	if !digits {
		return 0
	}
	return n
}
