package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompressionRoundTrip(t *testing.T) {
	data := []byte(strings.Repeat("lecture chunk text ", 50))

	for _, algo := range []CompressionAlgorithm{CompressionGzip, CompressionZlib} {
		compressed, err := CompressData(data, algo)
		if err != nil {
			t.Fatalf("%s: compress error: %v", algo, err)
		}
		if len(compressed) >= len(data) {
			t.Errorf("%s: compression did not shrink repetitive data", algo)
		}

		restored, err := DecompressData(compressed, algo)
		if err != nil {
			t.Fatalf("%s: decompress error: %v", algo, err)
		}
		if !bytes.Equal(restored, data) {
			t.Errorf("%s: round trip mismatch", algo)
		}
	}
}

func TestCompressionNoneAndEmpty(t *testing.T) {
	data := []byte("unchanged")
	out, err := CompressData(data, CompressionNone)
	if err != nil || !bytes.Equal(out, data) {
		t.Errorf("none algorithm must pass data through, got %q err %v", out, err)
	}

	out, err = CompressData(nil, CompressionGzip)
	if err != nil || len(out) != 0 {
		t.Errorf("empty input must pass through, got %q err %v", out, err)
	}

	if _, err := CompressData(data, CompressionAlgorithm("lz4")); err == nil {
		t.Error("expected error for unsupported algorithm")
	}
}
