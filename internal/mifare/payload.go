package mifare

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Payload builders for the write command. Text payloads are padded with
// spaces, hex payloads with zeros, both to one block.

var errEmptyPayload = errors.New("empty payload")

// TextPayload turns an ASCII string into block data.
func TextPayload(s string) ([]byte, error) {
	if s == "" {
		return nil, errEmptyPayload
	}
	if len(s) > BlockSize {
		return nil, fmt.Errorf("text payload is %d bytes, a block holds %d", len(s), BlockSize)
	}
	data := make([]byte, BlockSize)
	for i := range data {
		data[i] = ' '
	}
	copy(data, s)
	return data, nil
}

// HexPayload decodes a hex string into block data. Spaces, colons and
// underscores are accepted as separators.
func HexPayload(s string) ([]byte, error) {
	cleaned := strings.NewReplacer(" ", "", ":", "", "_", "").Replace(s)
	if cleaned == "" {
		return nil, errEmptyPayload
	}
	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid hex payload: %w", err)
	}
	if len(raw) > BlockSize {
		return nil, fmt.Errorf("hex payload is %d bytes, a block holds %d", len(raw), BlockSize)
	}
	data := make([]byte, BlockSize)
	copy(data, raw)
	return data, nil
}

// ZeroPayload returns an all-zero block.
func ZeroPayload() []byte {
	return make([]byte, BlockSize)
}

// RandomPayload returns a block of random bytes.
func RandomPayload() ([]byte, error) {
	data := make([]byte, BlockSize)
	if _, err := rand.Read(data); err != nil {
		return nil, fmt.Errorf("random payload: %w", err)
	}
	return data, nil
}

// ParseKey decodes a 6-byte hex key, accepting the same separators as
// HexPayload. An empty string yields the transport key.
func ParseKey(s string) ([]byte, error) {
	cleaned := strings.NewReplacer(" ", "", ":", "", "_", "").Replace(s)
	if cleaned == "" {
		return DefaultKey(), nil
	}
	key, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid key: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("key is %d bytes, want %d", len(key), KeySize)
	}
	return key, nil
}
