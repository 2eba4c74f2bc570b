package mifare

import (
	"errors"
	"fmt"
)

// Transmitter is the raw APDU exchange the reader session provides. The
// response includes the trailing SW1/SW2 status word.
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

const swSuccess = 0x9000

var errShortResponse = errors.New("response too short")

// transceive sends one command and strips the status word, failing on
// anything but 90 00.
func transceive(t Transmitter, cmd []byte) ([]byte, error) {
	resp, err := t.Transmit(cmd)
	if err != nil {
		return nil, fmt.Errorf("transmit failed: %w", err)
	}
	if len(resp) < 2 {
		return nil, errShortResponse
	}
	sw := uint16(resp[len(resp)-2])<<8 | uint16(resp[len(resp)-1])
	if sw != swSuccess {
		return nil, fmt.Errorf("unexpected status word: %04X", sw)
	}
	return resp[:len(resp)-2], nil
}

// LoadKey places an authentication key in the reader's volatile key
// slot 0.
func LoadKey(t Transmitter, key []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("key must be %d bytes", KeySize)
	}
	cmd := append([]byte{0xFF, 0x82, 0x00, 0x00, KeySize}, key...)
	if _, err := transceive(t, cmd); err != nil {
		return fmt.Errorf("load key: %w", err)
	}
	return nil
}

// Authenticate authenticates the given absolute block with the key
// previously loaded into slot 0.
func Authenticate(t Transmitter, block byte, kt KeyType) error {
	cmd := []byte{0xFF, 0x86, 0x00, 0x00, 0x05, 0x01, 0x00, block, byte(kt), 0x00}
	if _, err := transceive(t, cmd); err != nil {
		return fmt.Errorf("authenticate block %d with key %s: %w", block, kt, err)
	}
	return nil
}

// ReadBlock reads one 16-byte block.
func ReadBlock(t Transmitter, block byte) ([]byte, error) {
	data, err := transceive(t, []byte{0xFF, 0xB0, 0x00, block, BlockSize})
	if err != nil {
		return nil, fmt.Errorf("read block %d: %w", block, err)
	}
	if len(data) != BlockSize {
		return nil, fmt.Errorf("read block %d: got %d bytes, want %d", block, len(data), BlockSize)
	}
	return data, nil
}

// WriteBlock writes one 16-byte block.
func WriteBlock(t Transmitter, block byte, data []byte) error {
	if len(data) != BlockSize {
		return fmt.Errorf("block data must be %d bytes", BlockSize)
	}
	cmd := append([]byte{0xFF, 0xD6, 0x00, block, BlockSize}, data...)
	if _, err := transceive(t, cmd); err != nil {
		return fmt.Errorf("write block %d: %w", block, err)
	}
	return nil
}

// ReadUID asks the reader for the UID of the selected card.
func ReadUID(t Transmitter) ([]byte, error) {
	uid, err := transceive(t, []byte{0xFF, 0xCA, 0x00, 0x00, 0x00})
	if err != nil {
		return nil, fmt.Errorf("read UID: %w", err)
	}
	return uid, nil
}
