// Package mifare implements the MIFARE Classic 1K command set and data
// model on top of any PC/SC transmit function.
package mifare

import (
	"fmt"
	"strings"
)

// MIFARE Classic 1K geometry.
const (
	BlocksPerSector = 4
	TotalSectors    = 16
	BlockSize       = 16
	KeySize         = 6
)

// DefaultKey returns the transport key most cards ship with.
func DefaultKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = 0xFF
	}
	return key
}

// Status tracks how far a block or sector got during a dump.
type Status int

const (
	StatusNoInit Status = iota
	StatusOK
	StatusKeyError
	StatusAuthError
	StatusReadError
	StatusWriteError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusKeyError:
		return "KEY ERROR"
	case StatusAuthError:
		return "AUTH ERROR"
	case StatusReadError:
		return "READ ERROR"
	case StatusWriteError:
		return "WRITE ERROR"
	default:
		return "NO INIT"
	}
}

// KeyType selects which of the two sector keys to authenticate with.
type KeyType byte

const (
	KeyA KeyType = 0x60
	KeyB KeyType = 0x61
)

func (kt KeyType) String() string {
	if kt == KeyB {
		return "B"
	}
	return "A"
}

// Key is an authentication key together with its slot.
type Key struct {
	Type KeyType
	Data []byte
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Type, HexBytes(k.Data))
}

// Block is one 16-byte unit of card memory.
type Block struct {
	Data   []byte
	Status Status
}

// Trailer is the last block of a sector: keys, access bytes and the
// general purpose byte. Key A reads back as zeros and is not kept.
type Trailer struct {
	KeyB       []byte
	AccessBits []byte // 3 bytes, the 4th trailer byte is the GPB
	GPB        byte
	Status     Status
}

// Parse fills the trailer from raw block data.
func (t *Trailer) Parse(data []byte) error {
	if len(data) != BlockSize {
		return fmt.Errorf("trailer block is %d bytes, want %d", len(data), BlockSize)
	}
	t.AccessBits = append([]byte(nil), data[6:9]...)
	t.GPB = data[9]
	t.KeyB = append([]byte(nil), data[10:16]...)
	t.Status = StatusOK
	return nil
}

func (t *Trailer) String() string {
	if t.Status != StatusOK {
		return "trailer not processed"
	}
	return fmt.Sprintf("KeyB: %s GPB:%02X AccessBits:%s",
		HexBytes(t.KeyB), t.GPB, HexBytes(t.AccessBits))
}

// Head is the manufacturer block (sector 0, block 0).
type Head struct {
	UID  []byte // bytes 0-3
	BCC  byte   // byte 4, XOR checksum of the UID
	SAK  []byte // bytes 5-7
	Sign []byte // bytes 8-15, manufacturer signature
}

// Parse fills the head from the manufacturer block, but only if that
// block was actually read.
func (h *Head) Parse(b *Block) {
	if b.Status != StatusOK || len(b.Data) != BlockSize {
		return
	}
	h.UID = append([]byte(nil), b.Data[0:4]...)
	h.BCC = b.Data[4]
	h.SAK = append([]byte(nil), b.Data[5:8]...)
	h.Sign = append([]byte(nil), b.Data[8:16]...)
}

func (h *Head) String() string {
	return fmt.Sprintf("UID:%s BCC[0x%02X] SAK:%s SIGN:%s",
		HexBytes(h.UID), h.BCC, HexBytes(h.SAK), HexBytes(h.Sign))
}

// Sector is 4 blocks, the last of which is the trailer.
type Sector struct {
	Blocks  [BlocksPerSector]Block
	Trailer Trailer
	Status  Status
}

// Dump is the full card image, populated sector by sector.
type Dump struct {
	Head    Head
	ATR     []byte
	Sectors [TotalSectors]Sector
	Status  Status
}

func NewDump() *Dump {
	return &Dump{}
}

// HexBytes renders bytes as "[AA BB CC]".
func HexBytes(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	sb.WriteByte(']')
	return sb.String()
}
