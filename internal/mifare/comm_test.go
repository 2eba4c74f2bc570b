package mifare

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedTransmitter answers every command with a canned response and
// records the last command for APDU structure assertions.
type scriptedTransmitter struct {
	resp []byte
	err  error
	last []byte
}

func (s *scriptedTransmitter) Transmit(cmd []byte) ([]byte, error) {
	s.last = append([]byte(nil), cmd...)
	return s.resp, s.err
}

func ok(payload ...byte) []byte {
	return append(payload, 0x90, 0x00)
}

func TestLoadKeyCommand(t *testing.T) {
	tr := &scriptedTransmitter{resp: ok()}
	key := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC}

	require.NoError(t, LoadKey(tr, key))
	assert.Equal(t, []byte{0xFF, 0x82, 0x00, 0x00, 0x06, 0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC}, tr.last)
}

func TestLoadKeyRejectsWrongLength(t *testing.T) {
	tr := &scriptedTransmitter{resp: ok()}
	assert.Error(t, LoadKey(tr, []byte{0x12, 0x34}))
	assert.Nil(t, tr.last, "no command should reach the card")
}

func TestAuthenticateCommand(t *testing.T) {
	tests := []struct {
		name  string
		block byte
		kt    KeyType
		want  []byte
	}{
		{"key A", 4, KeyA, []byte{0xFF, 0x86, 0x00, 0x00, 0x05, 0x01, 0x00, 4, 0x60, 0x00}},
		{"key B", 16, KeyB, []byte{0xFF, 0x86, 0x00, 0x00, 0x05, 0x01, 0x00, 16, 0x61, 0x00}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := &scriptedTransmitter{resp: ok()}
			require.NoError(t, Authenticate(tr, tc.block, tc.kt))
			assert.Equal(t, tc.want, tr.last)
		})
	}
}

func TestReadBlockCommand(t *testing.T) {
	payload := make([]byte, BlockSize)
	payload[0] = 0xAA
	tr := &scriptedTransmitter{resp: ok(payload...)}

	data, err := ReadBlock(tr, 4)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, []byte{0xFF, 0xB0, 0x00, 0x04, 0x10}, tr.last)
}

func TestReadBlockShortPayload(t *testing.T) {
	tr := &scriptedTransmitter{resp: ok(0x01, 0x02)}
	_, err := ReadBlock(tr, 0)
	assert.Error(t, err)
}

func TestWriteBlockCommand(t *testing.T) {
	data := make([]byte, BlockSize)
	for i := range data {
		data[i] = byte(i)
	}
	tr := &scriptedTransmitter{resp: ok()}

	require.NoError(t, WriteBlock(tr, 8, data))
	want := append([]byte{0xFF, 0xD6, 0x00, 0x08, 0x10}, data...)
	assert.Equal(t, want, tr.last)
}

func TestWriteBlockRejectsWrongLength(t *testing.T) {
	tr := &scriptedTransmitter{resp: ok()}
	assert.Error(t, WriteBlock(tr, 8, []byte{0x01}))
	assert.Nil(t, tr.last)
}

func TestReadUIDCommand(t *testing.T) {
	tr := &scriptedTransmitter{resp: ok(0x01, 0x02, 0x03, 0x04)}

	uid, err := ReadUID(tr)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, uid)
	assert.Equal(t, []byte{0xFF, 0xCA, 0x00, 0x00, 0x00}, tr.last)
}

func TestTransceiveErrors(t *testing.T) {
	tests := []struct {
		name string
		resp []byte
		err  error
	}{
		{"transmit failure", nil, errors.New("card removed")},
		{"short response", []byte{0x90}, nil},
		{"bad status word", []byte{0x63, 0x00}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := &scriptedTransmitter{resp: tc.resp, err: tc.err}
			_, err := ReadUID(tr)
			assert.Error(t, err)
		})
	}
}

func TestTransceiveStatusWordInMessage(t *testing.T) {
	tr := &scriptedTransmitter{resp: []byte{0x63, 0x00}}
	_, err := ReadUID(tr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "6300")
}
