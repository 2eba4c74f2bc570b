package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Hardware-backed behavior lives behind pcscd; what can be pinned down
// here is the error surface the CLI maps to exit codes and messages.

func TestSentinelErrorMessages(t *testing.T) {
	assert.EqualError(t, ErrNoReaders, "no PC/SC readers found")
	assert.EqualError(t, ErrWaitTimeout, "no card presented before the timeout")
	assert.EqualError(t, ErrNoCard, "not connected to a card")
}

func TestTransmitWithoutCard(t *testing.T) {
	r := &Reader{name: "test reader"}
	_, err := r.Transmit([]byte{0xFF, 0xCA, 0x00, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrNoCard)
}

func TestATRWithoutCard(t *testing.T) {
	r := &Reader{name: "test reader"}
	_, err := r.ATR()
	assert.ErrorIs(t, err, ErrNoCard)
}

func TestCloseIsIdempotent(t *testing.T) {
	r := &Reader{}
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
}

func TestName(t *testing.T) {
	r := &Reader{name: "ACS ACR122U 00 00"}
	assert.Equal(t, "ACS ACR122U 00 00", r.Name())
}
