// Package reader wraps one PC/SC reader session: pick a reader, wait for
// a card, exchange APDUs, release everything on the way out.
package reader

import (
	"errors"
	"fmt"
	"time"

	"github.com/ebfe/scard"

	"github.com/bwowan/vb-Mifare1K-smartcard/internal/utils/log"
)

var (
	ErrNoReaders   = errors.New("no PC/SC readers found")
	ErrWaitTimeout = errors.New("no card presented before the timeout")
	ErrNoCard      = errors.New("not connected to a card")
)

// pollInterval is how often the wait loop wakes up to log the countdown
// and check the deadline.
const pollInterval = time.Second

// Reader is an exclusive session with a single PC/SC reader.
type Reader struct {
	ctx  *scard.Context
	card *scard.Card
	name string
}

// New establishes a PC/SC context and selects a reader: the one matching
// name, or the first one enumerated when name is empty.
func New(name string) (*Reader, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("failed to establish PC/SC context: %w", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil || len(readers) == 0 {
		ctx.Release()
		if err != nil {
			log.Debugf("list readers: %v", err)
		}
		return nil, ErrNoReaders
	}
	for i, r := range readers {
		log.Debugf("reader %d: %s", i, r)
	}

	selected := readers[0]
	if name != "" {
		selected = ""
		for _, r := range readers {
			if r == name {
				selected = r
				break
			}
		}
		if selected == "" {
			ctx.Release()
			return nil, fmt.Errorf("reader %q not found", name)
		}
	}

	return &Reader{ctx: ctx, name: selected}, nil
}

// List enumerates the connected PC/SC readers.
func List() ([]string, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("failed to establish PC/SC context: %w", err)
	}
	defer ctx.Release()

	readers, err := ctx.ListReaders()
	if err != nil || len(readers) == 0 {
		return nil, ErrNoReaders
	}
	return readers, nil
}

// Name returns the selected reader's name.
func (r *Reader) Name() string {
	return r.name
}

// WaitForCard blocks until a card is present in the reader, logging a
// countdown once per second. A zero timeout waits forever.
func (r *Reader) WaitForCard(timeout time.Duration) error {
	states := []scard.ReaderState{
		{Reader: r.name, CurrentState: scard.StateUnaware},
	}
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		err := r.ctx.GetStatusChange(states, pollInterval)
		if err != nil && err != scard.ErrTimeout {
			return fmt.Errorf("failed to query card state: %w", err)
		}
		if states[0].EventState&scard.StatePresent != 0 {
			return nil
		}
		states[0].CurrentState = states[0].EventState

		if deadline.IsZero() {
			log.Info("waiting for card")
			continue
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrWaitTimeout
		}
		log.Infof("waiting for card %02d", int(remaining.Round(time.Second)/time.Second))
	}
}

// Connect opens an exclusive connection to the card in the reader.
func (r *Reader) Connect() error {
	card, err := r.ctx.Connect(r.name, scard.ShareExclusive, scard.ProtocolAny)
	if err != nil {
		return fmt.Errorf("failed to connect to card: %w", err)
	}
	r.card = card
	return nil
}

// ATR returns the answer-to-reset of the connected card.
func (r *Reader) ATR() ([]byte, error) {
	if r.card == nil {
		return nil, ErrNoCard
	}
	status, err := r.card.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read card status: %w", err)
	}
	return status.Atr, nil
}

// Transmit exchanges one raw APDU with the card. The response includes
// the status word.
func (r *Reader) Transmit(cmd []byte) ([]byte, error) {
	if r.card == nil {
		return nil, ErrNoCard
	}
	log.Debugf("-> %X", cmd)
	resp, err := r.card.Transmit(cmd)
	if err != nil {
		return nil, err
	}
	log.Debugf("<- %X", resp)
	return resp, nil
}

// Close unpowers the card and releases the context. Safe to call in any
// state.
func (r *Reader) Close() error {
	if r.card != nil {
		if err := r.card.Disconnect(scard.UnpowerCard); err != nil {
			log.Debugf("disconnect: %v", err)
		}
		r.card = nil
	}
	if r.ctx != nil {
		err := r.ctx.Release()
		r.ctx = nil
		return err
	}
	return nil
}
