package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

const orderSequenceName = "order"

// IDGenerator mints order ids and the reference payload printed as the
// receipt QR code.
type IDGenerator interface {
	NextOrderID(ctx context.Context) (string, error)
	Reference(orderID string) string
}

type sequencer interface {
	NextSequence(ctx context.Context, name string) (int64, error)
}

// SequenceIDs numbers orders from a counter. With a Redis backed sequencer
// the numbering survives restarts; without one it is unique per process.
type SequenceIDs struct {
	seq     sequencer
	local   atomic.Int64
	baseURL string
	newUUID func() uuid.UUID
}

// NewSequenceIDs builds a generator. seq may be nil.
func NewSequenceIDs(seq sequencer, baseURL string) *SequenceIDs {
	return &SequenceIDs{
		seq:     seq,
		baseURL: strings.TrimRight(baseURL, "/"),
		newUUID: uuid.New,
	}
}

func (g *SequenceIDs) NextOrderID(ctx context.Context) (string, error) {
	var n int64
	if g.seq != nil {
		next, err := g.seq.NextSequence(ctx, orderSequenceName)
		if err != nil {
			return "", fmt.Errorf("next order sequence: %w", err)
		}
		n = next
	} else {
		n = g.local.Add(1)
	}
	return FormatOrderID(n), nil
}

// Reference links to the hosted receipt. The random suffix keeps the link
// unguessable from the order number.
func (g *SequenceIDs) Reference(orderID string) string {
	return fmt.Sprintf("%s/%s?order=%s", g.baseURL, g.newUUID(), orderID)
}

// FormatOrderID renders a sequence number as an order id, e.g. ORD-000042.
func FormatOrderID(n int64) string {
	return fmt.Sprintf("ORD-%06d", n)
}
