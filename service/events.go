package service

import (
	"context"

	"nftmarket/common/types"
	"nftmarket/ledger"
)

// EventRes ledger event as sent on the event feed
type EventRes struct {
	Seq        uint64       `json:"seq"`
	Kind       string       `json:"kind"`
	At         int64        `json:"at"` //unix seconds
	RecordID   uint64       `json:"record_id"`
	Collection string       `json:"collection,omitempty"`
	TokenID    types.BigInt `json:"token_id,omitempty"`
	From       string       `json:"from,omitempty"`
	To         string       `json:"to,omitempty"`
	Amount     types.BigInt `json:"amount,omitempty"`   //unit wei
	Deadline   int64        `json:"deadline,omitempty"` //auction end time, unix seconds
	Points     uint64       `json:"points,omitempty"`
}

func NewEventRes(ev ledger.Event) EventRes {
	res := EventRes{
		Seq:        ev.Seq,
		Kind:       string(ev.Kind),
		At:         ev.At.Unix(),
		RecordID:   ev.RecordID,
		Collection: address(ev.Collection),
		From:       address(ev.From),
		To:         address(ev.To),
		Deadline:   unix(ev.Deadline),
		Points:     ev.Points,
	}
	if ev.TokenID != nil {
		res.TokenID = types.NewBigInt(ev.TokenID)
	}
	if ev.Amount != nil {
		res.Amount = types.NewBigInt(ev.Amount)
	}
	return res
}

// History returns up to limit stored events after seq.
func (m *Market) History(ctx context.Context, after uint64, limit int) ([]ledger.Event, error) {
	return m.store.EventsAfter(ctx, after, limit)
}

// Subscribe follows the live events of the ledger.
func (m *Market) Subscribe(buffer int) (<-chan ledger.Event, func()) {
	return m.ledger.Subscribe(buffer)
}
