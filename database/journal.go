package database

import (
	"context"
	"math"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nftmarket/ledger"
	"nftmarket/model"
)

// Append implements ledger.Journal. Events already stored are skipped, so a
// batch retried after a partial failure is applied once. Balances changed
// by the operation are stored in the same transaction.
func (s *Store) Append(ctx context.Context, events []ledger.Event) error {
	if len(events) == 0 {
		return nil
	}
	return s.commit(ctx, func(tx *gorm.DB) error {
		var last uint64
		err := tx.Model(&model.Event{}).Select("COALESCE(MAX(seq), 0)").Scan(&last).Error
		if err != nil {
			return errors.Wrap(err, "last seq")
		}
		for i := range events {
			ev := &events[i]
			if ev.Seq <= last {
				continue
			}
			row := toRow(ev)
			if err := tx.Create(&row).Error; err != nil {
				return errors.Wrapf(err, "insert event %d", ev.Seq)
			}
			if err := project(tx, ev); err != nil {
				return errors.Wrapf(err, "project event %d (%s)", ev.Seq, ev.Kind)
			}
		}
		return nil
	})
}

// Events returns the whole journal in sequence order.
func (s *Store) Events(ctx context.Context) ([]ledger.Event, error) {
	return s.EventsAfter(ctx, 0, -1)
}

// EventsAfter returns up to limit events with seq > after, in order. A
// negative limit returns all of them.
func (s *Store) EventsAfter(ctx context.Context, after uint64, limit int) ([]ledger.Event, error) {
	var rows []model.Event
	err := s.DB.WithContext(ctx).Where("seq > ?", after).Order("seq ASC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	events := make([]ledger.Event, 0, len(rows))
	for i := range rows {
		ev, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func toRow(ev *ledger.Event) model.Event {
	row := model.Event{
		Seq:        ev.Seq,
		Kind:       string(ev.Kind),
		Timestamp:  ev.At.UnixNano(),
		RecordID:   ev.RecordID,
		Collection: ev.Collection.Hex(),
		From:       ev.From.Hex(),
		To:         ev.To.Hex(),
		Points:     ev.Points,
	}
	if ev.TokenID != nil {
		s := ev.TokenID.String()
		row.TokenID = &s
	}
	if ev.Amount != nil {
		s := ev.Amount.String()
		row.Amount = &s
	}
	if !ev.Deadline.IsZero() {
		row.Deadline = ev.Deadline.UnixNano()
	}
	return row
}

func fromRow(row *model.Event) (ledger.Event, error) {
	ev := ledger.Event{
		Seq:        row.Seq,
		Kind:       ledger.EventKind(row.Kind),
		At:         time.Unix(0, row.Timestamp).UTC(),
		RecordID:   row.RecordID,
		Collection: common.HexToAddress(row.Collection),
		From:       common.HexToAddress(row.From),
		To:         common.HexToAddress(row.To),
		Points:     row.Points,
	}
	var ok bool
	if row.TokenID != nil {
		if ev.TokenID, ok = new(big.Int).SetString(*row.TokenID, 10); !ok {
			return ev, errors.Errorf("event %d: bad token id %q", row.Seq, *row.TokenID)
		}
	}
	if row.Amount != nil {
		if ev.Amount, ok = new(big.Int).SetString(*row.Amount, 10); !ok {
			return ev, errors.Errorf("event %d: bad amount %q", row.Seq, *row.Amount)
		}
	}
	if row.Deadline != 0 {
		ev.Deadline = time.Unix(0, row.Deadline).UTC()
	}
	return ev, nil
}

// project updates the read models for one event.
func project(tx *gorm.DB, ev *ledger.Event) error {
	at := ev.At.Unix()
	switch ev.Kind {
	case ledger.EventListed:
		return tx.Create(&model.Listing{
			ID:         ev.RecordID,
			Collection: ev.Collection.Hex(),
			TokenID:    ev.TokenID.String(),
			Seller:     ev.From.Hex(),
			Price:      ev.Amount.String(),
			Active:     true,
			CreatedAt:  at,
		}).Error

	case ledger.EventListingSold:
		err := tx.Model(&model.Listing{}).Where("id = ?", ev.RecordID).Updates(map[string]interface{}{
			"active": false, "buyer": ev.To.Hex(), "closed_at": at,
		}).Error
		if err != nil {
			return err
		}
		return recordSale(tx, ev, "listing")

	case ledger.EventListingCanceled, ledger.EventListingSuperseded:
		return tx.Model(&model.Listing{}).Where("id = ?", ev.RecordID).Updates(map[string]interface{}{
			"active": false, "closed_at": at,
		}).Error

	case ledger.EventAuctionStarted:
		return tx.Create(&model.Auction{
			ID:         ev.RecordID,
			Collection: ev.Collection.Hex(),
			TokenID:    ev.TokenID.String(),
			Seller:     ev.From.Hex(),
			MinBid:     ev.Amount.String(),
			HighestBid: "0",
			Held:       "0",
			EndTime:    ev.Deadline.Unix(),
			State:      string(ledger.AuctionActive),
			CreatedAt:  at,
		}).Error

	case ledger.EventBidPlaced:
		var a model.Auction
		if err := tx.Where("id = ?", ev.RecordID).First(&a).Error; err != nil {
			return err
		}
		held := addDecimal(a.Held, ev.Amount)
		return tx.Model(&model.Auction{}).Where("id = ?", ev.RecordID).Updates(map[string]interface{}{
			"highest_bid": ev.Amount.String(), "highest_bidder": ev.From.Hex(),
			"bids": a.Bids + 1, "held": held,
		}).Error

	case ledger.EventBidRefunded:
		return adjustHeld(tx, ev.RecordID, new(big.Int).Neg(ev.Amount), nil)

	case ledger.EventAuctionSettled:
		state := string(ledger.AuctionSettled)
		if err := adjustHeld(tx, ev.RecordID, new(big.Int).Neg(ev.Amount), &state); err != nil {
			return err
		}
		return recordSale(tx, ev, "auction")

	case ledger.EventAuctionVoided:
		return tx.Model(&model.Auction{}).Where("id = ?", ev.RecordID).Update("state", string(ledger.AuctionVoided)).Error

	case ledger.EventCreditAccrued:
		return adjustCredit(tx, ev.To, ev.Amount)

	case ledger.EventWithdrawn:
		return adjustCredit(tx, ev.To, new(big.Int).Neg(ev.Amount))
	}
	return nil
}

func recordSale(tx *gorm.DB, ev *ledger.Event, kind string) error {
	err := tx.Create(&model.Sale{
		Seq:        ev.Seq,
		Kind:       kind,
		RecordID:   ev.RecordID,
		Collection: ev.Collection.Hex(),
		TokenID:    ev.TokenID.String(),
		Seller:     ev.From.Hex(),
		Buyer:      ev.To.Hex(),
		Price:      ev.Amount.String(),
		Points:     ev.Points,
		Timestamp:  ev.At.Unix(),
	}).Error
	if err != nil {
		return err
	}
	if err := addPoints(tx, ev.From, ev.Points); err != nil {
		return err
	}
	return addPoints(tx, ev.To, ev.Points)
}

func adjustHeld(tx *gorm.DB, id uint64, delta *big.Int, state *string) error {
	var a model.Auction
	if err := tx.Where("id = ?", id).First(&a).Error; err != nil {
		return err
	}
	updates := map[string]interface{}{"held": addDecimal(a.Held, delta)}
	if state != nil {
		updates["state"] = *state
	}
	return tx.Model(&model.Auction{}).Where("id = ?", id).Updates(updates).Error
}

func adjustCredit(tx *gorm.DB, addr common.Address, delta *big.Int) error {
	var c model.Credit
	err := tx.Where("address = ?", addr.Hex()).Limit(1).Find(&c).Error
	if err != nil {
		return err
	}
	c.Address = addr.Hex()
	c.Amount = addDecimal(c.Amount, delta)
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&c).Error
}

func addPoints(tx *gorm.DB, addr common.Address, points uint64) error {
	var acc model.LoyaltyAccount
	err := tx.Where("address = ?", addr.Hex()).Limit(1).Find(&acc).Error
	if err != nil {
		return err
	}
	acc.Address = addr.Hex()
	if points > math.MaxUint64-acc.Points {
		acc.Points = math.MaxUint64
	} else {
		acc.Points += points
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&acc).Error
}

// addDecimal adds delta to a base-10 amount string. An empty or unparsable
// string counts as zero.
func addDecimal(cur string, delta *big.Int) string {
	v, ok := new(big.Int).SetString(cur, 10)
	if !ok {
		v = new(big.Int)
	}
	return v.Add(v, delta).String()
}
