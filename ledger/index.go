package ledger

import (
	"time"

	"github.com/google/btree"
)

// deadline orders active auctions by end time, then id.
type deadline struct {
	end time.Time
	id  uint64
}

func lessDeadline(a, b deadline) bool {
	if !a.end.Equal(b.end) {
		return a.end.Before(b.end)
	}
	return a.id < b.id
}

func newDeadlineIndex() *btree.BTreeG[deadline] {
	return btree.NewG[deadline](16, lessDeadline)
}

// slot is the open record holding an asset.
type slot struct {
	auction bool
	id      uint64
}

// Expired returns the active auctions whose end time is at or before now,
// earliest first.
func (l *Ledger) Expired(now time.Time) []Auction {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Auction
	l.deadlines.Ascend(func(d deadline) bool {
		if d.end.After(now) {
			return false
		}
		if a, ok := l.auctions[d.id]; ok && a.Active {
			out = append(out, copyAuction(a))
		}
		return true
	})
	return out
}

// NextDeadline returns the earliest end time among active auctions.
func (l *Ledger) NextDeadline() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, ok := l.deadlines.Min()
	return d.end, ok
}
