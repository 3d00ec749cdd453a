// Package backend runs the background jobs of the market.
package backend

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/robfig/cron/v3"

	"nftmarket/ledger"
	"nftmarket/log"
	"nftmarket/monitor"
)

// Market is the part of the market service the keeper drives.
type Market interface {
	Sync(ctx context.Context) error
	Expired() []ledger.Auction
	End(ctx context.Context, id uint64, caller common.Address) error
}

// Keeper ends expired auctions on a schedule. Ending is permissionless, the
// keeper calls it as the operator.
type Keeper struct {
	market  Market
	caller  common.Address
	timeout time.Duration
	cron    *cron.Cron
}

func NewKeeper(market Market, caller common.Address) *Keeper {
	return &Keeper{
		market:  market,
		caller:  caller,
		timeout: 30 * time.Second,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Run schedules Settle with a cron spec such as "@every 15s" and starts the
// scheduler.
func (k *Keeper) Run(spec string) error {
	if _, err := k.cron.AddFunc(spec, func() { k.Settle(context.Background()) }); err != nil {
		return err
	}
	k.cron.Start()
	log.Infof("settlement keeper scheduled: %s", spec)
	return nil
}

// Stop stops the scheduler and waits for a running pass.
func (k *Keeper) Stop() {
	<-k.cron.Stop().Done()
}

// Settle stores events a failing journal left pending, then ends every
// expired auction once and returns how many it ended.
func (k *Keeper) Settle(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	ended, ok := 0, true
	if err := k.market.Sync(ctx); err != nil {
		ok = false
		log.Warnf("keeper could not store pending events: %v", err)
	}
	for _, a := range k.market.Expired() {
		err := k.market.End(ctx, a.ID, k.caller)
		switch {
		case err == nil:
			ended++
		case errors.Is(err, ledger.ErrAlreadySettled):
			// ended by someone else since Expired
		default:
			ok = false
			log.WithFields(log.Fields{"auction": a.ID, "err": err}).Warn("keeper could not end auction")
		}
	}
	monitor.RecordKeeperRun(ended, ok)
	if ended > 0 {
		log.Infof("keeper ended %d auctions", ended)
	}
	return ended
}
