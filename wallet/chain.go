package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"nftmarket/log"
)

// Sender sends native coin from the operator account. node.Client
// implements it.
type Sender interface {
	SendValue(ctx context.Context, to common.Address, amount *big.Int) (*types.Transaction, error)
}

// ChainPayer pays ledger payouts on chain. A payout counts as done once the
// node accepts the transaction; rejections surface during gas estimation.
type ChainPayer struct {
	sender Sender
}

func NewChainPayer(sender Sender) *ChainPayer {
	return &ChainPayer{sender: sender}
}

func (p *ChainPayer) Pay(ctx context.Context, to common.Address, amount *big.Int) error {
	tx, err := p.sender.SendValue(ctx, to, amount)
	if err != nil {
		return errors.Wrapf(err, "pay %s to %s", amount, to.Hex())
	}
	log.Infof("paid %s wei to %s in tx %s", amount, to.Hex(), tx.Hash().Hex())
	return nil
}
