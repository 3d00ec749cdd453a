// Package node gives the market access to a chain node: a transacting
// client holding the operator key and a raw RPC chain check.
package node

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

var ErrTxFailed = errors.New("transaction reverted")

// Client signs and sends transactions as the market operator.
type Client struct {
	eth     *ethclient.Client
	key     *ecdsa.PrivateKey
	addr    common.Address
	chainID *big.Int
	signer  types.Signer
}

// Dial connects to rawurl. key is the operator key as parsed by
// utils.HexToECDSA.
func Dial(ctx context.Context, rawurl string, key *secp256k1.PrivateKey, chainID int64) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", rawurl)
	}
	prv, err := crypto.ToECDSA(key.Serialize())
	if err != nil {
		eth.Close()
		return nil, errors.Wrap(err, "operator key")
	}
	id := big.NewInt(chainID)
	return &Client{
		eth:     eth,
		key:     prv,
		addr:    crypto.PubkeyToAddress(prv.PublicKey),
		chainID: id,
		signer:  types.LatestSignerForChainID(id),
	}, nil
}

// Address of the operator account.
func (c *Client) Address() common.Address {
	return c.addr
}

// Backend is what contract bindings call through.
func (c *Client) Backend() bind.ContractBackend {
	return c.eth
}

// TransactOpts returns signing options for contract calls made by the
// operator.
func (c *Client) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}

// SendValue sends amount of native coin from the operator to to. Gas is
// estimated first, so a recipient that rejects value fails here instead of
// on chain.
func (c *Client) SendValue(ctx context.Context, to common.Address, amount *big.Int) (*types.Transaction, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, c.addr)
	if err != nil {
		return nil, errors.Wrap(err, "nonce")
	}
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "gas price")
	}
	gas, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{From: c.addr, To: &to, Value: amount})
	if err != nil {
		return nil, errors.Wrap(err, "estimate gas")
	}
	tx := types.NewTransaction(nonce, to, amount, gas, gasPrice, nil)
	signedTx, err := types.SignTx(tx, c.signer, c.key)
	if err != nil {
		return nil, err
	}
	if err := c.eth.SendTransaction(ctx, signedTx); err != nil {
		return nil, errors.Wrap(err, "send transaction")
	}
	return signedTx, nil
}

// Wait blocks until tx is mined and fails if it reverted.
func (c *Client) Wait(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, errors.Wrapf(ErrTxFailed, "tx %s", tx.Hash().Hex())
	}
	return receipt, nil
}

// BlockNumber returns the latest block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.eth.BlockNumber(ctx)
}

func (c *Client) BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error) {
	return c.eth.BlockByNumber(ctx, number)
}

func (c *Client) Close() {
	c.eth.Close()
}
