package registry

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

const erc721JSON = `[
{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"getApproved","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"address","name":"operator","type":"address"}],"name":"isApprovedForAll","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"from","type":"address"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"transferFrom","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var ERC721ABI abi.ABI

func init() {
	var err error
	ERC721ABI, err = abi.JSON(strings.NewReader(erc721JSON))
	if err != nil {
		panic(err)
	}
}

// Chain is the transacting side of a node connection. node.Client
// implements it.
type Chain interface {
	Backend() bind.ContractBackend
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
	Wait(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// ERC721 is a registry backed by ERC-721 contracts. Transfers are sent by
// the operator account and waited for, so a returned nil means the asset
// has moved on chain.
type ERC721 struct {
	chain Chain
}

func NewERC721(chain Chain) *ERC721 {
	return &ERC721{chain: chain}
}

func (r *ERC721) contract(address common.Address) *bind.BoundContract {
	b := r.chain.Backend()
	return bind.NewBoundContract(address, ERC721ABI, b, b, b)
}

func (r *ERC721) call(ctx context.Context, address common.Address, method string, params ...interface{}) (interface{}, error) {
	var out []interface{}
	err := r.contract(address).Call(&bind.CallOpts{Context: ctx}, &out, method, params...)
	if err != nil {
		return nil, errors.Wrapf(err, "%s on %s", method, address.Hex())
	}
	if len(out) == 0 {
		return nil, errors.Errorf("%s on %s: empty result", method, address.Hex())
	}
	return out[0], nil
}

func (r *ERC721) OwnerOf(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error) {
	out, err := r.call(ctx, collection, "ownerOf", tokenID)
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out, new(common.Address)).(*common.Address), nil
}

// IsApprovedForTransfer accepts either a per-token approval or an operator
// approval for all of the owner's tokens.
func (r *ERC721) IsApprovedForTransfer(ctx context.Context, collection common.Address, tokenID *big.Int, operator common.Address) (bool, error) {
	out, err := r.call(ctx, collection, "getApproved", tokenID)
	if err != nil {
		return false, err
	}
	if *abi.ConvertType(out, new(common.Address)).(*common.Address) == operator {
		return true, nil
	}
	owner, err := r.OwnerOf(ctx, collection, tokenID)
	if err != nil {
		return false, err
	}
	out, err = r.call(ctx, collection, "isApprovedForAll", owner, operator)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out, new(bool)).(*bool), nil
}

func (r *ERC721) Transfer(ctx context.Context, collection common.Address, tokenID *big.Int, from, to common.Address) error {
	opts, err := r.chain.TransactOpts(ctx)
	if err != nil {
		return err
	}
	tx, err := r.contract(collection).Transact(opts, "transferFrom", from, to, tokenID)
	if err != nil {
		return errors.Wrapf(err, "transferFrom token %s", tokenID)
	}
	if _, err := r.chain.Wait(ctx, tx); err != nil {
		return errors.Wrapf(err, "transferFrom token %s", tokenID)
	}
	return nil
}
