package node

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"

	"github.com/INFURA/go-ethlibs/jsonrpc"
	"github.com/INFURA/go-ethlibs/node"
	"github.com/pkg/errors"
)

// RPC is a raw JSON-RPC connection used for node checks before the
// transacting client is set up.
type RPC struct {
	node.Client
}

// NewRPC connects RPC client to the given URL.
func NewRPC(ctx context.Context, rawurl string) (*RPC, error) {
	client, err := node.NewClient(ctx, rawurl)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", rawurl)
	}
	return &RPC{client}, nil
}

func (c *RPC) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if result != nil && reflect.TypeOf(result).Kind() != reflect.Ptr {
		return fmt.Errorf("call result parameter must be pointer or nil interface: %v", result)
	}

	request := jsonrpc.Request{
		ID:     jsonrpc.ID{Num: 1},
		Method: method,
		Params: jsonrpc.MustParams(args...),
	}

	response, err := c.Request(ctx, &request)
	if err != nil {
		return err
	}

	if response.Error != nil {
		return errors.New(string(*response.Error))
	}
	return json.Unmarshal(response.Result, &result)
}

type Big big.Int

func (b *Big) UnmarshalJSON(input []byte) error {
	if len(input) < 2 || input[0] != '"' {
		return fmt.Errorf("invalid quantity %s", input)
	}
	v, ok := new(big.Int).SetString(string(input[1:len(input)-1]), 0)
	if !ok {
		return fmt.Errorf("invalid quantity %s", input)
	}
	*b = Big(*v)
	return nil
}

func (c *RPC) ChainID(ctx context.Context) (*big.Int, error) {
	var id Big
	if err := c.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return nil, errors.Wrap(err, "eth_chainId")
	}
	return (*big.Int)(&id), nil
}

// CheckChainID dials rawurl and checks that the node serves chain want.
func CheckChainID(ctx context.Context, rawurl string, want int64) error {
	rpc, err := NewRPC(ctx, rawurl)
	if err != nil {
		return err
	}
	got, err := rpc.ChainID(ctx)
	if err != nil {
		return err
	}
	if got.Cmp(big.NewInt(want)) != 0 {
		return errors.Errorf("node at %s serves chain %s, configured %d", rawurl, got, want)
	}
	return nil
}
