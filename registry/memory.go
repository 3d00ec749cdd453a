// Package registry provides asset registries the ledger queries for
// ownership and approval and asks to move assets.
package registry

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	ErrNonexistentToken = errors.New("nonexistent token")
	ErrNotAuthorized    = errors.New("transfer not authorized")
	ErrTransferRefused  = errors.New("transfer refused")
)

type token struct {
	collection common.Address
	id         string
}

// Memory is an ERC-721 style registry kept in memory. Approval follows the
// ERC-721 rules: a per-token approved address, or an operator approved for
// all of the owner's tokens in a collection.
type Memory struct {
	mu        sync.Mutex
	owners    map[token]common.Address
	approved  map[token]common.Address
	operators map[common.Address]map[common.Address]map[common.Address]bool // collection -> owner -> operator
	market    common.Address
	refuse    bool
}

// NewMemory returns an empty registry whose transfers are made by market, so
// market must be approved for every token it moves.
func NewMemory(market common.Address) *Memory {
	return &Memory{
		market:    market,
		owners:    make(map[token]common.Address),
		approved:  make(map[token]common.Address),
		operators: make(map[common.Address]map[common.Address]map[common.Address]bool),
	}
}

func key(collection common.Address, tokenID *big.Int) token {
	return token{collection: collection, id: tokenID.String()}
}

// Mint creates tokenID in collection owned by to.
func (m *Memory) Mint(collection common.Address, tokenID *big.Int, to common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(collection, tokenID)
	if _, ok := m.owners[k]; ok {
		return errors.Errorf("token %s already minted", tokenID)
	}
	m.owners[k] = to
	return nil
}

// Approve sets the per-token approved address. Only the owner may call it.
func (m *Memory) Approve(collection common.Address, tokenID *big.Int, owner, operator common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(collection, tokenID)
	cur, ok := m.owners[k]
	if !ok {
		return errors.Wrapf(ErrNonexistentToken, "token %s", tokenID)
	}
	if cur != owner {
		return errors.Wrapf(ErrNotAuthorized, "%s does not own token %s", owner.Hex(), tokenID)
	}
	m.approved[k] = operator
	return nil
}

// SetApprovalForAll approves or revokes operator for every token owner holds
// in collection.
func (m *Memory) SetApprovalForAll(collection, owner, operator common.Address, approved bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byOwner, ok := m.operators[collection]
	if !ok {
		byOwner = make(map[common.Address]map[common.Address]bool)
		m.operators[collection] = byOwner
	}
	ops, ok := byOwner[owner]
	if !ok {
		ops = make(map[common.Address]bool)
		byOwner[owner] = ops
	}
	ops[operator] = approved
}

// RefuseTransfers makes every Transfer fail until called with false.
func (m *Memory) RefuseTransfers(refuse bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refuse = refuse
}

func (m *Memory) OwnerOf(_ context.Context, collection common.Address, tokenID *big.Int) (common.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, ok := m.owners[key(collection, tokenID)]
	if !ok {
		return common.Address{}, errors.Wrapf(ErrNonexistentToken, "token %s", tokenID)
	}
	return owner, nil
}

func (m *Memory) IsApprovedForTransfer(_ context.Context, collection common.Address, tokenID *big.Int, operator common.Address) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(collection, tokenID)
	owner, ok := m.owners[k]
	if !ok {
		return false, errors.Wrapf(ErrNonexistentToken, "token %s", tokenID)
	}
	return m.canMove(k, owner, operator), nil
}

func (m *Memory) canMove(k token, owner, operator common.Address) bool {
	if operator == owner {
		return true
	}
	if a, ok := m.approved[k]; ok && a == operator {
		return true
	}
	return m.operators[k.collection][owner][operator]
}

// Transfer moves the token from -> to on behalf of the market. from must be
// the current owner and the market must still be approved. The per-token
// approval is cleared, as ERC-721 does.
func (m *Memory) Transfer(_ context.Context, collection common.Address, tokenID *big.Int, from, to common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refuse {
		return ErrTransferRefused
	}
	k := key(collection, tokenID)
	owner, ok := m.owners[k]
	if !ok {
		return errors.Wrapf(ErrNonexistentToken, "token %s", tokenID)
	}
	if owner != from {
		return errors.Wrapf(ErrNotAuthorized, "%s does not own token %s", from.Hex(), tokenID)
	}
	if !m.canMove(k, owner, m.market) {
		return errors.Wrapf(ErrNotAuthorized, "market not approved for token %s", tokenID)
	}
	m.owners[k] = to
	delete(m.approved, k)
	return nil
}
