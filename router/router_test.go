package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nftmarket/common/utils"
	"nftmarket/database"
	"nftmarket/ledger"
	"nftmarket/middleware"
	"nftmarket/registry"
	"nftmarket/service"
	"nftmarket/wallet"
)

var (
	operator   = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	collection = common.HexToAddress("0x00000000000000000000000000000000000000c1")
)

func init() {
	gin.SetMode(gin.TestMode)
}

type account struct {
	key  *secp256k1.PrivateKey
	addr common.Address
}

func newAccount(t *testing.T) account {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	return account{key: key, addr: utils.PubkeyToAddress(key.PubKey())}
}

type server struct {
	t      *testing.T
	engine *gin.Engine
	market *service.Market
	reg    *registry.Memory
	now    time.Time
	nonce  int64
}

func newServer(t *testing.T) *server {
	return newServerWith(t, Options{AuthWindow: time.Hour, RateLimit: 1000, RateBurst: 1000})
}

func newServerWith(t *testing.T, opts Options) *server {
	store, err := database.Open(database.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	s := &server{t: t, reg: registry.NewMemory(operator), now: time.Unix(1700000000, 0)}
	book := wallet.NewBook()
	l, err := ledger.New(ledger.Config{Registry: s.reg, Payer: book, Journal: store, Operator: operator})
	require.NoError(t, err)
	s.market, err = service.NewMarket(service.Config{
		Ledger: l, Book: book, Store: store, AllowDeposit: true,
		Now: func() time.Time { return s.now },
	})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s.engine = New(ctx, s.market, opts)
	return s
}

// do sends a request, signed by from when from is not nil, and decodes the
// JSON response into out.
func (s *server) do(method, path string, from *account, body interface{}, out interface{}) int {
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(s.t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if from != nil {
		// distinct timestamps keep repeated requests from looking like replays
		s.nonce++
		require.NoError(s.t, middleware.SignRequest(req, raw, s.now.Unix()+s.nonce, from.key))
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func (s *server) mint(id int64, to account) {
	require.NoError(s.t, s.reg.Mint(collection, big.NewInt(id), to.addr))
	s.reg.SetApprovalForAll(collection, to.addr, operator, true)
}

func (s *server) deposit(to account, wei string) {
	code := s.do(http.MethodPost, "/wallet/deposit", &to, map[string]string{"amount": wei}, nil)
	require.Equal(s.t, http.StatusOK, code)
}

const oneEther = "1000000000000000000"

func TestListingOverHTTP(t *testing.T) {
	s := newServer(t)
	seller, buyer := newAccount(t), newAccount(t)
	s.mint(1, seller)
	s.deposit(buyer, "3000000000000000000")

	var id service.IDRes
	code := s.do(http.MethodPost, "/listing", &seller, map[string]string{
		"collection": collection.Hex(), "token_id": "1", "price": oneEther,
	}, &id)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, id.ID)

	var errRes service.ErrRes
	code = s.do(http.MethodPost, "/listing", &seller, map[string]string{
		"collection": collection.Hex(), "token_id": "1", "price": oneEther,
	}, &errRes)
	assert.Equal(t, http.StatusConflict, code, errRes.ErrStr)

	code = s.do(http.MethodPost, "/listing", &seller, map[string]string{
		"collection": collection.Hex(), "token_id": "1", "price": "0",
	}, &errRes)
	assert.Equal(t, http.StatusBadRequest, code)

	code = s.do(http.MethodPost, "/listing/0/cancel", &buyer, nil, &errRes)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, errRes.ErrStr, "not seller")

	code = s.do(http.MethodPost, "/listing/0/buy", &buyer, map[string]string{"paid": "1"}, &errRes)
	assert.Equal(t, http.StatusBadRequest, code)

	var listing service.ListingRes
	code = s.do(http.MethodPost, "/listing/0/buy", &buyer, map[string]string{"paid": oneEther}, &listing)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, listing.Active)
	assert.Equal(t, buyer.addr.Hex(), listing.Buyer)
	assert.Equal(t, "1", listing.PriceEther)

	code = s.do(http.MethodPost, "/listing/0/buy", &buyer, map[string]string{"paid": oneEther}, &errRes)
	assert.Equal(t, http.StatusConflict, code)

	var points service.PointsRes
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/loyalty/"+seller.addr.Hex(), nil, nil, &points))
	assert.EqualValues(t, 10, points.Points)

	var w service.WalletRes
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/wallet/"+buyer.addr.Hex(), nil, nil, &w))
	assert.Equal(t, "2000000000000000000", string(w.Balance))

	var page service.ListingsRes
	path := fmt.Sprintf("/listing/page?seller=%s&active=false", seller.addr.Hex())
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, path, nil, nil, &page))
	assert.EqualValues(t, 1, page.Total)

	var sales service.SalesRes
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/sale/page?buyer="+buyer.addr.Hex(), nil, nil, &sales))
	assert.EqualValues(t, 1, sales.Total)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/listing/7", nil, nil, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/listing/x", nil, nil, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/listing/page?seller=bob", nil, nil, nil))
}

func TestAuctionOverHTTP(t *testing.T) {
	s := newServer(t)
	seller, alice, bob := newAccount(t), newAccount(t), newAccount(t)
	s.mint(5, seller)
	s.deposit(alice, "5000000000000000000")
	s.deposit(bob, "5000000000000000000")

	var id service.IDRes
	code := s.do(http.MethodPost, "/auction", &seller, map[string]interface{}{
		"collection": collection.Hex(), "token_id": "5", "min_bid": oneEther, "duration": 3600,
	}, &id)
	require.Equal(t, http.StatusOK, code)

	var a service.AuctionRes
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/auction/0/bid", &alice, map[string]string{"amount": oneEther}, &a))
	assert.Equal(t, alice.addr.Hex(), a.HighestBidder)

	var errRes service.ErrRes
	code = s.do(http.MethodPost, "/auction/0/bid", &bob, map[string]string{"amount": oneEther}, &errRes)
	assert.Equal(t, http.StatusBadRequest, code, errRes.ErrStr)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/auction/0/bid", &bob, map[string]string{"amount": "2000000000000000000"}, &a))
	assert.Equal(t, "2000000000000000000", string(a.Held))

	code = s.do(http.MethodPost, "/auction/0/end", &alice, nil, &errRes)
	assert.Equal(t, http.StatusConflict, code)

	s.now = s.now.Add(time.Hour)
	code = s.do(http.MethodPost, "/auction/0/bid", &alice, map[string]string{"amount": "3000000000000000000"}, &errRes)
	assert.Equal(t, http.StatusConflict, code, "bid after the end time")

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/auction/0/end", &alice, nil, &a))
	assert.Equal(t, "settled", a.State)
	assert.Equal(t, "0", string(a.Held))

	owner, err := s.reg.OwnerOf(context.Background(), collection, big.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, bob.addr, owner)

	var page service.AuctionsRes
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/auction/page?state=settled", nil, nil, &page))
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/auction/page?state=open", nil, nil, nil))
}

func TestWithdrawOverHTTP(t *testing.T) {
	s := newServer(t)
	alice := newAccount(t)
	var errRes service.ErrRes
	code := s.do(http.MethodPost, "/wallet/withdraw", &alice, nil, &errRes)
	assert.Equal(t, http.StatusConflict, code)
}

func TestSignedRoutesNeedSignature(t *testing.T) {
	s := newServer(t)
	for _, path := range []string{"/listing", "/listing/0/buy", "/auction", "/auction/0/end", "/wallet/deposit", "/wallet/withdraw"} {
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, path, nil, map[string]string{}, nil), path)
	}
}

func TestMetricsAndDocs(t *testing.T) {
	s := newServer(t)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nftmarket_")

	rec = httptest.NewRecorder()
	s.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/listing/{id}/buy")
}

func TestRateLimitBuckets(t *testing.T) {
	s := newServerWith(t, Options{AuthWindow: time.Hour, RateLimit: 0.001, RateBurst: 2})
	caller := newAccount(t)
	send := func(ip string, signed bool) int {
		body := []byte(`{"amount":"1"}`)
		req := httptest.NewRequest(http.MethodPost, "/wallet/deposit", bytes.NewReader(body))
		if !signed {
			req = httptest.NewRequest(http.MethodGet, "/loyalty/"+caller.addr.Hex(), nil)
		} else {
			s.nonce++
			require.NoError(t, middleware.SignRequest(req, body, s.now.Unix()+s.nonce, caller.key))
		}
		req.RemoteAddr = ip + ":4000"
		rec := httptest.NewRecorder()
		s.engine.ServeHTTP(rec, req)
		return rec.Code
	}

	// the caller's bucket follows it across ips
	assert.Equal(t, http.StatusOK, send("10.0.0.1", true))
	assert.Equal(t, http.StatusOK, send("10.0.0.2", true))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.3", true))

	// signed requests also drew from the ip bucket
	assert.Equal(t, http.StatusOK, send("10.0.0.1", false))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1", false))
}

func TestEventFeed(t *testing.T) {
	s := newServer(t)
	seller, buyer := newAccount(t), newAccount(t)
	s.mint(1, seller)
	s.mint(2, seller)
	s.deposit(buyer, oneEther)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/listing", &seller, map[string]string{
		"collection": collection.Hex(), "token_id": "1", "price": oneEther,
	}, nil))

	srv := httptest.NewServer(s.engine)
	defer srv.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/events", nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var ev service.EventRes
	require.NoError(t, conn.ReadJSON(&ev))
	assert.EqualValues(t, 1, ev.Seq)
	assert.Equal(t, string(ledger.EventListed), ev.Kind)
	assert.Equal(t, oneEther, string(ev.Amount))

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/listing/0/buy", &buyer, map[string]string{"paid": oneEther}, nil))
	require.NoError(t, conn.ReadJSON(&ev))
	assert.EqualValues(t, 2, ev.Seq)
	assert.Equal(t, string(ledger.EventListingSold), ev.Kind)
	assert.Equal(t, buyer.addr.Hex(), ev.To)
	assert.EqualValues(t, 10, ev.Points)
}
