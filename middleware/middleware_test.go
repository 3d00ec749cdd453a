package middleware

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nftmarket/common/utils"
)

var now = time.Unix(1700000000, 0)

func init() {
	gin.SetMode(gin.TestMode)
}

func newKey(t *testing.T) *secp256k1.PrivateKey {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	return key
}

func authEngine() *gin.Engine {
	r := gin.New()
	r.POST("/echo", Auth(time.Minute, func() time.Time { return now }), func(c *gin.Context) {
		caller, _ := Caller(c)
		body := new(bytes.Buffer)
		_, _ = body.ReadFrom(c.Request.Body)
		c.JSON(http.StatusOK, gin.H{"caller": caller.Hex(), "body": body.String()})
	})
	return r
}

func signed(t *testing.T, key *secp256k1.PrivateKey, body string, ts int64) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(body))
	require.NoError(t, SignRequest(req, []byte(body), ts, key))
	return req
}

func TestAuthAcceptsSignedRequest(t *testing.T) {
	key := newKey(t)
	rec := httptest.NewRecorder()
	authEngine().ServeHTTP(rec, signed(t, key, `{"price":"1"}`, now.Unix()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), utils.PubkeyToAddress(key.PubKey()).Hex())
	assert.Contains(t, rec.Body.String(), `price`)
}

func TestAuthRejects(t *testing.T) {
	key, other := newKey(t), newKey(t)
	r := authEngine()

	cases := map[string]*http.Request{
		"stale":    signed(t, key, `{}`, now.Add(-2*time.Minute).Unix()),
		"future":   signed(t, key, `{}`, now.Add(2*time.Minute).Unix()),
		"unsigned": httptest.NewRequest(http.MethodPost, "/echo", nil),
	}
	tampered := signed(t, key, `{"price":"1"}`, now.Unix())
	tampered.Body = httpBody(`{"price":"2"}`)
	cases["tampered body"] = tampered

	impostor := signed(t, key, `{}`, now.Unix())
	impostor.Header.Set(HeaderAddress, utils.PubkeyToAddress(other.PubKey()).Hex())
	cases["wrong address"] = impostor

	for name, req := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}

func TestAuthRejectsReplay(t *testing.T) {
	key := newKey(t)
	r := authEngine()
	first := signed(t, key, `{}`, now.Unix())
	again := signed(t, key, `{}`, now.Unix())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, again)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsMalleatedReplay(t *testing.T) {
	key := newKey(t)
	r := authEngine()
	first := signed(t, key, `{}`, now.Unix())
	sig, err := hex.DecodeString(strings.TrimPrefix(first.Header.Get(HeaderSignature), "0x"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	// the same signature in its high-s form, with the recovery id flipped
	n := secp256k1.S256().Params().N
	highS := new(big.Int).Sub(n, new(big.Int).SetBytes(sig[32:64]))
	highS.FillBytes(sig[32:64])
	sig[64] = 27 + 28 - sig[64]
	again := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(`{}`))
	again.Header = first.Header.Clone()
	again.Header.Set(HeaderSignature, "0x"+hex.EncodeToString(sig))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, again)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
}

func TestAuthBodyLimit(t *testing.T) {
	key := newKey(t)
	body := `{"pad":"` + strings.Repeat("a", MaxSignedBody) + `"}`
	rec := httptest.NewRecorder()
	authEngine().ServeHTTP(rec, signed(t, key, body, now.Unix()))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func httpBody(s string) *nopCloser {
	return &nopCloser{bytes.NewBufferString(s)}
}

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	r := gin.New()
	r.GET("/x", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	rl.Cleanup()
	assert.Len(t, rl.limiters, 1, "drained limiter must survive cleanup")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger(), Metrics(), Cors())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	id := rec.Header().Get(HeaderRequestID)
	assert.Len(t, id, 36)
	assert.Equal(t, id, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
