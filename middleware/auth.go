package middleware

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"nftmarket/common/utils"
	"nftmarket/log"
)

const (
	HeaderAddress   = "X-Address"
	HeaderTimestamp = "X-Timestamp"
	HeaderSignature = "X-Signature"

	callerKey = "caller"

	// MaxSignedBody caps the body of a signed request.
	MaxSignedBody = 1 << 20
)

// Message is the text a caller personal-signs for a request.
func Message(method, path string, timestamp int64, body []byte) string {
	return fmt.Sprintf("%s\n%s\n%d\n0x%s", method, path, timestamp, hex.EncodeToString(utils.Keccak256(body)))
}

// SignRequest sets the authentication headers on req, signed by key.
func SignRequest(req *http.Request, body []byte, timestamp int64, key *secp256k1.PrivateKey) error {
	sig, err := utils.SignMessage(Message(req.Method, req.URL.Path, timestamp, body), key)
	if err != nil {
		return err
	}
	req.Header.Set(HeaderAddress, utils.PubkeyToAddress(key.PubKey()).Hex())
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(timestamp, 10))
	req.Header.Set(HeaderSignature, sig)
	return nil
}

// Auth verifies the signature headers and stores the signer as the caller.
// Each signed request is accepted once while its timestamp is inside window.
func Auth(window time.Duration, now func() time.Time) gin.HandlerFunc {
	seen := &replayGuard{seen: make(map[string]time.Time)}
	return func(c *gin.Context) {
		claimed, err := utils.ParseAddress(c.GetHeader(HeaderAddress))
		if err != nil {
			abort(c, http.StatusUnauthorized, "X-Address: "+err.Error())
			return
		}
		ts, err := strconv.ParseInt(c.GetHeader(HeaderTimestamp), 10, 64)
		if err != nil {
			abort(c, http.StatusUnauthorized, "X-Timestamp must be unix seconds")
			return
		}
		signedAt := time.Unix(ts, 0)
		current := now()
		if signedAt.Before(current.Add(-window)) || signedAt.After(current.Add(window)) {
			abort(c, http.StatusUnauthorized, "request timestamp outside the accepted window")
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxSignedBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				abort(c, http.StatusRequestEntityTooLarge, err.Error())
				return
			}
			abort(c, http.StatusBadRequest, err.Error())
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		msg := Message(c.Request.Method, c.Request.URL.Path, ts, body)
		signer, err := utils.RecoverAddress(msg, c.GetHeader(HeaderSignature))
		if err != nil {
			abort(c, http.StatusUnauthorized, err.Error())
			return
		}
		if signer != claimed {
			log.WithFields(log.Fields{"claimed": claimed.Hex(), "signer": signer.Hex(), "path": c.Request.URL.Path}).
				Warn("signature does not match address")
			abort(c, http.StatusUnauthorized, "signature does not match X-Address")
			return
		}
		if !seen.first(signer.Hex()+"\n"+msg, signedAt.Add(window), current) {
			abort(c, http.StatusUnauthorized, "request already used")
			return
		}
		c.Set(callerKey, signer)
		c.Next()
	}
}

// Caller returns the authenticated caller of the request.
func Caller(c *gin.Context) (common.Address, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return common.Address{}, false
	}
	addr, ok := v.(common.Address)
	return addr, ok
}

// replayGuard remembers the signed requests already served, keyed by
// signer and signed message.
type replayGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// first reports whether key is new, remembering it until expires.
func (g *replayGuard) first(key string, expires, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for k, exp := range g.seen {
		if exp.Before(now) {
			delete(g.seen, k)
		}
	}
	if _, ok := g.seen[key]; ok {
		return false
	}
	g.seen[key] = expires
	return true
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"err_str": msg})
}
