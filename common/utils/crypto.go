package utils

import (
	"crypto/elliptic"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

// PubkeyToAddress public key to address
func PubkeyToAddress(p *secp256k1.PublicKey) common.Address {
	data := elliptic.Marshal(secp256k1.S256(), p.X(), p.Y())
	return common.BytesToAddress(Keccak256(data[1:])[12:])
}

// Sign signed with the private key, the last bit of the result is v, the value is 0 or 1
func Sign(digestHash []byte, prv *secp256k1.PrivateKey) ([]byte, error) {
	if len(digestHash) != 32 {
		return nil, fmt.Errorf("hash requires 32 bytes: %d", len(digestHash))
	}
	sig := ecdsa.SignCompact(prv, digestHash, false)
	// Subtract 27 from v and put it at the end
	return append(sig[1:65], sig[0]-27), nil
}

// SigToPub signature recovery public key
func SigToPub(hash, sig []byte) (*secp256k1.PublicKey, error) {
	s, _, err := ecdsa.RecoverCompact(append([]byte{sig[64] + 27}, sig[:64]...), hash)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Keccak256 Calculate Keccak256 return byte array (32 bytes)
func Keccak256(data ...[]byte) (h []byte) {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}

	return d.Sum(nil)
}

// HexToECDSA hexadecimal string restore private key object
func HexToECDSA(key string) (*secp256k1.PrivateKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(key, "0x"))
	if byteErr, ok := err.(hex.InvalidByteError); ok {
		return nil, fmt.Errorf("invalid hex character %q in private key", byte(byteErr))
	} else if err != nil {
		return nil, fmt.Errorf("invalid hex data for private key")
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	return secp256k1.PrivKeyFromBytes(b), nil
}

func personalHash(msg string) []byte {
	return Keccak256([]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)))
}

// SignMessage personal-signs msg and returns the 0x-prefixed signature with
// v as 27 or 28, the form wallets produce.
func SignMessage(msg string, prv *secp256k1.PrivateKey) (string, error) {
	sig, err := Sign(personalHash(msg), prv)
	if err != nil {
		return "", err
	}
	sig[64] += 27
	return "0x" + hex.EncodeToString(sig), nil
}

// RecoverAddress recovers the address from the signature. Only the low-s
// form is accepted, so a signature has exactly one valid encoding.
func RecoverAddress(msg string, hexSig string) (common.Address, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(hexSig, "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("signature is not hex: %v", err)
	}
	if len(sig) != 65 {
		return common.Address{}, fmt.Errorf("signature must be 65 bytes long")
	}
	if sig[64] != 27 && sig[64] != 28 {
		return common.Address{}, fmt.Errorf("invalid Ethereum signature (V is not 27 or 28)")
	}
	sig[64] -= 27
	r, sv := new(big.Int).SetBytes(sig[:32]), new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(sig[64], r, sv, true) {
		return common.Address{}, fmt.Errorf("invalid signature values")
	}
	rpk, err := SigToPub(personalHash(msg), sig)
	if err != nil {
		return common.Address{}, err
	}
	return PubkeyToAddress(rpk), nil
}
