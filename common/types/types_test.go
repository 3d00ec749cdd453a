package types

import (
	"encoding/json"
	"math/big"
	"testing"
)

func TestBigIntJSON(t *testing.T) {
	var v struct {
		A BigInt `json:"a"`
		B BigInt `json:"b"`
		C BigInt `json:"c"`
	}
	err := json.Unmarshal([]byte(`{"a":"1000000000000000000","b":"0x10","c":42}`), &v)
	if err != nil {
		t.Fatal(err)
	}
	if v.A != "1000000000000000000" || v.B != "16" || v.C != "42" {
		t.Error("parsed:", v)
	}
	if err := json.Unmarshal([]byte(`{"a":"1.5"}`), &v); err == nil {
		t.Error("fraction accepted")
	}
}

func TestBigIntInt(t *testing.T) {
	n, err := BigInt("255").Int()
	if err != nil || n.Int64() != 255 {
		t.Error(n, err)
	}
	if _, err := BigInt("").Int(); err == nil {
		t.Error("empty string parsed")
	}
	if NewBigInt(nil) != "0" || NewBigInt(big.NewInt(7)) != "7" {
		t.Error("NewBigInt")
	}
}
