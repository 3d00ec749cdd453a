package registry

import (
	"encoding/hex"
	"math/big"
	"testing"
)

func TestERC721Selectors(t *testing.T) {
	want := map[string]string{
		"ownerOf":          "6352211e",
		"getApproved":      "081812fc",
		"isApprovedForAll": "e985e9c5",
		"transferFrom":     "23b872dd",
	}
	for name, sel := range want {
		m, ok := ERC721ABI.Methods[name]
		if !ok {
			t.Errorf("method %s missing", name)
			continue
		}
		if got := hex.EncodeToString(m.ID); got != sel {
			t.Errorf("%s selector = %s, want %s", name, got, sel)
		}
	}
}

func TestERC721PackTransfer(t *testing.T) {
	data, err := ERC721ABI.Pack("transferFrom", alice, bob, big.NewInt(1))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 4+3*32 {
		t.Error("packed length:", len(data))
	}
}
