package conf

import "os"

type network struct {
	Name string
	Url  string
}

var infuraId = os.Getenv("INFURA_ID")

var networks = map[int64]*network{
	1337: {
		Name: "localhost",
		Url:  "http://127.0.0.1:8545",
	},
	31337: {
		Name: "hardhat",
		Url:  "http://127.0.0.1:8545",
	},
	1: {
		Name: "mainnet",
		Url:  "https://mainnet.infura.io/v3/" + infuraId,
	},
	11155111: {
		Name: "sepolia",
		Url:  "https://sepolia.infura.io/v3/" + infuraId,
	},
	56: {
		Name: "bsc",
		Url:  "https://bsc-dataseed1.binance.org",
	},
	137: {
		Name: "matic",
		Url:  "https://polygon-rpc.com",
	},
	80002: {
		Name: "amoy",
		Url:  "https://rpc-amoy.polygon.technology",
	},
}
