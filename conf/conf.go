package conf

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"nftmarket/common/utils"
	"nftmarket/log"
)

const (
	RegistryMemory = "memory"
	RegistryChain  = "chain"
)

// default allocation
var (
	ServerAddr         = ":3000"
	DBDriver           = "sqlite"
	DBDsn              = "market.db"
	ResetDB            = false
	ChainId      int64 = 31337
	ChainUrl           = ""
	HexKey             = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80" //hardhat account #0, for local chains only
	Registry           = RegistryMemory
	LoyaltyUnit        = "100000000000000000" //wei per loyalty point
	KeeperSpec         = "@every 15s"         //robfig/cron schedule for settling expired auctions
	RateLimit          = 10.0                 //requests per second per caller
	RateBurst          = 20
	AuthWindow         = 5 * time.Minute //accepted clock skew of signed requests
	AllowDeposit       = false           //enables POST /wallet/deposit, memory registry only
	DepositSpec        = "@every 5s"     //robfig/cron schedule for scanning on-chain deposits
	DepositConfirm     = uint64(3)       //blocks a deposit needs on top of it before it is credited
	LogLevel           = "info"
)

// globally available object instantiated from config
var (
	PrivateKey *secp256k1.PrivateKey //Operator private key
	Operator   common.Address        //Operator address, the one assets must be approved for
	UnitValue  *big.Int              //LoyaltyUnit parsed
)

// Load reads market.env and the environment over the defaults, then checks
// the result.
func Load() error {
	if err := godotenv.Load("market.env"); err != nil {
		log.Debugf("market.env not loaded: %v", err)
	}
	if err := setConf(); err != nil {
		return err
	}

	if ChainUrl == "" {
		network := networks[ChainId]
		if network == nil && Registry == RegistryChain {
			return fmt.Errorf("unsupported chainId %d and no CHAIN_URL", ChainId)
		}
		if network != nil {
			ChainUrl = network.Url
		}
	}
	if Registry != RegistryMemory && Registry != RegistryChain {
		return fmt.Errorf("REGISTRY must be %q or %q, got %q", RegistryMemory, RegistryChain, Registry)
	}

	var err error
	PrivateKey, err = utils.HexToECDSA(HexKey)
	if err != nil {
		return fmt.Errorf("HEX_KEY: %v", err)
	}
	Operator = utils.PubkeyToAddress(PrivateKey.PubKey())

	UnitValue, err = utils.ParseAmount(LoyaltyUnit)
	if err != nil || UnitValue.Sign() == 0 {
		return fmt.Errorf("LOYALTY_UNIT must be a positive integer, got %q", LoyaltyUnit)
	}
	if RateLimit <= 0 || RateBurst < 1 {
		return fmt.Errorf("RATE_LIMIT and RATE_BURST must be positive")
	}
	if AuthWindow <= 0 {
		return fmt.Errorf("AUTH_WINDOW must be positive")
	}
	// on chain, custodial balances are backed by coin sent to the operator
	if AllowDeposit && Registry == RegistryChain {
		return fmt.Errorf("ALLOW_DEPOSIT is only for the memory registry, chain deposits are read from the chain")
	}
	return nil
}

func setConf() (err error) {
	// Parse the basic configuration of the server
	if serverAddr := os.Getenv("SERVER_ADDR"); serverAddr != "" {
		ServerAddr = serverAddr
	}
	if dbDriver := os.Getenv("DB_DRIVER"); dbDriver != "" {
		DBDriver = dbDriver
	}
	if dbDsn := os.Getenv("DB_DSN"); dbDsn != "" {
		DBDsn = dbDsn
	}
	if resetDB := os.Getenv("RESET_DB"); resetDB != "" {
		ResetDB = resetDB == "true"
	}
	if chainId := os.Getenv("CHAIN_ID"); chainId != "" {
		ChainId, err = strconv.ParseInt(chainId, 0, 64)
		if err != nil {
			return fmt.Errorf("CHAIN_ID: %v", err)
		}
	}
	if chainUrl := os.Getenv("CHAIN_URL"); chainUrl != "" {
		ChainUrl = chainUrl
	}
	if hexKey := os.Getenv("HEX_KEY"); hexKey != "" {
		HexKey = hexKey
	}
	if registry := os.Getenv("REGISTRY"); registry != "" {
		Registry = registry
	}
	if unit := os.Getenv("LOYALTY_UNIT"); unit != "" {
		LoyaltyUnit = unit
	}
	if spec := os.Getenv("KEEPER_SPEC"); spec != "" {
		KeeperSpec = spec
	}
	if rateLimit := os.Getenv("RATE_LIMIT"); rateLimit != "" {
		RateLimit, err = strconv.ParseFloat(rateLimit, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT: %v", err)
		}
	}
	if rateBurst := os.Getenv("RATE_BURST"); rateBurst != "" {
		RateBurst, err = strconv.Atoi(rateBurst)
		if err != nil {
			return fmt.Errorf("RATE_BURST: %v", err)
		}
	}
	if window := os.Getenv("AUTH_WINDOW"); window != "" {
		AuthWindow, err = time.ParseDuration(window)
		if err != nil {
			return fmt.Errorf("AUTH_WINDOW: %v", err)
		}
	}
	if allowDeposit := os.Getenv("ALLOW_DEPOSIT"); allowDeposit != "" {
		AllowDeposit = allowDeposit == "true"
	}
	if spec := os.Getenv("DEPOSIT_SPEC"); spec != "" {
		DepositSpec = spec
	}
	if confirm := os.Getenv("DEPOSIT_CONFIRMATIONS"); confirm != "" {
		DepositConfirm, err = strconv.ParseUint(confirm, 10, 64)
		if err != nil {
			return fmt.Errorf("DEPOSIT_CONFIRMATIONS: %v", err)
		}
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		LogLevel = logLevel
	}
	return nil
}
