package main

import (
	"context"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"nftmarket/backend"
	"nftmarket/conf"
	"nftmarket/database"
	"nftmarket/ledger"
	"nftmarket/log"
	"nftmarket/node"
	"nftmarket/registry"
	"nftmarket/router"
	"nftmarket/service"
	"nftmarket/wallet"
)

// @title       NFT market API
// @version     1.0
// @description Marketplace ledger back-end: fixed-price listings, English auctions with escrowed bids, loyalty points for buyers and sellers, and a custodial wallet for attached value
func main() {
	if err := conf.Load(); err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(log.ParseLevel(conf.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(conf.DBDriver, conf.DBDsn, conf.ResetDB)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer store.Close()

	book := wallet.NewBook()
	var (
		reg   ledger.Registry
		payer ledger.Payer = book
		chain *node.Client
	)
	switch conf.Registry {
	case conf.RegistryChain:
		if err := node.CheckChainID(ctx, conf.ChainUrl, conf.ChainId); err != nil {
			log.Fatalf("chain: %v", err)
		}
		client, err := node.Dial(ctx, conf.ChainUrl, conf.PrivateKey, conf.ChainId)
		if err != nil {
			log.Fatalf("chain: %v", err)
		}
		defer client.Close()
		reg = registry.NewERC721(client)
		payer = wallet.NewChainPayer(client)
		log.Infof("chain mode on %s, operator %s", conf.ChainUrl, client.Address().Hex())
		chain = client
	default:
		reg = registry.NewMemory(conf.Operator)
		log.Infof("memory registry, operator %s", conf.Operator.Hex())
	}

	l, err := ledger.New(ledger.Config{
		Registry:  reg,
		Payer:     payer,
		Journal:   store,
		Operator:  conf.Operator,
		UnitValue: new(big.Int).Set(conf.UnitValue),
	})
	if err != nil {
		log.Fatalf("ledger: %v", err)
	}
	market, err := service.NewMarket(service.Config{
		Ledger:       l,
		Book:         book,
		Store:        store,
		AllowDeposit: conf.AllowDeposit,
	})
	if err != nil {
		log.Fatalf("market: %v", err)
	}
	if err := market.Restore(ctx); err != nil {
		log.Fatalf("restore: %v", err)
	}

	keeper := backend.NewKeeper(market, conf.Operator)
	if err := keeper.Run(conf.KeeperSpec); err != nil {
		log.Fatalf("keeper: %v", err)
	}
	defer keeper.Stop()

	if chain != nil {
		deposits := backend.NewDepositWatcher(chain, market, chain.Address(), conf.ChainId, conf.DepositConfirm)
		if err := deposits.Run(conf.DepositSpec); err != nil {
			log.Fatalf("deposits: %v", err)
		}
		defer deposits.Stop()
	}

	engine := router.New(ctx, market, router.Options{
		AuthWindow: conf.AuthWindow,
		RateLimit:  conf.RateLimit,
		RateBurst:  conf.RateBurst,
	})
	if err := router.Run(ctx, conf.ServerAddr, engine); err != nil {
		log.Errorf("Server failed to run: %v", err)
	}
}
