package tonrail

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/ton/wallet"
)

type Config struct {
	GlobalConfigURL string
	Seed            string
	WalletVersion   string
	Testnet         bool
	Comment         string
}

// Rail pays native TON out of one seed-derived wallet.
type Rail struct {
	api     ton.APIClientWrapped
	wallet  *wallet.Wallet
	testnet bool
	comment string
}

// Dial connects to the lite servers listed in the global config and opens the faucet wallet.
func Dial(ctx context.Context, cfg Config) (*Rail, error) {
	pool := liteclient.NewConnectionPool()

	globalCfg, err := liteclient.GetConfigFromUrl(ctx, cfg.GlobalConfigURL)
	if err != nil {
		return nil, fmt.Errorf("fetch ton config: %w", err)
	}
	if err := pool.AddConnectionsFromConfig(ctx, globalCfg); err != nil {
		return nil, fmt.Errorf("connect lite servers: %w", err)
	}

	api := ton.NewAPIClient(pool, ton.ProofCheckPolicyFast).WithRetry()

	version, err := walletVersion(cfg.WalletVersion)
	if err != nil {
		return nil, err
	}

	w, err := wallet.FromSeed(api, strings.Fields(cfg.Seed), version)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	slog.Info("ton wallet ready", "address", w.WalletAddress().String(), "testnet", cfg.Testnet)

	return &Rail{
		api:     api,
		wallet:  w,
		testnet: cfg.Testnet,
		comment: cfg.Comment,
	}, nil
}

// ValidateAddress parses a user-friendly or raw address.
func (r *Rail) ValidateAddress(addr string) error {
	_, err := parseAddress(addr)
	return err
}

func (r *Rail) Balance(ctx context.Context) (decimal.Decimal, error) {
	block, err := r.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("masterchain info: %w", err)
	}
	coins, err := r.wallet.GetBalance(ctx, block)
	if err != nil {
		return decimal.Zero, fmt.Errorf("wallet balance: %w", err)
	}
	return FromNano(coins.Nano()), nil
}

// Transfer sends amount, floored to whole nanoTON, and waits for the transaction. It returns the
// transaction hash in hex.
func (r *Rail) Transfer(ctx context.Context, to string, amount decimal.Decimal) (string, error) {
	dst, err := parseAddress(to)
	if err != nil {
		return "", err
	}

	nano := ToNano(amount)
	if nano.Sign() <= 0 {
		return "", fmt.Errorf("amount %s is below one nanoTON", amount)
	}

	tx, _, err := r.wallet.TransferWaitTransaction(ctx, dst, tlb.FromNanoTON(nano), r.comment)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(tx.Hash), nil
}

func (r *Rail) ExplorerURL(txHash string) string {
	return ExplorerURL(r.testnet, txHash)
}

// ExplorerURL links a transaction on tonviewer.
func ExplorerURL(testnet bool, txHash string) string {
	host := "tonviewer.com"
	if testnet {
		host = "testnet.tonviewer.com"
	}
	return "https://" + host + "/transaction/" + txHash
}

func parseAddress(addr string) (*address.Address, error) {
	addr = strings.TrimSpace(addr)
	if a, err := address.ParseAddr(addr); err == nil {
		return a, nil
	}
	a, err := address.ParseRawAddr(addr)
	if err != nil {
		return nil, fmt.Errorf("parse address %q: %w", addr, err)
	}
	return a, nil
}

func walletVersion(v string) (wallet.VersionConfig, error) {
	switch strings.ToLower(v) {
	case "v3", "v3r2":
		return wallet.V3R2, nil
	case "", "v4", "v4r2":
		return wallet.V4R2, nil
	default:
		return nil, fmt.Errorf("unsupported wallet version %q", v)
	}
}
