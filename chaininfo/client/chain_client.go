package client

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client is the JSON-RPC surface used by the router: contract calls for on-chain quotes,
// gas price and block number.
type Client interface {
	bind.ContractCaller
	ethereum.GasPricer

	GetLatestHeight(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

type chainClient struct {
	*ethclient.Client
}

var _ Client = &chainClient{}

// NewClient dials the JSON-RPC endpoint.
func NewClient(ctx context.Context, rpcEndpoint string) (Client, error) {
	ethClient, err := ethclient.DialContext(ctx, rpcEndpoint)
	if err != nil {
		return nil, err
	}

	return &chainClient{
		Client: ethClient,
	}, nil
}

// GetLatestHeight returns the number of the most recent block.
func (c chainClient) GetLatestHeight(ctx context.Context) (uint64, error) {
	return c.BlockNumber(ctx)
}
