package main

import (
	"context"
	"fmt"
	"math/big"
	"time"
)

// chainProbe is the part of upstream.RPCClient used by the startup check.
type chainProbe interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// checkUpstream verifies that the upstream answers before the proxy starts
// serving. Both calls share one timeout.
func checkUpstream(probe chainProbe, timeout time.Duration) (*big.Int, uint64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	chainID, err := probe.ChainID(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get chain ID: %w", err)
	}

	head, err := probe.BlockNumber(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get head block: %w", err)
	}

	return chainID, head, nil
}
