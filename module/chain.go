package module

// Chain provides the current block height.
type Chain interface {
	Height() uint64
}

// SeedSource provides the seed for committee and rebalance sampling.
type SeedSource interface {
	Seed() [32]byte
}
