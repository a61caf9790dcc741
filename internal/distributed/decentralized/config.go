package decentralized

import "time"

// Config controls the peer-to-peer driver.
type Config struct {
	Peers         int           // number of symmetric peer goroutines
	Timeout       time.Duration // 0 disables the timeout
	Suboptimality float64       // w >= 1.0; a node only expands once cost <= w * global lower bound
	InboxSize     int
}

// DefaultConfig runs 4 peers with no suboptimality relaxation (bound-optimal search).
func DefaultConfig() Config {
	return Config{Peers: 4, Timeout: 60 * time.Second, Suboptimality: 1.0, InboxSize: 64}
}
