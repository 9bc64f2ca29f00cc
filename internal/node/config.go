package node

import (
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultBindAddr          = "127.0.0.1:4000"
	DefaultLogLevel          = "debug"
	DefaultRPCTimeout        = 1000 * time.Millisecond
	DefaultStabilizeInterval = 200 * time.Millisecond
	DefaultDatabaseDir       = "chord_db"
)

// Config contains all the configuration properties of a Chord node,
// loaded via viper from a config file plus CLI flags bound with cobra.
type Config struct {
	// DataDir is the top-level directory containing this node's
	// persisted routing-state snapshot.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// BindAddr is the local address:port this node listens for Chord
	// RPCs on.
	BindAddr string `mapstructure:"listen"`

	// AdvertiseAddr is the address:port advertised to other nodes in
	// its NodeRef, when different from BindAddr (e.g. behind NAT).
	AdvertiseAddr string `mapstructure:"advertise"`

	// Bootstrap, when non-empty, is the address:port of an existing
	// ring member to join through. When empty, the node creates a new
	// ring.
	Bootstrap string `mapstructure:"join"`

	// StabilizeInterval is the period of the maintenance driver: each
	// tick runs check_predecessor, stabilize, and (throttled)
	// fix_fingers in sequence.
	StabilizeInterval time.Duration `mapstructure:"stabilize-interval"`

	// RPCTimeout bounds every outbound Chord RPC.
	RPCTimeout time.Duration `mapstructure:"rpc-timeout"`

	// Store activates the badger-backed snapshot persistence.
	Store bool `mapstructure:"store"`

	// DatabaseDir is the directory containing the badger snapshot
	// database, when Store is enabled.
	DatabaseDir string `mapstructure:"db"`
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	return &Config{
		DataDir:           "",
		LogLevel:          DefaultLogLevel,
		BindAddr:          DefaultBindAddr,
		StabilizeInterval: DefaultStabilizeInterval,
		RPCTimeout:        DefaultRPCTimeout,
		Store:             false,
		DatabaseDir:       DefaultDatabaseDir,
	}
}

// SetDataDir sets the top-level directory, and moves the database
// directory along with it if it is still at the default relative
// name.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.DatabaseDir == DefaultDatabaseDir {
		c.DatabaseDir = filepath.Join(dataDir, DefaultDatabaseDir)
	}
}

// Advertise returns the address this node should present to the rest
// of the ring: AdvertiseAddr when set, otherwise BindAddr.
func (c *Config) Advertise() string {
	if c.AdvertiseAddr != "" {
		return c.AdvertiseAddr
	}
	return c.BindAddr
}
