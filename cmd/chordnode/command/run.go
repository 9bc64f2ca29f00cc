package command

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ringkeep/chordnode/internal/chord"
	"github.com/ringkeep/chordnode/internal/logging"
	"github.com/ringkeep/chordnode/internal/node"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func splitHostPort(addr string) (string, uint16, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return "", 0, err
	}
	return host, uint16(port), nil
}

// CliConfig is the top-level CLI-bound configuration: the node's own
// Config squashed in alongside any purely CLI-level settings.
type CliConfig struct {
	Node   node.Config `mapstructure:",squash"`
	NodeID uint32      `mapstructure:"id"`
}

func newDefaultCliConfig() *CliConfig {
	return &CliConfig{
		Node: *node.NewDefaultConfig(),
	}
}

var (
	config  *CliConfig
	datadir *string
)

func init() {
	config = newDefaultCliConfig()

	cobra.OnInitialize(initConfig)

	datadir = runCmd.PersistentFlags().StringP("datadir", "d", config.Node.DataDir, "Base configuration directory")

	runCmd.PersistentFlags().StringP("listen", "l", config.Node.BindAddr, "Listen IP:Port for this node's RPC server")
	runCmd.PersistentFlags().String("advertise", config.Node.AdvertiseAddr, "IP:Port advertised to the rest of the ring, if different from --listen")
	runCmd.PersistentFlags().StringP("join", "j", config.Node.Bootstrap, "IP:Port of an existing ring member to join through; empty creates a new ring")
	runCmd.PersistentFlags().Uint32("id", 0, "This node's 32-bit ring identifier; derived from --advertise when zero")

	runCmd.PersistentFlags().String("log", config.Node.LogLevel, "Log level (debug, info, warn, error, fatal, panic)")
	runCmd.PersistentFlags().Bool("store", config.Node.Store, "Persist a routing-state snapshot to a local badger database")
	runCmd.PersistentFlags().String("db", config.Node.DatabaseDir, "Directory for the badger snapshot database")

	runCmd.PersistentFlags().Duration("stabilize-interval", config.Node.StabilizeInterval, "Cadence of the check_predecessor/stabilize/fix_fingers loop")
	runCmd.PersistentFlags().Duration("rpc-timeout", config.Node.RPCTimeout, "Timeout applied to every outbound Chord RPC")
}

func initConfig() {
	viper.AddConfigPath(*datadir)
	viper.SetConfigName("chordnode")

	viper.BindPFlags(runCmd.PersistentFlags())

	if err := viper.ReadInConfig(); err != nil {
		logrus.WithError(err).Debug("no config file found, taking cli flags or defaults")
	}
	if err := viper.Unmarshal(config); err != nil {
		logrus.WithError(err).Warn("could not unmarshal config, taking cli flags or defaults")
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a Chord node",
	Run: func(cmd *cobra.Command, args []string) {
		config.Node.SetDataDir(*datadir)

		logger := logging.New(logging.Options{
			Level: config.Node.LogLevel,
		})

		id := config.NodeID
		if id == 0 {
			id = node.DeriveID(config.Node.Advertise())
		}

		logger.WithFields(logrus.Fields{
			"id":                 id,
			"listen":             config.Node.BindAddr,
			"advertise":          config.Node.Advertise(),
			"join":               config.Node.Bootstrap,
			"store":              config.Node.Store,
			"stabilize-interval": config.Node.StabilizeInterval,
		}).Info("starting chordnode")

		n, err := node.New(&config.Node, id, logger)
		if err != nil {
			logger.WithError(err).Error("could not initialize node")
			os.Exit(1)
		}

		bootstrap := chord.NodeRef{}
		if config.Node.Bootstrap != "" {
			host, port, err := splitHostPort(config.Node.Bootstrap)
			if err != nil {
				logger.WithError(err).Error("invalid --join address")
				os.Exit(1)
			}
			bootstrap = chord.NodeRef{IP: host, Port: port}
		}
		n.Bootstrap(context.Background(), bootstrap)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			logger.Info("shutting down")
			n.Shutdown()
		}()

		n.Run()
	},
}
