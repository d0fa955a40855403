package commands

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"senderkey/internal/app"
	"senderkey/internal/crypto"
	"senderkey/internal/domain"
	"senderkey/internal/logging"
)

var (
	home       string
	passphrase string
	appCtx     *app.App

	cfg     app.Config
	logOpts logging.Options
)

var errPassphraseRequired = errors.New("passphrase required (-p)")

// Execute runs the CLI with os.Args.
func Execute() error {
	root, release := newRootCmd()
	err := root.Execute()
	return multierr.Append(err, release())
}

// newRootCmd returns the root command and a function releasing whatever its
// PersistentPreRunE opened. Cobra skips post-run hooks when a command fails,
// so release must be called after Execute regardless of its result.
func newRootCmd() (*cobra.Command, func() error) {
	var (
		w      *app.Wire
		logger *zap.Logger
	)
	release := func() error {
		var err error
		if w != nil {
			err = w.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
		return err
	}
	root := &cobra.Command{
		Use:          "senderkey",
		Short:        "Group messaging with sender keys",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".senderkey")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			var err error
			if logger, err = logging.New(logOpts); err != nil {
				return err
			}
			cfg.Home = home
			cfg.Logger = logger
			if w, err = app.NewWire(cfg); err != nil {
				return err
			}
			appCtx = app.New(w.Identity, w.Groups)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&home, "home", "", "config dir (default ~/.senderkey)")
	flags.StringVarP(&passphrase, "passphrase", "p", "", "passphrase to protect keys")
	flags.StringVar(&cfg.Backend, "store", app.BackendFile, "group session store: file, leveldb or redis")
	flags.StringVar(&cfg.RedisAddr, "redis-addr", "", "redis address for --store=redis (host:port)")
	flags.StringVar(&cfg.RedisPrefix, "redis-prefix", "", "redis key prefix for --store=redis")
	flags.Uint32Var(&cfg.MaxMessageSkip, "max-skip", 0, "messages a receiver may skip ahead (default 2000)")
	flags.IntVar(&cfg.MaxSessionStates, "max-epochs", 0, "sender key epochs kept per sender (default 5)")
	flags.StringVar(&logOpts.Level, "log-level", "warn", "log level: debug, info, warn or error")
	flags.BoolVar(&logOpts.Development, "log-dev", false, "human readable log output")
	flags.StringVar(&logOpts.File.Filename, "log-file", "", "write logs to a rotated file instead of stderr")
	flags.IntVar(&logOpts.File.MaxSize, "log-max-size", 10, "log file size in megabytes before rotation")
	flags.IntVar(&logOpts.File.MaxBackups, "log-max-backups", 3, "rotated log files to keep")
	flags.BoolVar(&logOpts.File.Compress, "log-compress", false, "gzip rotated log files")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		createCmd(),
		distributionCmd(),
		joinCmd(),
		encryptCmd(),
		decryptCmd(),
	)
	return root, release
}

// localSender loads the identity and returns the sender id peers know us by.
func localSender() (domain.SenderID, error) {
	if passphrase == "" {
		return "", errPassphraseRequired
	}
	id, err := appCtx.IDs.LoadIdentity(passphrase)
	if err != nil {
		return "", err
	}
	return crypto.SenderIDFor(id.KeyPair.Public), nil
}
