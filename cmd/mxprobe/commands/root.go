// Package commands implements the mxprobe command line.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/optimode/mxprobe"
	"github.com/optimode/mxprobe/internal/config"
	"github.com/optimode/mxprobe/internal/logging"
)

// app holds what the subcommands share once the root has loaded config.
type app struct {
	configPath string
	envFiles   []string
	mailFrom   string
	heloDomain string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mxprobe",
		Short: "Mailbox deliverability probe",
		Long: `mxprobe estimates whether a mailbox exists by resolving the domain's MX
records and running a partial SMTP transaction (HELO, MAIL FROM, RCPT TO)
against them. No mail is ever sent.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a TOML configuration file")
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load (default: .env if present)")
	flags.StringVar(&a.mailFrom, "mail-from", "", "MAIL FROM address (overrides config)")
	flags.StringVar(&a.heloDomain, "helo", "", "HELO domain (overrides config)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.LoadWith(a.configPath, a.envFiles, config.Overrides{
		MailFrom:   a.mailFrom,
		HeloDomain: a.heloDomain,
		LogLevel:   a.logLevel,
	})
	if err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) prober() (*mxprobe.Prober, error) {
	p, err := mxprobe.New(a.cfg.ProbeOptions())
	if err != nil {
		return nil, err
	}
	return p.WithLogger(a.logger), nil
}
