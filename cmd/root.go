package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/funnel-cli/internal/config"
	"github.com/sells-group/funnel-cli/internal/funnel"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "funnel-cli",
	Short: "Sales funnel calculator",
	Long: `Computes stage-to-stage conversion rates for a sales funnel
(Contactos → Agendadas → Asistidas → Vendidas), compares each rate to its
benchmark and reports the cost per sale against the 80.000 target.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// formatter builds the number formatter from the loaded config.
func formatter() (*funnel.Formatter, error) {
	if cfg == nil {
		return funnel.DefaultFormatter(), nil
	}
	f, err := funnel.NewFormatter(cfg.Format.Locale, cfg.Format.CurrencySymbol)
	if err != nil {
		return nil, eris.Wrap(err, "build formatter")
	}
	return f, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
