package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/gdoc/config"
)

const version = "0.1.0"

var log = commonlog.GetLogger("gdoc.cmd")

// globals are the persistent flags shared by every command.
type globals struct {
	configPath string
	verbose    int
}

func main() {
	var g globals

	rootCmd := &cobra.Command{
		Use:           "gdoc",
		Short:         "Extract documentation models from Java sources and Groovy ASTs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default "+config.DefaultFile+")")
	rootCmd.PersistentFlags().CountVarP(&g.verbose, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newScanCmd(&g))
	rootCmd.AddCommand(newParseCmd(&g))
	rootCmd.AddCommand(newDocCmd(&g))
	rootCmd.AddCommand(newLSPCmd(&g))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gdoc:", err)
		os.Exit(1)
	}
}

// load reads the configuration and sets up logging. Flags of cmd that were
// set explicitly are applied by the caller afterwards.
func (g *globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	commonlog.Configure(cfg.Verbosity+g.verbose, nil)
	log.Debugf("config: root=%s format=%s workers=%d", cfg.Root, cfg.Format, cfg.Workers)
	return cfg, nil
}
