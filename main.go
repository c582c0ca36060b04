package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mortgage-engine/config"
	"mortgage-engine/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var policyPath string

	root := &cobra.Command{
		Use:           "mortgage-engine",
		Short:         "Mortgage payment, affordability and insurance calculations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&policyPath, "policy", "", "program policy YAML (defaults to the built-in table)")

	root.AddCommand(
		newServeCmd(&policyPath),
		newPaymentCmd(),
		newAffordCmd(&policyPath),
		newPolicyCmd(&policyPath),
		newLeadsCmd(&policyPath),
	)
	return root
}

// loadConfig reads the service configuration and builds its logger. A
// --policy flag takes precedence over the configured policy path.
func loadConfig(policyPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if policyPath != "" {
		cfg.Policy.Path = policyPath
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}
