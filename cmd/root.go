// Package cmd contains all the commands included in the lazyflow binary.
package cmd

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand enables all children commands to read flags from CLI flags, environment variables prefixed with LAZYFLOW, or config.yaml (in that order).
func NewRootCommand() *cobra.Command {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("LAZYFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	for _, path := range []string{"$HOME/.lazyflow", "."} {
		viper.AddConfigPath(path)
	}

	cmd := &cobra.Command{
		Use:   "lazyflow",
		Short: "Lazy filter/map/reduce pipelines over sample data sets",
		Long: `Lazy filter/map/reduce pipelines over sample data sets.

Every subcommand builds single-use pipelines over an in-memory data set or a
text file and prints one line per query. Nothing is evaluated until a query
asks for its result.`,
		SilenceUsage:      true,
		PersistentPreRunE: readConfig,
	}

	flags := cmd.PersistentFlags()
	flags.String(configFlag, "", "config file (default is config.yaml in $HOME/.lazyflow or the working directory)")
	flags.String(logLevelFlag, "info", "the log level to use: 'none', 'debug', 'info', 'warn' or 'error'")
	flags.String(logFormatFlag, "text", "the log format to output logs in: 'text' or 'json'")
	flags.Bool(metricsFlag, false, "print pipeline metrics in the Prometheus text format after the results")
	flags.Int(workersFlag, runtime.GOMAXPROCS(0), "the number of workers used for parallel evaluation")

	mustBindPFlag(logLevelConf, flags.Lookup(logLevelFlag))
	mustBindEnv(logLevelConf, "LAZYFLOW_LOG_LEVEL")
	mustBindPFlag(logFormatConf, flags.Lookup(logFormatFlag))
	mustBindEnv(logFormatConf, "LAZYFLOW_LOG_FORMAT")
	mustBindPFlag(metricsConf, flags.Lookup(metricsFlag))
	mustBindEnv(metricsConf, "LAZYFLOW_METRICS_ENABLED")
	mustBindPFlag(workersConf, flags.Lookup(workersFlag))
	mustBindEnv(workersConf, "LAZYFLOW_PARALLEL_WORKERS")

	cmd.AddCommand(
		NewMenuCommand(),
		NewApplesCommand(),
		NewTradesCommand(),
		NewNumbersCommand(),
		NewWordsCommand(),
		NewVersionCommand(),
	)

	return cmd
}

// readConfig loads the config file named by --config, or config.yaml from the
// search paths when there is one.
func readConfig(cmd *cobra.Command, _ []string) error {
	if flag := cmd.Flag(configFlag); flag != nil && flag.Value.String() != "" {
		viper.SetConfigFile(flag.Value.String())
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}
