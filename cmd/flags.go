package cmd

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFlag = "config"

	logLevelFlag = "log-level"
	logLevelConf = "log.level"

	logFormatFlag = "log-format"
	logFormatConf = "log.format"

	metricsFlag = "metrics"
	metricsConf = "metrics.enabled"

	workersFlag = "workers"
	workersConf = "parallel.workers"
)

func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic("failed to bind pflag: " + err.Error())
	}
}

func mustBindEnv(input ...string) {
	if err := viper.BindEnv(input...); err != nil {
		panic("failed to bind env key: " + err.Error())
	}
}
