package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "salestune",
	Short: "Per-series sales forecast tuning and evaluation",
	Long: `salestune runs a time-based holdout grid search per (category, target)
series, compares every combination against a seasonal-naive baseline, refits
the winner on the full history, and writes one forecast artifact per series.`,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default salestune.yaml in the working directory)")
	rootCmd.AddCommand(tuneCmd)
}

// initConfig layers configuration: flags override environment variables,
// which override the optional config file.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("salestune")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("SALESTUNE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// a missing config file is fine, flags and env still apply
	_ = viper.ReadInConfig()
}
