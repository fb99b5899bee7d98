/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "arcanum",
	Short: "Declarative component resolver for d20 rule systems",
	Long: `Arcanum resolves rule-system component documents: it evaluates the
embedded ${...} formulas, overlays template defaults, and checks every
requirement, producing either a fully-resolved component or an exhaustive
rejection report.

Rule data lives in a file tree of YAML triples:
	<system>/<component>.yaml
	<system>/<component>.template.yaml
	<system>/<component>.requirements.yaml`,
}

// Execute runs the root command; it is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.arcanum.yaml)")
	rootCmd.PersistentFlags().StringSlice("data_dir", nil, "data directory search path (repeatable)")
	if err := viper.BindPFlag("data_dirs", rootCmd.PersistentFlags().Lookup("data_dir")); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".arcanum")
	}

	viper.SetEnvPrefix("ARCANUM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dataDirs returns the data directory fallback hierarchy: flags/config
// first, then the conventional local defaults.
func dataDirs() []string {
	dirs := viper.GetStringSlice("data_dirs")
	if len(dirs) == 0 {
		dirs = []string{"data", "."}
	}
	return dirs
}
