package main

import (
	"context"
	"os"

	"github.com/pbanos/adstrat/config"
	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	logger
	configPath string
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "adstrat",
		Short: "adstrat predicts ad clicks and suggests ad placements",
		Long:  `A tool to grow random forests from ad impression data, test them, and use them to predict clicks and suggest better ad placements`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP((*bool)(&config.logger), "verbose", "v", false, "")
	rootCmd.PersistentFlags().StringVarP(&(config.configPath), "config", "c", "", "path to a YML file with the configuration for the forest (defaults to all attributes, 10 trees and placements Top, Side and Bottom)")
	rootCmd.AddCommand(versionCmd(), trainCmd(config), predictCmd(config), suggestCmd(config), testCmd(config), imputeCmd(config))
	return rootCmd
}

// Settings returns the configuration read from the config file, or the
// default configuration if no file was given
func (rcc *rootCmdConfig) Settings() (*config.Config, error) {
	if rcc.configPath == "" {
		return config.Default(), nil
	}
	rcc.Logf("Reading configuration from %s...", rcc.configPath)
	return config.ReadFile(rcc.configPath)
}

func (rcc *rootCmdConfig) Context() context.Context {
	rcc.setContextAndCancelFunc()
	return rcc.ctx
}

func (rcc *rootCmdConfig) ContextCancelFunc() context.CancelFunc {
	rcc.setContextAndCancelFunc()
	return rcc.cancelFunc
}

func (rcc *rootCmdConfig) setContextAndCancelFunc() {
	if rcc.ctx == nil {
		rcc.ctx, rcc.cancelFunc = context.WithCancel(context.Background())
	}
}
