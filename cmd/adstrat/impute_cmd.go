package main

import (
	"fmt"
	"os"

	"github.com/pbanos/adstrat/dataset/impute"
	"github.com/spf13/cobra"
)

type imputeCmdConfig struct {
	*rootCmdConfig
	dataInput  string
	dataOutput string
}

func imputeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &imputeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "impute",
		Short: "Fill in the missing values of a dataset",
		Long:  `Fill in missing ages with the mean age of a dataset and missing attribute values with their most frequent value, and dump the result`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := config.Context()
			ds, err := config.readDataset(ctx, config.dataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			imp := impute.Compute(ds)
			config.Logf("Imputing missing values of %d records with %v...", len(ds), imp)
			err = config.writeDataset(ctx, config.dataOutput, imp.Apply(ds))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "input data: "+dataLocationHelp+" (defaults to CSV through STDIN)")
	cmd.PersistentFlags().StringVarP(&(config.dataOutput), "output", "o", "", "output data: "+dataLocationHelp+" (defaults to CSV through STDOUT)")
	return cmd
}
