package main

import (
	"fmt"
	"os"

	"github.com/pbanos/adstrat"
	"github.com/spf13/cobra"
)

type suggestCmdConfig struct {
	*forestCmdConfig
	undefinedValue string
}

func suggestCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &suggestCmdConfig{forestCmdConfig: &forestCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest a placement for an ad impression answering questions",
		Long:  `Train a forest and use it to suggest a placement where an ad impression would be clicked, answering questions about it`,
		Run: func(cmd *cobra.Command, args []string) {
			if code := config.execute(cmd); code != 0 {
				os.Exit(code)
			}
		},
	}
	config.addFlags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.undefinedValue), "undefined-value", "u", "?", "value to input to define a record's value as undefined")
	return cmd
}

/*
execute trains a forest and uses it to suggest a placement for a record
read from STDIN. It returns the exit code for the command once the forest
is closed.
*/
func (scc *suggestCmdConfig) execute(cmd *cobra.Command) int {
	tf, code, err := scc.train(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return code
	}
	ctx := scc.Context()
	defer tf.Close(ctx)
	r, err := tf.readRecord(scc.undefinedValue, !scc.noImpute)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 5
	}
	scc.Logf("Trying placements %v for %v...", tf.settings.Placements, r)
	placement, ok, err := adstrat.Suggest(ctx, r, tf.settings.Placements, tf.Forest)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 6
	}
	if !ok {
		fmt.Println("No placement is predicted to be clicked")
		return 0
	}
	fmt.Printf("Suggested placement is %s\n", placement)
	return 0
}
