package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/adstrat/dataset/inputsample"
	"github.com/pbanos/adstrat/feature"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*forestCmdConfig
	undefinedValue string
	treeIndex      int
}

type stdoutValueRequester string

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{forestCmdConfig: &forestCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict whether an ad impression will be clicked answering questions",
		Long:  `Train a forest and use it to predict whether an ad impression will be clicked answering questions about it`,
		Run: func(cmd *cobra.Command, args []string) {
			if code := config.execute(cmd); code != 0 {
				os.Exit(code)
			}
		},
	}
	config.addFlags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.undefinedValue), "undefined-value", "u", "?", "value to input to define a record's value as undefined")
	cmd.PersistentFlags().IntVarP(&(config.treeIndex), "tree", "t", 0, "index of the only tree of the forest to predict with (defaults to the whole forest voting)")
	return cmd
}

/*
execute trains a forest and predicts with it a record read from STDIN.
It returns the exit code for the command once the forest is closed.
*/
func (pcc *predictCmdConfig) execute(cmd *cobra.Command) int {
	tf, code, err := pcc.train(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return code
	}
	ctx := pcc.Context()
	defer tf.Close(ctx)
	r, err := tf.readRecord(pcc.undefinedValue, !pcc.noImpute)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 5
	}
	var l feature.Label
	if cmd.Flags().Changed("tree") {
		l, err = tf.PredictWithTree(ctx, r, pcc.treeIndex)
	} else {
		l, err = tf.Predict(ctx, r)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 6
	}
	fmt.Printf("Predicted click is %v\n", l)
	return 0
}

/*
readRecord requests the values of a record through STDOUT and reads
them from STDIN. Values of attributes are restricted to those found in
the training data. If imputed is true, missing values of the record are
filled in with the imputation of the training data.
*/
func (tf *trainedForest) readRecord(undefinedValue string, imputed bool) (feature.Record, error) {
	choices := make(map[feature.Attribute][]string)
	for _, a := range feature.Attributes() {
		if values := tf.training.Values(a); len(values) > 0 {
			choices[a] = values
		}
	}
	r, err := inputsample.New(os.Stdin, stdoutValueRequester(undefinedValue), undefinedValue).WithChoices(choices).Read()
	if err != nil {
		return r, fmt.Errorf("reading record: %v", err)
	}
	if imputed {
		r = tf.imputation.ApplyTo(r)
	}
	return r, nil
}

func (svr stdoutValueRequester) RequestValueFor(name string, choices []string) error {
	if len(choices) == 0 {
		_, err := fmt.Printf("Please provide the record's %s:\n(%s if undefined)\n", name, string(svr))
		return err
	}
	_, err := fmt.Printf("Please provide the record's %s:\n(valid values are %s or %s if undefined)\n", name, strings.Join(choices, ", "), string(svr))
	return err
}

func (svr stdoutValueRequester) RejectValueFor(name, value string) error {
	_, err := fmt.Printf("%q is not a valid value for the record's %s. Please provide a valid one or %s if undefined.\n", value, name, string(svr))
	return err
}
