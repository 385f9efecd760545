package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/adstrat"
	"github.com/pbanos/adstrat/dataset"
	"github.com/pbanos/adstrat/feature"
	"github.com/spf13/cobra"
)

const noSuggestion = "none"

type testCmdConfig struct {
	*forestCmdConfig
	testInput           string
	expectedSuggestions []string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{forestCmdConfig: &forestCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the predictions and suggestions of a forest",
		Long: `Train a forest and test it against a testing dataset, whose click values are the expected predictions.
Records predicted not to be clicked also get a placement suggestion, that is checked against the expected suggestions when given.`,
		Run: func(cmd *cobra.Command, args []string) {
			if code := config.execute(cmd); code != 0 {
				os.Exit(code)
			}
		},
	}
	config.addFlags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.testInput), "test-input", "t", "", "testing data: "+dataLocationHelp+" (required)")
	cmd.PersistentFlags().StringSliceVarP(&(config.expectedSuggestions), "expected-suggestions", "e", nil, "placements expected to be suggested for each testing record, "+noSuggestion+" if no suggestion is expected (suggestions are not checked if not given)")
	return cmd
}

/*
execute trains a forest and tests it against the testing dataset. It
returns the exit code for the command once the forest is closed.
*/
func (tcc *testCmdConfig) execute(cmd *cobra.Command) int {
	err := tcc.Validate()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	tf, code, err := tcc.train(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return code
	}
	ctx := tcc.Context()
	defer tf.Close(ctx)
	testingSet, err := tcc.readDataset(ctx, tcc.testInput)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 5
	}
	if !tcc.noImpute {
		testingSet = tf.imputation.Apply(testingSet)
	}
	if len(tcc.expectedSuggestions) > 0 && len(tcc.expectedSuggestions) != len(testingSet) {
		fmt.Fprintf(os.Stderr, "got %d expected suggestions for %d testing records\n", len(tcc.expectedSuggestions), len(testingSet))
		return 1
	}
	tcc.Logf("Testing forest against testset with %d records...", len(testingSet))
	failed, err := tcc.run(ctx, tf, testingSet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "testing forest: %v\n", err)
		return 6
	}
	if failed > 0 {
		fmt.Printf("%d tests failed!\n", failed)
		return 7
	}
	fmt.Println("All tests passed!")
	return 0
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.testInput == "" {
		return fmt.Errorf("required test-input flag was not set")
	}
	return nil
}

/*
run checks the prediction of the forest for every record in the testing
set against its click value, and the suggestion for records predicted not
to be clicked against the expected suggestions. It reports every check on
STDOUT and returns the number of failed checks.
*/
func (tcc *testCmdConfig) run(ctx context.Context, tf *trainedForest, testingSet dataset.Dataset) (int, error) {
	var failed int
	for i, r := range testingSet {
		p, err := tf.Predict(ctx, r)
		if err != nil {
			return failed, fmt.Errorf("predicting record %d: %v", i, err)
		}
		if p != r.Click {
			fmt.Printf("Test case %d failed: expected prediction %v, but got %v\n", i, r.Click, p)
			failed++
		} else {
			fmt.Printf("Test case %d passed: prediction %v\n", i, p)
		}
		if p == feature.NoClick {
			placement, ok, err := adstrat.Suggest(ctx, r, tf.settings.Placements, tf.Forest)
			if err != nil {
				return failed, fmt.Errorf("suggesting placement for record %d: %v", i, err)
			}
			if !ok {
				placement = noSuggestion
			}
			if len(tcc.expectedSuggestions) == 0 {
				fmt.Printf("Suggestion for test case %d: %s\n", i, placement)
				continue
			}
			if expected := tcc.expectedSuggestions[i]; placement != expected {
				fmt.Printf("Suggestion mismatch for test case %d: expected %s, but got %s\n", i, expected, placement)
				failed++
			} else {
				fmt.Printf("Suggestion for test case %d passed: %s\n", i, placement)
			}
		}
	}
	return failed, nil
}
