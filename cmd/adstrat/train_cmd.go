package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pbanos/adstrat"
	"github.com/pbanos/adstrat/config"
	"github.com/pbanos/adstrat/dataset"
	"github.com/pbanos/adstrat/dataset/impute"
	"github.com/pbanos/adstrat/tree"
	"github.com/spf13/cobra"
)

type forestCmdConfig struct {
	*rootCmdConfig
	dataInput  string
	trees      int
	seed       int64
	workers    int
	attributes []string
	noImpute   bool

	// openStore opens the node store of the forest,
	// config.Store.Open unless set
	openStore func(config.Store) (tree.NodeStore, error)
}

type trainCmdConfig struct {
	*forestCmdConfig
}

/*
trainedForest holds a forest together with the data and settings it was
trained with.
*/
type trainedForest struct {
	*adstrat.Forest
	settings   *config.Config
	imputation *impute.Imputation
	training   dataset.Dataset
}

func trainCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &trainCmdConfig{&forestCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a forest from a dataset",
		Long:  `Train a random forest to predict ad clicks from a dataset, and report its accuracy on that same dataset`,
		Run: func(cmd *cobra.Command, args []string) {
			if code := config.execute(cmd); code != 0 {
				os.Exit(code)
			}
		},
	}
	config.addFlags(cmd)
	return cmd
}

/*
execute trains a forest and reports its accuracy on the training data.
It returns the exit code for the command once the forest is closed.
*/
func (tcc *trainCmdConfig) execute(cmd *cobra.Command) int {
	tf, code, err := tcc.train(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return code
	}
	ctx := tcc.Context()
	defer tf.Close(ctx)
	tcc.Logf("Testing forest against its training data...")
	rate, err := tf.Test(ctx, tf.training)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 5
	}
	fmt.Printf("Trained a forest of %d trees from %d records\n", tf.Len(), len(tf.training))
	fmt.Printf("Training accuracy: %f\n", rate)
	if tcc.logger {
		fmt.Println(tf.Forest)
	}
	return 0
}

func (fcc *forestCmdConfig) addFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&(fcc.dataInput), "input", "i", "", "training data: "+dataLocationHelp+" (defaults to CSV through STDIN)")
	cmd.PersistentFlags().IntVarP(&(fcc.trees), "trees", "n", config.DefaultTrees, "number of trees in the forest (overrides the config file)")
	cmd.PersistentFlags().Int64VarP(&(fcc.seed), "seed", "s", 0, "seed for the random generator (overrides the config file)")
	cmd.PersistentFlags().IntVarP(&(fcc.workers), "workers", "w", 1, "number of goroutines growing trees (overrides the config file)")
	cmd.PersistentFlags().StringSliceVarP(&(fcc.attributes), "attributes", "a", nil, "attributes trees can split on (overrides the config file)")
	cmd.PersistentFlags().BoolVar(&(fcc.noImpute), "no-impute", false, "do not fill missing values in the training data before training")
}

/*
Settings returns the configuration from the root command overridden by
the flags set on the given command.
*/
func (fcc *forestCmdConfig) Settings(cmd *cobra.Command) (*config.Config, error) {
	c, err := fcc.rootCmdConfig.Settings()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("trees") {
		c.Trees = fcc.trees
	}
	if flags.Changed("seed") {
		seed := fcc.seed
		c.Seed = &seed
	}
	if flags.Changed("workers") {
		c.Workers = fcc.workers
	}
	if flags.Changed("attributes") {
		c.Attributes = fcc.attributes
	}
	return c, c.Validate()
}

/*
train reads the settings and the training data for the given command
and trains a forest with them. On failure it returns the error along the
exit code the command should end with.
*/
func (fcc *forestCmdConfig) train(cmd *cobra.Command) (*trainedForest, int, error) {
	ctx := fcc.Context()
	settings, err := fcc.Settings(cmd)
	if err != nil {
		return nil, 1, err
	}
	attrs, err := settings.ParseAttributes()
	if err != nil {
		return nil, 1, err
	}
	ds, err := fcc.readDataset(ctx, fcc.dataInput)
	if err != nil {
		return nil, 2, err
	}
	fcc.Logf("Read %d records", len(ds))
	if labelled := ds.Labelled(); len(labelled) < len(ds) {
		fcc.Logf("Ignoring %d records without a click label", len(ds)-len(labelled))
		ds = labelled
	}
	imp := impute.Compute(ds)
	if !fcc.noImpute {
		fcc.Logf("Imputing missing values with %v", imp)
		ds = imp.Apply(ds)
	}
	openStore := fcc.openStore
	if openStore == nil {
		openStore = config.Store.Open
	}
	ns, err := openStore(settings.Store)
	if err != nil {
		return nil, 3, err
	}
	opts := []adstrat.Option{
		adstrat.WithWorkers(settings.Workers),
		adstrat.WithNodeStore(ns),
		adstrat.WithLogger(fcc.logger),
	}
	if settings.Seed != nil {
		opts = append(opts, adstrat.WithSeed(*settings.Seed))
	}
	start := time.Now()
	f, err := adstrat.Train(ctx, ds, attrs, settings.Trees, opts...)
	if err != nil {
		ns.Close(ctx)
		return nil, 4, err
	}
	fcc.Logf("Trained forest in %v", time.Since(start))
	return &trainedForest{Forest: f, settings: settings, imputation: imp, training: ds}, 0, nil
}
