package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/config"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/logging"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/matching"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var cfg *config.Config

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "fuzzyrank",
	Short: "Rank a movie catalog against fuzzy preferences",
	Long: `fuzzyrank scores every movie in a catalog by how well it fits qualitative
preferences such as "short", "new" or "excellent rating", combines the scores
with per-query weights and prints the best matches.

The catalog comes from a JSON file, a SQLite database or a PostgreSQL movies
table, selected in the config file or with SOURCE_DRIVER.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Narrate each ranking step")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $CONFIG_PATH or ./config.yaml)")
}

func loadConfig(cmd *cobra.Command, _ []string) (err error) {
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}
	level := cfg.Logging.Level
	if !verbose && level == "info" {
		level = "warn"
	}
	logging.Init(logging.Config{
		Level:     level,
		Format:    "console",
		Timestamp: true,
		Output:    cmd.ErrOrStderr(),
	})
	return err
}

func engineOptions(rc config.RankingConfig, similarity string) (opts matching.Options, err error) {
	if similarity == "" {
		similarity = rc.Similarity
	}
	var sim matching.Similarity
	sim, err = matching.SimilarityByName(similarity)
	if err != nil {
		return opts, err
	}
	opts = matching.Options{
		TopN:              rc.TopN,
		TextCandidates:    rc.TextCandidates,
		MaxRows:           rc.MaxRows,
		Workers:           rc.Workers,
		ParallelThreshold: rc.ParallelThreshold,
		SoftThresholds:    rc.SoftThresholds,
		Similarity:        sim,
	}
	return opts, err
}
