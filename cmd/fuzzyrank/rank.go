package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/logging"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/matching"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/preference"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/storage"
)

type rankOptions struct {
	raw          preference.Raw
	text         string
	top          int
	year         int
	includeAdult bool
	interactive  bool
	asJSON       bool
	similarity   string
	soft         bool
	driver       string
	itemsPath    string
	sqlitePath   string
}

//nolint:gochecknoglobals // Cobra boilerplate
var rankFlags rankOptions

// newPrompter builds the terminal prompts for --interactive.
//
//nolint:gochecknoglobals // replaced in tests
var newPrompter = func(cmd *cobra.Command) preference.Prompter {
	return preference.NewSurveyPrompter(os.Stdin, os.Stdout, cmd.ErrOrStderr())
}

//nolint:gochecknoglobals // Cobra boilerplate
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the catalog against preferences",
	Long: `Ranks the catalog against one preference per axis. Every axis defaults to
"none", which leaves it out of the score.

Examples:
  # Short, highly rated films whose title mentions "dream"
  fuzzyrank rank --length short --rating excellent --text dream

  # Answer one question per axis, starting from the given flags
  fuzzyrank rank --interactive --language fr

  # Machine-readable output from a SQLite catalog
  fuzzyrank rank --driver sqlite --sqlite-path movies.db --age retro --json`,
	RunE: runRank,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(rankCmd)
	f := rankCmd.Flags()
	f.StringVar(&rankFlags.raw.Length, "length", "", "short, medium, long or none")
	f.StringVar(&rankFlags.raw.Age, "age", "", "new, older, retro or none")
	f.StringVar(&rankFlags.raw.Rating, "rating", "", "excellent, good, average, bad or none")
	f.StringVar(&rankFlags.raw.Popularity, "popularity", "", "blockbuster, average, unknown or none")
	f.StringVar(&rankFlags.raw.Language, "language", "", "language code such as en, fr, ja, or none")
	f.StringVar(&rankFlags.text, "text", "", "words to match against titles")
	f.IntVarP(&rankFlags.top, "top", "n", 0, "number of results (default from config)")
	f.IntVar(&rankFlags.year, "year", 0, "current year used for item age (default this year)")
	f.BoolVar(&rankFlags.includeAdult, "include-adult", false, "keep adult titles")
	f.BoolVarP(&rankFlags.interactive, "interactive", "i", false, "ask for each preference, starting from the other flags")
	f.BoolVar(&rankFlags.asJSON, "json", false, "print results as JSON")
	f.StringVar(&rankFlags.similarity, "similarity", "", "title similarity: token or edit (default from config)")
	f.BoolVar(&rankFlags.soft, "soft", false, "use sigmoid shapes for new and excellent")
	f.StringVar(&rankFlags.driver, "driver", "", "catalog source: file, sqlite or postgres")
	f.StringVar(&rankFlags.itemsPath, "items", "", "items JSON file for the file driver")
	f.StringVar(&rankFlags.sqlitePath, "sqlite-path", "", "database path for the sqlite driver")
}

func runRank(cmd *cobra.Command, _ []string) (err error) {
	ctx := cmd.Context()

	warn := pterm.Warning.WithWriter(cmd.ErrOrStderr())
	prefs, parseErr := preference.Parse(rankFlags.raw)
	if parseErr != nil {
		warn.Printfln("%v; those axes are ignored", parseErr)
	}
	prefs.Text = rankFlags.text
	prefs.IncludeAdult = rankFlags.includeAdult
	prefs.TopN = rankFlags.top

	if rankFlags.interactive {
		defaults := prefs
		if defaults.TopN <= 0 {
			defaults.TopN = cfg.Ranking.TopN
		}
		collector := preference.NewCollector(newPrompter(cmd), func(format string, args ...any) {
			warn.Printfln(format, args...)
		})
		prefs, err = collector.Collect(defaults)
		if err != nil {
			err = fmt.Errorf("failed to read preferences: %w", err)
			return err
		}
	}
	prefs.CurrentYear = rankFlags.year
	prefs.Verbose = verbose

	src := cfg.Source
	if rankFlags.driver != "" {
		src.Driver = rankFlags.driver
	}
	if rankFlags.itemsPath != "" {
		src.ItemsPath = rankFlags.itemsPath
	}
	if rankFlags.sqlitePath != "" {
		src.SQLitePath = rankFlags.sqlitePath
	}

	var store storage.Store
	store, err = storage.Open(ctx, src, logging.Logger())
	if err != nil {
		err = fmt.Errorf("failed to open catalog: %w", err)
		return err
	}
	defer store.Close()

	w, weightsErr := matching.LoadWeightsFromFile(cfg.Ranking.WeightsPath)
	if weightsErr != nil {
		logging.Debug().Err(weightsErr).Msg("use default weights")
		w = matching.DefaultWeights()
	}

	var opts matching.Options
	opts, err = engineOptions(cfg.Ranking, rankFlags.similarity)
	if err != nil {
		return err
	}
	opts.SoftThresholds = opts.SoftThresholds || rankFlags.soft

	engine := matching.NewEngine(w, opts, logging.Component("matching"))

	var results []domain.RankedItem
	results, err = engine.RankFrom(ctx, store, prefs)
	if err != nil {
		err = fmt.Errorf("failed to rank catalog: %w", err)
		return err
	}

	out := cmd.OutOrStdout()
	if rankFlags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(results)
		return err
	}

	if len(results) == 0 {
		pterm.Info.WithWriter(out).Println("No movie matched the preferences well enough.")
		return err
	}
	err = renderTable(out, results)
	return err
}

func renderTable(out io.Writer, results []domain.RankedItem) (err error) {
	data := pterm.TableData{
		{"#", "Title", "Year", "Min", "Rating", "Votes", "Pop", "μlen", "μage", "μrat", "μpop", "μlang", "μtext", "Score"},
	}
	for i, r := range results {
		m := r.Memberships
		text := "-"
		if r.TextScore != nil {
			text = score(*r.TextScore)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.Item.Title,
			intOrDash(r.Item.ReleaseYear),
			floatOrDash(r.Item.Runtime, 0),
			floatOrDash(r.Item.VoteAverage, 1),
			intOrDash(r.Item.VoteCount),
			floatOrDash(r.Item.Popularity, 1),
			score(m.Length),
			score(m.Age),
			score(m.Rating),
			score(m.Popularity),
			score(m.Language),
			text,
			score(r.FuzzyScore),
		})
	}
	err = pterm.DefaultTable.WithHasHeader().WithWriter(out).WithData(data).Render()
	return err
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func intOrDash(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

func floatOrDash(p *float64, prec int) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', prec, 64)
}
