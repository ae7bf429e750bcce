package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/piwi3910/TilePack/internal/engine"
	"github.com/piwi3910/TilePack/internal/model"
)

type benchOptions struct {
	runs  int
	count int
	min   int
	max   int
	seed  int64
}

// benchStats summarizes a benchmark.
type benchStats struct {
	Runs           int
	Items          int
	MeanDuration   time.Duration
	MeanEfficiency float64 // percent
	MinEfficiency  float64 // percent
}

// benchCommand creates the bench command.
func (c *CLI) benchCommand() *cobra.Command {
	opts := benchOptions{runs: 10, count: 1000, min: 8, max: 64, seed: 1}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the packer on random rectangles",
		Long: `Pack batches of random rectangles and report the mean packing time and
atlas efficiency. The random source is seeded, so runs are reproducible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.runs < 1 || opts.count < 1 {
				return fmt.Errorf("runs and count must be at least 1")
			}
			if opts.min < 1 || opts.max < opts.min {
				return fmt.Errorf("invalid size range [%d, %d]", opts.min, opts.max)
			}

			stats, err := runBench(cmd, opts)
			if err != nil {
				return err
			}

			p := message.NewPrinter(language.English)
			w := cmd.OutOrStdout()
			printSuccess(w, "%s runs of %s rectangles", p.Sprintf("%d", stats.Runs), p.Sprintf("%d", stats.Items))
			printKeyValue(w, "Mean time", stats.MeanDuration.String())
			printKeyValue(w, "Efficiency", fmt.Sprintf("%.1f%% mean, %.1f%% min", stats.MeanEfficiency, stats.MinEfficiency))
			printDetail(w, "seed %d, sizes %d..%d", opts.seed, opts.min, opts.max)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.runs, "runs", opts.runs, "number of packings")
	cmd.Flags().IntVar(&opts.count, "count", opts.count, "rectangles per packing")
	cmd.Flags().IntVar(&opts.min, "min", opts.min, "smallest rectangle side")
	cmd.Flags().IntVar(&opts.max, "max", opts.max, "largest rectangle side")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "random seed")

	return cmd
}

// runBench packs opts.runs batches and aggregates their timings.
func runBench(cmd *cobra.Command, opts benchOptions) (benchStats, error) {
	rng := rand.New(rand.NewSource(opts.seed))
	stats := benchStats{Runs: opts.runs, Items: opts.count, MinEfficiency: 100}

	var total time.Duration
	var effSum float64
	for run := 0; run < opts.runs; run++ {
		if ctx := cmd.Context(); ctx != nil && ctx.Err() != nil {
			return benchStats{}, ctx.Err()
		}

		items := randomItems(rng, opts.count, opts.min, opts.max)
		used := 0
		for _, it := range items {
			used += it.Area()
		}

		start := time.Now()
		bounds, err := engine.Pack(items)
		if err != nil {
			return benchStats{}, err
		}
		total += time.Since(start)

		eff := float64(used) / float64(bounds.Area()) * 100
		effSum += eff
		stats.MinEfficiency = min(stats.MinEfficiency, eff)
	}

	stats.MeanDuration = total / time.Duration(opts.runs)
	stats.MeanEfficiency = effSum / float64(opts.runs)
	return stats, nil
}

// randomItems returns n items with sides uniform in [lo, hi].
func randomItems(rng *rand.Rand, n, lo, hi int) []model.Item[int] {
	items := make([]model.Item[int], n)
	for i := range items {
		items[i] = model.NewItem(lo+rng.Intn(hi-lo+1), lo+rng.Intn(hi-lo+1), i)
	}
	return items
}
