package cli

import (
	"context"
	"fmt"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/shivanshkc/fluxion/pkg/exec"
	"github.com/shivanshkc/fluxion/pkg/fluxion"
	"github.com/shivanshkc/fluxion/pkg/metrics"
	"github.com/shivanshkc/fluxion/pkg/partition"
	"github.com/shivanshkc/fluxion/pkg/runtime"
	"github.com/shivanshkc/fluxion/pkg/shared"
	"github.com/shivanshkc/fluxion/pkg/streams"
	"github.com/shivanshkc/fluxion/pkg/streams/merge"
	"github.com/shivanshkc/fluxion/pkg/streams/timeops"
	"github.com/shivanshkc/fluxion/pkg/utils/miscutils"
)

var (
	demoReadingCount *int
	demoDebounce     *time.Duration
)

// demoCmd wires a small, self-contained pipeline out of fluxion operators
// over synthetic sensor-style readings, then prints what came out along
// with per-stage timing.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Runs a synthetic sensor-merge pipeline and prints its output.",
	Long: `Runs a synthetic sensor-merge pipeline (merge -> debounce -> scan
-> distinct) and prints every emitted value, then runs a second small
pipeline (share -> partition -> subscribe) and prints its output too.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		rt := runtime.NewDefault()

		if err := runMergePipeline(ctx, rt, *demoReadingCount, *demoDebounce); err != nil {
			return fmt.Errorf("merge pipeline failed: %w", err)
		}
		if err := runPartitionPipeline(ctx, rt); err != nil {
			return fmt.Errorf("partition pipeline failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoReadingCount = demoCmd.Flags().IntP("readings", "n", 8,
		"Number of synthetic readings to generate per sensor.")
	demoDebounce = demoCmd.Flags().DurationP("debounce", "d", 5*time.Millisecond,
		"Quiet period the debounce stage waits for before emitting.")
}

// sensorStream builds a synthetic stream of ascending, timestamped int
// readings, one every gap, standing in for a real sensor feed.
func sensorStream(vals []int, gap time.Duration) streams.Stream[fluxion.Item[fluxion.Stamped[int]]] {
	i := 0
	return streams.New(func(_ context.Context) (fluxion.Item[fluxion.Stamped[int]], bool, error) {
		if i >= len(vals) {
			var zero fluxion.Item[fluxion.Stamped[int]]
			return zero, false, nil
		}
		if i > 0 {
			time.Sleep(gap)
		}
		v := fluxion.Val(fluxion.WithFreshTimestamp(vals[i]))
		i++
		return v, true, nil
	})
}

// runMergePipeline merges two synthetic sensors, debounces the merged
// stream, folds a running sum over it with Scan, drops consecutive
// duplicate sums with DistinctUntilChanged, and prints everything that
// comes out, timing each emission.
func runMergePipeline(ctx context.Context, rt runtime.Runtime, count int, debounce time.Duration) error {
	fmt.Println(text.Bold.Sprint("== merge pipeline =="))

	sensorA := make([]int, count)
	sensorB := make([]int, count)
	for i := range sensorA {
		sensorA[i] = i + 1
		sensorB[i] = (i + 1) * 10
	}

	merged := merge.OrderedMerge(ctx, sensorStream(sensorA, time.Millisecond), sensorStream(sensorB, time.Millisecond))
	debounced := timeops.Debounce(ctx, debounce, rt.Timer(), merged)
	summed := timeops.Scan(0, func(acc int, v fluxion.Stamped[int]) int { return acc + v.Inner() }, debounced)
	distinct := timeops.DistinctUntilChanged(summed)

	var samples metrics.Durations
	start := time.Now()
	for {
		stepStart := time.Now()
		item, ok, err := distinct.NextContext(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		samples = append(samples, time.Since(stepStart))

		if item.IsError() {
			fe, _ := item.Error()
			fmt.Println(text.FgRed.Sprint("error: " + fe.Error()))
			continue
		}
		v, _ := item.Value()
		fmt.Println(text.FgGreen.Sprintf("running sum: %d", v))
	}

	printStats("merge pipeline", time.Since(start), samples)
	return nil
}

// runPartitionPipeline shares a short fixed stream, partitions one
// subscription to it by parity, and consumes both halves concurrently
// through exec.Subscribe.
func runPartitionPipeline(ctx context.Context, rt runtime.Runtime) error {
	fmt.Println(text.Bold.Sprint("== partition pipeline =="))

	vals := []int{1, 2, 3, 4, 5}
	source := streams.FromSlice(func() []fluxion.Item[int] {
		out := make([]fluxion.Item[int], len(vals))
		for i, v := range vals {
			out[i] = fluxion.Val(v)
		}
		return out
	}())

	handle := shared.Share(ctx, rt, source)
	sub, err := handle.Subscribe()
	if err != nil {
		return fmt.Errorf("subscribe to shared stream: %w", err)
	}
	pass, fail := partition.Partition(ctx, rt, func(v int) bool { return v%2 == 0 }, sub)

	var wg sync.WaitGroup
	wg.Add(len(vals))

	cancelPass := exec.Subscribe(ctx, rt, pass, func(_ context.Context, item fluxion.Item[int]) error {
		defer wg.Done()
		if v, ok := item.Value(); ok {
			fmt.Println(text.FgCyan.Sprintf("even: %d", v))
		}
		return nil
	}, nil)
	defer cancelPass()

	cancelFail := exec.Subscribe(ctx, rt, fail, func(_ context.Context, item fluxion.Item[int]) error {
		defer wg.Done()
		if v, ok := item.Value(); ok {
			fmt.Println(text.FgYellow.Sprintf("odd: %d", v))
		}
		return nil
	}, nil)
	defer cancelFail()

	wg.Wait()
	handle.Close()
	return nil
}

// printStats formats a metrics.Stats report for stage using a tabwriter,
// matching the teacher's benchmark table layout.
func printStats(stage string, total time.Duration, samples metrics.Durations) {
	stats := samples.Stats()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
	fmt.Fprintln(w, "--------------------------")
	fmt.Fprintln(w, "Stage\tTotal\tAvg\tMin\tMed\tMax\tP90\tP95")
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		stage, miscutils.FormatDuration(total), miscutils.FormatDuration(stats.Avg),
		miscutils.FormatDuration(stats.Min), miscutils.FormatDuration(stats.Med),
		miscutils.FormatDuration(stats.Max), miscutils.FormatDuration(stats.P90),
		miscutils.FormatDuration(stats.P95))
	w.Flush()
}
