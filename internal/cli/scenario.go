package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ib-77/relay/pkg/relay"
	"github.com/ib-77/relay/pkg/relay/counter"
	"github.com/ib-77/relay/pkg/relay/parallel"
	"github.com/ib-77/relay/pkg/relay/pipeline"
)

// reporter receives scenario output. Implementations must be safe for
// concurrent use.
type reporter interface {
	Line(s string)
	Progress(done, total int)
}

func runScenario(ctx context.Context, cfg Config, rep reporter) (string, error) {
	switch cfg.Scenario {
	case "counter":
		return runCounter(cfg, rep), nil
	case "foreach":
		return runForEach(ctx, cfg, rep)
	default:
		return runMessages(ctx, cfg, rep)
	}
}

func runMessages(ctx context.Context, cfg Config, rep reporter) (string, error) {
	total := cfg.Producers * cfg.Count
	var opts []pipeline.Option
	if cfg.Timeout > 0 {
		opts = append(opts, pipeline.WithIdleTimeout(cfg.Timeout))
	}

	received := counter.NewAtomic(0)
	p := pipeline.New(ctx, func(_ context.Context, msg relay.Message[string]) error {
		received.IncrementBy(1)
		rep.Line("Received: " + msg.Body())
		rep.Progress(int(received.Load()), total)
		return nil
	}, opts...)

	for i := range cfg.Producers {
		name := "main"
		if i > 0 {
			name = fmt.Sprintf("producer-%d", i)
		}
		p.Go(name, func(ctx context.Context, pr *pipeline.Producer[string]) error {
			for j := 1; j <= cfg.Count; j++ {
				if err := pr.Send(ctx, fmt.Sprintf("Hello %d from %s!", j, pr.Name())); err != nil {
					return err
				}
				if err := sleep(ctx, cfg.Delay); err != nil {
					return err
				}
			}
			return nil
		})
	}

	report, err := p.Wait()
	summary := fmt.Sprintf("consumer %s (%s): %d/%d messages from %d producers",
		report.State, report.Reason, report.Processed, total, len(report.Producers))
	return summary, err
}

func runCounter(cfg Config, rep reporter) string {
	amounts := make([]int64, cfg.Count)
	for i := range amounts {
		amounts[i] = int64(i)
	}

	variants := []struct {
		name string
		c    counter.Counter
	}{
		{"locked", counter.NewLocked(0)},
		{"atomic", counter.NewAtomic(0)},
	}
	for i, v := range variants {
		total := counter.Accumulate(v.c, amounts)
		rep.Line(fmt.Sprintf("%s total=%d", v.name, total))
		rep.Progress(i+1, len(variants))
	}

	return fmt.Sprintf("summed %d increments with %d strategies", len(amounts), len(variants))
}

func runForEach(ctx context.Context, cfg Config, rep reporter) (string, error) {
	items := make([]int, cfg.Count)
	for i := range items {
		items[i] = i
	}

	finished := counter.NewAtomic(0)
	start := time.Now()
	err := parallel.ForEach(ctx, items, func(ctx context.Context, item int) error {
		if err := sleep(ctx, cfg.Delay); err != nil {
			return err
		}
		finished.IncrementBy(1)
		rep.Line(fmt.Sprintf("Finished item %d", item))
		rep.Progress(int(finished.Load()), len(items))
		return nil
	})

	return fmt.Sprintf("%d/%d items in %s", finished.Load(), len(items), time.Since(start).Round(time.Millisecond)), err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
