// Package pipeline runs a producer-consumer flow over a relay channel.
//
// A Pipeline owns one consumer goroutine and any number of producer
// goroutines started with Go. Wait is the only join point: it waits for all
// producers, sends a single Stop, then waits for the consumer.
//
//	p := pipeline.New(ctx, pipeline.WriteHandler[string](os.Stdout))
//	p.Go("main", func(ctx context.Context, pr *pipeline.Producer[string]) error {
//	    return pr.Send(ctx, "hello")
//	})
//	report, err := p.Wait()
//
// The consumer moves Listening -> (Draining) -> Stopped. It stops on Stop,
// on disconnect, after an idle timeout (WithIdleTimeout), when ctx ends or
// when the handler fails. Producer failures are reported at Wait wrapped in
// relay.TaskError; WithFailurePolicy(FailFast) additionally cancels the
// remaining producers.
package pipeline
