package imagetable

import (
	"context"
	"sync"
)

// BuildAll builds every description on up to workers goroutines. All builds
// share one session cache, which is cleared when they are done unless the
// builder was given its own. Tables are returned in description order.
func (b *Builder) BuildAll(ctx context.Context, descs []Description, workers int) ([]*Table, error) {
	if workers < 1 {
		workers = 1
	}

	shared := *b
	if shared.cache == nil {
		shared.cache = NewSessionCache()
		defer shared.cache.Clear()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tables := make([]*Table, len(descs))
	jobs, errc := feed(ctx, len(descs))
	errcList := []<-chan error{errc}
	for i := 0; i < workers; i++ {
		errcList = append(errcList, shared.worker(ctx, jobs, descs, tables))
	}

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}
	return tables, nil
}

func feed(ctx context.Context, n int) (<-chan int, <-chan error) {
	out := make(chan int)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i := 0; i < n; i++ {
			select {
			case out <- i:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return out, errc
}

func (b *Builder) worker(ctx context.Context, in <-chan int, descs []Description, tables []*Table) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for i := range in {
			if err := ctx.Err(); err != nil {
				errc <- err
				return
			}
			tables[i] = b.Build(descs[i])
		}
	}()
	return errc
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
