package embed

import (
	"context"
	"fmt"
	"sync"
)

const (
	DefaultBatchSize = 32
	DefaultWorkers   = 4
)

// BatchEmbed splits texts into batches and embeds them on a bounded worker
// pool. Results are reassembled into input order, so callers that depend on
// index order (the clustering pass does) see the same layout as a serial
// call. The first batch error cancels the remaining work.
func BatchEmbed(ctx context.Context, embedder Embedder, texts []string, batchSize, workers int) ([][]float64, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is nil")
	}
	if len(texts) == 0 {
		return nil, nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	type job struct {
		offset int
		texts  []string
	}

	jobs := make([]job, 0, (len(texts)+batchSize-1)/batchSize)
	for offset := 0; offset < len(texts); offset += batchSize {
		end := min(offset+batchSize, len(texts))
		jobs = append(jobs, job{offset: offset, texts: texts[offset:end]})
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	vectors := make([][]float64, len(texts))
	jobCh := make(chan job)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				batch, err := embedder.Embed(ctx, j.texts)
				if err != nil {
					fail(fmt.Errorf("embed batch at offset %d: %w", j.offset, err))
					return
				}
				if len(batch) != len(j.texts) {
					fail(fmt.Errorf("embed batch at offset %d: got %d vectors for %d texts", j.offset, len(batch), len(j.texts)))
					return
				}
				for i, vector := range batch {
					vectors[j.offset+i] = vector
				}
			}
		}()
	}

	for _, j := range jobs {
		select {
		case jobCh <- j:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobCh)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return vectors, nil
}
