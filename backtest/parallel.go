package backtest

import "sync"

// parallelMap runs fn for each key in its own goroutine and merges the
// results by key. Tasks must be side-effect-free; the first error wins.
// Duplicate keys are evaluated once.
func parallelMap[K comparable, V any](keys []K, fn func(K) (V, error)) (map[K]V, error) {
	seen := make(map[K]struct{}, len(keys))
	unique := keys[:0:0]
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, k)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	out := make(map[K]V, len(unique))
	for _, k := range unique {
		wg.Add(1)
		go func(k K) {
			defer wg.Done()
			v, err := fn(k)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			out[k] = v
		}(k)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
