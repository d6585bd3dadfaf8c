package ops

import (
	"context"
	"sort"
	"sync"

	"github.com/jacksmith/mkt/internal/model"
	"github.com/jacksmith/mkt/internal/scope"
)

// Tile is one resource's entry on the dashboard.
type Tile struct {
	Resource string
	Count    int
	// ByStatus counts records per status value; records without one are under "".
	ByStatus map[string]int
	Err      error
}

// Dashboard fetches every resource concurrently within a scope tied to ctx.
// When ctx is cancelled the scope closes, in-flight requests are aborted and
// their tiles are reported with the context error rather than stale data.
// Tiles are returned in the order of resources.
func Dashboard(ctx context.Context, c Catalog, resources []string) []Tile {
	s := scope.New(ctx)

	var mu sync.Mutex
	got := make(map[string]Tile, len(resources))

	for _, res := range resources {
		res := res
		scope.Go(s, func(ctx context.Context) ([]model.Record, error) {
			return c.List(ctx, res)
		}, func(records []model.Record, err error) {
			tile := Tile{Resource: res}
			if err != nil {
				tile.Err = &LoadError{Resource: res, Err: err}
			} else {
				tile.Count = len(records)
				tile.ByStatus = countByStatus(records)
			}
			mu.Lock()
			got[res] = tile
			mu.Unlock()
		})
	}

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	s.Close()

	mu.Lock()
	defer mu.Unlock()
	tiles := make([]Tile, 0, len(resources))
	for _, res := range resources {
		tile, ok := got[res]
		if !ok {
			tile = Tile{Resource: res, Err: &LoadError{Resource: res, Err: ctx.Err()}}
		}
		tiles = append(tiles, tile)
	}
	return tiles
}

func countByStatus(records []model.Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Status()]++
	}
	return counts
}

// StatusKeys returns the keys of a status count map in sorted order.
func StatusKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
