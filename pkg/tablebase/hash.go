package tablebase

import (
	"runtime"
	"sync"

	"github.com/mateline/endgametb/pkg/board"
	"github.com/mateline/endgametb/pkg/codec"
	"github.com/mateline/endgametb/pkg/retro"
)

// numShards bounds lock contention on the sharded set used by the
// parallel layer-expansion path. Grounded on pkg/board's ZobristHash,
// which already exists to shard/dedupe positions across concurrent
// work -- reused here unchanged rather than re-derived from the key
// string, since two positions with the same Zobrist hash always fall in
// the same shard regardless of which worker computed them.
const numShards = 64

// shardedSet is a concurrency-safe set of canonical keys, partitioned by
// board.ZobristHash so that independent goroutines expanding different
// predecessor positions rarely contend on the same lock.
type shardedSet struct {
	zobrist *board.ZobristTable
	shards  [numShards]struct {
		mu sync.Mutex
		m  map[string]*board.Position
	}
}

func newShardedSet() *shardedSet {
	s := &shardedSet{zobrist: board.NewZobristTable(1)}
	for i := range s.shards {
		s.shards[i].m = map[string]*board.Position{}
	}
	return s
}

func (s *shardedSet) shardFor(pos *board.Position) int {
	return int(s.zobrist.Hash(pos) % numShards)
}

// insertIfAbsent adds pos under key unless key is already present in
// either this set or excluded, returning true iff it was newly added.
func (s *shardedSet) insertIfAbsent(key string, pos *board.Position, excluded map[string]struct{}) bool {
	if _, known := excluded[key]; known {
		return false
	}
	shard := &s.shards[s.shardFor(pos)]
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if _, ok := shard.m[key]; ok {
		return false
	}
	shard.m[key] = pos
	return true
}

func (s *shardedSet) toMap() map[string]*board.Position {
	ret := map[string]*board.Position{}
	for i := range s.shards {
		s.shards[i].mu.Lock()
		for k, v := range s.shards[i].m {
			ret[k] = v
		}
		s.shards[i].mu.Unlock()
	}
	return ret
}

// expandLayerParallel is expandLayer's concurrent counterpart: each key
// in prev is decoded and expanded on a worker from a small pool, with
// results merged into a shardedSet instead of a plain map. The resulting
// candidate set is identical to the sequential path; only the wall-clock
// cost of computing it differs.
func expandLayerParallel(prev map[string]struct{}, universe map[string]struct{}, maxPieces int) (map[string]*board.Position, error) {
	keys := make([]string, 0, len(prev))
	for key := range prev {
		keys = append(keys, key)
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > len(keys) {
		workers = len(keys)
	}

	jobs := make(chan string)
	errs := make(chan error, workers)
	set := newShardedSet()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range jobs {
				p, err := codec.Decode(key)
				if err != nil {
					errs <- err
					continue
				}
				for predKey, predPos := range retro.Predecessors(p, p.Turn().Opponent(), maxPieces) {
					set.insertIfAbsent(predKey, predPos, universe)
				}
			}
		}()
	}

	for _, key := range keys {
		jobs <- key
	}
	close(jobs)
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return nil, err
	}
	return set.toMap(), nil
}
