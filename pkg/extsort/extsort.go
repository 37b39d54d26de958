// Package extsort sorts streams too big for memory: the input is cut into
// chunks, the chunks are sorted concurrently and staged in pebble as
// compressed sorted runs, and the runs are merged back with the semi-indirect
// priority queue in pkg/merge.
package extsort

import (
	"fmt"
	"sync"

	"lintang/indexheap/domain"
	"lintang/indexheap/pkg/concurrent"
	"lintang/indexheap/pkg/indexheap"
	"lintang/indexheap/pkg/merge"

	"github.com/cockroachdb/pebble"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// run blocks stay small so merging never holds a whole run in memory
const blockSize = 1024

type Sorter[T any] struct {
	db        *pebble.DB
	chunkSize int
	workers   int
	cmp       indexheap.Comparator[T]
	sortSeq   int
}

// NewSorter creates a Sorter using the natural order of T. The pebble db is
// borrowed as scratch space; run keys live under an "extsort/" prefix and are
// deleted when a Sort finishes.
func NewSorter[T constraints.Ordered](db *pebble.DB, chunkSize, workers int) (*Sorter[T], error) {
	return NewSorterFunc(db, chunkSize, workers, indexheap.NaturalOrder[T]())
}

// NewSorterFunc is NewSorter with a caller-supplied comparator.
func NewSorterFunc[T any](db *pebble.DB, chunkSize, workers int, cmp indexheap.Comparator[T]) (*Sorter[T], error) {
	if db == nil {
		return nil, domain.WrapErrorf(nil, domain.ErrBadParamInput, "nil pebble db")
	}
	if chunkSize <= 0 {
		return nil, domain.WrapErrorf(nil, domain.ErrBadParamInput, "chunkSize %d must be positive", chunkSize)
	}
	if workers <= 0 {
		return nil, domain.WrapErrorf(nil, domain.ErrBadParamInput, "workers %d must be positive", workers)
	}
	if cmp == nil {
		return nil, domain.WrapErrorf(nil, domain.ErrBadParamInput, "nil comparator")
	}
	return &Sorter[T]{db: db, chunkSize: chunkSize, workers: workers, cmp: cmp}, nil
}

type runJob[T any] struct {
	runID int
	items []T
}

// Sort drains input, stages it in sorted runs, then calls emit for every
// element in sort order. A Sorter runs one Sort at a time.
func (s *Sorter[T]) Sort(input merge.Puller[T], emit func(T) error) error {
	s.sortSeq++
	prefix := fmt.Sprintf("extsort/%06d/", s.sortSeq)
	defer s.dropRuns(prefix)

	runCount, err := s.writeRuns(prefix, input)
	if err != nil {
		return err
	}

	pull := make([]merge.Puller[T], runCount)
	readers := make([]*runReader[T], runCount)
	for runID := 0; runID < runCount; runID++ {
		r, err := s.newRunReader(prefix, runID)
		if err != nil {
			return err
		}
		readers[runID] = r
		pull[runID] = r.next
	}
	defer func() {
		for _, r := range readers {
			r.close()
		}
	}()

	if err := merge.Streams(pull, s.cmp, emit); err != nil {
		return err
	}
	for _, r := range readers {
		if r.err != nil {
			return r.err
		}
	}
	return nil
}

// writeRuns cuts the input into chunks of chunkSize and hands them to the
// worker pool, which sorts each chunk and stages it as a run. Returns how
// many runs were written.
func (s *Sorter[T]) writeRuns(prefix string, input merge.Puller[T]) (int, error) {
	pool := concurrent.NewWorkerPool[runJob[T], error](s.workers, s.workers)
	pool.Start(func(job concurrent.Job[runJob[T]]) error {
		return s.writeRun(prefix, job.JobItem)
	})

	var firstErr error
	var collectWG sync.WaitGroup
	collectWG.Add(1)
	go func() {
		defer collectWG.Done()
		for err := range pool.CollectResults() {
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}()

	runCount := 0
	chunk := make([]T, 0, s.chunkSize)
	for {
		v, ok := input()
		if ok {
			chunk = append(chunk, v)
		}
		if (!ok && len(chunk) > 0) || len(chunk) == s.chunkSize {
			pool.AddJob(concurrent.Job[runJob[T]]{ID: runCount, JobItem: runJob[T]{runID: runCount, items: chunk}})
			runCount++
			chunk = make([]T, 0, s.chunkSize)
		}
		if !ok {
			break
		}
	}
	pool.Wait()
	collectWG.Wait()
	if firstErr != nil {
		return 0, firstErr
	}
	return runCount, nil
}

func (s *Sorter[T]) writeRun(prefix string, job runJob[T]) error {
	slices.SortFunc(job.items, s.cmp)
	for blockID := 0; blockID*blockSize < len(job.items); blockID++ {
		hi := (blockID + 1) * blockSize
		if hi > len(job.items) {
			hi = len(job.items)
		}
		bb, err := encodeBlock(job.items[blockID*blockSize : hi])
		if err != nil {
			return err
		}
		key := runBlockKey(prefix, job.runID, blockID)
		if err := s.db.Set(key, bb, pebble.NoSync); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sorter[T]) dropRuns(prefix string) {
	s.db.DeleteRange([]byte(prefix), prefixUpperBound([]byte(prefix)), pebble.NoSync)
}

func runBlockKey(prefix string, runID, blockID int) []byte {
	return []byte(fmt.Sprintf("%srun/%06d/%09d", prefix, runID, blockID))
}

func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// runReader streams one staged run back, block by block, through a pebble
// prefix iterator.
type runReader[T any] struct {
	iter  *pebble.Iterator
	block []T
	pos   int
	more  bool
	err   error
}

func (s *Sorter[T]) newRunReader(prefix string, runID int) (*runReader[T], error) {
	lower := []byte(fmt.Sprintf("%srun/%06d/", prefix, runID))
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: prefixUpperBound(lower),
	})
	if err != nil {
		return nil, err
	}
	return &runReader[T]{iter: iter, more: iter.First()}, nil
}

func (r *runReader[T]) next() (T, bool) {
	var zero T
	if r.pos == len(r.block) {
		if !r.more || r.err != nil {
			return zero, false
		}
		block, err := decodeBlock[T](r.iter.Value())
		if err != nil {
			r.err = err
			return zero, false
		}
		r.block = block
		r.pos = 0
		r.more = r.iter.Next()
		if len(r.block) == 0 {
			return zero, false
		}
	}
	v := r.block[r.pos]
	r.pos++
	return v, true
}

func (r *runReader[T]) close() {
	if r.iter != nil {
		r.iter.Close()
		r.iter = nil
	}
}
