// Package segment implements an ordered, embedded key/value engine with
// named trees and atomic transactions over fixed-arity tree groups.
//
// A Store owns a set of trees, a shared write-ahead log, and per-tree
// snapshot files. Commits append one WAL record per transaction before any
// tree is mutated; recovery replays the log on open. Snapshots are written
// by Flush and compressed with a self-describing codec.
//
// The transactional primitive is only available at fixed arities
// (Transact1 .. Transact16). Layers that multiplex a dynamic number of
// logical namespaces onto trees must select the matching arity themselves.
package segment

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kvgo/codec"
	"github.com/hupe1980/kvgo/internal/wal"
)

const walFileName = "segment.wal"

// Store is an ordered key/value engine rooted at a directory.
// It is safe for concurrent use.
type Store struct {
	dir   string
	opts  Options
	codec codec.Codec
	wal   *wal.WAL

	mu     sync.Mutex // serializes commits, flushes and manifest updates
	trees  []*Tree
	byName map[string]*Tree

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
	flushCh   chan struct{}
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// Open opens or creates a store at dir, restores every known tree from its
// snapshot, replays the write-ahead log and starts the background flusher.
func Open(dir string, optFns ...func(o *Options)) (*Store, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.CacheBytes <= 0 {
		opts.CacheBytes = DefaultOptions.CacheBytes
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = DefaultOptions.FlushInterval
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("segment: create store dir: %w", err)
	}

	s := &Store{
		dir:     dir,
		opts:    opts,
		codec:   opts.Codec,
		byName:  make(map[string]*Tree),
		flushCh: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}

	names, err := loadManifest(dir)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		s.addTreeLocked(name)
	}

	// Snapshots are independent files; load them in parallel.
	g := new(errgroup.Group)
	for _, t := range s.trees {
		g.Go(func() error {
			return s.loadSnapshot(t)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	w, err := wal.Open(filepath.Join(dir, walFileName), func(op *wal.Op) error {
		if int(op.Tree) >= len(s.trees) {
			return fmt.Errorf("segment: wal references unknown tree %d", op.Tree)
		}
		s.trees[op.Tree].apply(op.Kind, op.Key, op.Value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.wal = w

	s.wg.Add(1)
	go s.flushLoop()

	return s, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// OpenTree returns the tree with the given name, creating it if it does
// not exist. Tree creation order is persisted and stable across reopens.
func (s *Store) OpenTree(name string) (*Tree, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if name == "" || strings.ContainsAny(name, "/\\") {
		return nil, fmt.Errorf("segment: invalid tree name %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.byName[name]; ok {
		return t, nil
	}
	t := s.addTreeLocked(name)
	if err := saveManifest(s.dir, s.treeNamesLocked()); err != nil {
		s.trees = s.trees[:len(s.trees)-1]
		delete(s.byName, name)
		return nil, err
	}
	return t, nil
}

func (s *Store) addTreeLocked(name string) *Tree {
	t := newTree(s, name, len(s.trees))
	s.trees = append(s.trees, t)
	s.byName[name] = t
	return t
}

func (s *Store) treeNamesLocked() []string {
	names := make([]string, len(s.trees))
	for i, t := range s.trees {
		names[i] = t.name
	}
	return names
}

// commit atomically applies the staged operations of a transaction.
// The WAL record is written first; if that fails nothing is applied.
// During apply every involved tree is locked, so no reader observes a
// partially applied batch within a tree group.
func (s *Store) commit(txs []*Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrClosed
	}

	var rec wal.Record
	for _, tx := range txs {
		rec.Ops = append(rec.Ops, tx.ops...)
	}
	if len(rec.Ops) == 0 {
		return nil
	}

	if err := s.wal.Append(&rec); err != nil {
		return err
	}

	locked := make([]*Tree, len(txs))
	for i, tx := range txs {
		locked[i] = tx.tree
	}
	sort.Slice(locked, func(i, j int) bool { return locked[i].id < locked[j].id })
	for _, t := range locked {
		t.mu.Lock()
	}
	for i := range rec.Ops {
		op := &rec.Ops[i]
		s.trees[op.Tree].applyLocked(op.Kind, op.Key, op.Value)
	}
	for i := len(locked) - 1; i >= 0; i-- {
		locked[i].mu.Unlock()
	}

	if s.opts.SyncWrites {
		if err := s.wal.Sync(); err != nil {
			return err
		}
	}
	if s.wal.Size() > s.opts.CacheBytes/2 {
		select {
		case s.flushCh <- struct{}{}:
		default:
		}
	}
	return nil
}

// Flush snapshots every dirty tree in creation order and truncates the
// write-ahead log once all trees are clean. It stops at the first failing
// tree; trees after it keep their previous snapshot state.
func (s *Store) Flush() error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	for _, t := range s.trees {
		if err := s.flushTreeLocked(t); err != nil {
			return err
		}
	}
	return s.truncateWALLocked()
}

func (s *Store) flushTreeLocked(t *Tree) error {
	if !t.dirty.Load() {
		return nil
	}
	if err := s.writeSnapshot(t); err != nil {
		return err
	}
	t.dirty.Store(false)
	return nil
}

// truncateWALLocked resets the log when no tree is dirty. Replay is
// idempotent, so keeping the log around while any tree is unflushed is
// always safe.
func (s *Store) truncateWALLocked() error {
	for _, t := range s.trees {
		if t.dirty.Load() {
			return nil
		}
	}
	return s.wal.Reset()
}

func (s *Store) anyDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.trees {
		if t.dirty.Load() {
			return true
		}
	}
	return false
}

func (s *Store) flushLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.opts.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
		case <-s.flushCh:
		}
		if !s.anyDirty() {
			continue
		}
		if err := s.Flush(); err != nil && s.opts.OnBackgroundFlushError != nil {
			s.opts.OnBackgroundFlushError(err)
		}
	}
}

// Close stops the background flusher, flushes all trees best-effort and
// closes the write-ahead log. Close is idempotent.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()

		s.mu.Lock()
		err := s.flushLocked()
		s.closed.Store(true)
		if cerr := s.wal.Close(); err == nil {
			err = cerr
		}
		s.mu.Unlock()
		s.closeErr = err
	})
	return s.closeErr
}
