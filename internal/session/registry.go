// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package session

import (
	"hash/fnv"
	"sync"
)

// shardCount spreads sessions over independent locks so concurrent
// handlers rarely contend on registry access. Power of two keeps the
// modulo cheap.
const shardCount = 16

type shard[T any] struct {
	mu sync.RWMutex
	m  map[string]T
}

// registry is a sharded id-to-session map. It only stores and hands out
// values; per-session serialization is the caller's concern.
type registry[T any] struct {
	shards [shardCount]shard[T]
}

func newRegistry[T any]() *registry[T] {
	r := &registry[T]{}
	for i := range r.shards {
		r.shards[i].m = make(map[string]T)
	}
	return r
}

func (r *registry[T]) shardFor(id string) *shard[T] {
	h := fnv.New64a()
	h.Write([]byte(id))
	return &r.shards[h.Sum64()%shardCount]
}

func (r *registry[T]) get(id string) (T, bool) {
	sh := r.shardFor(id)
	sh.mu.RLock()
	v, ok := sh.m[id]
	sh.mu.RUnlock()
	return v, ok
}

func (r *registry[T]) put(id string, v T) {
	sh := r.shardFor(id)
	sh.mu.Lock()
	sh.m[id] = v
	sh.mu.Unlock()
}

func (r *registry[T]) remove(id string) {
	sh := r.shardFor(id)
	sh.mu.Lock()
	delete(sh.m, id)
	sh.mu.Unlock()
}

func (r *registry[T]) size() int {
	n := 0
	for i := range r.shards {
		r.shards[i].mu.RLock()
		n += len(r.shards[i].m)
		r.shards[i].mu.RUnlock()
	}
	return n
}

// values returns a point-in-time copy of every stored session. Sweeps
// iterate the copy so they never hold shard locks across store writes.
func (r *registry[T]) values() []T {
	out := make([]T, 0, 64)
	for i := range r.shards {
		r.shards[i].mu.RLock()
		for _, v := range r.shards[i].m {
			out = append(out, v)
		}
		r.shards[i].mu.RUnlock()
	}
	return out
}
