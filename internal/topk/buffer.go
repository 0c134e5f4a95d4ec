// Package topk implements the bounded score buffer C6: a fixed-capacity
// heap of (tensor, score) candidates rooted at the lowest score, evicting it on
// overflow. Not thread-safe by itself — only the classifier worker touches
// it, per spec.md §5.
package topk

import "container/heap"

// Entry is one candidate tensor and the confidence score it was captured at.
type Entry struct {
	Tensor []uint8
	Score  float32
}

// entryHeap is a min-heap on Score so the root is always the entry to evict
// when the buffer overflows capacity — the mirror of the original's
// max-heap-under-"a.score > b.score" comparator, where popping the root
// evicts the minimum.
type entryHeap []Entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(Entry)) }
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Buffer is the fixed-capacity Top-K structure from spec.md §4.8; the
// capacity is set by New (the config default is 5).
type Buffer struct {
	capacity int
	heap     entryHeap
}

// New returns an empty buffer with the given capacity.
func New(capacity int) *Buffer {
	return &Buffer{capacity: capacity}
}

// Add inserts entry; if the buffer now exceeds capacity, the minimum-score
// entry is evicted. Adding to an empty buffer never evicts.
func (b *Buffer) Add(entry Entry) {
	heap.Push(&b.heap, entry)
	if b.heap.Len() > b.capacity {
		heap.Pop(&b.heap)
	}
}

// Snapshot returns the current entries in heap order (not score order).
func (b *Buffer) Snapshot() []Entry {
	out := make([]Entry, len(b.heap))
	copy(out, b.heap)
	return out
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.heap = nil
}

// Len reports the current occupancy.
func (b *Buffer) Len() int {
	return b.heap.Len()
}
