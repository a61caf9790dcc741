// Package pq implements the binary min-heap shared by the low-level
// planner and every CBS driver: push/pop/peek keyed by a float64 cost,
// carrying an opaque value.
package pq

import "container/heap"

// Item is one entry of the queue.
type Item struct {
	Key   float64
	Value any

	seq   int64 // insertion order, breaks ties deterministically
	index int   // heap index, maintained by container/heap
}

type innerHeap []*Item

func (h innerHeap) Len() int { return len(h) }

func (h innerHeap) Less(i, j int) bool {
	if h[i].Key != h[j].Key {
		return h[i].Key < h[j].Key
	}
	// Prefer the earlier inserted element so traces are reproducible;
	// correctness never depends on this (best-first, not tie-sensitive).
	return h[i].seq < h[j].seq
}

func (h innerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *innerHeap) Push(x any) {
	item := x.(*Item)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *innerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Heap is a min-heap of (key, value) pairs.
type Heap struct {
	items  innerHeap
	nextSeq int64
}

// New returns an empty Heap.
func New() *Heap {
	h := &Heap{}
	heap.Init(&h.items)
	return h
}

// Push inserts value keyed by key.
func (h *Heap) Push(key float64, value any) {
	item := &Item{Key: key, Value: value, seq: h.nextSeq}
	h.nextSeq++
	heap.Push(&h.items, item)
}

// Pop removes and returns the cheapest value and its key. ok is false if
// the heap is empty.
func (h *Heap) Pop() (value any, key float64, ok bool) {
	if h.items.Len() == 0 {
		return nil, 0, false
	}
	item := heap.Pop(&h.items).(*Item)
	return item.Value, item.Key, true
}

// Peek returns the cheapest value and its key without removing it.
func (h *Heap) Peek() (value any, key float64, ok bool) {
	if h.items.Len() == 0 {
		return nil, 0, false
	}
	item := h.items[0]
	return item.Value, item.Key, true
}

// Len returns the number of items in the heap.
func (h *Heap) Len() int {
	return h.items.Len()
}
