package pq

import "testing"

func TestHeapOrdersByKey(t *testing.T) {
	h := New()
	h.Push(3.0, "c")
	h.Push(1.0, "a")
	h.Push(2.0, "b")

	want := []string{"a", "b", "c"}
	for _, w := range want {
		v, _, ok := h.Pop()
		if !ok {
			t.Fatalf("Pop() returned ok=false, want value %q", w)
		}
		if v.(string) != w {
			t.Errorf("Pop() = %v, want %v", v, w)
		}
	}
	if _, _, ok := h.Pop(); ok {
		t.Errorf("Pop() on empty heap returned ok=true")
	}
}

func TestHeapTieBreaksByInsertionOrder(t *testing.T) {
	h := New()
	h.Push(5.0, "first")
	h.Push(5.0, "second")
	h.Push(5.0, "third")

	want := []string{"first", "second", "third"}
	for _, w := range want {
		v, _, _ := h.Pop()
		if v.(string) != w {
			t.Errorf("Pop() = %v, want %v", v, w)
		}
	}
}

func TestHeapPeekDoesNotRemove(t *testing.T) {
	h := New()
	h.Push(1.0, "a")

	v1, _, _ := h.Peek()
	v2, _, _ := h.Peek()
	if v1 != v2 {
		t.Errorf("Peek() not idempotent: %v != %v", v1, v2)
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %d after Peek, want 1", h.Len())
	}
}
