package topk

import "testing"

func TestAddOnEmptyNeverEvicts(t *testing.T) {
	b := New(5)
	b.Add(Entry{Score: 0.5})
	if b.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", b.Len())
	}
}

func TestAddEvictsMinimumOnOverflow(t *testing.T) {
	b := New(3)
	b.Add(Entry{Score: 0.5, Tensor: []byte("a")})
	b.Add(Entry{Score: 0.9, Tensor: []byte("b")})
	b.Add(Entry{Score: 0.1, Tensor: []byte("c")})
	b.Add(Entry{Score: 0.7, Tensor: []byte("d")})

	if b.Len() != 3 {
		t.Fatalf("expected capacity-bounded len 3, got %d", b.Len())
	}
	for _, e := range b.Snapshot() {
		if e.Score == 0.1 {
			t.Fatal("expected minimum-score entry to be evicted")
		}
	}
}

func TestClearEmpties(t *testing.T) {
	b := New(5)
	b.Add(Entry{Score: 1})
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("expected 0 after clear, got %d", b.Len())
	}
}
