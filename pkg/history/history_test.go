package history

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/avatarshuffle/pkg/storage"
)

func TestAddMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	h := New(storage.NewMemoryStore())

	for _, p := range []string{"cat", "dog", "owl"} {
		if err := h.Add(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	got, err := h.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"owl", "dog", "cat"}; !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestAddDeduplicates(t *testing.T) {
	ctx := context.Background()
	h := New(storage.NewMemoryStore())

	for _, p := range []string{"cat", "dog", " cat "} {
		h.Add(ctx, p)
	}
	got, _ := h.List(ctx)
	if want := []string{"cat", "dog"}; !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestAddCaps(t *testing.T) {
	ctx := context.Background()
	h := New(storage.NewMemoryStore())

	for i := range 25 {
		h.Add(ctx, fmt.Sprintf("prompt %d", i))
	}
	got, _ := h.List(ctx)
	if len(got) != DefaultLimit {
		t.Fatalf("len = %d, want %d", len(got), DefaultLimit)
	}
	if got[0] != "prompt 24" || got[len(got)-1] != "prompt 5" {
		t.Errorf("bounds = %q .. %q", got[0], got[len(got)-1])
	}

	small := New(storage.NewMemoryStore(), WithLimit(2))
	for _, p := range []string{"a", "b", "c"} {
		small.Add(ctx, p)
	}
	if got, _ := small.List(ctx); !slices.Equal(got, []string{"c", "b"}) {
		t.Errorf("WithLimit(2) = %v", got)
	}
}

func TestAddIgnoresBlank(t *testing.T) {
	ctx := context.Background()
	h := New(storage.NewMemoryStore())
	h.Add(ctx, "   ")
	if got, _ := h.List(ctx); len(got) != 0 {
		t.Errorf("List() = %v, want empty", got)
	}
}

func TestClearAndKey(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	h := New(store, WithKey("custom"))
	h.Add(ctx, "cat")

	if _, ok, _ := store.Get(ctx, "custom"); !ok {
		t.Error("history not stored under custom key")
	}
	if err := h.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if got, _ := h.List(ctx); len(got) != 0 {
		t.Errorf("after Clear: %v", got)
	}
}
