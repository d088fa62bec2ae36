package console

import (
	"sync"
	"testing"
)

func TestGenerationIDsStrictlyIncrease(t *testing.T) {
	var g generationGuard

	var prev uint64
	for i := 0; i < 100; i++ {
		id := g.begin()
		if id <= prev {
			t.Fatalf("generation %d not greater than previous %d", id, prev)
		}
		prev = id
	}
}

func TestOnlyLatestGenerationIsCurrent(t *testing.T) {
	var g generationGuard

	first := g.begin()
	if !g.isCurrent(first) {
		t.Fatal("freshly issued generation should be current")
	}

	second := g.begin()
	if g.isCurrent(first) {
		t.Fatal("superseded generation still reported current")
	}
	if !g.isCurrent(second) {
		t.Fatal("latest generation not reported current")
	}
}

func TestConcurrentBeginYieldsUniqueIDs(t *testing.T) {
	var g generationGuard

	const n = 100
	ids := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- g.begin()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate generation id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d unique ids, got %d", n, len(seen))
	}
}
