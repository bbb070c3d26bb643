package host

import (
	"sort"

	"github.com/sasha-s/go-deadlock"

	"github.com/rony4d/go-streak-ledger/inter/pubkey"
)

// lockTable hands out one mutex per record address. Entries are reference
// counted and dropped once nobody holds or waits for them.
type lockTable struct {
	mu      deadlock.Mutex
	entries map[pubkey.Pubkey]*lockEntry
}

type lockEntry struct {
	mu   deadlock.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{entries: make(map[pubkey.Pubkey]*lockEntry)}
}

// lock acquires every address in ascending order and returns the release func.
// Two instructions sharing any address are therefore fully serialized.
func (t *lockTable) lock(addrs []pubkey.Pubkey) (unlock func()) {
	sorted := make([]pubkey.Pubkey, 0, len(addrs))
	seen := make(map[pubkey.Pubkey]bool, len(addrs))
	for _, addr := range addrs {
		if !seen[addr] {
			seen[addr] = true
			sorted = append(sorted, addr)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	held := make([]*lockEntry, len(sorted))
	t.mu.Lock()
	for i, addr := range sorted {
		e, ok := t.entries[addr]
		if !ok {
			e = new(lockEntry)
			t.entries[addr] = e
		}
		e.refs++
		held[i] = e
	}
	t.mu.Unlock()

	for _, e := range held {
		e.mu.Lock()
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
		}
		t.mu.Lock()
		for i, e := range held {
			e.refs--
			if e.refs == 0 {
				delete(t.entries, sorted[i])
			}
		}
		t.mu.Unlock()
	}
}

// size is the number of live entries.
func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
