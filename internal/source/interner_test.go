package source

import (
	"sync"
	"testing"
)

func TestInternDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("value")
	b := in.Intern("value")
	if a != b {
		t.Errorf("same string got two IDs: %d, %d", a, b)
	}
	if c := in.Intern("other"); c == a {
		t.Error("distinct strings share an ID")
	}

	s, ok := in.Lookup(a)
	if !ok || s != "value" {
		t.Errorf("lookup = %q, %v", s, ok)
	}
}

func TestEmptyStringIsNoStringID(t *testing.T) {
	in := NewInterner()
	if id := in.Intern(""); id != NoStringID {
		t.Errorf("empty string interned as %d", id)
	}
	s, ok := in.Lookup(NoStringID)
	if !ok || s != "" {
		t.Errorf("NoStringID resolves to %q, %v", s, ok)
	}
}

func TestLookupUnknownID(t *testing.T) {
	in := NewInterner()
	if _, ok := in.Lookup(StringID(42)); ok {
		t.Error("unknown ID should not resolve")
	}
}

func TestConcurrentIntern(t *testing.T) {
	in := NewInterner()
	want := in.Intern("shared")

	var wg sync.WaitGroup
	ids := make([]StringID, 32)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = in.Intern("shared")
		}(i)
	}
	wg.Wait()

	for i, id := range ids {
		if id != want {
			t.Fatalf("goroutine %d got ID %d, want %d", i, id, want)
		}
	}
}
