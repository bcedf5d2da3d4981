package ownership

import (
	"testing"

	"zephyr/internal/source"
)

func TestPublishIsWriteOnce(t *testing.T) {
	in := source.NewInterner()
	r := NewRegistry()
	name := in.Intern("f")

	first := Signature{Name: name, Params: []ParamSig{{Name: in.Intern("a"), Mode: Borrowed}}}
	second := Signature{Name: name, Params: []ParamSig{{Name: in.Intern("a"), Mode: Owned}}}

	if !r.Publish(first) {
		t.Fatalf("first publish rejected")
	}
	if r.Publish(second) {
		t.Fatalf("second publish accepted, want no-op")
	}
	if got := r.ParamMode(name, 0); got != Borrowed {
		t.Fatalf("param mode = %s, want borrowed from the first publish", got)
	}
}

func TestUnpublishedCalleeDefaultsToOwned(t *testing.T) {
	in := source.NewInterner()
	r := NewRegistry()
	if got := r.ParamMode(in.Intern("missing"), 0); got != Owned {
		t.Fatalf("unknown callee param mode = %s, want owned", got)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	in := source.NewInterner()
	r := NewRegistry()
	r.Publish(Signature{Name: in.Intern("f")})

	snap := r.Snapshot()
	snap.Publish(Signature{Name: in.Intern("g")})

	if _, ok := snap.Lookup(in.Intern("f")); !ok {
		t.Fatalf("snapshot lost an existing signature")
	}
	if _, ok := r.Lookup(in.Intern("g")); ok {
		t.Fatalf("publish into snapshot leaked into the source registry")
	}
}

func TestExportIsSorted(t *testing.T) {
	in := source.NewInterner()
	r := NewRegistry()
	b := in.Intern("beta")
	a := in.Intern("alpha")
	r.Publish(Signature{Name: b})
	r.Publish(Signature{Name: a})

	out := r.Export()
	if len(out) != 2 {
		t.Fatalf("exported %d signatures, want 2", len(out))
	}
	if out[0].Name > out[1].Name {
		t.Fatalf("export not ordered by name id")
	}
}

func TestVariadicSignatureAppliesOneModeToAllArgs(t *testing.T) {
	in := source.NewInterner()
	r := NewRegistry()
	SeedBuiltins(r, in)

	println := in.Intern("println")
	for i := 0; i < 4; i++ {
		if got := r.ParamMode(println, i); got != Borrowed {
			t.Fatalf("println arg %d mode = %s, want borrowed", i, got)
		}
	}
}
