package builtins

import (
	"testing"

	"github.com/cwbudde/chalcedony/internal/types"
)

func TestResolvePrint(t *testing.T) {
	r := NewRegistry()
	sig, ok := r.Resolve("", "print", []types.Type{types.Uint})
	if !ok {
		t.Fatal("expected print(uint) to resolve via Any wildcard")
	}
	if sig.Return.Tag != types.TagVoid {
		t.Fatalf("expected void return, got %v", sig.Return)
	}
}

func TestResolveUnknown(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Resolve("", "nope", []types.Type{types.Int}); ok {
		t.Fatal("expected unknown function to fail resolution")
	}
}

func TestResolveArityMismatch(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Resolve("", "print", []types.Type{types.Int, types.Int}); ok {
		t.Fatal("expected arity mismatch to fail resolution")
	}
}

func TestIterNamespace(t *testing.T) {
	if ns, ok := IterNamespace(types.Str); !ok || ns != "str" {
		t.Fatalf("expected str namespace, got %q, %v", ns, ok)
	}
	if ns, ok := IterNamespace(types.List(types.Int)); !ok || ns != "list" {
		t.Fatalf("expected list namespace, got %q, %v", ns, ok)
	}
	if ns, ok := IterNamespace(types.Custom("Foo")); !ok || ns != "Foo" {
		t.Fatalf("expected custom class namespace, got %q, %v", ns, ok)
	}
	if _, ok := IterNamespace(types.Int); ok {
		t.Fatal("expected int to have no iterator surface")
	}
}

func TestStrIteratorNextIsUnsafe(t *testing.T) {
	r := NewRegistry()
	sig, ok := r.Resolve("StrIterator", "__next__!", []types.Type{types.Custom("StrIterator")})
	if !ok {
		t.Fatal("expected __next__! to resolve")
	}
	if !sig.IsUnsafe {
		t.Fatal("expected __next__! to be marked unsafe")
	}
}
