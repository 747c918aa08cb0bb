// Package builtins holds the signatures (never bodies — their bytecode is
// pre-baked per §1's "built-in function bodies are out of scope") of
// Chalcedony's standard functions and the iterator-protocol methods the
// for-loop desugar (§4.6) resolves against. Grounded in shape on the
// teacher's internal/builtins package (one file per concern, doc comment
// per function) but holding only metadata, not implementations.
package builtins

import "github.com/cwbudde/chalcedony/internal/types"

// Signature describes one overload of a builtin or intrinsic method: its
// name, the class/primitive namespace it belongs to (empty for a free
// function), its ordered argument types/names, return type, and whether
// it is unsafe (may throw; name ends in '!').
type Signature struct {
	Name      string
	Namespace string
	ArgNames  []string
	Args      []types.Type
	Return    types.Type
	IsUnsafe  bool
}

// key is how overloads of the same (namespace, name) are grouped; actual
// overload resolution among same-key signatures happens in Resolve.
func key(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "::" + name
}

// Registry is a lookup table of builtin signatures, keyed by
// (namespace, name) with one or more overloads per key.
type Registry struct {
	sigs map[string][]*Signature
}

// NewRegistry builds a Registry pre-populated with Chalcedony's standard
// library surface: print/assert/len and the str/list iterator-protocol
// methods the for-loop desugar depends on.
func NewRegistry() *Registry {
	r := &Registry{sigs: make(map[string][]*Signature)}
	r.registerCore()
	r.registerIterators()
	return r
}

// Register adds sig as one more overload under its (Namespace, Name) key.
func (r *Registry) Register(sig *Signature) {
	k := key(sig.Namespace, sig.Name)
	r.sigs[k] = append(r.sigs[k], sig)
}

// Lookup returns every registered overload for (namespace, name).
func (r *Registry) Lookup(namespace, name string) []*Signature {
	return r.sigs[key(namespace, name)]
}

// Resolve picks the overload of (namespace, name) whose parameter types
// soft-equal argTypes position-for-position (§4.6, §9): Any matches
// anything, Int accepts Uint. Ambiguity between overloads is not possible
// in this registry because every builtin's overloads differ in arity.
func (r *Registry) Resolve(namespace, name string, argTypes []types.Type) (*Signature, bool) {
	for _, sig := range r.Lookup(namespace, name) {
		if len(sig.Args) != len(argTypes) {
			continue
		}
		match := true
		for i, want := range sig.Args {
			if !types.SoftEqual(want, argTypes[i]) {
				match = false
				break
			}
		}
		if match {
			return sig, true
		}
	}
	return nil, false
}

func (r *Registry) registerCore() {
	r.Register(&Signature{Name: "print", ArgNames: []string{"value"}, Args: []types.Type{types.Any}, Return: types.Void})
	r.Register(&Signature{Name: "assert", ArgNames: []string{"actual", "expected"}, Args: []types.Type{types.Any, types.Any}, Return: types.Void})
	r.Register(&Signature{Name: "len", ArgNames: []string{"value"}, Args: []types.Type{types.Any}, Return: types.Uint})
}

// IterNamespace returns the namespace under which t's `__iter__` method
// (if any) is registered: the primitive "str"/"list" surface, or a
// Custom class's own name. Types with no iterator surface return "",false.
func IterNamespace(t types.Type) (string, bool) {
	switch t.Tag {
	case types.TagStr:
		return "str", true
	case types.TagList:
		return "list", true
	case types.TagCustom:
		return t.Name, true
	default:
		return "", false
	}
}

// registerIterators wires the built-in iterator protocol for strings
// (iterating yields one-character strings) and lists (iterating yields
// the element type, erased to Any since this registry has no per-element
// specialization).
func (r *Registry) registerIterators() {
	r.Register(&Signature{
		Namespace: "str", Name: "__iter__",
		ArgNames: []string{"self"}, Args: []types.Type{types.Str},
		Return: types.Custom("StrIterator"),
	})
	r.Register(&Signature{
		Namespace: "StrIterator", Name: "__next__!",
		ArgNames: []string{"self"}, Args: []types.Type{types.Custom("StrIterator")},
		Return: types.Str, IsUnsafe: true,
	})

	r.Register(&Signature{
		Namespace: "list", Name: "__iter__",
		ArgNames: []string{"self"}, Args: []types.Type{types.Any},
		Return: types.Custom("ListIterator"),
	})
	r.Register(&Signature{
		Namespace: "ListIterator", Name: "__next__!",
		ArgNames: []string{"self"}, Args: []types.Type{types.Custom("ListIterator")},
		Return: types.Any, IsUnsafe: true,
	})
}
