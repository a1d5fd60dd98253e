package types

// Resolver looks up the structural members of a Variant or the field types
// of a Node, by name. treespec.Specs implements this interface; package
// types never imports treespec, to keep the builder → algebra dependency
// one-directional.
type Resolver interface {
	VariantMembers(name string) []*Type
	NodeFields(name string) []*Type
	// Lookup returns the Variant(name) or Node(name) type for a spec name,
	// and false if name is not a Node or Variant (e.g. it names a Token).
	Lookup(name string) (*Type, bool)
}
