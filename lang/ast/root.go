package ast

// Root is the result of one parse: the top-level statements plus flat
// registries of every block, block alias and import in construction order.
type Root struct {
	Tree    []Node    `json:"tree"`
	Blocks  []Node    `json:"blocks"`
	Imports []*Import `json:"imports"`
}

// ToMap returns the serialized shape of r.
func (r *Root) ToMap() map[string]any {
	return map[string]any{
		"tree":    nodeMaps(r.Tree),
		"blocks":  nodeMaps(r.Blocks),
		"imports": nodeMaps(r.Imports),
	}
}

// Lookup returns the first registered block or block alias with the given
// name.
func (r *Root) Lookup(name string) (Node, bool) {
	for _, n := range r.Blocks {
		if s, _ := BlockName(n); s == name {
			return n, true
		}
	}

	return nil, false
}

// Names returns the distinct registered block names in registration order.
func (r *Root) Names() []string {
	seen := make(map[string]bool, len(r.Blocks))
	names := make([]string, 0, len(r.Blocks))

	for _, n := range r.Blocks {
		if s, ok := BlockName(n); ok && !seen[s] {
			seen[s] = true
			names = append(names, s)
		}
	}

	return names
}
