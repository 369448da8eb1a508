package ast

// ToMap conversions produce the same shape as the JSON encoding, using only
// maps, slices and scalars, for encoders and evaluators that work on generic
// values.

func (n *Block) ToMap() map[string]any {
	return map[string]any{
		"type":   string(n.Type()),
		"name":   n.Name,
		"token":  n.Token.ToMap(),
		"value":  nodeMap(n.Value),
		"blocks": nodeMaps(n.Blocks),
	}
}

func (n *BlockAlias) ToMap() map[string]any {
	return map[string]any{
		"type":  string(n.Type()),
		"name":  n.Name.ToMap(),
		"value": nodeMap(n.Value),
	}
}

func (n *Import) ToMap() map[string]any {
	members := make([]any, len(n.Members))
	for i, m := range n.Members {
		members[i] = m.ToMap()
	}

	return map[string]any{
		"type":    string(n.Type()),
		"from":    n.From.ToMap(),
		"members": members,
	}
}

func (n *ImportMember) ToMap() map[string]any {
	var alias any
	if n.Alias != nil {
		alias = n.Alias.ToMap()
	}

	return map[string]any{
		"type":  string(n.Type()),
		"name":  n.Name.ToMap(),
		"alias": alias,
	}
}

func (n *Identifier) ToMap() map[string]any {
	return map[string]any{
		"type":  string(n.Type()),
		"name":  n.Name,
		"token": n.Token.ToMap(),
	}
}

func (n *LiteralIdentifier) ToMap() map[string]any {
	return map[string]any{
		"type":  string(n.Type()),
		"name":  n.Name,
		"token": n.Token.ToMap(),
	}
}

func (n *Call) ToMap() map[string]any {
	kwargs := make([]any, len(n.Kwargs))
	for i, kw := range n.Kwargs {
		kwargs[i] = map[string]any{
			"name":  kw.Name,
			"token": kw.Token.ToMap(),
			"value": nodeMap(kw.Value),
		}
	}

	return map[string]any{
		"type":   string(n.Type()),
		"callee": nodeMap(n.Callee),
		"token":  n.Token.ToMap(),
		"args":   nodeMaps(n.Args),
		"kwargs": kwargs,
	}
}

func (n *StringLiteral) ToMap() map[string]any {
	return map[string]any{
		"type":  string(n.Type()),
		"value": n.Value,
		"token": n.Token.ToMap(),
	}
}

func (n *NumberLiteral) ToMap() map[string]any {
	return map[string]any{
		"type":  string(n.Type()),
		"value": n.Value,
		"token": n.Token.ToMap(),
	}
}

func (n *BooleanLiteral) ToMap() map[string]any {
	return map[string]any{
		"type":  string(n.Type()),
		"value": n.Value,
		"token": n.Token.ToMap(),
	}
}

func (n *ListLiteral) ToMap() map[string]any {
	return map[string]any{
		"type":     string(n.Type()),
		"elements": nodeMaps(n.Elements),
		"token":    n.Token.ToMap(),
	}
}

func nodeMap(n Node) any {
	if n == nil {
		return nil
	}

	return n.ToMap()
}

func nodeMaps[N Node](nodes []N) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n.ToMap()
	}

	return out
}
