package token

// ToMap returns the serialized provenance shape of t as generic values, for
// encoders that do not consult the JSON struct tags.
func (t Token) ToMap() map[string]any {
	return map[string]any{
		"string": t.Text,
		"start":  []int{t.Start.Line, t.Start.Col},
		"end":    []int{t.End.Line, t.End.Col},
		"line":   t.Line,
	}
}
