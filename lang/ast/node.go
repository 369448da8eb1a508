package ast

import (
	"encoding/json"

	"github.com/ardnew/bdl/lang/token"
)

// Type is the discriminator written as "type" in every serialized node.
type Type string

const (
	TypeBlock             Type = "block"
	TypeBlockAlias        Type = "blockAlias"
	TypeImport            Type = "import"
	TypeImportMember      Type = "importMember"
	TypeIdentifier        Type = "identifier"
	TypeLiteralIdentifier Type = "literalIdentifier"
	TypeCall              Type = "call"
	TypeStringLiteral     Type = "stringLiteral"
	TypeNumberLiteral     Type = "numberLiteral"
	TypeBooleanLiteral    Type = "booleanLiteral"
	TypeListLiteral       Type = "listLiteral"
)

// Node is one of the syntax tree variants defined in this package. The set
// is closed: only types declared here implement it.
type Node interface {
	// Type returns the node's discriminator.
	Type() Type
	// Provenance returns the token recording where the node came from.
	Provenance() token.Token
	// ToMap returns the serialized shape of the node as generic values.
	ToMap() map[string]any

	node()
}

// Name is a value together with the token it was read from.
type Name struct {
	Value string      `json:"value"`
	Token token.Token `json:"token"`
}

// ToMap returns the serialized shape of n.
func (n Name) ToMap() map[string]any {
	return map[string]any{"value": n.Value, "token": n.Token.ToMap()}
}

// Block is a named definition with an optional value and nested
// definitions.
type Block struct {
	Name   string      `json:"name"`
	Token  token.Token `json:"token"`
	Value  Node        `json:"value"`
	Blocks []Node      `json:"blocks"`
}

// BlockAlias binds a name directly to a value.
type BlockAlias struct {
	Name  Name `json:"name"`
	Value Node `json:"value"`
}

// Import names members loaded from another source. From.Value has the
// quote characters removed.
type Import struct {
	From    Name            `json:"from"`
	Members []*ImportMember `json:"members"`
}

// ImportMember is one imported name with an optional alias.
type ImportMember struct {
	Name  Name  `json:"name"`
	Alias *Name `json:"alias"`
}

// Identifier is a plain or dotted reference such as "a.b.0".
type Identifier struct {
	Name  string      `json:"name"`
	Token token.Token `json:"token"`
}

// LiteralIdentifier is a name spelled as @"...". Name is the decoded
// string; Token covers the whole spelling.
type LiteralIdentifier struct {
	Name  string      `json:"name"`
	Token token.Token `json:"token"`
}

// Kwarg is a keyword argument of a [Call].
type Kwarg struct {
	Name  string      `json:"name"`
	Token token.Token `json:"token"`
	Value Node        `json:"value"`
}

// Call applies a callee to positional and keyword arguments. Token is the
// opening parenthesis.
type Call struct {
	Callee Node        `json:"callee"`
	Token  token.Token `json:"token"`
	Args   []Node      `json:"args"`
	Kwargs []Kwarg     `json:"kwargs"`
}

// StringLiteral holds the decoded value of one or more adjacent string
// tokens. Token spans all of them, quotes included.
type StringLiteral struct {
	Value string      `json:"value"`
	Token token.Token `json:"token"`
}

// NumberLiteral holds numeral text exactly as written.
type NumberLiteral struct {
	Value string      `json:"value"`
	Token token.Token `json:"token"`
}

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Value bool        `json:"value"`
	Token token.Token `json:"token"`
}

// ListLiteral is a bracketed sequence. Token is the opening bracket.
type ListLiteral struct {
	Elements []Node      `json:"elements"`
	Token    token.Token `json:"token"`
}

func (*Block) Type() Type             { return TypeBlock }
func (*BlockAlias) Type() Type        { return TypeBlockAlias }
func (*Import) Type() Type            { return TypeImport }
func (*ImportMember) Type() Type      { return TypeImportMember }
func (*Identifier) Type() Type        { return TypeIdentifier }
func (*LiteralIdentifier) Type() Type { return TypeLiteralIdentifier }
func (*Call) Type() Type              { return TypeCall }
func (*StringLiteral) Type() Type     { return TypeStringLiteral }
func (*NumberLiteral) Type() Type     { return TypeNumberLiteral }
func (*BooleanLiteral) Type() Type    { return TypeBooleanLiteral }
func (*ListLiteral) Type() Type       { return TypeListLiteral }

func (n *Block) Provenance() token.Token             { return n.Token }
func (n *BlockAlias) Provenance() token.Token        { return n.Name.Token }
func (n *Import) Provenance() token.Token            { return n.From.Token }
func (n *ImportMember) Provenance() token.Token      { return n.Name.Token }
func (n *Identifier) Provenance() token.Token        { return n.Token }
func (n *LiteralIdentifier) Provenance() token.Token { return n.Token }
func (n *Call) Provenance() token.Token              { return n.Token }
func (n *StringLiteral) Provenance() token.Token     { return n.Token }
func (n *NumberLiteral) Provenance() token.Token     { return n.Token }
func (n *BooleanLiteral) Provenance() token.Token    { return n.Token }
func (n *ListLiteral) Provenance() token.Token       { return n.Token }

func (*Block) node()             {}
func (*BlockAlias) node()        {}
func (*Import) node()            {}
func (*ImportMember) node()      {}
func (*Identifier) node()        {}
func (*LiteralIdentifier) node() {}
func (*Call) node()              {}
func (*StringLiteral) node()     {}
func (*NumberLiteral) node()     {}
func (*BooleanLiteral) node()    {}
func (*ListLiteral) node()       {}

// BlockName returns the defined name of a Block or BlockAlias.
func BlockName(n Node) (string, bool) {
	switch n := n.(type) {
	case *Block:
		return n.Name, true
	case *BlockAlias:
		return n.Name.Value, true
	}

	return "", false
}

// MarshalJSON methods prepend the "type" discriminator to the tagged fields.

func (n *Block) MarshalJSON() ([]byte, error) {
	type plain Block

	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *BlockAlias) MarshalJSON() ([]byte, error) {
	type plain BlockAlias

	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *Import) MarshalJSON() ([]byte, error) {
	type plain Import

	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *ImportMember) MarshalJSON() ([]byte, error) {
	type plain ImportMember

	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *Identifier) MarshalJSON() ([]byte, error) {
	type plain Identifier

	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *LiteralIdentifier) MarshalJSON() ([]byte, error) {
	type plain LiteralIdentifier

	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *Call) MarshalJSON() ([]byte, error) {
	type plain Call

	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *StringLiteral) MarshalJSON() ([]byte, error) {
	type plain StringLiteral

	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *NumberLiteral) MarshalJSON() ([]byte, error) {
	type plain NumberLiteral

	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *BooleanLiteral) MarshalJSON() ([]byte, error) {
	type plain BooleanLiteral

	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}

func (n *ListLiteral) MarshalJSON() ([]byte, error) {
	type plain ListLiteral

	return json.Marshal(struct {
		Type Type `json:"type"`
		*plain
	}{n.Type(), (*plain)(n)})
}
