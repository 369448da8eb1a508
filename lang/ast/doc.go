// Package ast defines the bdl syntax tree and the [Builder] the grammar uses
// to construct it.
//
// Every node is one of a closed set of variants, identified by [Type] and
// serialized with a "type" member:
//
//	block              name, token, value, blocks
//	blockAlias         name{value, token}, value
//	import             from{value, token}, members
//	importMember       name{value, token}, alias
//	identifier         name, token
//	literalIdentifier  name, token
//	call               callee, token, args, kwargs[{name, token, value}]
//	stringLiteral      value, token
//	numberLiteral      value, token
//	booleanLiteral     value, token
//	listLiteral        elements, token
//
// A parse produces a [Root] holding the top-level statements and two flat
// registries. Blocks and imports are registered when the builder constructs
// them, so a grammar that reduces bottom-up lists nested blocks before the
// block that contains them.
//
// The JSON shape of these types is consumed by other tools and must not
// change.
package ast
