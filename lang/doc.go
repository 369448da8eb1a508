// Package lang is the front end of the block definition language (bdl).
//
// Source text passes through three stages, each in its own package:
//
//   - [lexer.Lexer] scans raw tokens, including indentation markers.
//   - [lexer.Relexer] drops indentation markers and splits dotted numerals
//     such as "1.2" into "1", ".", "2" so that paths like a.b.1.2 can be
//     parsed one segment at a time.
//   - [parser] drives the grammar, constructing nodes with an
//     [ast.Builder] that records every block and import as it is built.
//
// This package ties the stages together and works on the finished
// [ast.Root]:
//
//   - [ParseString], [ParseReader] and [ParseFile] parse and cache results.
//   - [Export] writes the tree as JSON, YAML, MessagePack, bdl source or an
//     outline.
//   - [Query] evaluates expr-lang expressions over the exported shape.
//   - [Find] fuzzy-matches block names.
//   - [SearchPath] and [ResolveImports] locate imported sources.
//
// # Example
//
//	from "net.bdl" import addr, port as p
//
//	server: {
//	  host = addr
//	  port = p
//	  tags = ['a', 'b']
//	  limits: 1.5 {
//	    burst = max(10, scale = 2)
//	  }
//	}
//
//	release = @"v1-rc"
package lang
