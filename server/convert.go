package server

import (
	"github.com/kelly-lin/swift-lang-server/parser"
	"github.com/kelly-lin/swift-lang-server/protocol"
)

var symbolKinds = map[parser.SymbolKind]int{
	parser.SymbolClass:       protocol.SymbolKindClass,
	parser.SymbolStruct:      protocol.SymbolKindStruct,
	parser.SymbolEnum:        protocol.SymbolKindEnum,
	parser.SymbolExtension:   protocol.SymbolKindNamespace,
	parser.SymbolActor:       protocol.SymbolKindClass,
	parser.SymbolProtocol:    protocol.SymbolKindInterface,
	parser.SymbolFunction:    protocol.SymbolKindFunction,
	parser.SymbolMethod:      protocol.SymbolKindMethod,
	parser.SymbolInitializer: protocol.SymbolKindConstructor,
	parser.SymbolProperty:    protocol.SymbolKindProperty,
	parser.SymbolVariable:    protocol.SymbolKindVariable,
	parser.SymbolConstant:    protocol.SymbolKindConstant,
	parser.SymbolEnumMember:  protocol.SymbolKindEnumMember,
	parser.SymbolTypeAlias:   protocol.SymbolKindTypeParameter,
}

// Extensions and initializers do not introduce names to complete.
var completionKinds = map[parser.SymbolKind]string{
	parser.SymbolClass:      protocol.CompletionItemKindClass,
	parser.SymbolStruct:     protocol.CompletionItemKindStruct,
	parser.SymbolEnum:       protocol.CompletionItemKindEnum,
	parser.SymbolActor:      protocol.CompletionItemKindClass,
	parser.SymbolProtocol:   protocol.CompletionItemKindInterface,
	parser.SymbolFunction:   protocol.CompletionItemKindFunction,
	parser.SymbolMethod:     protocol.CompletionItemKindMethod,
	parser.SymbolProperty:   protocol.CompletionItemKindProperty,
	parser.SymbolVariable:   protocol.CompletionItemKindVariable,
	parser.SymbolConstant:   protocol.CompletionItemKindConstant,
	parser.SymbolEnumMember: protocol.CompletionItemKindEnumMember,
	parser.SymbolTypeAlias:  protocol.CompletionItemKindClass,
}

func toProtocolSymbolKind(kind parser.SymbolKind) int {
	if result, ok := symbolKinds[kind]; ok {
		return result
	}
	return protocol.SymbolKindVariable
}

func toDocumentSymbols(symbols []parser.Symbol) []protocol.DocumentSymbol {
	result := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		var children []protocol.DocumentSymbol
		if len(sym.Children) > 0 {
			children = toDocumentSymbols(sym.Children)
		}
		result = append(result, protocol.DocumentSymbol{
			Name:           sym.Name,
			Detail:         sym.Detail,
			Kind:           toProtocolSymbolKind(sym.Kind),
			Range:          toProtocolRange(sym.Range),
			SelectionRange: toProtocolRange(sym.SelectionRange),
			Children:       children,
		})
	}
	return result
}

// Converts parser range into protocol range.
func toProtocolRange(r parser.Range) protocol.Range {
	var result protocol.Range
	result.Start.Line = uint(r.Start.Row)
	result.Start.Character = uint(r.Start.Column)
	result.End.Line = uint(r.End.Row)
	result.End.Character = uint(r.End.Column)
	return result
}
