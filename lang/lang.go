// Package lang holds facts about the Swift language that are not part of the
// grammar: keywords, builtin library symbols and node kinds of interest.
package lang

const (
	LanguageID    = "swift"
	FileExtension = ".swift"
)

var Keywords = []string{
	"actor", "associatedtype", "async", "await", "break", "case", "catch",
	"class", "continue", "default", "defer", "deinit", "do", "else", "enum",
	"extension", "fallthrough", "false", "fileprivate", "final", "for", "func",
	"guard", "if", "import", "in", "init", "inout", "internal", "is", "lazy",
	"let", "mutating", "nil", "open", "operator", "override", "private",
	"protocol", "public", "repeat", "rethrows", "return", "self", "Self",
	"static", "struct", "subscript", "super", "switch", "throw", "throws",
	"true", "try", "typealias", "var", "weak", "where", "while",
}

// Node kinds of declarations that introduce functions.
var FunctionNodeTypes = []string{
	"function_declaration",
	"init_declaration",
	"deinit_declaration",
	"subscript_declaration",
	"protocol_function_declaration",
}

// Node kinds counted towards cyclomatic complexity.
var BranchNodeTypes = []string{
	"if_statement",
	"guard_statement",
	"for_statement",
	"while_statement",
	"repeat_while_statement",
	"switch_entry",
	"catch_block",
	"ternary_expression",
	"conjunction_expression",
	"disjunction_expression",
}

func IsNodeType(nodeType string, nodeTypes []string) bool {
	for _, t := range nodeTypes {
		if t == nodeType {
			return true
		}
	}
	return false
}
