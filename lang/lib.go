package lang

import (
	"errors"
	"strings"
)

var ErrNoReturnType = errors.New("no return type in library signature")

type LibItem struct {
	Signature   string
	Description string
	// Completion item kind, see protocol.CompletionItemKind*.
	Kind string
}

// Lib maps builtin Swift standard library names to their documentation. Some
// names are overloaded and have more than one item.
var Lib = map[string][]LibItem{
	"print": {{
		Signature:   `func print(_ items: Any..., separator: String = " ", terminator: String = "\n")`,
		Description: "Writes the textual representations of the given items into the standard output.",
		Kind:        "function",
	}},
	"debugPrint": {{
		Signature:   `func debugPrint(_ items: Any..., separator: String = " ", terminator: String = "\n")`,
		Description: "Writes the textual representations of the given items most suitable for debugging into the standard output.",
		Kind:        "function",
	}},
	"abs": {{
		Signature:   "func abs<T>(_ x: T) -> T where T : Comparable, T : SignedNumeric",
		Description: "Returns the absolute value of the given number.",
		Kind:        "function",
	}},
	"min": {{
		Signature:   "func min<T>(_ x: T, _ y: T) -> T where T : Comparable",
		Description: "Returns the lesser of two comparable values.",
		Kind:        "function",
	}},
	"max": {{
		Signature:   "func max<T>(_ x: T, _ y: T) -> T where T : Comparable",
		Description: "Returns the greater of two comparable values.",
		Kind:        "function",
	}},
	"precondition": {{
		Signature:   `func precondition(_ condition: @autoclosure () -> Bool, _ message: @autoclosure () -> String = String(), file: StaticString = #file, line: UInt = #line)`,
		Description: "Checks a necessary condition for making forward progress.",
		Kind:        "function",
	}},
	"assert": {{
		Signature:   `func assert(_ condition: @autoclosure () -> Bool, _ message: @autoclosure () -> String = String(), file: StaticString = #file, line: UInt = #line)`,
		Description: "Performs a traditional C-style assert with an optional message.",
		Kind:        "function",
	}},
	"fatalError": {{
		Signature:   `func fatalError(_ message: @autoclosure () -> String = String(), file: StaticString = #file, line: UInt = #line) -> Never`,
		Description: "Unconditionally prints a given message and stops execution.",
		Kind:        "function",
	}},
	"zip": {{
		Signature:   "func zip<Sequence1, Sequence2>(_ sequence1: Sequence1, _ sequence2: Sequence2) -> Zip2Sequence<Sequence1, Sequence2>",
		Description: "Creates a sequence of pairs built out of two underlying sequences.",
		Kind:        "function",
	}},
	"stride": {
		{
			Signature:   "func stride<T>(from start: T, to end: T, by stride: T.Stride) -> StrideTo<T> where T : Strideable",
			Description: "Returns a sequence from a starting value to, but not including, an end value, stepping by the specified amount.",
			Kind:        "function",
		},
		{
			Signature:   "func stride<T>(from start: T, through end: T, by stride: T.Stride) -> StrideThrough<T> where T : Strideable",
			Description: "Returns a sequence from a starting value toward, and possibly including, an end value, stepping by the specified amount.",
			Kind:        "function",
		},
	},
	"readLine": {{
		Signature:   "func readLine(strippingNewline: Bool = true) -> String?",
		Description: "Returns a string read from standard input through the end of the current line or until EOF is reached.",
		Kind:        "function",
	}},
	"Int": {{
		Signature:   "@frozen struct Int",
		Description: "A signed integer value type.",
		Kind:        "struct",
	}},
	"Double": {{
		Signature:   "@frozen struct Double",
		Description: "A double-precision, floating-point value type.",
		Kind:        "struct",
	}},
	"Float": {{
		Signature:   "@frozen struct Float",
		Description: "A single-precision, floating-point value type.",
		Kind:        "struct",
	}},
	"Bool": {{
		Signature:   "@frozen struct Bool",
		Description: "A value type whose instances are either true or false.",
		Kind:        "struct",
	}},
	"String": {{
		Signature:   "@frozen struct String",
		Description: "A Unicode string value that is a collection of characters.",
		Kind:        "struct",
	}},
	"Character": {{
		Signature:   "@frozen struct Character",
		Description: "A single extended grapheme cluster that approximates a user-perceived character.",
		Kind:        "struct",
	}},
	"Array": {{
		Signature:   "@frozen struct Array<Element>",
		Description: "An ordered, random-access collection.",
		Kind:        "struct",
	}},
	"Dictionary": {{
		Signature:   "@frozen struct Dictionary<Key, Value> where Key : Hashable",
		Description: "A collection whose elements are key-value pairs.",
		Kind:        "struct",
	}},
	"Set": {{
		Signature:   "@frozen struct Set<Element> where Element : Hashable",
		Description: "An unordered collection of unique elements.",
		Kind:        "struct",
	}},
	"Optional": {{
		Signature:   "@frozen enum Optional<Wrapped>",
		Description: "A type that represents either a wrapped value or the absence of a value.",
		Kind:        "enum",
	}},
	"Result": {{
		Signature:   "@frozen enum Result<Success, Failure> where Failure : Error",
		Description: "A value that represents either a success or a failure, including an associated value in each case.",
		Kind:        "enum",
	}},
	"Error": {{
		Signature:   "protocol Error : Sendable",
		Description: "A type representing an error value that can be thrown.",
		Kind:        "interface",
	}},
	"Equatable": {{
		Signature:   "protocol Equatable",
		Description: "A type that can be compared for value equality.",
		Kind:        "interface",
	}},
	"Hashable": {{
		Signature:   "protocol Hashable : Equatable",
		Description: "A type that can be hashed into a Hasher to produce an integer hash value.",
		Kind:        "interface",
	}},
	"Comparable": {{
		Signature:   "protocol Comparable : Equatable",
		Description: "A type that can be compared using the relational operators <, <=, >=, and >.",
		Kind:        "interface",
	}},
	"Codable": {{
		Signature:   "typealias Codable = Decodable & Encodable",
		Description: "A type that can convert itself into and out of an external representation.",
		Kind:        "interface",
	}},
	"Sequence": {{
		Signature:   "protocol Sequence<Element>",
		Description: "A type that provides sequential, iterated access to its elements.",
		Kind:        "interface",
	}},
	"Collection": {{
		Signature:   "protocol Collection<Element> : Sequence",
		Description: "A sequence whose elements can be traversed multiple times, nondestructively, and accessed by an indexed subscript.",
		Kind:        "interface",
	}},
	"Never": {{
		Signature:   "@frozen enum Never",
		Description: "A type that has no values and can't be constructed.",
		Kind:        "enum",
	}},
	"Void": {{
		Signature:   "typealias Void = ()",
		Description: "The return type of functions that don't explicitly specify a return type.",
		Kind:        "struct",
	}},
}

// GetReturnType returns the return type of a builtin function signature. A
// function without a return clause returns Void, a type declaration has no
// return type.
func GetReturnType(signature string) (string, error) {
	if !strings.Contains(signature, "func ") {
		return "", ErrNoReturnType
	}
	// Default values and closure parameters may contain arrows, the return
	// clause is the first arrow after the parameter list closes.
	depth := 0
	closeIdx := -1
	for i, r := range signature {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				closeIdx = i
			}
		}
		if closeIdx != -1 {
			break
		}
	}
	if closeIdx == -1 {
		return "", ErrNoReturnType
	}
	rest := strings.TrimSpace(signature[closeIdx+1:])
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "rethrows"))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "throws"))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "async"))
	if !strings.HasPrefix(rest, "->") {
		return "Void", nil
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "->"))
	if whereIdx := strings.Index(rest, " where "); whereIdx != -1 {
		rest = rest[:whereIdx]
	}
	return strings.TrimSpace(rest), nil
}
