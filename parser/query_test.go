package parser_test

import (
	"context"
	"testing"

	"github.com/kelly-lin/swift-lang-server/parser"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryFuncDefinition(t *testing.T) {
	assert := assert.New(t)

	sourceCode := []byte(`func main() {}
func foo() -> Int { return 1 }`)
	n, err := sitter.ParseCtx(context.Background(), sourceCode, parser.GetLanguage())
	assert.NoError(err)
	pattern := `(
    (function_declaration
        name: (simple_identifier) @name)
    (#eq? @name "foo")
)`
	q, err := sitter.NewQuery([]byte(pattern), parser.GetLanguage())
	assert.NoError(err)
	qc := sitter.NewQueryCursor()
	qc.Exec(q, n)
	want := parser.Range{
		Start: parser.Point{Row: 1, Column: 5},
		End:   parser.Point{Row: 1, Column: 8},
	}
	var got parser.Range
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, sourceCode)
		for _, c := range m.Captures {
			got = parser.NodeRange(c.Node)
		}
	}
	assert.Equal(want, got, "not equal")
}

func TestFindFuncDefinition(t *testing.T) {
	sourceCode := []byte(`func main() {}
func foo() -> Int { return 1 }`)

	t.Run("found", func(t *testing.T) {
		got, err := parser.FindFuncDefinition("foo", sourceCode)
		require.NoError(t, err)
		assert.Equal(t, parser.Range{
			Start: parser.Point{Row: 1, Column: 5},
			End:   parser.Point{Row: 1, Column: 8},
		}, got)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := parser.FindFuncDefinition("bar", sourceCode)
		assert.ErrorIs(t, err, parser.ErrNoDefinition)
	})
}

func TestFindIdentifier(t *testing.T) {
	sourceCode := []byte(`let answer = compute()`)
	root, err := parser.ParseNode(context.Background(), sourceCode)
	require.NoError(t, err)

	type TestCase struct {
		Desc    string
		Line    uint
		Col     uint
		Want    string
		WantErr error
	}
	testCases := []TestCase{
		{Desc: "declared name", Line: 0, Col: 5, Want: "answer"},
		{Desc: "called function", Line: 0, Col: 15, Want: "compute"},
		{Desc: "keyword", Line: 0, Col: 1, WantErr: parser.ErrNoDefinition},
	}
	for _, testCase := range testCases {
		t.Run(testCase.Desc, func(t *testing.T) {
			got, err := parser.FindIdentifier(root, sourceCode, testCase.Line, testCase.Col)
			if testCase.WantErr != nil {
				assert.ErrorIs(t, err, testCase.WantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.Want, got)
		})
	}
}

func TestFindDefinition(t *testing.T) {
	newRange := func(startRow, startCol, endRow, endCol uint32) parser.Range {
		return parser.Range{
			Start: parser.Point{Row: startRow, Column: startCol},
			End:   parser.Point{Row: endRow, Column: endCol},
		}
	}
	type TestCase struct {
		Desc       string
		SourceCode string
		Line       uint
		Col        uint
		Want       parser.Range
	}
	testCases := []TestCase{
		{
			Desc: "func identifier",
			SourceCode: `func add(a: Int, b: Int) -> Int {
    return a + b
}

let result = add(a: 1, b: 2)`,
			Line: 4,
			Col:  14,
			Want: newRange(0, 5, 0, 8),
		},
		{
			Desc: "func parameter",
			SourceCode: `func add(a: Int, b: Int) -> Int {
    return a + b
}`,
			Line: 1,
			Col:  11,
			Want: newRange(0, 9, 0, 10),
		},
		{
			Desc: "local variable shadows global",
			SourceCode: `let value = 1

func compute() -> Int {
    let value = 2
    return value
}`,
			Line: 4,
			Col:  11,
			Want: newRange(3, 8, 3, 13),
		},
		{
			Desc: "local variable is not visible before declaration",
			SourceCode: `let value = 1

func compute() -> Int {
    let copy = value
    let value = 2
    return copy + value
}`,
			Line: 3,
			Col:  15,
			Want: newRange(0, 4, 0, 9),
		},
		{
			Desc: "type identifier",
			SourceCode: `struct Point {
    var x: Int
}

func origin() -> Point {
    return Point(x: 0)
}`,
			Line: 4,
			Col:  17,
			Want: newRange(0, 7, 0, 12),
		},
		{
			Desc: "property used in method",
			SourceCode: `class Counter {
    var count = 0

    func increment() {
        count += 1
    }
}`,
			Line: 4,
			Col:  8,
			Want: newRange(1, 8, 1, 13),
		},
		{
			Desc: "for loop variable",
			SourceCode: `func total(values: [Int]) -> Int {
    var sum = 0
    for value in values {
        sum += value
    }
    return sum
}`,
			Line: 3,
			Col:  15,
			Want: newRange(2, 8, 2, 13),
		},
		{
			Desc: "local variable inside for loop body",
			SourceCode: `func total(values: [Int]) -> Int {
    var sum = 0
    for value in values {
        sum += value
    }
    return sum
}`,
			Line: 3,
			Col:  8,
			Want: newRange(1, 8, 1, 11),
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.Desc, func(t *testing.T) {
			assert := assert.New(t)
			sourceCode := []byte(testCase.SourceCode)
			root, err := parser.ParseNode(context.Background(), sourceCode)
			require.NoError(t, err)
			got, err := parser.FindDefinition(root, sourceCode, testCase.Line, testCase.Col)
			assert.NoError(err)
			assert.Equal(testCase.Want, got)
		})
	}

	t.Run("undeclared identifier", func(t *testing.T) {
		sourceCode := []byte(`print(unknown)`)
		root, err := parser.ParseNode(context.Background(), sourceCode)
		require.NoError(t, err)
		_, err = parser.FindDefinition(root, sourceCode, 0, 8)
		assert.ErrorIs(t, err, parser.ErrNoDefinition)
	})
}
