// Package swift binds the tree-sitter Swift grammar entrypoint.
//
// The grammar tables are compiled by github.com/smacker/go-tree-sitter/swift,
// which is linked here for its C translation unit defining tree_sitter_swift.
package swift

// The header is included directly, again, and through language.h; its include
// guard makes the repeats no-ops.

// #include "tree_sitter_swift.h"
// #include "tree_sitter_swift.h"
// #include "language.h"
import "C"
import (
	"sync"
	"unsafe"

	sitter "github.com/smacker/go-tree-sitter"
	_ "github.com/smacker/go-tree-sitter/swift"
)

var (
	languageOnce sync.Once
	language     *sitter.Language
)

// Pointer returns the raw address of the static TSLanguage structure. The
// memory is owned by the grammar and lives for the whole process, callers must
// not free or mutate it.
func Pointer() unsafe.Pointer {
	return unsafe.Pointer(C.tree_sitter_swift())
}

// Reports whether the include guard of tree_sitter_swift.h is defined in the
// translation unit that includes it three times.
func headerIncluded() bool {
	return C.swift_header_included() == 1
}

// GetLanguage returns the Swift language handle. Every call returns the same
// handle.
func GetLanguage() *sitter.Language {
	languageOnce.Do(func() {
		language = sitter.NewLanguage(Pointer())
	})
	return language
}
