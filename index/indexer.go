package index

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"github.com/kelly-lin/swift-lang-server/parser"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
)

// Stats summarises one indexing run.
type Stats struct {
	// Swift files found in the workspace.
	Files int
	// Files parsed because they are new or changed.
	Indexed int
	// Files whose content hash matched the index.
	Skipped int
	// Indexed files no longer in the workspace.
	Removed int
	// Symbols written during the run.
	Symbols int
}

// Indexer keeps a Store in sync with the Swift files of a workspace.
type Indexer struct {
	store   *Store
	exclude []string
	logger  *slog.Logger
}

// NewIndexer returns an indexer writing to store. A nil logger discards all
// output.
func NewIndexer(store *Store, logger *slog.Logger, exclude []string) *Indexer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Indexer{store: store, exclude: exclude, logger: logger}
}

func (ix *Indexer) Store() *Store {
	return ix.store
}

type fileResult struct {
	path    string
	hash    string
	symbols []Symbol
	skipped bool
	err     error
}

// ContentHash returns the hex encoded xxh3 hash of content.
func ContentHash(content []byte) string {
	return strconv.FormatUint(xxh3.Hash(content), 16)
}

// Index discovers the Swift files under root, parses the new and changed ones
// in parallel and writes their symbols in one transaction. Files that fail to
// read or parse are logged and left out.
func (ix *Indexer) Index(ctx context.Context, root string) (Stats, error) {
	var stats Stats
	files, err := Discover(ctx, root, ix.exclude)
	if err != nil {
		return stats, fmt.Errorf("discover %s: %w", root, err)
	}
	stats.Files = len(files)

	known, err := ix.store.FileHashes()
	if err != nil {
		return stats, err
	}

	results := make([]fileResult, len(files))
	numWorkers := runtime.NumCPU()
	if numWorkers > len(files) {
		numWorkers = len(files)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(numWorkers, 1))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = indexFile(gctx, path, known[path])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	present := make(map[string]bool, len(files))
	err = ix.store.WithTransaction(func(tx *Store) error {
		for _, r := range results {
			present[r.path] = true
			if r.err != nil {
				ix.logger.Warn("index.file.err", "path", r.path, "err", r.err)
				continue
			}
			if r.skipped {
				stats.Skipped++
				continue
			}
			if err := tx.PutFile(r.path, r.hash, r.symbols); err != nil {
				return err
			}
			stats.Indexed++
			stats.Symbols += len(r.symbols)
		}
		for path := range known {
			if present[path] {
				continue
			}
			if err := tx.DeleteFile(path); err != nil {
				return err
			}
			stats.Removed++
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	ix.logger.Info("index.done",
		"root", root,
		"files", stats.Files,
		"indexed", stats.Indexed,
		"skipped", stats.Skipped,
		"removed", stats.Removed,
		"symbols", stats.Symbols,
	)
	return stats, nil
}

func indexFile(ctx context.Context, path, knownHash string) fileResult {
	result := fileResult{path: path}
	content, err := os.ReadFile(path)
	if err != nil {
		result.err = err
		return result
	}
	result.hash = ContentHash(content)
	if result.hash == knownHash {
		result.skipped = true
		return result
	}
	root, err := parser.ParseNode(ctx, content)
	if err != nil {
		result.err = err
		return result
	}
	result.symbols = FromDocumentSymbols(path, parser.DocumentSymbols(root, content))
	return result
}

// FromDocumentSymbols flattens a document outline into index rows for the
// file at path.
func FromDocumentSymbols(path string, symbols []parser.Symbol) []Symbol {
	flat := parser.FlattenSymbols(symbols)
	result := make([]Symbol, 0, len(flat))
	for _, s := range flat {
		result = append(result, Symbol{
			Name:           s.Name,
			Kind:           s.Kind,
			Path:           path,
			Range:          s.Range,
			SelectionRange: s.SelectionRange,
			Container:      s.Container,
		})
	}
	return result
}
