package server

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kelly-lin/swift-lang-server/format"
	"github.com/kelly-lin/swift-lang-server/lang"
	"github.com/kelly-lin/swift-lang-server/parser"
	"github.com/kelly-lin/swift-lang-server/protocol"
	"github.com/zeebo/xxh3"
)

const (
	diagnosticSource     = "swiftls"
	workspaceSymbolLimit = 100
)

func (s *Server) initialize(params protocol.InitializeParams) (protocol.InitializeResult, error) {
	s.mu.Lock()
	switch {
	case params.RootURI != nil && *params.RootURI != "":
		s.rootPath = protocol.Path(*params.RootURI)
	case params.RootPath != nil:
		s.rootPath = *params.RootPath
	}
	s.mu.Unlock()

	var version *string
	if s.opts.Version != "" {
		version = &s.opts.Version
	}
	return protocol.InitializeResult{
		Capabilities: newServerCapabilities(),
		ServerInfo:   &protocol.ServerInfo{Name: serverName, Version: version},
	}, nil
}

// Starts indexing the workspace root in the background when an indexer is
// configured.
func (s *Server) initialized() error {
	s.mu.Lock()
	root := s.rootPath
	s.mu.Unlock()
	if s.opts.Indexer == nil || root == "" {
		return nil
	}
	s.indexing.Add(1)
	go func() {
		defer s.indexing.Done()
		stats, err := s.opts.Indexer.Index(s.ctx, root)
		if err != nil {
			s.logger.Warn("workspace index failed", "root", root, "err", err)
			return
		}
		s.logger.Info("workspace indexed", "root", root, "files", stats.Files, "symbols", stats.Symbols)
	}()
	return nil
}

func (s *Server) didOpen(params protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument
	if item.LanguageID != lang.LanguageID {
		return fmt.Errorf("%w %s, expected %s", ErrUnsupportedLanguage, item.LanguageID, lang.LanguageID)
	}
	doc := &document{languageID: item.LanguageID, version: item.Version}
	if err := s.updateDocument(item.URI, doc, []byte(item.Text)); err != nil {
		return err
	}
	return s.publishDiagnostics(item.URI)
}

func (s *Server) didChange(params protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	doc, err := s.document(uri)
	if err != nil {
		return err
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// Full sync, the last change holds the whole document.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.mu.Lock()
	doc.version = params.TextDocument.Version
	s.mu.Unlock()
	if err := s.updateDocument(uri, doc, []byte(text)); err != nil {
		return err
	}
	return s.publishDiagnostics(uri)
}

func (s *Server) didClose(params protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	_, ok := s.documents[params.TextDocument.URI]
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()
	if !ok || !s.opts.Diagnostics {
		return nil
	}
	return s.notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
}

func (s *Server) didSave(params protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	doc, err := s.document(params.TextDocument.URI)
	if err != nil {
		return err
	}
	return s.updateDocument(params.TextDocument.URI, doc, []byte(*params.Text))
}

// Parses source into doc and stores it under uri. Parsing is skipped when
// the content is unchanged.
func (s *Server) updateDocument(uri string, doc *document, source []byte) error {
	hash := xxh3.Hash(source)
	s.mu.Lock()
	unchanged := doc.tree != nil && doc.hash == hash
	s.mu.Unlock()
	if unchanged {
		s.logger.Debug("document unchanged, skipping parse", "uri", uri)
		return nil
	}

	tree, err := parser.Parse(s.ctx, source)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.source = source
	doc.hash = hash
	doc.tree = tree
	s.documents[uri] = doc
	return nil
}

func (s *Server) document(uri string) (*document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, uri)
	}
	return doc, nil
}

func (s *Server) publishDiagnostics(uri string) error {
	if !s.opts.Diagnostics {
		return nil
	}
	doc, err := s.document(uri)
	if err != nil {
		return err
	}
	diagnostics := []protocol.Diagnostic{}
	for _, syntaxErr := range parser.SyntaxErrors(doc.root(), doc.source) {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    toProtocolRange(syntaxErr.Range),
			Severity: protocol.DiagnosticSeverityError,
			Source:   diagnosticSource,
			Message:  syntaxErr.Message,
		})
	}
	return s.notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Hover shows the declaration header and doc comment of user defined symbols,
// falling back to the builtin library documentation.
func (s *Server) hover(params protocol.HoverParams) (*protocol.Hover, error) {
	doc, err := s.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	root := doc.root()
	line, col := params.Position.Line, params.Position.Character
	identifier, err := parser.FindIdentifier(root, doc.source, line, col)
	if errors.Is(err, parser.ErrNoDefinition) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	decl, err := parser.FindDeclarationNode(root, doc.source, line, col)
	if err == nil {
		header := parser.DeclarationHeader(decl, doc.source)
		return newMarkdownHover(protocol.CreateDocMarkdownString(header, parser.DocComment(decl, doc.source))), nil
	}
	if !errors.Is(err, parser.ErrNoDefinition) {
		return nil, err
	}

	libItems, ok := lang.Lib[identifier]
	if !ok || len(libItems) == 0 {
		return nil, nil
	}
	var docs []string
	for _, item := range libItems {
		docs = append(docs, protocol.CreateDocMarkdownString(item.Signature, item.Description))
	}
	return newMarkdownHover(strings.Join(docs, "\n\n")), nil
}

func newMarkdownHover(value string) *protocol.Hover {
	return &protocol.Hover{Contents: protocol.MarkUpContent{Kind: "markdown", Value: value}}
}

func (s *Server) definition(params protocol.DefinitionParams) (*protocol.Location, error) {
	doc, err := s.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	definitionRange, err := parser.FindDefinition(doc.root(), doc.source, params.Position.Line, params.Position.Character)
	if errors.Is(err, parser.ErrNoDefinition) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &protocol.Location{
		URI:   params.TextDocument.URI,
		Range: toProtocolRange(definitionRange),
	}, nil
}

// Completion offers the symbols declared in the document followed by
// keywords and builtins. Builtin documentation is filled in on resolve.
func (s *Server) completion(params protocol.CompletionParams) (protocol.CompletionResult, error) {
	doc, err := s.document(params.TextDocument.URI)
	if err != nil {
		return protocol.CompletionResult{}, err
	}
	seen := make(map[string]bool)
	items := []protocol.CompletionItem{}
	add := func(item protocol.CompletionItem) {
		if seen[item.Label] {
			return
		}
		seen[item.Label] = true
		items = append(items, item)
	}

	for _, sym := range parser.FlattenSymbols(parser.DocumentSymbols(doc.root(), doc.source)) {
		kind, ok := completionKinds[sym.Kind]
		if !ok {
			continue
		}
		add(protocol.CompletionItem{
			Label:  sym.Name,
			Kind:   protocol.GetCompletionItemKind(kind),
			Detail: sym.Detail,
		})
	}
	for _, keyword := range lang.Keywords {
		add(protocol.CompletionItem{
			Label: keyword,
			Kind:  protocol.GetCompletionItemKind(protocol.CompletionItemKindKeyword),
		})
	}
	names := make([]string, 0, len(lang.Lib))
	for name := range lang.Lib {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		item := lang.Lib[name][0]
		// Functions show their return type, types their declaration.
		detail := item.Signature
		if returnType, err := lang.GetReturnType(item.Signature); err == nil {
			detail = returnType
		}
		add(protocol.CompletionItem{
			Label:  name,
			Kind:   protocol.GetCompletionItemKind(item.Kind),
			Detail: detail,
			Data:   name,
		})
	}
	return protocol.CompletionResult{Items: items}, nil
}

func (s *Server) resolveCompletionItem(item protocol.CompletionItem) (protocol.CompletionItem, error) {
	name, ok := item.Data.(string)
	if !ok {
		return item, nil
	}
	libItems, ok := lang.Lib[name]
	if !ok || len(libItems) == 0 {
		return item, nil
	}
	item.Documentation = &protocol.MarkUpContent{
		Kind:  "markdown",
		Value: protocol.CreateDocMarkdownString(libItems[0].Signature, libItems[0].Description),
	}
	return item, nil
}

func (s *Server) documentSymbol(params protocol.DocumentSymbolParams) ([]protocol.DocumentSymbol, error) {
	doc, err := s.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	return toDocumentSymbols(parser.DocumentSymbols(doc.root(), doc.source)), nil
}

// Searches the open documents and then the workspace index. Indexed symbols
// of open documents are left out since the open text is newer.
func (s *Server) workspaceSymbol(params protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	query := strings.ToLower(params.Query)
	result := []protocol.SymbolInformation{}

	s.mu.Lock()
	uris := make([]string, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}
	docs := make(map[string]*document, len(s.documents))
	for uri, doc := range s.documents {
		docs[uri] = doc
	}
	s.mu.Unlock()
	sort.Strings(uris)

	open := make(map[string]bool, len(uris))
	for _, uri := range uris {
		doc := docs[uri]
		open[protocol.Path(uri)] = true
		for _, sym := range parser.FlattenSymbols(parser.DocumentSymbols(doc.root(), doc.source)) {
			if !strings.Contains(strings.ToLower(sym.Name), query) {
				continue
			}
			result = append(result, protocol.SymbolInformation{
				Name:          sym.Name,
				Kind:          toProtocolSymbolKind(sym.Kind),
				Location:      protocol.Location{URI: uri, Range: toProtocolRange(sym.SelectionRange)},
				ContainerName: sym.Container,
			})
		}
	}

	if s.opts.Indexer == nil {
		return result, nil
	}
	indexed, err := s.opts.Indexer.Store().Search(params.Query, workspaceSymbolLimit)
	if err != nil {
		return nil, err
	}
	for _, sym := range indexed {
		if open[sym.Path] {
			continue
		}
		result = append(result, protocol.SymbolInformation{
			Name:          sym.Name,
			Kind:          toProtocolSymbolKind(sym.Kind),
			Location:      protocol.Location{URI: protocol.URI(sym.Path), Range: toProtocolRange(sym.SelectionRange)},
			ContainerName: sym.Container,
		})
	}
	return result, nil
}

func (s *Server) formatting(params protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc, err := s.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	width := s.opts.IndentWidth
	if params.Options.InsertSpaces && params.Options.TabSize > 0 {
		width = int(params.Options.TabSize)
	}
	edits := format.Edits(doc.root(), doc.source, format.Options{
		IndentWidth:            width,
		TrimTrailingWhitespace: s.opts.TrimTrailingWhitespace,
	})
	if edits == nil {
		edits = []protocol.TextEdit{}
	}
	return edits, nil
}

func newServerCapabilities() protocol.ServerCapabilities {
	resolveProvider := true
	definitionProvider := true
	textDocumentSyncKind := protocol.TextDocumentSyncKindFull
	return protocol.ServerCapabilities{
		CompletionProvider: &protocol.CompletionOptions{
			ResolveProvider:   &resolveProvider,
			TriggerCharacters: []string{"."},
		},
		DefinitionProvider:         &definitionProvider,
		HoverProvider:              true,
		TextDocumentSync:           &textDocumentSyncKind,
		DocumentSymbolProvider:     true,
		WorkspaceSymbolProvider:    true,
		DocumentFormattingProvider: true,
	}
}
