package protocol

import "encoding/json"

const (
	CompletionItemKindText          = "text"
	CompletionItemKindMethod        = "method"
	CompletionItemKindFunction      = "function"
	CompletionItemKindConstructor   = "constructor"
	CompletionItemKindField         = "field"
	CompletionItemKindVariable      = "variable"
	CompletionItemKindClass         = "class"
	CompletionItemKindInterface     = "interface"
	CompletionItemKindModule        = "module"
	CompletionItemKindProperty      = "property"
	CompletionItemKindUnit          = "unit"
	CompletionItemKindValue         = "value"
	CompletionItemKindEnum          = "enum"
	CompletionItemKindKeyword       = "keyword"
	CompletionItemKindSnippet       = "snippet"
	CompletionItemKindColor         = "color"
	CompletionItemKindFile          = "file"
	CompletionItemKindReference     = "reference"
	CompletionItemKindFolder        = "folder"
	CompletionItemKindEnumMember    = "enummember"
	CompletionItemKindConstant      = "constant"
	CompletionItemKindStruct        = "struct"
	CompletionItemKindEvent         = "event"
	CompletionItemKindOperator      = "operator"
	CompletionItemKindTypeParameter = "typeparameter"
)

var completionItemKinds = map[string]uint{
	CompletionItemKindText:          1,
	CompletionItemKindMethod:        2,
	CompletionItemKindFunction:      3,
	CompletionItemKindConstructor:   4,
	CompletionItemKindField:         5,
	CompletionItemKindVariable:      6,
	CompletionItemKindClass:         7,
	CompletionItemKindInterface:     8,
	CompletionItemKindModule:        9,
	CompletionItemKindProperty:      10,
	CompletionItemKindUnit:          11,
	CompletionItemKindValue:         12,
	CompletionItemKindEnum:          13,
	CompletionItemKindKeyword:       14,
	CompletionItemKindSnippet:       15,
	CompletionItemKindColor:         16,
	CompletionItemKindFile:          17,
	CompletionItemKindReference:     18,
	CompletionItemKindFolder:        19,
	CompletionItemKindEnumMember:    20,
	CompletionItemKindConstant:      21,
	CompletionItemKindStruct:        22,
	CompletionItemKindEvent:         23,
	CompletionItemKindOperator:      24,
	CompletionItemKindTypeParameter: 25,
}

// GetCompletionItemKind returns the wire value of the completion item kind,
// unknown kinds map to text.
func GetCompletionItemKind(kind string) *uint {
	result, ok := completionItemKinds[kind]
	if !ok {
		result = 1
	}
	return &result
}

const (
	SymbolKindFile          = 1
	SymbolKindModule        = 2
	SymbolKindNamespace     = 3
	SymbolKindPackage       = 4
	SymbolKindClass         = 5
	SymbolKindMethod        = 6
	SymbolKindProperty      = 7
	SymbolKindField         = 8
	SymbolKindConstructor   = 9
	SymbolKindEnum          = 10
	SymbolKindInterface     = 11
	SymbolKindFunction      = 12
	SymbolKindVariable      = 13
	SymbolKindConstant      = 14
	SymbolKindString        = 15
	SymbolKindNumber        = 16
	SymbolKindBoolean       = 17
	SymbolKindArray         = 18
	SymbolKindObject        = 19
	SymbolKindKey           = 20
	SymbolKindNull          = 21
	SymbolKindEnumMember    = 22
	SymbolKindStruct        = 23
	SymbolKindEvent         = 24
	SymbolKindOperator      = 25
	SymbolKindTypeParameter = 26
)

const (
	DiagnosticSeverityError       = 1
	DiagnosticSeverityWarning     = 2
	DiagnosticSeverityInformation = 3
	DiagnosticSeverityHint        = 4
)

const (
	TextDocumentSyncKindNone        = 0
	TextDocumentSyncKindFull        = 1
	TextDocumentSyncKindIncremental = 2
)

// JSON-RPC error codes.
const (
	ErrorCodeParseError     = -32700
	ErrorCodeInvalidRequest = -32600
	ErrorCodeMethodNotFound = -32601
	ErrorCodeInvalidParams  = -32602
	ErrorCodeInternalError  = -32603
)

// Result of requests that have nothing to return.
var NullResult = json.RawMessage("null")

// RequestMessage is a request or, when it carries no ID, a notification.
type RequestMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type ResponseMessage struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

// NotificationMessage is sent by the server without a request, it has no ID.
type NotificationMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type InitializeParams struct {
	ProcessID *int    `json:"processId"`
	RootURI   *string `json:"rootUri"`
	RootPath  *string `json:"rootPath,omitempty"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   *ServerInfo        `json:"serverInfo,omitempty"`
}

type ServerCapabilities struct {
	TextDocumentSync           *int               `json:"textDocumentSync,omitempty"`
	CompletionProvider         *CompletionOptions `json:"completionProvider,omitempty"`
	HoverProvider              bool               `json:"hoverProvider,omitempty"`
	DefinitionProvider         *bool              `json:"definitionProvider,omitempty"`
	DocumentSymbolProvider     bool               `json:"documentSymbolProvider,omitempty"`
	WorkspaceSymbolProvider    bool               `json:"workspaceSymbolProvider,omitempty"`
	DocumentFormattingProvider bool               `json:"documentFormattingProvider,omitempty"`
}

type CompletionOptions struct {
	ResolveProvider   *bool    `json:"resolveProvider,omitempty"`
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

type ServerInfo struct {
	Name    string  `json:"name"`
	Version *string `json:"version"`
}

type Position struct {
	Line      uint `json:"line"`
	Character uint `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	TextDocumentIdentifier
	Version int `json:"version"`
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// Only full document syncs are supported so every change carries the whole
// text.
type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type DidSaveTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Text         *string                `json:"text,omitempty"`
}

type HoverParams struct {
	TextDocumentPositionParams
}

type Hover struct {
	Contents MarkUpContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

type DefinitionParams struct {
	TextDocumentPositionParams
}

type CompletionParams struct {
	TextDocumentPositionParams
}

type CompletionResult struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

type CompletionItem struct {
	Label         string         `json:"label"`
	Kind          *uint          `json:"kind,omitempty"`
	Detail        string         `json:"detail,omitempty"`
	Data          any            `json:"data,omitempty"`
	Documentation *MarkUpContent `json:"documentation,omitempty"`
}

type MarkUpContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type DocumentSymbolParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type DocumentSymbol struct {
	Name           string           `json:"name"`
	Detail         string           `json:"detail,omitempty"`
	Kind           int              `json:"kind"`
	Range          Range            `json:"range"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}

type WorkspaceSymbolParams struct {
	Query string `json:"query"`
}

type SymbolInformation struct {
	Name          string   `json:"name"`
	Kind          int      `json:"kind"`
	Location      Location `json:"location"`
	ContainerName string   `json:"containerName,omitempty"`
}

type FormattingOptions struct {
	TabSize      uint `json:"tabSize"`
	InsertSpaces bool `json:"insertSpaces"`
}

type DocumentFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Options      FormattingOptions      `json:"options"`
}

type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity,omitempty"`
	Source   string `json:"source,omitempty"`
	Message  string `json:"message"`
}

type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}
