package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/kelly-lin/swift-lang-server/format"
	"github.com/kelly-lin/swift-lang-server/index"
	"github.com/kelly-lin/swift-lang-server/protocol"
	sitter "github.com/smacker/go-tree-sitter"
)

const (
	contentLengthHeaderName = "Content-Length"
	serverName              = "swiftls"
)

var (
	// Unhandled LSP method error.
	ErrUnhandledMethod     = errors.New("unhandled method")
	ErrInvalidParams       = errors.New("invalid params")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrShutdown            = errors.New("server is shutting down")
)

// Methods that never get a response.
var notificationMethods = map[string]bool{
	"initialized":            true,
	"exit":                   true,
	"textDocument/didOpen":   true,
	"textDocument/didChange": true,
	"textDocument/didClose":  true,
	"textDocument/didSave":   true,
}

type Options struct {
	// Indentation used by formatting when the client sends no tab size.
	IndentWidth            int
	TrimTrailingWhitespace bool
	// Publish syntax errors after every open and change.
	Diagnostics bool
	// Indexes the workspace root after initialization and serves
	// workspace/symbol from it. Optional.
	Indexer *index.Indexer
	Version string
}

// Open text document.
type document struct {
	languageID string
	version    int
	source     []byte
	hash       uint64
	tree       *sitter.Tree
}

func (d *document) root() *sitter.Node {
	return d.tree.RootNode()
}

// Language server.
type Server struct {
	mu sync.Mutex
	// Map of file URI and open document.
	documents map[string]*document
	logger    *slog.Logger
	opts      Options
	rootPath  string
	shutdown  bool

	ctx      context.Context
	cancel   context.CancelFunc
	indexing sync.WaitGroup

	wmu sync.Mutex
	w   io.Writer
}

// Creates a new language server. A nil logger discards all output.
func NewServer(logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = format.DefaultIndentWidth
	}
	return &Server{
		documents: make(map[string]*document),
		logger:    logger,
		opts:      opts,
	}
}

// Serve reads JSONRPC from the reader, processes the message and responds by
// writing to writer. It returns nil after an exit notification, the read
// error when the reader fails and the context error when ctx is done.
// Background work is cancelled and waited for before it returns.
func (s *Server) Serve(ctx context.Context, rd io.Reader, w io.Writer) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.w = w
	defer func() {
		s.cancel()
		s.indexing.Wait()
	}()

	messages := make(chan protocol.RequestMessage)
	readErr := make(chan error, 1)
	go s.readMessages(s.ctx, bufio.NewReader(rd), messages, readErr)
	for {
		var msg protocol.RequestMessage
		select {
		case <-s.ctx.Done():
			s.logger.Info("stopping server", "err", ctx.Err())
			return ctx.Err()
		case err := <-readErr:
			s.logger.Error("read message", "err", err)
			return err
		case msg = <-messages:
		}
		s.logger.Debug("request", "id", msg.ID, "method", msg.Method, "params", string(msg.Params))

		if msg.Method == "exit" {
			return nil
		}

		res, err := s.handleMessage(msg)
		if err != nil {
			s.logger.Error("could not handle message", "method", msg.Method, "err", err)
			if res == nil && (notificationMethods[msg.Method] || msg.ID == 0) {
				continue
			}
			res = &protocol.ResponseMessage{ID: msg.ID, Error: toResponseError(err)}
		}
		if res == nil {
			continue
		}
		res.JSONRPC = "2.0"
		if err := s.send(res); err != nil {
			s.logger.Error("could not write response", "id", msg.ID, "err", err)
		}
	}
}

// Reads messages until the reader fails or ctx is done. A read blocked on
// the reader ends when the reader is closed.
func (s *Server) readMessages(ctx context.Context, r *bufio.Reader, messages chan<- protocol.RequestMessage, errc chan<- error) {
	for {
		msg, err := readMessage(r)
		if err != nil {
			errc <- err
			return
		}
		select {
		case messages <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// Read LSP messages from the reader and return the unmarshalled request
// message.
func readMessage(r *bufio.Reader) (protocol.RequestMessage, error) {
	message := protocol.RequestMessage{}
	var contentLength int64 = -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return message, fmt.Errorf("could not read line: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		colonIndex := strings.IndexRune(line, ':')
		if colonIndex == -1 {
			return message, fmt.Errorf("could not find colon delimiter in header")
		}
		name := line[:colonIndex]
		value := strings.TrimSpace(line[colonIndex+1:])
		if strings.EqualFold(name, contentLengthHeaderName) {
			contentLength, err = strconv.ParseInt(value, 10, 64)
			if err != nil {
				return message, fmt.Errorf("failed to parse content length: %w", err)
			}
		}
	}
	if contentLength < 0 {
		return message, fmt.Errorf("missing %s header", contentLengthHeaderName)
	}

	content := make([]byte, contentLength)
	if _, err := io.ReadFull(r, content); err != nil {
		return message, fmt.Errorf("failed to read content: %w", err)
	}
	if err := json.Unmarshal(content, &message); err != nil {
		return message, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return message, nil
}

// Writes v to the client as a single framed message.
func (s *Server) send(v any) error {
	contentBytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not marshal contents: %w", err)
	}
	resMsg := ToProtocolMessage(contentBytes)
	s.logger.Debug("response", "content", string(contentBytes))

	s.wmu.Lock()
	defer s.wmu.Unlock()
	_, err = io.WriteString(s.w, resMsg)
	return err
}

func (s *Server) notify(method string, params any) error {
	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return s.send(protocol.NotificationMessage{
		JSONRPC: "2.0",
		Method:  method,
		Params:  paramsBytes,
	})
}

// Handles the request message and returns the response. Notifications
// return a nil response.
func (s *Server) handleMessage(msg protocol.RequestMessage) (*protocol.ResponseMessage, error) {
	// LSP version specific methods are optional, none are implemented.
	if strings.HasPrefix(msg.Method, "$/") {
		if msg.ID == 0 {
			return nil, nil
		}
		return &protocol.ResponseMessage{
			ID:    msg.ID,
			Error: &protocol.ResponseError{Code: protocol.ErrorCodeMethodNotFound, Message: ErrUnhandledMethod.Error()},
		}, nil
	}

	s.mu.Lock()
	shutdown := s.shutdown
	s.mu.Unlock()
	if shutdown && !notificationMethods[msg.Method] {
		return nil, ErrShutdown
	}

	switch msg.Method {
	case "initialize":
		return reply(msg, s.initialize)
	case "initialized":
		return nil, s.initialized()
	case "shutdown":
		s.mu.Lock()
		s.shutdown = true
		s.mu.Unlock()
		return &protocol.ResponseMessage{ID: msg.ID, Result: protocol.NullResult}, nil

	case "textDocument/didOpen":
		return nil, withParams(msg, s.didOpen)
	case "textDocument/didChange":
		return nil, withParams(msg, s.didChange)
	case "textDocument/didClose":
		return nil, withParams(msg, s.didClose)
	case "textDocument/didSave":
		return nil, withParams(msg, s.didSave)

	case "textDocument/hover":
		return reply(msg, s.hover)
	case "textDocument/definition":
		return reply(msg, s.definition)
	case "textDocument/completion":
		return reply(msg, s.completion)
	case "completionItem/resolve":
		return reply(msg, s.resolveCompletionItem)
	case "textDocument/documentSymbol":
		return reply(msg, s.documentSymbol)
	case "workspace/symbol":
		return reply(msg, s.workspaceSymbol)
	case "textDocument/formatting":
		return reply(msg, s.formatting)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnhandledMethod, msg.Method)
	}
}

// Decodes the request params and marshals the handler result into a response.
// A nil result is sent as JSON null.
func reply[P, R any](msg protocol.RequestMessage, handler func(params P) (R, error)) (*protocol.ResponseMessage, error) {
	var params P
	if err := decodeParams(msg.Params, &params); err != nil {
		return nil, err
	}
	result, err := handler(params)
	if err != nil {
		return nil, err
	}
	resultBytes, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &protocol.ResponseMessage{ID: msg.ID, Result: json.RawMessage(resultBytes)}, nil
}

func withParams[P any](msg protocol.RequestMessage, handler func(params P) error) error {
	var params P
	if err := decodeParams(msg.Params, &params); err != nil {
		return err
	}
	return handler(params)
}

func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParams, err)
	}
	return nil
}

func toResponseError(err error) *protocol.ResponseError {
	code := protocol.ErrorCodeInternalError
	switch {
	case errors.Is(err, ErrUnhandledMethod):
		code = protocol.ErrorCodeMethodNotFound
	case errors.Is(err, ErrInvalidParams), errors.Is(err, ErrDocumentNotFound):
		code = protocol.ErrorCodeInvalidParams
	case errors.Is(err, ErrShutdown):
		code = protocol.ErrorCodeInvalidRequest
	}
	return &protocol.ResponseError{Code: code, Message: err.Error()}
}

// Formats content into LSP format by adding in headers and field names ready
// to send over the wire.
func ToProtocolMessage(contentBytes []byte) string {
	return fmt.Sprintf("%s: %d\r\n\r\n%s", contentLengthHeaderName, len(contentBytes), contentBytes)
}
