// Package lsp serves the documentation model over the Language Server
// Protocol: open documents are traversed as they change and exposed as
// document symbols and hovers.
package lsp

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/gdoc/doc"
	"github.com/dhamidi/gdoc/scan"
)

const lsName = "gdoc"

type Server struct {
	scanner   *scan.Scanner
	documents *Documents
	handler   protocol.Handler
	server    *server.Server
	version   string
	log       commonlog.Logger
}

func NewServer(version string, scanner *scan.Scanner) *Server {
	if scanner == nil {
		scanner = scan.New()
	}
	ls := &Server{
		scanner:   scanner,
		documents: NewDocuments(scanner),
		version:   version,
		log:       commonlog.GetLogger("gdoc.lsp"),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentHover:          ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}
	if _, err := ls.scanner.Submit(scan.Request{Root: rootDir}); err != nil {
		ls.log.Warningf("workspace scan of %s: %s", rootDir, err)
	} else {
		ls.log.Infof("scanning workspace %s", rootDir)
	}

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	ls.scanner.Close()
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.update(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(path, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.documents.Remove(path)
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.update(path, []byte(*params.Text))
	} else if _, err := ls.documents.Reload(path); err != nil {
		ls.log.Warningf("reload %s: %s", path, err)
	}
	return nil
}

func (ls *Server) update(path string, content []byte) {
	if d := ls.documents.Update(path, content); d.Err != nil {
		ls.log.Debugf("%s", d.Err)
	}
}

func (ls *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	d := ls.documents.Get(path)
	if d == nil || d.Model == nil {
		return nil, nil
	}
	return documentSymbols(d), nil
}

func (ls *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	d := ls.documents.Get(path)
	if d == nil {
		return nil, nil
	}

	word := WordAt(d.Content, int(params.Position.Line), int(params.Position.Character))
	if word == "" {
		return nil, nil
	}
	cls := ls.documents.FindClass(word)
	if cls == nil {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: hoverText(cls),
		},
	}, nil
}

func hoverText(cls *doc.ClassDoc) string {
	var sb strings.Builder
	sb.WriteString("```java\n")
	sb.WriteString(strings.Join(append(cls.Modifiers.List(), string(cls.Kind), cls.FullPath), " "))
	sb.WriteString("\n```")
	if comment := strings.TrimSpace(cls.RawComment); comment != "" {
		sb.WriteString("\n\n" + comment)
	}
	return sb.String()
}

func documentSymbols(d *Document) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol
	for _, cls := range d.Model.Classes() {
		line, col, next, _ := locate(d.Content, cls.Name, 0)
		symbol := newSymbol(cls.Name, cls.FullPath, classSymbolKind(cls.Kind), line, col)

		child := func(name, detail string, kind protocol.SymbolKind) {
			l, c, _, ok := locate(d.Content, name, next)
			if !ok {
				l, c = line, col
			}
			symbol.Children = append(symbol.Children, newSymbol(name, detail, kind, l, c))
		}
		for _, f := range cls.Fields {
			child(f.Name, f.Type, protocol.SymbolKindField)
		}
		for _, p := range cls.Properties {
			child(p.Name, p.Type, protocol.SymbolKindProperty)
		}
		for _, ctor := range cls.Constructors {
			child(ctor.Name, "("+parameterTypes(ctor.Parameters)+")", protocol.SymbolKindConstructor)
		}
		for _, m := range cls.Methods {
			child(m.Name, "("+parameterTypes(m.Parameters)+") "+m.ReturnType, protocol.SymbolKindMethod)
		}
		symbols = append(symbols, symbol)
	}
	return symbols
}

func newSymbol(name, detail string, kind protocol.SymbolKind, line, col int) protocol.DocumentSymbol {
	start := protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
	end := protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col + utf16Len(name))}
	rng := protocol.Range{Start: start, End: end}
	return protocol.DocumentSymbol{
		Name:           name,
		Detail:         &detail,
		Kind:           kind,
		Range:          rng,
		SelectionRange: rng,
	}
}

func classSymbolKind(kind doc.Kind) protocol.SymbolKind {
	switch kind {
	case doc.KindInterface, doc.KindAnnotation:
		return protocol.SymbolKindInterface
	case doc.KindEnum:
		return protocol.SymbolKindEnum
	default:
		return protocol.SymbolKindClass
	}
}

func parameterTypes(params []doc.ParameterDoc) string {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return strings.Join(types, ", ")
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
