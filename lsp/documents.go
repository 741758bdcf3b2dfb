package lsp

import (
	"bytes"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dhamidi/gdoc/doc"
	"github.com/dhamidi/gdoc/scan"
)

// Document is an open editor buffer and the model traversed from it.
type Document struct {
	Path    string
	Content []byte
	Model   *doc.Model
	Err     error
}

// Documents tracks open buffers. Each one is traversed on its own, so a
// document's model only ever holds the classes it declares.
type Documents struct {
	mu      sync.RWMutex
	scanner *scan.Scanner
	files   map[string]*Document
}

func NewDocuments(scanner *scan.Scanner) *Documents {
	return &Documents{
		scanner: scanner,
		files:   make(map[string]*Document),
	}
}

// Update replaces the content of path and traverses it again. Files of
// an unknown dialect are tracked without a model.
func (d *Documents) Update(path string, content []byte) *Document {
	document := &Document{Path: path, Content: content}
	dialect, err := scan.DialectOf(path)
	if err != nil {
		document.Err = err
	} else {
		document.Model, document.Err = d.scanner.Parse(scan.Unit{Path: path, Dialect: dialect}, content)
	}

	d.mu.Lock()
	d.files[path] = document
	d.mu.Unlock()
	return document
}

// Reload reads path from disk.
func (d *Documents) Reload(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.Update(path, content), nil
}

func (d *Documents) Remove(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.files, path)
}

func (d *Documents) Get(path string) *Document {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.files[path]
}

// FindClass looks a class up by simple name, first among open documents
// and then in the workspace model. Ties go to the smallest path.
func (d *Documents) FindClass(name string) *doc.ClassDoc {
	d.mu.RLock()
	var paths []string
	for path := range d.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	var models []*doc.Model
	for _, path := range paths {
		if m := d.files[path].Model; m != nil {
			models = append(models, m)
		}
	}
	d.mu.RUnlock()

	models = append(models, d.scanner.Model())
	for _, m := range models {
		for _, c := range m.Classes() {
			if c.Name == name {
				return c
			}
		}
	}
	return nil
}

// WordAt returns the identifier touching the zero-based line and column.
// The column counts UTF-16 code units, as LSP positions do.
func WordAt(content []byte, line, col int) string {
	lines := bytes.Split(content, []byte("\n"))
	if line < 0 || line >= len(lines) {
		return ""
	}
	text := string(lines[line])
	if col < 0 {
		return ""
	}
	col = byteOffset(text, col)
	if col < 0 {
		return ""
	}

	start := col
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !isIdentRune(r) {
			break
		}
		start -= size
	}
	end := col
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !isIdentRune(r) {
			break
		}
		end += size
	}
	return text[start:end]
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// locate finds the first whole-word occurrence of name at or after the byte
// offset and returns its zero-based line and UTF-16 column, plus the byte
// offset just past it. ok is false when the name does not occur.
func locate(content []byte, name string, offset int) (line, col, next int, ok bool) {
	text := string(content)
	if name == "" || offset > len(text) {
		return 0, 0, offset, false
	}
	for i := offset; i <= len(text)-len(name); {
		idx := strings.Index(text[i:], name)
		if idx < 0 {
			break
		}
		at := i + idx
		end := at + len(name)
		if wordBoundary(text, at, end) {
			lineStart := strings.LastIndexByte(text[:at], '\n') + 1
			return strings.Count(text[:at], "\n"), utf16Len(text[lineStart:at]), end, true
		}
		i = at + 1
	}
	return 0, 0, offset, false
}

func wordBoundary(text string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); isIdentRune(r) {
			return false
		}
	}
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isIdentRune(r) {
			return false
		}
	}
	return true
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// byteOffset converts a column in UTF-16 code units to a byte offset into
// line, or -1 when the column lies past its end. A column inside a
// surrogate pair moves to the next rune.
func byteOffset(line string, units int) int {
	n := 0
	for i, r := range line {
		if n >= units {
			return i
		}
		n += utf16.RuneLen(r)
	}
	if units <= n {
		return len(line)
	}
	return -1
}
