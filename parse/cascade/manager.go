package cascade

import (
	"fmt"
	"sort"
	"strings"
)

const byteOrderMark = "\ufeff"

// Loader returns the text of a document by name, or "" when there is none.
// It is how #Insert file:NAME reaches other documents.
type Loader func(name string) string

// Document is one parsed text.
type Document struct {
	Name     string
	Root     *Key
	Lines    []*Line
	Errors   int
	Warnings int
}

// OK reports whether the document parsed without errors.
func (d *Document) OK() bool { return d.Errors == 0 }

// Manager caches parsed documents by name. It is not safe for concurrent
// use.
type Manager struct {
	docs    map[string]*Document
	parsing map[string]bool
	loader  Loader
	log     Logger
}

type Option func(*Manager)

func WithLoader(l Loader) Option {
	return func(m *Manager) { m.loader = l }
}

func WithLogger(l Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		docs:    make(map[string]*Document),
		parsing: make(map[string]bool),
		log:     NopLogger,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Parse reads text as the document name, replacing any cached document of
// that name.
func (m *Manager) Parse(name, text string) *Document {
	delete(m.docs, name)
	m.parsing[name] = true
	defer delete(m.parsing, name)

	log := &counter{next: m.log}
	log.Trace(fmt.Sprintf("parse %q", name))

	var lines []*Line
	for _, s := range DivideSentences(strings.TrimPrefix(text, byteOrderMark), log) {
		l := ClassifyLine(s, Tokenize(s), log)
		if !l.IsBlank() {
			lines = append(lines, l)
		}
	}
	root := NewKey("")
	b := &builder{m: m, root: root, log: log}
	b.build(root, lines)

	doc := &Document{
		Name:     name,
		Root:     root,
		Lines:    lines,
		Errors:   log.errors,
		Warnings: log.warnings,
	}
	m.docs[name] = doc
	return doc
}

// Tree returns the root of a cached document, asking the loader for its text
// on a miss. It returns nil when the document cannot be found.
func (m *Manager) Tree(name string) *Key {
	root, _ := m.lookup(name)
	return root
}

func (m *Manager) lookup(name string) (*Key, Code) {
	if d, ok := m.docs[name]; ok {
		return d.Root, 0
	}
	if m.parsing[name] {
		return nil, RecursiveInsert
	}
	if m.loader == nil {
		return nil, CantFindInsertFile
	}
	text := m.loader(name)
	if text == "" {
		return nil, CantFindInsertFile
	}
	return m.Parse(name, text).Root, 0
}

// Store caches a tree that was not read from text, such as a decoded binary
// file, so that #Insert can reach it.
func (m *Manager) Store(name string, root *Key) *Document {
	doc := &Document{Name: name, Root: root}
	m.docs[name] = doc
	return doc
}

func (m *Manager) Document(name string) (*Document, bool) {
	d, ok := m.docs[name]
	return d, ok
}

func (m *Manager) Remove(name string) bool {
	_, ok := m.docs[name]
	delete(m.docs, name)
	return ok
}

func (m *Manager) Clear() {
	m.docs = make(map[string]*Document)
}

// Names lists the cached documents in order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.docs))
	for n := range m.docs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Parse reads a standalone document with a throwaway manager.
func Parse(text string, opts ...Option) *Document {
	return NewManager(opts...).Parse("", text)
}
