package cascade

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotRepresentable is returned by CheckText for trees whose text form
// would read back different.
var ErrNotRepresentable = errors.New("cascade: tree has no exact text form")

type saveConfig struct {
	comments bool
}

type SaveOption func(*saveConfig)

// WithoutComments leaves comments out of the written text.
func WithoutComments() SaveOption {
	return func(c *saveConfig) { c.comments = false }
}

// SaveToString writes the children of k as a document that reads back into
// an equal tree. Values held by k itself have no place in a document body
// and are not written.
func (k *Key) SaveToString(opts ...SaveOption) string {
	cfg := saveConfig{comments: true}
	for _, o := range opts {
		o(&cfg)
	}
	s := &saver{cfg: cfg}
	s.body(k, 0)
	return s.b.String()
}

type saver struct {
	b   strings.Builder
	cfg saveConfig
}

// isRecord tells named record keys from array elements.
func isRecord(k *Key) bool {
	return k.HasName() && !k.isArray
}

func (s *saver) indent(rank int) {
	for i := 0; i < rank; i++ {
		s.b.WriteByte('\t')
	}
}

func (s *saver) line(rank int, text, comment string) {
	s.indent(rank)
	s.b.WriteString(text)
	if comment != "" && s.cfg.comments {
		if text != "" {
			s.b.WriteByte(' ')
		}
		s.b.WriteString(commentMark + " " + safeComment(comment))
	}
	s.b.WriteByte('\n')
}

// leadComments writes multi-line comments as standalone lines and returns
// what is left for the end of the key's own line.
func (s *saver) leadComments(rank int, c string) string {
	if !strings.Contains(c, "\n") {
		return c
	}
	if s.cfg.comments {
		for _, l := range strings.Split(c, "\n") {
			s.line(rank, "", l)
		}
	}
	return ""
}

func (s *saver) body(k *Key, rank int) {
	divided := false
	for _, c := range k.keys {
		if !isRecord(c) && len(c.values) == 0 {
			divided = true
			break
		}
	}
	for _, c := range k.keys {
		switch {
		case isRecord(c):
			s.record(c, rank)
		case divided:
			s.divided(c, rank)
		default:
			s.element(c, rank)
		}
	}
}

// record writes "Name: v1, v2" and the children one rank deeper.
func (s *saver) record(k *Key, rank int) {
	comment := s.leadComments(rank, k.comments)
	text := quoteText(k.name) + ":"
	if len(k.values) > 0 {
		text += " " + joinValues(k)
	}
	s.line(rank, text, comment)
	s.body(k, rank+1)
}

// element writes an array element that has values as a bare value line.
func (s *saver) element(k *Key, rank int) {
	if k.HasName() {
		s.line(rank, "#Name "+quoteText(k.name), "")
	}
	comment := s.leadComments(rank, k.comments)
	s.line(rank, joinValues(k), comment)
	s.body(k, rank+1)
}

// divided writes an array element behind a record divider. Only the first
// comment line fits on the divider. The others are written as standalone
// lines before the values, or, for a group without values, on nested
// dividers that the reader collapses back into this group.
func (s *saver) divided(k *Key, rank int) {
	var lines []string
	if s.cfg.comments && k.comments != "" {
		lines = strings.Split(k.comments, "\n")
	}
	first := ""
	if len(lines) > 0 {
		first, lines = lines[0], lines[1:]
	}
	s.line(rank, "--", first)
	if k.HasName() {
		s.line(rank, "#Name "+quoteText(k.name), "")
	}
	if len(k.values) > 0 {
		for _, c := range lines {
			s.line(rank, "", c)
		}
		s.line(rank, joinValues(k), "")
		s.body(k, rank+1)
		return
	}
	for _, c := range lines {
		rank++
		s.line(rank, "--", c)
	}
	s.body(k, rank+1)
}

func joinValues(k *Key) string {
	parts := make([]string, len(k.values))
	for i, v := range k.values {
		parts[i] = formatValue(v.v)
	}
	return strings.Join(parts, ", ")
}

func formatValue(v Variant) string {
	if v.kind == KindString {
		return quoteText(v.str)
	}
	return v.String()
}

// unquotable replaces what no quoting can carry. The text form has no
// escapes, so double quotes become single quotes and line breaks spaces.
var unquotable = strings.NewReplacer(`"`, "'", "\r\n", " ", "\n", " ", "\r", " ")

func hasUnquotable(s string) bool {
	return strings.ContainsAny(s, "\"\r\n")
}

// safeComment keeps the quote count of a line even. A comment with an odd
// number of quotes would cut the statement in front of it.
func safeComment(c string) string {
	if strings.Count(c, `"`)%2 != 0 {
		return strings.ReplaceAll(c, `"`, "'")
	}
	return c
}

// quoteText quotes s when reading it back unquoted would change it.
func quoteText(s string) string {
	s = unquotable.Replace(s)
	if needsQuotes(s) {
		return `"` + s + `"`
	}
	return s
}

func needsQuotes(s string) bool {
	switch {
	case s == "":
		return true
	case strings.ContainsAny(s, ",:;#+\"\t"):
		return true
	case strings.Contains(s, commentMark), strings.Contains(s, "--"), strings.Contains(s, "  "):
		return true
	case s != strings.TrimSpace(s):
		return true
	}
	if ParseVariant(s).kind != KindString {
		return true
	}
	for _, f := range strings.Fields(s) {
		if ParseVariant(f).kind == KindBool {
			return true
		}
	}
	return false
}

// CheckText reports the first place under k that SaveToString cannot write
// so that it reads back into an equal tree. SaveToString still writes such
// trees, replacing quotes and line breaks and letting the reader regroup
// keys.
func (k *Key) CheckText() error {
	if len(k.values) > 0 {
		return fmt.Errorf("%w: the top key holds values", ErrNotRepresentable)
	}
	var err error
	k.Walk(func(c *Key, depth int) bool {
		if err == nil {
			err = checkText(c, depth == 0)
		}
		return err == nil
	})
	return err
}

func checkText(k *Key, top bool) error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrNotRepresentable, k.Path(), fmt.Sprintf(format, args...))
	}
	if !top {
		if hasUnquotable(k.name) {
			return fail("name %q has a quote or line break", k.name)
		}
		if !k.HasName() && k.IsEmpty() {
			return fail("empty array element")
		}
	}
	for _, v := range k.values {
		if v.v.kind == KindString && hasUnquotable(v.v.str) {
			return fail("string %q has a quote or line break", v.v.str)
		}
	}
	for _, c := range strings.Split(k.comments, "\n") {
		if strings.Count(c, `"`)%2 != 0 {
			return fail("comment %q has an odd number of quotes", c)
		}
	}

	if len(k.keys) == 1 {
		if c := k.keys[0]; !isRecord(c) && !c.HasName() && len(c.values) == 0 {
			return fail("a lone group is hoisted into its parent on reading")
		}
	}

	// A rank holding record dividers puts every line into a group, and a
	// record written after a bare value line lands inside that element.
	divided, element := false, false
	for _, c := range k.keys {
		if !isRecord(c) && len(c.values) == 0 {
			divided = true
		}
	}
	for _, c := range k.keys {
		switch {
		case !isRecord(c):
			element = true
		case divided:
			return fail("record %s sits beside divided elements", c.name)
		case element:
			return fail("record %s follows an array element", c.name)
		}
	}
	return nil
}
