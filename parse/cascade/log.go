package cascade

import (
	"fmt"

	"go.uber.org/zap"
)

// Code identifies a recoverable problem found while reading a document.
type Code int

const (
	NotEvenQuoteCount Code = iota + 1
	SharpErrorPos
	RecordDividerMustBeAloneInLine

	CantResolveLine
	StrangeHeadType
	HeadWithoutValues
	EmptyCommand
	UnknownCommand
	UnknownCommandName

	ElementWithNameAlreadyPresent
	CantFindKey
	KeyMustHaveParent
	DublicateKeyName

	CantFindInsertFile
	PathEmpty
	RecursiveInsert

	NextArrayKeyNameAlreadySetted
	NextArrayKeyNameMissParent
	NextLineCommentMissParent
)

var codeNames = map[Code]string{
	NotEvenQuoteCount:              "NotEvenQuoteCount",
	SharpErrorPos:                  "SharpErrorPos",
	RecordDividerMustBeAloneInLine: "RecordDividerMustBeAloneInLine",
	CantResolveLine:                "CantResolveLine",
	StrangeHeadType:                "StrangeHeadType",
	HeadWithoutValues:              "HeadWithoutValues",
	EmptyCommand:                   "EmptyCommand",
	UnknownCommand:                 "UnknownCommand",
	UnknownCommandName:             "UnknownCommandName",
	ElementWithNameAlreadyPresent:  "ElementWithNameAlreadyPresent",
	CantFindKey:                    "CantFindKey",
	KeyMustHaveParent:              "KeyMustHaveParent",
	DublicateKeyName:               "DublicateKeyName",
	CantFindInsertFile:             "CantFindInsertFile",
	PathEmpty:                      "PathEmpty",
	RecursiveInsert:                "RecursiveInsert",
	NextArrayKeyNameAlreadySetted:  "NextArrayKeyNameAlreadySetted",
	NextArrayKeyNameMissParent:     "NextArrayKeyNameMissParent",
	NextLineCommentMissParent:      "NextLineCommentMissParent",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Context is the subject of a diagnostic: a raw line, a token, a key or a
// classified line.
type Context interface {
	Position() Position
	Describe() string
}

// LineContext is a diagnostic context made of a line number and a message.
type LineContext struct {
	Line int
	Msg  string
}

func (c LineContext) Position() Position { return Position{Line: c.Line} }

func (c LineContext) Describe() string { return c.Msg }

// Logger receives everything the reader has to say about a document. The
// reader never stops on a logged problem.
type Logger interface {
	LogError(code Code, ctx Context)
	LogWarning(code Code, ctx Context)
	Trace(text string)
}

type nopLogger struct{}

func (nopLogger) LogError(Code, Context)   {}
func (nopLogger) LogWarning(Code, Context) {}
func (nopLogger) Trace(string)             {}

// NopLogger discards all diagnostics.
var NopLogger Logger = nopLogger{}

// ZapLogger forwards diagnostics to a zap logger.
type ZapLogger struct {
	l *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{l: l}
}

func (z *ZapLogger) fields(code Code, ctx Context) []zap.Field {
	fs := []zap.Field{zap.String("code", code.String())}
	if ctx == nil {
		return fs
	}
	p := ctx.Position()
	return append(fs,
		zap.Int("line", p.Line),
		zap.Int("col", p.Col),
		zap.String("context", ctx.Describe()),
	)
}

func (z *ZapLogger) LogError(code Code, ctx Context) {
	z.l.Error("cascade error", z.fields(code, ctx)...)
}

func (z *ZapLogger) LogWarning(code Code, ctx Context) {
	z.l.Warn("cascade warning", z.fields(code, ctx)...)
}

func (z *ZapLogger) Trace(text string) {
	z.l.Debug(text)
}

// Severity tells errors from warnings in a collected Diagnostic.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Pos      Position
	Context  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s: %s", d.Pos, d.Severity, d.Code, d.Context)
}

// Diagnostics collects diagnostics in memory.
type Diagnostics struct {
	Items  []Diagnostic
	Traces []string
}

func (d *Diagnostics) add(s Severity, code Code, ctx Context) {
	di := Diagnostic{Severity: s, Code: code}
	if ctx != nil {
		di.Pos = ctx.Position()
		di.Context = ctx.Describe()
	}
	d.Items = append(d.Items, di)
}

func (d *Diagnostics) LogError(code Code, ctx Context)   { d.add(SeverityError, code, ctx) }
func (d *Diagnostics) LogWarning(code Code, ctx Context) { d.add(SeverityWarning, code, ctx) }
func (d *Diagnostics) Trace(text string)                 { d.Traces = append(d.Traces, text) }

func (d *Diagnostics) count(s Severity) int {
	n := 0
	for _, di := range d.Items {
		if di.Severity == s {
			n++
		}
	}
	return n
}

func (d *Diagnostics) Errors() int   { return d.count(SeverityError) }
func (d *Diagnostics) Warnings() int { return d.count(SeverityWarning) }

// Has reports whether a diagnostic with the given code was collected.
func (d *Diagnostics) Has(code Code) bool {
	for _, di := range d.Items {
		if di.Code == code {
			return true
		}
	}
	return false
}

func (d *Diagnostics) Reset() {
	d.Items = d.Items[:0]
	d.Traces = d.Traces[:0]
}

// Tee fans diagnostics out to several loggers.
func Tee(ls ...Logger) Logger {
	return tee(ls)
}

type tee []Logger

func (t tee) LogError(code Code, ctx Context) {
	for _, l := range t {
		l.LogError(code, ctx)
	}
}

func (t tee) LogWarning(code Code, ctx Context) {
	for _, l := range t {
		l.LogWarning(code, ctx)
	}
}

func (t tee) Trace(text string) {
	for _, l := range t {
		l.Trace(text)
	}
}

// counter counts what passes through to next.
type counter struct {
	next     Logger
	errors   int
	warnings int
}

func (c *counter) LogError(code Code, ctx Context) {
	c.errors++
	c.next.LogError(code, ctx)
}

func (c *counter) LogWarning(code Code, ctx Context) {
	c.warnings++
	c.next.LogWarning(code, ctx)
}

func (c *counter) Trace(text string) { c.next.Trace(text) }
