package cascade

import (
	"fmt"
	"strings"
)

type CommandKind uint8

const (
	CommandNone CommandKind = iota
	CommandName
	CommandInsert
	CommandDelete
	CommandChangeValue
)

var commandNames = map[CommandKind]string{
	CommandNone:        "None",
	CommandName:        "Name",
	CommandInsert:      "Insert",
	CommandDelete:      "Delete",
	CommandChangeValue: "ChangeValue",
}

func (c CommandKind) String() string { return commandNames[c] }

func commandByName(s string) (CommandKind, bool) {
	for k, n := range commandNames {
		if k != CommandNone && strings.EqualFold(n, s) {
			return k, true
		}
	}
	return CommandNone, false
}

// AdditionMode decides what happens when a named line meets an existing
// sibling of the same name.
type AdditionMode uint8

const (
	// Unique refuses the duplicate.
	Unique AdditionMode = iota
	// Add merges the line into the existing sibling.
	Add
)

// Param is a command parameter: either key:value or a bare flag.
type Param struct {
	Key   string
	Value *Token
	Flag  bool
}

// Line is a classified sentence.
type Line struct {
	Rank     int
	Pos      Position
	Text     string
	Head     *Token
	Tail     []*Token
	Comments string
	Command  CommandKind
	Params   []Param
	Mode     AdditionMode
	Divider  bool
}

func (l *Line) Position() Position { return l.Pos }

func (l *Line) Describe() string { return l.Text }

func (l *Line) String() string {
	return fmt.Sprintf("%s rank=%d %q", l.Pos, l.Rank, l.Text)
}

// IsCommentOnly reports whether the line carries nothing but a comment.
func (l *Line) IsCommentOnly() bool {
	return l.Comments != "" && l.isBare()
}

// IsBlank reports whether the line carries nothing at all.
func (l *Line) IsBlank() bool {
	return l.Comments == "" && l.isBare()
}

func (l *Line) isBare() bool {
	return l.Head == nil && len(l.Tail) == 0 && l.Command == CommandNone && !l.Divider
}

// Param returns the value of the key:value parameter named key.
func (l *Line) Param(key string) (string, bool) {
	for _, p := range l.Params {
		if !p.Flag && strings.EqualFold(p.Key, key) {
			return p.Value.Text, true
		}
	}
	return "", false
}

func (l *Line) HasFlag(name string) bool {
	for _, p := range l.Params {
		if p.Flag && strings.EqualFold(p.Key, name) {
			return true
		}
	}
	return false
}

// Values converts the tail to scalars.
func (l *Line) Values() []Variant {
	vs := make([]Variant, 0, len(l.Tail))
	for _, t := range l.Tail {
		vs = append(vs, t.Variant())
	}
	return vs
}

// ClassifyLine builds a Line out of the tokens of one sentence.
func ClassifyLine(s Sentence, toks []*Token, log Logger) *Line {
	if log == nil {
		log = NopLogger
	}
	l := &Line{Rank: s.Rank, Pos: Position{Line: s.Line, Col: s.Col}, Text: s.Text}
	if n := len(toks); n > 0 && toks[n-1].Kind == TokenComment {
		l.Comments = toks[n-1].Text
		toks = toks[:n-1]
	}
	if len(toks) == 0 {
		return l
	}

	for _, t := range toks {
		if t.Kind != TokenRecordDivider {
			continue
		}
		if len(toks) == 1 {
			l.Divider = true
		} else {
			log.LogError(RecordDividerMustBeAloneInLine, t)
		}
		return l
	}

	if toks[0].Kind == TokenSharp {
		l.parseCommand(toks, log)
		return l
	}
	for _, t := range toks[1:] {
		if t.Kind == TokenSharp {
			log.LogError(SharpErrorPos, t)
			return l
		}
	}

	if toks[0].Kind == TokenAddKey {
		l.Mode = Add
		toks = toks[1:]
	}
	switch {
	case len(toks) == 0:
		log.LogError(CantResolveLine, l)
		return l
	case len(toks) == 1:
		if toks[0].IsData() {
			l.Tail = toks
		} else {
			log.LogError(CantResolveLine, l)
		}
		return l
	}

	colon := -1
	for i, t := range toks {
		if t.Kind == TokenColon {
			colon = i
			break
		}
	}
	rest := toks
	switch {
	case colon == 0:
		log.LogError(CantResolveLine, l)
		return l
	case colon == 1:
		l.Head = toks[0]
		rest = toks[2:]
	case colon > 1:
		// a name written as several words
		head := joinTokens(toks[:colon])
		if head == nil {
			log.LogError(CantResolveLine, l)
			return l
		}
		l.Head = head
		rest = toks[colon+1:]
	}
	if l.Head != nil && l.Head.Kind != TokenWord {
		log.LogWarning(StrangeHeadType, l.Head)
	}
	l.Tail = groupTail(rest, log)
	return l
}

// groupTail splits tokens on commas. Tokens of one group are joined into a
// single string.
func groupTail(toks []*Token, log Logger) []*Token {
	var out, group []*Token
	closeGroup := func() {
		switch len(group) {
		case 0:
		case 1:
			out = append(out, group[0])
		default:
			out = append(out, joinTokens(group))
		}
		group = nil
	}
	for _, t := range toks {
		switch {
		case t.Kind == TokenComma:
			closeGroup()
		case t.IsData():
			group = append(group, t)
		default:
			log.LogError(CantResolveLine, t)
		}
	}
	closeGroup()
	return out
}

func joinTokens(toks []*Token) *Token {
	parts := make([]string, 0, len(toks))
	for _, t := range toks {
		if !t.IsData() {
			return nil
		}
		parts = append(parts, t.Text)
	}
	if len(toks) == 1 {
		return toks[0]
	}
	return &Token{Kind: TokenWord, Text: strings.Join(parts, " "), Pos: toks[0].Pos, Quoted: true}
}

func (l *Line) parseCommand(toks []*Token, log Logger) {
	if len(toks) < 2 {
		log.LogError(EmptyCommand, toks[0])
		return
	}
	name := toks[1]
	if name.Kind != TokenWord {
		log.LogError(UnknownCommand, name)
		return
	}
	kind, ok := commandByName(name.Text)
	if !ok {
		log.LogError(UnknownCommandName, name)
		return
	}
	l.Command = kind

	rest := toks[2:]
	for i := 0; i < len(rest); {
		t := rest[i]
		switch {
		case t.Kind == TokenComma || t.Kind == TokenColon:
			i++
		case i+2 < len(rest) && rest[i+1].Kind == TokenColon && rest[i+2].IsData():
			l.Params = append(l.Params, Param{Key: t.Text, Value: rest[i+2]})
			i += 3
		default:
			l.Params = append(l.Params, Param{Key: t.Text, Flag: true})
			i++
		}
	}
}
