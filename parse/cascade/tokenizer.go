package cascade

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type template struct {
	text string
	kind TokenKind
	// word templates only match at the start of a word and when the next
	// character is not alphanumeric.
	word bool
}

// templates are tried in order at every position outside quotes.
var templates = []template{
	{text: "--", kind: TokenRecordDivider},
	{text: "#", kind: TokenSharp},
	{text: "+", kind: TokenAddKey},
	{text: ":", kind: TokenColon},
	{text: ",", kind: TokenComma},
	{text: "true", kind: TokenTrue, word: true},
	{text: "false", kind: TokenFalse, word: true},
}

func matchTemplate(s string, i int, wordStart bool) (template, bool) {
	for _, t := range templates {
		n := len(t.text)
		if i+n > len(s) {
			continue
		}
		if !t.word {
			if s[i:i+n] == t.text {
				return t, true
			}
			continue
		}
		if !wordStart || !strings.EqualFold(s[i:i+n], t.text) {
			continue
		}
		if i+n < len(s) {
			r, _ := utf8.DecodeRuneInString(s[i+n:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
				continue
			}
		}
		return t, true
	}
	return template{}, false
}

// Tokenize converts one sentence into tokens. A trailing comment becomes a
// single Comment token at the end.
func Tokenize(s Sentence) []*Token {
	text := s.Text
	pos := func(i int) Position { return Position{Line: s.Line, Col: s.Col + i} }

	var comment *Token
	if ci := commentIndex(text); ci >= 0 {
		comment = &Token{
			Kind: TokenComment,
			Text: strings.TrimSpace(text[ci+len(commentMark):]),
			Pos:  pos(ci),
		}
		text = text[:ci]
	}

	var toks []*Token
	wordStart := -1
	flush := func(i int) {
		if wordStart < 0 {
			return
		}
		w := text[wordStart:i]
		toks = append(toks, &Token{Kind: classifyWord(w), Text: w, Pos: pos(wordStart)})
		wordStart = -1
	}

	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '"':
			flush(i)
			body := text[i+1:]
			next := len(text)
			if j := strings.IndexByte(body, '"'); j >= 0 {
				body = body[:j]
				next = i + j + 2
			}
			toks = append(toks, &Token{Kind: TokenWord, Text: body, Pos: pos(i), Quoted: true})
			i = next
			continue
		case c == ' ' || c == '\t':
			flush(i)
			i++
			continue
		}
		if t, ok := matchTemplate(text, i, wordStart < 0); ok {
			flush(i)
			toks = append(toks, &Token{Kind: t.kind, Text: text[i : i+len(t.text)], Pos: pos(i)})
			i += len(t.text)
			continue
		}
		if wordStart < 0 {
			wordStart = i
		}
		i++
	}
	flush(len(text))

	if comment != nil {
		toks = append(toks, comment)
	}
	return toks
}
