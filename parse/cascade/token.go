package cascade

import "fmt"

// Position is a 1-based line and column in a source document.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

type TokenKind uint8

const (
	TokenWord TokenKind = iota
	TokenInt
	TokenUInt
	TokenFloat
	TokenTrue
	TokenFalse
	TokenComment
	TokenComma
	TokenColon
	TokenRecordDivider
	TokenSharp
	TokenAddKey
)

func (k TokenKind) String() string {
	return map[TokenKind]string{
		TokenWord:          "Word",
		TokenInt:           "Int",
		TokenUInt:          "UInt",
		TokenFloat:         "Float",
		TokenTrue:          "True",
		TokenFalse:         "False",
		TokenComment:       "Comment",
		TokenComma:         "Comma",
		TokenColon:         "Colon",
		TokenRecordDivider: "RecordDivider",
		TokenSharp:         "Sharp",
		TokenAddKey:        "AddKey",
	}[k]
}

type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
	// Quoted is set for text read between double quotes; it is never
	// classified as a number or a boolean.
	Quoted bool
}

// IsData reports whether the token can be a key name or a scalar value.
func (t *Token) IsData() bool {
	switch t.Kind {
	case TokenWord, TokenInt, TokenUInt, TokenFloat, TokenTrue, TokenFalse:
		return true
	}
	return false
}

// Variant converts a data token to the scalar it denotes.
func (t *Token) Variant() Variant {
	switch t.Kind {
	case TokenTrue:
		return NewBool(true)
	case TokenFalse:
		return NewBool(false)
	case TokenInt, TokenUInt, TokenFloat:
		return ParseVariant(t.Text)
	}
	return NewString(t.Text)
}

func (t *Token) Position() Position { return t.Pos }

func (t *Token) Describe() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

// classifyWord applies the number/word rule to an unquoted word.
func classifyWord(s string) TokenKind {
	numeric, point := scanNumber(s)
	switch {
	case !numeric:
		return TokenWord
	case point:
		return TokenFloat
	case len(s) > maxIntegerText:
		return TokenWord
	case unsignedText(s):
		return TokenUInt
	}
	return TokenInt
}
