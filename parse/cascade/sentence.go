package cascade

import "strings"

// Sentence is one statement of a document: a physical line, or a piece of
// one split on ';'.
type Sentence struct {
	Text string
	Line int
	Col  int
	Rank int
}

const commentMark = "//"

// DivideSentences splits text into sentences. Statements after an unmatched
// quote on a line are dropped and reported as NotEvenQuoteCount.
func DivideSentences(text string, log Logger) []Sentence {
	if log == nil {
		log = NopLogger
	}
	var out []Sentence
	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSuffix(raw, "\r")

		quotes := quotePositions(line)
		if len(quotes)%2 != 0 {
			log.LogError(NotEvenQuoteCount, LineContext{Line: lineNo, Msg: line})
			line = line[:quotes[len(quotes)-1]]
		}
		end := commentIndex(line)
		if end < 0 {
			end = len(line)
		}

		rank := -1
		start := 0
		emit := func(from, to int) {
			frag := line[from:to]
			lead := len(frag) - len(strings.TrimLeft(frag, " \t"))
			if rank < 0 {
				rank = strings.Count(frag[:lead], "\t")
			}
			body := strings.TrimRight(frag[lead:], " \t")
			if body == "" {
				return
			}
			out = append(out, Sentence{Text: body, Line: lineNo, Col: from + lead + 1, Rank: rank})
		}
		inQuote := false
		for j := 0; j < end; j++ {
			switch line[j] {
			case '"':
				inQuote = !inQuote
			case ';':
				if !inQuote {
					emit(start, j)
					start = j + 1
				}
			}
		}
		emit(start, len(line))
	}
	return out
}

func quotePositions(line string) []int {
	var qs []int
	for i := 0; i < len(line); i++ {
		if line[i] == '"' {
			qs = append(qs, i)
		}
	}
	return qs
}

// commentIndex returns the offset of the first "//" outside quotes, or -1.
func commentIndex(s string) int {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '"':
			inQuote = !inQuote
		case !inQuote && strings.HasPrefix(s[i:], commentMark):
			return i
		}
	}
	return -1
}
