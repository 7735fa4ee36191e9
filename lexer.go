package shaderpp

import (
	"strings"
	"unicode/utf8"
)

// eof is returned by next() once the end of input has been reached. The
// value -1 is an invalid rune that cannot appear in valid UTF-8 input.
const eof rune = -1

const (
	horizontalWhitespace = " \t"
	wordChars            = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.'_"
	directiveChars       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_"
)

// lexer implements a state-machine based tokenizer for preprocessor source
// text: next()/backup()/peek() step a rune cursor one position at a time,
// accept()/acceptRun() consume runs of a character class, emit() commits
// the pending token, and errorf() reports a lexing failure.
type lexer struct {
	source string

	start int // byte offset where the pending token begins
	pos   int // current byte offset (cursor)
	width int // byte width of the last rune read by next(), for backup()

	startLine, startCol int
	line, col           int

	tokens []Token
	err    *Error
}

func newLexer(source string) *lexer {
	return &lexer{
		source:    source,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}
}

// tokenize turns source into a flat token sequence, consuming (not
// emitting) comments. It fails with an ErrLexingError if no rule matches at
// some position -- in practice only a dangling string or block comment.
func tokenize(source string) ([]Token, error) {
	l := newLexer(source)
	l.run()
	if l.err != nil {
		return nil, l.err
	}
	return l.tokens, nil
}

// Tokenize re-exports the lexer for host tooling, per the library's
// external interface.
func Tokenize(source string) ([]Token, error) {
	return tokenize(source)
}

func (l *lexer) value() string {
	return l.source[l.start:l.pos]
}

func (l *lexer) emit(t TokenType) {
	tok := Token{
		Typ:  t,
		Val:  l.value(),
		Line: l.startLine,
		Col:  l.startCol,
	}
	l.tokens = append(l.tokens, tok)
	l.reset()
}

func (l *lexer) emitNewline(withEscape bool) {
	l.tokens = append(l.tokens, Token{
		Typ:        TokenNewline,
		WithEscape: withEscape,
		Line:       l.startLine,
		Col:        l.startCol,
	})
	l.reset()
}

// reset advances start to the current cursor position, discarding whatever
// text preceded it (used both after emit() and to skip stripped whitespace
// or consumed comments).
func (l *lexer) reset() {
	l.start = l.pos
	l.startLine = l.line
	l.startCol = l.col
}

func (l *lexer) next() rune {
	if l.pos >= len(l.source) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.source[l.pos:])
	l.width = w
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) backup() {
	if l.width == 0 {
		return
	}
	l.pos -= l.width
	if l.source[l.pos] == '\n' {
		l.line--
		lineStart := strings.LastIndexByte(l.source[:l.pos], '\n') + 1
		l.col = utf8.RuneCountInString(l.source[lineStart:l.pos]) + 1
	} else {
		l.col--
	}
	l.width = 0
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// accept consumes the next rune if it's in the valid set, reporting
// whether it did.
func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

func (l *lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

func (l *lexer) errorf(kind ErrorKind, format string, args ...any) {
	l.err = newErrorf(kind, l.startLine, l.startCol, format, args...)
}

// skipHorizontalWhitespace strips leading spaces/tabs around a token; they
// are never emitted.
func (l *lexer) skipHorizontalWhitespace() {
	l.acceptRun(horizontalWhitespace)
	l.reset()
}

// run is the main lexer loop: at each position, try the recognition rules
// in a fixed order. Rule ordering is load-bearing: directives before words
// (because of '#'), escaped newline before plain newline, block comment
// before the '/' char.
func (l *lexer) run() {
	for {
		l.skipHorizontalWhitespace()

		if l.pos >= len(l.source) {
			return
		}

		switch {
		case l.peek() == '#':
			l.lexDirective()
		case strings.HasPrefix(l.source[l.pos:], "//"):
			l.lexLineComment()
		case strings.HasPrefix(l.source[l.pos:], "/*"):
			l.lexBlockComment()
		case l.peek() == '"':
			l.lexString()
		case l.lexEscapedNewline():
			// handled inline
		case l.peek() == '\n' || strings.HasPrefix(l.source[l.pos:], "\r\n"):
			l.lexNewline()
		case strings.ContainsRune(wordChars, l.peek()):
			l.acceptRun(wordChars)
			l.emit(TokenWord)
		default:
			l.next()
			l.emit(TokenChar)
		}

		if l.err != nil {
			return
		}
	}
}

func (l *lexer) lexDirective() {
	line, col := l.startLine, l.startCol
	l.next() // consume '#'
	l.reset()
	l.startLine, l.startCol = line, col // the token is positioned at the '#'
	l.acceptRun(directiveChars)
	l.emit(TokenDirective)
}

func (l *lexer) lexLineComment() {
	l.next() // consume '/'
	l.next() // consume '/'
	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		l.next()
	}
	l.reset()
}

func (l *lexer) lexBlockComment() {
	l.next() // consume '/'
	l.next() // consume '*'
	for {
		if l.pos >= len(l.source) {
			l.errorf(ErrLexingError, "unterminated block comment")
			return
		}
		if strings.HasPrefix(l.source[l.pos:], "*/") {
			l.next() // consume '*'
			l.next() // consume '/'
			l.reset()
			return
		}
		l.next()
	}
}

// lexString consumes the body up to (not including) the closing quote, so
// that value() is exactly the string's text; the closing quote itself is
// then consumed and discarded separately. The token is positioned at the
// opening quote.
func (l *lexer) lexString() {
	line, col := l.startLine, l.startCol
	l.next() // consume opening quote
	l.reset()
	l.startLine, l.startCol = line, col
	for {
		if l.pos >= len(l.source) {
			l.errorf(ErrLexingError, "unterminated string literal")
			return
		}
		if l.source[l.pos] == '"' {
			l.emit(TokenString)
			l.next() // consume closing quote
			l.reset()
			return
		}
		l.next()
	}
}

// lexEscapedNewline recognizes '\' optionally followed by spaces/tabs then
// a newline. Returns false (without consuming anything) if the lookahead
// doesn't match, so the caller falls through to the next rule.
func (l *lexer) lexEscapedNewline() bool {
	if l.peek() != '\\' {
		return false
	}
	save := *l
	l.next() // consume '\'
	l.acceptRun(horizontalWhitespace)
	if strings.HasPrefix(l.source[l.pos:], "\r\n") {
		l.next()
		l.next()
		l.emitNewline(true)
		return true
	}
	if l.peek() == '\n' {
		l.next()
		l.emitNewline(true)
		return true
	}
	*l = save
	return false
}

func (l *lexer) lexNewline() {
	l.next()
	if l.source[l.pos-l.width] == '\r' {
		l.next()
	}
	l.emitNewline(false)
}
