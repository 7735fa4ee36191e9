package shaderpp

import "testing"

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Token
	}{
		{
			name: "word",
			in:   "foo",
			want: []Token{{Typ: TokenWord, Val: "foo", Line: 1, Col: 1}},
		},
		{
			name: "directive",
			in:   "#define FOO",
			want: []Token{
				{Typ: TokenDirective, Val: "define", Line: 1, Col: 1},
				{Typ: TokenWord, Val: "FOO", Line: 1, Col: 9},
			},
		},
		{
			name: "string literal",
			in:   `#include "common.glsl"`,
			want: []Token{
				{Typ: TokenDirective, Val: "include", Line: 1, Col: 1},
				{Typ: TokenString, Val: "common.glsl", Line: 1, Col: 10},
			},
		},
		{
			name: "line comment consumed",
			in:   "a // comment\nb",
			want: []Token{
				{Typ: TokenWord, Val: "a", Line: 1, Col: 1},
				{Typ: TokenNewline, Line: 1, Col: 13},
				{Typ: TokenWord, Val: "b", Line: 2, Col: 1},
			},
		},
		{
			name: "block comment spanning lines consumed",
			in:   "a /* multi\nline */ b",
			want: []Token{
				{Typ: TokenWord, Val: "a", Line: 1, Col: 1},
				{Typ: TokenWord, Val: "b", Line: 2, Col: 9},
			},
		},
		{
			name: "escaped newline inside define body",
			in:   "#define FOO bar \\\nbaz\n",
			want: []Token{
				{Typ: TokenDirective, Val: "define", Line: 1, Col: 1},
				{Typ: TokenWord, Val: "FOO", Line: 1, Col: 9},
				{Typ: TokenWord, Val: "bar", Line: 1, Col: 13},
				{Typ: TokenNewline, WithEscape: true, Line: 1, Col: 17},
				{Typ: TokenWord, Val: "baz", Line: 2, Col: 1},
				{Typ: TokenNewline, Line: 2, Col: 4},
			},
		},
		{
			name: "char token for punctuation",
			in:   "a+b",
			want: []Token{
				{Typ: TokenWord, Val: "a", Line: 1, Col: 1},
				{Typ: TokenChar, Val: "+", Line: 1, Col: 2},
				{Typ: TokenWord, Val: "b", Line: 1, Col: 3},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Tokenize(tc.in)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tc.in, err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("token %d = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestTokenizeCRLF(t *testing.T) {
	toks, err := Tokenize("a\r\nb")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	want := []Token{
		{Typ: TokenWord, Val: "a", Line: 1, Col: 1},
		{Typ: TokenNewline, Line: 1, Col: 2},
		{Typ: TokenWord, Val: "b", Line: 2, Col: 1},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %v, want %v", toks, want)
	}
	for i := range toks {
		if toks[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, toks[i], want[i])
		}
	}
}

func TestTokenizeCRLFEscapedContinuation(t *testing.T) {
	toks, err := Tokenize("#define FOO bar \\\r\nbaz\r\n")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	var lines []int
	for _, tok := range toks {
		lines = append(lines, tok.Line)
	}
	want := []int{1, 1, 1, 1, 2, 2}
	if len(lines) != len(want) {
		t.Fatalf("got lines %v, want %v (tokens: %v)", lines, want, toks)
	}
	for i := range lines {
		if lines[i] != want[i] {
			t.Errorf("token %d on line %d, want %d", i, lines[i], want[i])
		}
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize(`#include "oops`)
	if err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != ErrLexingError {
		t.Fatalf("got %v, want ErrLexingError", err)
	}
}

func TestTokenizeUnterminatedBlockComment(t *testing.T) {
	_, err := Tokenize("a /* never closed")
	if err == nil {
		t.Fatal("expected an error for an unterminated block comment")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != ErrLexingError {
		t.Fatalf("got %v, want ErrLexingError", err)
	}
}

func TestTokenizeEmptyDirective(t *testing.T) {
	toks, err := Tokenize("#\n")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if len(toks) == 0 || toks[0].Typ != TokenDirective || toks[0].Val != "" {
		t.Fatalf("got %v, want an empty directive token first", toks)
	}
}
