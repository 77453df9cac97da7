package lexer

import (
	"lumen/token"
	"testing"
)

// expectedToken is the subset of a token the lexing tests assert on.
type expectedToken struct {
	tokenType token.TokenType
	lexeme    string
	literal   any
}

func assertTokens(t *testing.T, got []token.Token, want []expectedToken) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("wrong number of tokens - want: %d, got: %d (%v)", len(want), len(got), got)
	}
	for i, expected := range want {
		if got[i].TokenType != expected.tokenType {
			t.Errorf("token %d has the wrong type - want: %s, got: %s", i, expected.tokenType, got[i].TokenType)
		}
		if got[i].Lexeme != expected.lexeme {
			t.Errorf("token %d has the wrong lexeme - want: %q, got: %q", i, expected.lexeme, got[i].Lexeme)
		}
		if expected.literal != nil && got[i].Literal != expected.literal {
			t.Errorf("token %d has the wrong literal - want: %v, got: %v", i, expected.literal, got[i].Literal)
		}
	}
}

func TestScanOperators(t *testing.T) {
	lexer := New("( ) { } , . ; + - * / ! != = == < <= > >=")
	tokens, errs := lexer.Scan()
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	assertTokens(t, tokens, []expectedToken{
		{token.LPA, "(", nil},
		{token.RPA, ")", nil},
		{token.LCUR, "{", nil},
		{token.RCUR, "}", nil},
		{token.COMMA, ",", nil},
		{token.DOT, ".", nil},
		{token.SEMICOLON, ";", nil},
		{token.ADD, "+", nil},
		{token.SUB, "-", nil},
		{token.MULT, "*", nil},
		{token.DIV, "/", nil},
		{token.BANG, "!", nil},
		{token.NOT_EQUAL, "!=", nil},
		{token.ASSIGN, "=", nil},
		{token.EQUAL_EQUAL, "==", nil},
		{token.LESS, "<", nil},
		{token.LESS_EQUAL, "<=", nil},
		{token.LARGER, ">", nil},
		{token.LARGER_EQUAL, ">=", nil},
		{token.EOF, "", nil},
	})
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	lexer := New("var language = lumen; while for fun class return break continue nil this super")
	tokens, errs := lexer.Scan()
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	assertTokens(t, tokens, []expectedToken{
		{token.VAR, "var", nil},
		{token.IDENTIFIER, "language", nil},
		{token.ASSIGN, "=", nil},
		{token.IDENTIFIER, "lumen", nil},
		{token.SEMICOLON, ";", nil},
		{token.WHILE, "while", nil},
		{token.FOR, "for", nil},
		{token.FUN, "fun", nil},
		{token.CLASS, "class", nil},
		{token.RETURN, "return", nil},
		{token.BREAK, "break", nil},
		{token.CONTINUE, "continue", nil},
		{token.NIL, "nil", nil},
		{token.THIS, "this", nil},
		{token.SUPER, "super", nil},
		{token.EOF, "", nil},
	})
}

func TestScanNumbers(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []expectedToken
	}{
		{
			name:   "integer and fraction",
			source: "12 3.5",
			expected: []expectedToken{
				{token.NUMBER, "12", 12.0},
				{token.NUMBER, "3.5", 3.5},
				{token.EOF, "", nil},
			},
		},
		{
			name:   "trailing dot is not part of the number",
			source: "1.",
			expected: []expectedToken{
				{token.NUMBER, "1", 1.0},
				{token.DOT, ".", nil},
				{token.EOF, "", nil},
			},
		},
		{
			name:   "leading dot is not a number",
			source: ".5",
			expected: []expectedToken{
				{token.DOT, ".", nil},
				{token.NUMBER, "5", 5.0},
				{token.EOF, "", nil},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := New(tt.source)
			tokens, errs := lexer.Scan()
			if len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			assertTokens(t, tokens, tt.expected)
		})
	}
}

func TestScanStrings(t *testing.T) {
	lexer := New(`"hello" "multi
line"`)
	tokens, errs := lexer.Scan()
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	assertTokens(t, tokens, []expectedToken{
		{token.STRING, `"hello"`, "hello"},
		{token.STRING, "\"multi\nline\"", "multi\nline"},
		{token.EOF, "", nil},
	})
}

func TestStringSpanningLinesAdvancesLineCounter(t *testing.T) {
	lexer := New("\"a\nb\"\nx")
	tokens, errs := lexer.Scan()
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	// The identifier after the two-line string starts on line 2 (0-based).
	identifier := tokens[1]
	if identifier.TokenType != token.IDENTIFIER {
		t.Fatalf("expected identifier, got %s", identifier.TokenType)
	}
	if identifier.Line != 2 {
		t.Errorf("wrong line for identifier - want: 2, got: %d", identifier.Line)
	}
}

func TestUnterminatedString(t *testing.T) {
	lexer := New(`"open`)
	tokens, errs := lexer.Scan()
	if len(errs) != 1 {
		t.Fatalf("expected one error, got: %v", errs)
	}
	if tokens[len(tokens)-1].TokenType != token.EOF {
		t.Errorf("token stream should still end with EOF")
	}
}

func TestScanComments(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []expectedToken
	}{
		{
			name:   "line comment runs to end of line",
			source: "1 // ignored\n2",
			expected: []expectedToken{
				{token.NUMBER, "1", 1.0},
				{token.NUMBER, "2", 2.0},
				{token.EOF, "", nil},
			},
		},
		{
			name:   "block comment",
			source: "1 /* ignored */ 2",
			expected: []expectedToken{
				{token.NUMBER, "1", 1.0},
				{token.NUMBER, "2", 2.0},
				{token.EOF, "", nil},
			},
		},
		{
			name:   "nested block comment",
			source: "1 /* outer /* inner */ still outer */ 2",
			expected: []expectedToken{
				{token.NUMBER, "1", 1.0},
				{token.NUMBER, "2", 2.0},
				{token.EOF, "", nil},
			},
		},
		{
			name:   "slash stays division",
			source: "4 / 2",
			expected: []expectedToken{
				{token.NUMBER, "4", 4.0},
				{token.DIV, "/", nil},
				{token.NUMBER, "2", 2.0},
				{token.EOF, "", nil},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := New(tt.source)
			tokens, errs := lexer.Scan()
			if len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			assertTokens(t, tokens, tt.expected)
		})
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	lexer := New("1 /* never closed")
	_, errs := lexer.Scan()
	if len(errs) != 1 {
		t.Fatalf("expected one error, got: %v", errs)
	}
}

func TestUnexpectedCharactersAreAccumulated(t *testing.T) {
	lexer := New("1 @ 2 #")
	tokens, errs := lexer.Scan()
	if len(errs) != 2 {
		t.Fatalf("expected two errors, got: %v", errs)
	}

	// Scanning resumed after each bad character.
	assertTokens(t, tokens, []expectedToken{
		{token.NUMBER, "1", 1.0},
		{token.NUMBER, "2", 2.0},
		{token.EOF, "", nil},
	})
}

func TestLineAndColumnTracking(t *testing.T) {
	lexer := New("ab\n  cd")
	tokens, errs := lexer.Scan()
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	first := tokens[0]
	if first.Line != 0 || first.Column != 0 {
		t.Errorf("wrong position for first token - got line: %d, column: %d", first.Line, first.Column)
	}
	second := tokens[1]
	if second.Line != 1 || second.Column != 2 {
		t.Errorf("wrong position for second token - got line: %d, column: %d", second.Line, second.Column)
	}
}

func TestEmptyInput(t *testing.T) {
	lexer := New("")
	tokens, errs := lexer.Scan()
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	assertTokens(t, tokens, []expectedToken{
		{token.EOF, "", nil},
	})
}
