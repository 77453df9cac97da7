package lexer

import (
	"fmt"
	"lumen/token"
	"strconv"
)

func isLetter(char rune) bool {
	return rune('a') <= char && char <= rune('z') || rune('A') <= char && char <= rune('Z') || char == rune('_')
}

func isNumber(char rune) bool {
	return rune('0') <= char && char <= rune('9')
}

// LexError describes a single error encountered during lexical analysis.
type LexError struct {
	Line    int32
	Column  int
	Message string
}

func CreateLexError(line int32, column int, message string) LexError {
	return LexError{
		Line:    line,
		Column:  column,
		Message: message,
	}
}

func (e LexError) Error() string {
	return fmt.Sprintf("💥 Lumen Syntax error:\nline:%d, column:%d - %s", e.Line, e.Column, e.Message)
}

// Lexer represents a lexical scanner for processing input text into tokens.
// It maintains the current scanning state, including the position within the
// input, the current character, and metadata for line/column tracking.
// The Lexer also records tokens and errors encountered during scanning.
type Lexer struct {
	// rune slice of the input string being scanned.
	characters []rune

	// Total number of runes in the input.
	totalChars int

	// Stores the sequence of tokens produced during lexing.
	tokens []token.Token

	// The index of the current character being examined.
	position int

	// The current character being examined.
	currentChar rune

	// The index of the next position where the next character
	// will be read
	readPosition int

	// Tracks the number of lines processed (incremented on newline).
	lineCount int32

	// Tracks the current character's position within the current line.
	// Gets reset on every new line back to 0
	column int

	// Stores any scanning errors that occur during lexing. The lexer never
	// stops at the first error; it records it and resumes at the next rune
	// so one pass reports as many diagnostics as possible.
	errors []error
}

// New initializes and returns a new Lexer instance.
//
// Parameters:
//   - input: string
//     The source code as a string to be lexically analyzed.
//
// Returns:
//   - *Lexer: A pointer to a newly created Lexer instance.
func New(input string) *Lexer {
	lexer := &Lexer{
		characters: []rune(input),
		column:     -1,
	}
	lexer.totalChars = len(lexer.characters)
	lexer.readChar()
	return lexer
}

// Determines if the lexer has finished scanning all the source code.
//
// Returns:
//   - bool: true if the lexer has finished scanning, false otherwise
func (lexer *Lexer) isFinished() bool {
	return lexer.readPosition >= lexer.totalChars
}

// Reads the character at the `Lexer`'s `readPosition`. If there
// are no more characters to scan, it sets the `Lexer`'s current
// character to null.
func (lexer *Lexer) readChar() {
	if lexer.isFinished() {
		lexer.currentChar = rune(0)
	} else {
		lexer.currentChar = lexer.characters[lexer.readPosition]
	}
	lexer.position = lexer.readPosition
	lexer.readPosition++
	lexer.column++
}

// Returns the character at the `Lexer`s `readPosition` without consuming it.
//
// Returns:
//   - rune: The next character in the input stream.
//     If the lexer has reached the end of the input, it returns 0 (null)
func (lexer *Lexer) peek() rune {
	if lexer.isFinished() {
		return rune(0)
	}
	return lexer.characters[lexer.readPosition]
}

// Returns the character one past the `Lexer`'s `readPosition` without
// consuming anything.
//
// Returns:
//   - rune: The character after the next one in the input stream.
//     If the lexer has reached the end of the input, it returns 0 (null)
func (lexer *Lexer) peekNext() rune {
	nextReadPos := lexer.readPosition + 1
	if nextReadPos >= lexer.totalChars {
		return rune(0)
	}
	return lexer.characters[nextReadPos]
}

// Determines if the next character in the source code matches the
// `expected` character and consumes it if so.
func (lexer *Lexer) isMatch(expected rune) bool {
	if lexer.peek() != expected {
		return false
	}
	lexer.readChar()
	return true
}

// advanceLine is called whenever a line feed has been consumed as the
// current character. It bumps the line counter and resets the column so
// the next readChar lands on column 0 of the new line.
func (lexer *Lexer) advanceLine() {
	lexer.lineCount++
	lexer.column = -1
}

// Skips all whitespace in the input while advancing the `Lexer`'s
// position. Line feeds advance the line counter, the other whitespace
// characters (space, tab, carriage return) are simply discarded.
func (lexer *Lexer) skipWhiteSpace() {
	for {
		switch lexer.currentChar {
		case rune(' '), rune('\r'), rune('\t'):
			lexer.readChar()
		case rune('\n'):
			lexer.advanceLine()
			lexer.readChar()
		default:
			return
		}
	}
}

// handleLineComment consumes the rest of the current line. The line feed
// itself is left for skipWhiteSpace so line accounting stays in one place.
func (lexer *Lexer) handleLineComment() {
	for lexer.peek() != rune('\n') && lexer.peek() != rune(0) {
		lexer.readChar()
	}
}

// handleBlockComment consumes a /* ... */ comment. Block comments nest:
// each opening /* inside the comment must be closed before the comment
// ends. An unterminated comment is a recoverable error.
func (lexer *Lexer) handleBlockComment() {
	startLine := lexer.lineCount
	startColumn := lexer.column
	depth := 1
	for depth > 0 {
		if lexer.peek() == rune(0) {
			err := CreateLexError(startLine, startColumn, "Unterminated block comment.")
			lexer.errors = append(lexer.errors, err)
			return
		}
		lexer.readChar()
		switch lexer.currentChar {
		case rune('\n'):
			lexer.advanceLine()
		case rune('*'):
			if lexer.isMatch(rune('/')) {
				depth--
			}
		case rune('/'):
			if lexer.isMatch(rune('*')) {
				depth++
			}
		}
	}
}

// handleNumber scans a digit run with an optional fractional part and
// creates a NUMBER token holding its float64 value.
//
// The fractional part is only consumed when the '.' is directly followed
// by another digit, so "1." lexes as the number 1 followed by a DOT token.
func (lexer *Lexer) handleNumber() {
	initPos := lexer.position
	startColumn := lexer.column

	for isNumber(lexer.peek()) {
		lexer.readChar()
	}
	if lexer.peek() == rune('.') && isNumber(lexer.peekNext()) {
		lexer.readChar()
		for isNumber(lexer.peek()) {
			lexer.readChar()
		}
	}

	lexeme := string(lexer.characters[initPos : lexer.position+1])
	value, _ := strconv.ParseFloat(lexeme, 64)
	tok := token.CreateLiteralToken(token.NUMBER, value, lexeme, lexer.lineCount, startColumn)
	lexer.tokens = append(lexer.tokens, tok)
}

// handleIdentifier processes a user identifier or a
// language keyword in the source code.
func (lexer *Lexer) handleIdentifier() {
	initPos := lexer.position
	startColumn := lexer.column

	for isLetter(lexer.peek()) || isNumber(lexer.peek()) {
		lexer.readChar()
	}

	lexeme := string(lexer.characters[initPos : lexer.position+1])
	tokenType := token.TokenType(token.IDENTIFIER)
	if keywordType, exists := token.KeyWords[lexeme]; exists {
		tokenType = keywordType
	}
	tok := token.CreateLiteralToken(tokenType, nil, lexeme, lexer.lineCount, startColumn)
	lexer.tokens = append(lexer.tokens, tok)
}

// handleStringLiteral processes a double-quoted string literal. Strings
// may span multiple lines; the line counter is kept up to date while
// scanning. An unterminated string is a recoverable error.
func (lexer *Lexer) handleStringLiteral() {
	initPos := lexer.position
	startLine := lexer.lineCount
	startColumn := lexer.column

	for {
		if lexer.peek() == rune(0) {
			err := CreateLexError(startLine, startColumn, "Unterminated string.")
			lexer.errors = append(lexer.errors, err)
			for !lexer.isFinished() {
				lexer.readChar()
			}
			return
		}
		lexer.readChar()
		if lexer.currentChar == rune('\n') {
			lexer.advanceLine()
			continue
		}
		if lexer.currentChar == rune('"') {
			break
		}
	}

	// The surrounding quotes are stripped from the literal value but kept
	// in the lexeme so source ranges cover the whole literal.
	stringLiteral := string(lexer.characters[initPos+1 : lexer.position])
	lexeme := string(lexer.characters[initPos : lexer.position+1])
	tok := token.CreateLiteralToken(token.STRING, stringLiteral, lexeme, startLine, startColumn)
	lexer.tokens = append(lexer.tokens, tok)
}

// Processes the current character and creates a token if applicable.
//
// This method is responsible for identifying and creating tokens based on the current
// character in the input stream.
func (lexer *Lexer) createToken() {
	startLine := lexer.lineCount
	startColumn := lexer.column

	switch lexer.currentChar {
	case rune('('):
		lexer.tokens = append(lexer.tokens, token.CreateToken(token.LPA, startLine, startColumn))
	case rune(')'):
		lexer.tokens = append(lexer.tokens, token.CreateToken(token.RPA, startLine, startColumn))
	case rune('{'):
		lexer.tokens = append(lexer.tokens, token.CreateToken(token.LCUR, startLine, startColumn))
	case rune('}'):
		lexer.tokens = append(lexer.tokens, token.CreateToken(token.RCUR, startLine, startColumn))
	case rune(';'):
		lexer.tokens = append(lexer.tokens, token.CreateToken(token.SEMICOLON, startLine, startColumn))
	case rune(','):
		lexer.tokens = append(lexer.tokens, token.CreateToken(token.COMMA, startLine, startColumn))
	case rune('.'):
		lexer.tokens = append(lexer.tokens, token.CreateToken(token.DOT, startLine, startColumn))
	case rune('*'):
		lexer.tokens = append(lexer.tokens, token.CreateToken(token.MULT, startLine, startColumn))
	case rune('+'):
		lexer.tokens = append(lexer.tokens, token.CreateToken(token.ADD, startLine, startColumn))
	case rune('-'):
		lexer.tokens = append(lexer.tokens, token.CreateToken(token.SUB, startLine, startColumn))
	case rune('/'):
		if lexer.isMatch(rune('/')) {
			lexer.handleLineComment()
		} else if lexer.isMatch(rune('*')) {
			lexer.handleBlockComment()
		} else {
			lexer.tokens = append(lexer.tokens, token.CreateToken(token.DIV, startLine, startColumn))
		}
	case rune('='):
		tok := token.CreateToken(token.ASSIGN, startLine, startColumn)
		if lexer.isMatch(rune('=')) {
			tok = token.CreateToken(token.EQUAL_EQUAL, startLine, startColumn)
		}
		lexer.tokens = append(lexer.tokens, tok)
	case rune('!'):
		tok := token.CreateToken(token.BANG, startLine, startColumn)
		if lexer.isMatch(rune('=')) {
			tok = token.CreateToken(token.NOT_EQUAL, startLine, startColumn)
		}
		lexer.tokens = append(lexer.tokens, tok)
	case rune('<'):
		tok := token.CreateToken(token.LESS, startLine, startColumn)
		if lexer.isMatch(rune('=')) {
			tok = token.CreateToken(token.LESS_EQUAL, startLine, startColumn)
		}
		lexer.tokens = append(lexer.tokens, tok)
	case rune('>'):
		tok := token.CreateToken(token.LARGER, startLine, startColumn)
		if lexer.isMatch(rune('=')) {
			tok = token.CreateToken(token.LARGER_EQUAL, startLine, startColumn)
		}
		lexer.tokens = append(lexer.tokens, tok)
	case rune('"'):
		lexer.handleStringLiteral()
	default:
		if isLetter(lexer.currentChar) {
			lexer.handleIdentifier()
		} else if isNumber(lexer.currentChar) {
			lexer.handleNumber()
		} else {
			message := fmt.Sprintf("Unexpected character: '%c'", lexer.currentChar)
			err := CreateLexError(startLine, startColumn, message)
			lexer.errors = append(lexer.errors, err)
		}
	}
}

// Scan performs lexical analysis on the input and returns a slice of tokens.
//
// This method is the main entry point for the lexical analysis process. It
// iterates through the input, tokenizing it and collecting all tokens until
// the end of the input is reached. Errors do not stop the scan; they are
// accumulated and returned alongside whatever tokens could be produced.
//
// Returns:
//   - []token.Token: A slice containing all tokens found in the input,
//     always terminated by an EOF token.
//   - []error: All errors encountered during lexing, empty if successful.
func (lexer *Lexer) Scan() ([]token.Token, []error) {
	for {
		lexer.skipWhiteSpace()
		if lexer.currentChar == rune(0) {
			break
		}
		lexer.createToken()
		lexer.readChar()
	}
	lexer.tokens = append(lexer.tokens, token.CreateToken(token.EOF, lexer.lineCount, lexer.column))
	return lexer.tokens, lexer.errors
}
