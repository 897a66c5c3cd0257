// Package objlang reads Wavefront OBJ geometry and MTL material libraries.
package objlang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	TOKEN_NUMBER = iota
	TOKEN_FACE
	TOKEN_WORD
	TOKEN_NEWLINE
	TOKEN_COMMENT
)

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	// on equal length matches the earlier pattern wins
	lexer.Add([]byte(`[\+\-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][\+\-]?[0-9]+)?`), getToken(TOKEN_NUMBER))
	lexer.Add([]byte(`[\-]?[0-9]+(/[\-]?[0-9]*)+`), getToken(TOKEN_FACE))
	lexer.Add([]byte(`[^ \t\r\n#]+`), getToken(TOKEN_WORD))
	lexer.Add([]byte(`(\r\n|\n|\r)+`), getToken(TOKEN_NEWLINE))
	lexer.Add([]byte(`#[^\r\n]*`), getToken(TOKEN_COMMENT))
	lexer.Add([]byte(`[ \t]+`), skip)
	if err := lexer.Compile(); err != nil {
		panic(err)
	}
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

// statement is one non-empty line: a keyword followed by its arguments.
type statement struct {
	line    int
	keyword string
	args    []*lexmachine.Token
}

func (st *statement) errorf(format string, a ...interface{}) error {
	return errors.Errorf("line %d (%s): %s", st.line, st.keyword, fmt.Sprintf(format, a...))
}

func (st *statement) float(i int) (float32, error) {
	if i >= len(st.args) {
		return 0, st.errorf("missing argument %d", i+1)
	}
	tok := st.args[i]
	if tok.Type != TOKEN_NUMBER {
		return 0, st.errorf("expected number, got %q", tok.Lexeme)
	}
	f, err := strconv.ParseFloat(string(tok.Lexeme), 32)
	if err != nil {
		return 0, st.errorf("bad number %q", tok.Lexeme)
	}
	return float32(f), nil
}

// floats reads between min and max numbers; absent trailing ones get def.
func (st *statement) floats(min, max int, def float32) ([]float32, error) {
	if len(st.args) < min || len(st.args) > max {
		return nil, st.errorf("expected %d..%d numbers, got %d", min, max, len(st.args))
	}
	out := make([]float32, max)
	for i := range out {
		if i < len(st.args) {
			f, err := st.float(i)
			if err != nil {
				return nil, err
			}
			out[i] = f
		} else {
			out[i] = def
		}
	}
	return out, nil
}

// text joins the arguments back, for names that contain spaces.
func (st *statement) text() string {
	parts := make([]string, len(st.args))
	for i, tok := range st.args {
		parts[i] = string(tok.Lexeme)
	}
	return strings.Join(parts, " ")
}

func scanStatements(text []byte) ([]*statement, error) {
	scanner, err := lexer.Scanner(text)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create lexer scanner")
	}

	result := make([]*statement, 0, 256)
	var current *statement
	for Itok, err, eos := scanner.Next(); !eos; Itok, err, eos = scanner.Next() {
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse token")
		}
		tok := Itok.(*lexmachine.Token)

		switch tok.Type {
		case TOKEN_NEWLINE:
			current = nil
		case TOKEN_COMMENT:
		default:
			if current == nil {
				if tok.Type != TOKEN_WORD {
					return nil, errors.Errorf("line %d: expected keyword, got %q", tok.StartLine, tok.Lexeme)
				}
				current = &statement{line: tok.StartLine, keyword: string(tok.Lexeme)}
				result = append(result, current)
			} else {
				current.args = append(current.args, tok)
			}
		}
	}
	return result, nil
}
