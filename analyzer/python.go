package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Function describes a def found in a Python file. Args counts the named
// parameters, excluding *args and **kwargs entries.
type Function struct {
	Name string `json:"name"`
	Line int    `json:"line"`
	Args int    `json:"args"`
}

// Class describes a class definition found in a Python file.
type Class struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

// PythonReport is the structure report for a single Python file. On a file
// with broken structure, SyntaxError is set and the function/class lists
// are empty; the line statistics are still populated.
type PythonReport struct {
	FilePath       string     `json:"file_path"`
	TotalLines     int        `json:"total_lines"`
	CodeLines      int        `json:"code_lines"`
	CommentLines   int        `json:"comment_lines"`
	Functions      []Function `json:"functions"`
	Classes        []Class    `json:"classes"`
	FunctionsCount int        `json:"functions_count"`
	ClassesCount   int        `json:"classes_count"`
	SyntaxError    string     `json:"syntax_error,omitempty"`
}

// SyntaxError reports a structural fault in a Python source file.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// AnalyzePython reads a Python file and reports its functions and classes
// alongside basic line statistics. Defs and classes are counted at any
// nesting depth, so methods and inner functions are included. A file with
// broken structure yields a report carrying the syntax error; only an
// unreadable or non-Python path is an error.
func AnalyzePython(path string) (*PythonReport, error) {
	if !strings.EqualFold(filepath.Ext(path), ".py") {
		return nil, fmt.Errorf("only Python files are supported: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(data)

	report := &PythonReport{
		FilePath:  path,
		Functions: []Function{},
		Classes:   []Class{},
	}
	for _, line := range splitLines(content) {
		report.TotalLines++
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "#"):
			report.CommentLines++
		default:
			report.CodeLines++
		}
	}

	functions, classes, serr := scanPython(content)
	if serr != nil {
		report.SyntaxError = serr.Error()
		return report, nil
	}

	report.Functions = functions
	report.Classes = classes
	report.FunctionsCount = len(functions)
	report.ClassesCount = len(classes)
	return report, nil
}

// pyScanner walks Python source one byte at a time, tracking line numbers,
// string and comment state, and bracket nesting.
type pyScanner struct {
	src  string
	pos  int
	line int

	// open brackets, with the line each was opened on
	brackets []bracket
}

type bracket struct {
	char byte
	line int
}

func scanPython(content string) ([]Function, []Class, *SyntaxError) {
	s := &pyScanner{src: content, line: 1}

	var functions []Function
	var classes []Class

	atStatementStart := true
	for s.pos < len(s.src) {
		c := s.src[s.pos]

		switch {
		case c == '\n':
			s.pos++
			s.line++
			// a newline only starts a new statement outside brackets
			if len(s.brackets) == 0 {
				atStatementStart = true
			}
			continue
		case c == ' ' || c == '\t' || c == '\r':
			s.pos++
			continue
		case c == '#':
			s.skipComment()
			continue
		case c == '\\' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n':
			// explicit line continuation
			s.pos += 2
			s.line++
			continue
		case c == '\'' || c == '"':
			if serr := s.skipString(); serr != nil {
				return nil, nil, serr
			}
			atStatementStart = false
			continue
		case c == '(' || c == '[' || c == '{':
			s.brackets = append(s.brackets, bracket{char: c, line: s.line})
			s.pos++
			atStatementStart = false
			continue
		case c == ')' || c == ']' || c == '}':
			if serr := s.closeBracket(c); serr != nil {
				return nil, nil, serr
			}
			atStatementStart = false
			continue
		}

		if atStatementStart && len(s.brackets) == 0 && isIdentStart(c) {
			word := s.peekWord()
			switch word {
			case "async":
				s.skipWord()
				atStatementStart = true
				continue
			case "def":
				fn, serr := s.scanDef()
				if serr != nil {
					return nil, nil, serr
				}
				functions = append(functions, fn)
				atStatementStart = false
				continue
			case "class":
				cl, serr := s.scanClass()
				if serr != nil {
					return nil, nil, serr
				}
				classes = append(classes, cl)
				atStatementStart = false
				continue
			}
		}

		if isIdentStart(c) {
			s.skipWord()
		} else {
			s.pos++
		}
		atStatementStart = false
	}

	if len(s.brackets) > 0 {
		open := s.brackets[len(s.brackets)-1]
		return nil, nil, &SyntaxError{Line: open.line, Msg: fmt.Sprintf("unexpected EOF, unclosed %q", string(open.char))}
	}

	return functions, classes, nil
}

func (s *pyScanner) skipComment() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
}

// skipString consumes a string literal starting at the current quote
// character, including triple-quoted and prefixed (r, b, f) forms; the
// prefix letters are consumed by the identifier path before we get here.
func (s *pyScanner) skipString() *SyntaxError {
	quote := s.src[s.pos]
	start := s.line

	if s.pos+2 < len(s.src) && s.src[s.pos+1] == quote && s.src[s.pos+2] == quote {
		// triple-quoted
		s.pos += 3
		for s.pos < len(s.src) {
			if s.src[s.pos] == '\\' {
				if s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n' {
					s.line++
				}
				s.pos += 2
				continue
			}
			if s.src[s.pos] == '\n' {
				s.line++
				s.pos++
				continue
			}
			if s.src[s.pos] == quote && s.pos+2 < len(s.src) &&
				s.src[s.pos+1] == quote && s.src[s.pos+2] == quote {
				s.pos += 3
				return nil
			}
			s.pos++
		}
		return &SyntaxError{Line: start, Msg: "unterminated triple-quoted string"}
	}

	// single-line string
	s.pos++
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
			continue
		case '\n':
			return &SyntaxError{Line: start, Msg: "unterminated string literal"}
		case quote:
			s.pos++
			return nil
		}
		s.pos++
	}
	return &SyntaxError{Line: start, Msg: "unterminated string literal"}
}

func (s *pyScanner) closeBracket(c byte) *SyntaxError {
	pairs := map[byte]byte{')': '(', ']': '[', '}': '{'}
	if len(s.brackets) == 0 || s.brackets[len(s.brackets)-1].char != pairs[c] {
		return &SyntaxError{Line: s.line, Msg: fmt.Sprintf("unmatched %q", string(c))}
	}
	s.brackets = s.brackets[:len(s.brackets)-1]
	s.pos++
	return nil
}

func (s *pyScanner) peekWord() string {
	end := s.pos
	for end < len(s.src) && isIdentChar(s.src[end]) {
		end++
	}
	return s.src[s.pos:end]
}

func (s *pyScanner) skipWord() {
	for s.pos < len(s.src) && isIdentChar(s.src[s.pos]) {
		s.pos++
	}
}

func (s *pyScanner) skipSpaces() {
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

// scanDef consumes "def name(params) -> annotation:" and returns the
// function entry. The parameter list may span lines.
func (s *pyScanner) scanDef() (Function, *SyntaxError) {
	defLine := s.line
	s.skipWord() // def
	s.skipSpaces()

	name := s.peekWord()
	if name == "" {
		return Function{}, &SyntaxError{Line: defLine, Msg: "expected function name after 'def'"}
	}
	s.skipWord()
	s.skipSpaces()

	if s.pos >= len(s.src) || s.src[s.pos] != '(' {
		return Function{}, &SyntaxError{Line: defLine, Msg: fmt.Sprintf("expected '(' after 'def %s'", name)}
	}

	params, serr := s.captureParens()
	if serr != nil {
		return Function{}, serr
	}

	if serr := s.expectColon(defLine, name); serr != nil {
		return Function{}, serr
	}

	return Function{Name: name, Line: defLine, Args: countParams(params)}, nil
}

// scanClass consumes "class Name(bases):" and returns the class entry.
func (s *pyScanner) scanClass() (Class, *SyntaxError) {
	classLine := s.line
	s.skipWord() // class
	s.skipSpaces()

	name := s.peekWord()
	if name == "" {
		return Class{}, &SyntaxError{Line: classLine, Msg: "expected class name after 'class'"}
	}
	s.skipWord()
	s.skipSpaces()

	if s.pos < len(s.src) && s.src[s.pos] == '(' {
		if _, serr := s.captureParens(); serr != nil {
			return Class{}, serr
		}
	}

	if serr := s.expectColon(classLine, name); serr != nil {
		return Class{}, serr
	}

	return Class{Name: name, Line: classLine}, nil
}

// captureParens consumes a balanced parenthesized group starting at '('
// and returns its inner text, respecting nested brackets, strings, and
// comments.
func (s *pyScanner) captureParens() (string, *SyntaxError) {
	openLine := s.line
	s.pos++ // consume '('
	depth := 1
	start := s.pos

	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch c {
		case '\'', '"':
			if serr := s.skipString(); serr != nil {
				return "", serr
			}
			continue
		case '#':
			s.skipComment()
			continue
		case '\n':
			s.line++
			s.pos++
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if c == ')' && depth == 1 {
				inner := s.src[start:s.pos]
				s.pos++
				return inner, nil
			}
			depth--
			if depth < 1 {
				return "", &SyntaxError{Line: s.line, Msg: fmt.Sprintf("unmatched %q", string(c))}
			}
		}
		s.pos++
	}
	return "", &SyntaxError{Line: openLine, Msg: "unexpected EOF, unclosed \"(\""}
}

// expectColon scans past any return annotation to the ':' that ends a def
// or class header.
func (s *pyScanner) expectColon(headerLine int, name string) *SyntaxError {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch c {
		case ':':
			s.pos++
			return nil
		case '\n':
			return &SyntaxError{Line: headerLine, Msg: fmt.Sprintf("expected ':' in definition of %q", name)}
		case '#':
			return &SyntaxError{Line: headerLine, Msg: fmt.Sprintf("expected ':' in definition of %q", name)}
		case '\'', '"':
			if serr := s.skipString(); serr != nil {
				return serr
			}
			continue
		case '[', '(', '{':
			s.brackets = append(s.brackets, bracket{char: c, line: s.line})
		case ']', ')', '}':
			if serr := s.closeBracket(c); serr != nil {
				return serr
			}
			continue
		case '\\':
			if s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n' {
				s.line++
				s.pos += 2
				continue
			}
		}
		s.pos++
	}
	return &SyntaxError{Line: headerLine, Msg: fmt.Sprintf("expected ':' in definition of %q", name)}
}

// countParams counts the named parameters in a def's parameter text.
// Bare "*" and "/" markers and *args / **kwargs entries are not counted.
func countParams(params string) int {
	count := 0
	depth := 0
	start := 0

	flush := func(piece string) {
		piece = strings.TrimSpace(piece)
		if piece == "" || piece == "*" || piece == "/" {
			return
		}
		if strings.HasPrefix(piece, "*") {
			return
		}
		count++
	}

	inString := byte(0)
	for i := 0; i < len(params); i++ {
		c := params[i]
		if inString != 0 {
			if c == '\\' {
				i++
			} else if c == inString {
				inString = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			inString = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				flush(params[start:i])
				start = i + 1
			}
		}
	}
	flush(params[start:])
	return count
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
