package wkt

import (
	"strconv"
	"strings"
	"unicode"
)

// node is one KEYWORD[arg, ...] element of the raw syntax tree. Both the
// square and round bracket spellings are accepted on input.
type node struct {
	keyword string
	args    []arg
	pos     int
}

type argKind int

const (
	argString argKind = iota
	argNumber
	argBare
	argNode
)

// arg is a single argument of a node: quoted string, number, bareword enum
// token or a nested node.
type arg struct {
	kind argKind
	str  string
	num  float64
	node *node
}

// lex turns WKT text into a syntax tree without any dialect interpretation.
func lex(text string) (*node, error) {
	l := &lexer{text: text}
	l.skipSpace()
	root, err := l.node()
	if err != nil {
		return nil, err
	}
	l.skipSpace()
	if l.pos != len(l.text) {
		return nil, &ParseError{Pos: l.pos, Msg: "trailing content after top-level element"}
	}
	return root, nil
}

type lexer struct {
	text string
	pos  int
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.text) {
		c := l.text[l.pos]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return
		}
		l.pos++
	}
}

func (l *lexer) node() (*node, error) {
	start := l.pos
	keyword := l.keyword()
	if keyword == "" {
		return nil, &ParseError{Pos: start, Msg: "expected a keyword"}
	}
	l.skipSpace()
	if l.pos >= len(l.text) || (l.text[l.pos] != '[' && l.text[l.pos] != '(') {
		return nil, &ParseError{Pos: l.pos, Msg: "expected '[' after keyword " + keyword}
	}
	closer := byte(']')
	if l.text[l.pos] == '(' {
		closer = ')'
	}
	l.pos++
	n := &node{keyword: strings.ToUpper(keyword), pos: start}
	for {
		l.skipSpace()
		if l.pos >= len(l.text) {
			return nil, &ParseError{Pos: l.pos, Msg: "unterminated " + keyword + " element"}
		}
		if l.text[l.pos] == closer {
			l.pos++
			return n, nil
		}
		if len(n.args) > 0 {
			if l.text[l.pos] != ',' {
				return nil, &ParseError{Pos: l.pos, Msg: "expected ',' or closing bracket"}
			}
			l.pos++
			l.skipSpace()
		}
		a, err := l.arg()
		if err != nil {
			return nil, err
		}
		n.args = append(n.args, a)
	}
}

func (l *lexer) arg() (arg, error) {
	if l.pos >= len(l.text) {
		return arg{}, &ParseError{Pos: l.pos, Msg: "unexpected end of input"}
	}
	switch c := l.text[l.pos]; {
	case c == '"':
		s, err := l.quoted()
		if err != nil {
			return arg{}, err
		}
		return arg{kind: argString, str: s}, nil
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return l.number()
	default:
		start := l.pos
		word := l.keyword()
		if word == "" {
			return arg{}, &ParseError{Pos: start, Msg: "unexpected character " + strconv.QuoteRune(rune(c))}
		}
		l.skipSpace()
		if l.pos < len(l.text) && (l.text[l.pos] == '[' || l.text[l.pos] == '(') {
			l.pos = start
			child, err := l.node()
			if err != nil {
				return arg{}, err
			}
			return arg{kind: argNode, node: child}, nil
		}
		return arg{kind: argBare, str: word}, nil
	}
}

func (l *lexer) keyword() string {
	start := l.pos
	for l.pos < len(l.text) {
		r := rune(l.text[l.pos])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			break
		}
		l.pos++
	}
	return l.text[start:l.pos]
}

func (l *lexer) quoted() (string, error) {
	start := l.pos
	l.pos++
	var sb strings.Builder
	for l.pos < len(l.text) {
		c := l.text[l.pos]
		if c == '"' {
			// A doubled quote is an escaped quote character.
			if l.pos+1 < len(l.text) && l.text[l.pos+1] == '"' {
				sb.WriteByte('"')
				l.pos += 2
				continue
			}
			l.pos++
			return sb.String(), nil
		}
		sb.WriteByte(c)
		l.pos++
	}
	return "", &ParseError{Pos: start, Msg: "unterminated quoted string"}
}

func (l *lexer) number() (arg, error) {
	start := l.pos
	for l.pos < len(l.text) {
		c := l.text[l.pos]
		if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' {
			l.pos++
			continue
		}
		break
	}
	f, err := strconv.ParseFloat(l.text[start:l.pos], 64)
	if err != nil {
		return arg{}, &ParseError{Pos: start, Msg: "malformed number " + strconv.Quote(l.text[start:l.pos])}
	}
	return arg{kind: argNumber, num: f}, nil
}

// child returns the first nested node with one of the given keywords.
func (n *node) child(keywords ...string) *node {
	for _, a := range n.args {
		if a.kind != argNode {
			continue
		}
		for _, k := range keywords {
			if a.node.keyword == k {
				return a.node
			}
		}
	}
	return nil
}

// children returns every nested node with one of the given keywords, in
// order.
func (n *node) children(keywords ...string) []*node {
	var out []*node
	for _, a := range n.args {
		if a.kind != argNode {
			continue
		}
		for _, k := range keywords {
			if a.node.keyword == k {
				out = append(out, a.node)
				break
			}
		}
	}
	return out
}

// stringArg returns the i-th argument as a quoted string.
func (n *node) stringArg(i int) (string, error) {
	if i >= len(n.args) || n.args[i].kind != argString {
		return "", &ParseError{Pos: n.pos, Msg: n.keyword + " expects a quoted string at position " + strconv.Itoa(i)}
	}
	return n.args[i].str, nil
}

// numberArg returns the i-th argument as a number.
func (n *node) numberArg(i int) (float64, error) {
	if i >= len(n.args) || n.args[i].kind != argNumber {
		return 0, &ParseError{Pos: n.pos, Msg: n.keyword + " expects a number at position " + strconv.Itoa(i)}
	}
	return n.args[i].num, nil
}

// bareArg returns the i-th argument as a bareword token, lower-cased.
func (n *node) bareArg(i int) (string, error) {
	if i >= len(n.args) || n.args[i].kind != argBare {
		return "", &ParseError{Pos: n.pos, Msg: n.keyword + " expects a bareword at position " + strconv.Itoa(i)}
	}
	return strings.ToLower(n.args[i].str), nil
}
