package fbx

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var asciiVersion = regexp.MustCompile(`FBX (\d+)\.(\d+)\.(\d+)`)

// DefaultVersion is assumed for text files that do not declare a version.
const DefaultVersion = 7400

// DecodeASCII parses the text variant of the format.
//
// The text format carries no property types, so values are typed on read.
// Object and connection UIDs become L, template rows use the type they
// declare, and base64 Content becomes R. Other integers that fit 32 bits
// become I (L otherwise), numbers with a decimal point or exponent become D,
// T and F become C, and quoted text becomes S. Arrays become d, i or l by the
// same rules.
func DecodeASCII(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read fbx data: %w", err)
	}
	p := &asciiParser{lex: &lexer{data: data}}
	nodes, err := p.nodes(0)
	if err != nil {
		return nil, err
	}

	doc := &Document{Version: DefaultVersion, Nodes: nodes}
	if m := asciiVersion.FindSubmatch(firstLine(data)); m != nil {
		major, _ := strconv.Atoi(string(m[1]))
		minor, _ := strconv.Atoi(string(m[2]))
		patch, _ := strconv.Atoi(string(m[3]))
		doc.Version = uint32(major*1000 + minor*100 + patch*10)
	} else if hdr := doc.Find("FBXHeaderExtension"); hdr != nil {
		if v := hdr.Child("FBXVersion"); v != nil && len(v.Properties) > 0 {
			if i, ok := v.Properties[0].Int(); ok {
				doc.Version = uint32(i)
			}
		}
	}

	// Object names are stored as "Class::Name" in text files.
	if objects := doc.Find("Objects"); objects != nil {
		for _, o := range objects.Children {
			if len(o.Properties) > 1 {
				if s, ok := o.Properties[1].Str(); ok {
					o.Properties[1].Value = binaryName(s)
				}
			}
		}
	}
	retype(doc)
	return doc, nil
}

func firstLine(data []byte) []byte {
	data = bytes.TrimLeft(data, " \t\r\n\ufeff")
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return data[:i]
	}
	return data
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokKey
	tokString
	tokNumber
	tokWord
	tokComma
	tokStar
	tokOpen
	tokClose
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	data []byte
	pos  int
	peek *token
}

func (l *lexer) next() (token, error) {
	if l.peek != nil {
		t := *l.peek
		l.peek = nil
		return t, nil
	}
	return l.scan()
}

func (l *lexer) lookahead() (token, error) {
	if l.peek == nil {
		t, err := l.scan()
		if err != nil {
			return t, err
		}
		l.peek = &t
	}
	return *l.peek, nil
}

func (l *lexer) scan() (token, error) {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if c == ';' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			l.pos++
			continue
		}
		break
	}
	start := l.pos
	if l.pos >= len(l.data) {
		return token{kind: tokEOF, pos: start}, nil
	}

	c := l.data[l.pos]
	switch {
	case c == '{':
		l.pos++
		return token{kind: tokOpen, pos: start}, nil
	case c == '}':
		l.pos++
		return token{kind: tokClose, pos: start}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma, pos: start}, nil
	case c == '*':
		l.pos++
		return token{kind: tokStar, pos: start}, nil
	case c == '"':
		l.pos++
		end := bytes.IndexByte(l.data[l.pos:], '"')
		if end < 0 {
			return token{}, corrupt(start, "unterminated string")
		}
		s := string(l.data[l.pos : l.pos+end])
		l.pos += end + 1
		return token{kind: tokString, text: strings.ReplaceAll(s, "&quot;", `"`), pos: start}, nil
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		for l.pos < len(l.data) && strings.IndexByte("0123456789+-.eE", l.data[l.pos]) >= 0 {
			l.pos++
		}
		return token{kind: tokNumber, text: string(l.data[start:l.pos]), pos: start}, nil
	case isWordByte(c):
		for l.pos < len(l.data) && isWordByte(l.data[l.pos]) {
			l.pos++
		}
		word := string(l.data[start:l.pos])
		if l.pos < len(l.data) && l.data[l.pos] == ':' {
			l.pos++
			return token{kind: tokKey, text: word, pos: start}, nil
		}
		return token{kind: tokWord, text: word, pos: start}, nil
	}
	return token{}, corrupt(start, "unexpected character %q", c)
}

func isWordByte(c byte) bool {
	return c == '_' || c == '|' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

type asciiParser struct {
	lex *lexer
}

// nodes reads records until EOF (depth 0) or a closing brace.
func (p *asciiParser) nodes(depth int) ([]*Node, error) {
	var out []*Node
	for {
		t, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		switch t.kind {
		case tokEOF:
			if depth > 0 {
				return nil, corrupt(t.pos, "unexpected end of file inside block")
			}
			return out, nil
		case tokClose:
			if depth == 0 {
				return nil, corrupt(t.pos, "unbalanced '}'")
			}
			return out, nil
		case tokKey:
			n, err := p.node(t.text)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		default:
			return nil, corrupt(t.pos, "expected record name")
		}
	}
}

func (p *asciiParser) node(name string) (*Node, error) {
	n := &Node{Name: name}

	t, err := p.lex.lookahead()
	if err != nil {
		return nil, err
	}
	if t.kind == tokStar {
		p.lex.next()
		prop, err := p.array()
		if err != nil {
			return nil, err
		}
		n.Properties = []Property{prop}
		return n, nil
	}

	if t.kind == tokComma {
		// "Content: , ..." style records with an empty leading value.
		p.lex.next()
	}
	for {
		t, err := p.lex.lookahead()
		if err != nil {
			return nil, err
		}
		if t.kind != tokString && t.kind != tokNumber && t.kind != tokWord {
			break
		}
		p.lex.next()
		prop, err := valueProperty(t)
		if err != nil {
			return nil, err
		}
		n.Properties = append(n.Properties, prop)

		sep, err := p.lex.lookahead()
		if err != nil {
			return nil, err
		}
		if sep.kind != tokComma {
			break
		}
		p.lex.next()
	}

	t, err = p.lex.lookahead()
	if err != nil {
		return nil, err
	}
	if t.kind == tokOpen {
		p.lex.next()
		children, err := p.nodes(1)
		if err != nil {
			return nil, err
		}
		n.Children = children
		n.block = true
	}
	return n, nil
}

// array reads "*N { a: v,v,v }" after the star.
func (p *asciiParser) array() (Property, error) {
	t, err := p.lex.next()
	if err != nil {
		return Property{}, err
	}
	if t.kind != tokNumber {
		return Property{}, corrupt(t.pos, "expected array length")
	}
	count, err := strconv.Atoi(t.text)
	if err != nil || count < 0 {
		return Property{}, corrupt(t.pos, "bad array length %q", t.text)
	}
	if t, err = p.lex.next(); err != nil {
		return Property{}, err
	} else if t.kind != tokOpen {
		return Property{}, corrupt(t.pos, "expected '{' after array length")
	}

	var values []string
	for {
		t, err := p.lex.next()
		if err != nil {
			return Property{}, err
		}
		switch t.kind {
		case tokKey:
			// the "a:" element key
		case tokNumber:
			values = append(values, t.text)
		case tokComma:
		case tokClose:
			if len(values) != count {
				return Property{}, corrupt(t.pos, "array declares %d elements, has %d", count, len(values))
			}
			return arrayProperty(values, t.pos)
		default:
			return Property{}, corrupt(t.pos, "unexpected token in array")
		}
	}
}

func valueProperty(t token) (Property, error) {
	switch t.kind {
	case tokString:
		return String(t.text), nil
	case tokWord:
		switch t.text {
		case "T", "Y":
			return Bool(true), nil
		case "F", "N":
			return Bool(false), nil
		}
		return String(t.text), nil
	}
	if isFloatLiteral(t.text) {
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return Property{}, corrupt(t.pos, "bad number %q", t.text)
		}
		return Float64(f), nil
	}
	i, err := strconv.ParseInt(t.text, 10, 64)
	if err != nil {
		return Property{}, corrupt(t.pos, "bad number %q", t.text)
	}
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return Int32(int32(i)), nil
	}
	return Int64(i), nil
}

func arrayProperty(values []string, pos int) (Property, error) {
	isFloat := false
	for _, v := range values {
		if isFloatLiteral(v) {
			isFloat = true
			break
		}
	}
	if isFloat {
		out := make([]float64, len(values))
		for i, v := range values {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return Property{}, corrupt(pos, "bad number %q", v)
			}
			out[i] = f
		}
		return Float64s(out), nil
	}

	out := make([]int64, len(values))
	narrow := true
	for i, v := range values {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Property{}, corrupt(pos, "bad number %q", v)
		}
		out[i] = n
		if n < math.MinInt32 || n > math.MaxInt32 {
			narrow = false
		}
	}
	if !narrow {
		return Int64s(out), nil
	}
	small := make([]int32, len(out))
	for i, n := range out {
		small[i] = int32(n)
	}
	return Int32s(small), nil
}

func isFloatLiteral(s string) bool {
	return strings.ContainsAny(s, ".eE")
}
