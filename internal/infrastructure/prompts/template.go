package prompts

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Template is a parsed prompt template.
//
// Supported tags:
//
//	{{name}} or {{{name}}}          insert the raw value of a variable (dotted paths allowed)
//	{{#each list}} ... {{/each}}    repeat the body per element
//	{{this}} / {{@index}}           current element / zero-based position inside #each
//	{{! comment }}                  ignored
//
// Block and comment tags standing alone on a line consume that line.
type Template struct {
	name  string
	nodes []node
}

type ParseError struct {
	Template string
	Line     int
	Msg      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("template %q line %d: %s", e.Template, e.Line, e.Msg)
}

type RenderError struct {
	Template string
	Line     int
	Name     string
	Msg      string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("template %q line %d: {{%s}}: %s", e.Template, e.Line, e.Name, e.Msg)
}

type tokenKind int

const (
	tokText tokenKind = iota
	tokVar
	tokOpen
	tokClose
	tokComment
)

type token struct {
	kind tokenKind
	text string
	line int
}

type node interface {
	render(t *Template, b *strings.Builder, s *scope) error
}

type textNode string

type varNode struct {
	name string
	line int
}

type eachNode struct {
	list string
	body []node
	line int
}

func Parse(name, text string) (*Template, error) {
	tokens, err := lex(name, text)
	if err != nil {
		return nil, err
	}
	trimStandalone(tokens)

	nodes, rest, err := build(name, tokens, false)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, &ParseError{Template: name, Line: rest[0].line, Msg: "unexpected {{/each}}"}
	}

	return &Template{name: name, nodes: nodes}, nil
}

func MustParse(name, text string) *Template {
	t, err := Parse(name, text)
	if err != nil {
		panic(err)
	}
	return t
}

// Render substitutes vars into the template. It never evaluates code and returns the same
// output for the same vars.
func (t *Template) Render(vars map[string]any) (string, error) {
	var b strings.Builder
	root := &scope{vars: vars}
	for _, n := range t.nodes {
		if err := n.render(t, &b, root); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// Variables returns the sorted top-level variable names the template reads outside of
// any #each block, plus the lists it iterates.
func (t *Template) Variables() []string {
	seen := make(map[string]struct{})
	collectVars(t.nodes, 0, seen)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectVars(nodes []node, depth int, seen map[string]struct{}) {
	for _, n := range nodes {
		switch v := n.(type) {
		case varNode:
			if depth == 0 && !isContextual(v.name) {
				seen[rootSegment(v.name)] = struct{}{}
			}
		case eachNode:
			if depth == 0 && !isContextual(v.list) {
				seen[rootSegment(v.list)] = struct{}{}
			}
			collectVars(v.body, depth+1, seen)
		}
	}
}

func isContextual(path string) bool {
	return path == "@index" || rootSegment(path) == "this"
}

func rootSegment(path string) string {
	head, _, _ := strings.Cut(path, ".")
	return head
}

func lex(name, text string) ([]token, error) {
	var tokens []token
	line := 1

	for len(text) > 0 {
		start := strings.Index(text, "{{")
		if start < 0 {
			tokens = append(tokens, token{kind: tokText, text: text, line: line})
			break
		}
		if start > 0 {
			tokens = append(tokens, token{kind: tokText, text: text[:start], line: line})
			line += strings.Count(text[:start], "\n")
			text = text[start:]
		}

		open, closeDelim := "{{", "}}"
		if strings.HasPrefix(text, "{{{") {
			open, closeDelim = "{{{", "}}}"
		}
		end := strings.Index(text[len(open):], closeDelim)
		if end < 0 {
			return nil, &ParseError{Template: name, Line: line, Msg: "unclosed tag"}
		}
		body := strings.TrimSpace(text[len(open) : len(open)+end])
		raw := text[:len(open)+end+len(closeDelim)]

		tok, err := classify(name, body, open == "{{{", line)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)

		line += strings.Count(raw, "\n")
		text = text[len(raw):]
	}

	return tokens, nil
}

func classify(name, body string, triple bool, line int) (token, error) {
	fail := func(msg string) (token, error) {
		return token{}, &ParseError{Template: name, Line: line, Msg: msg}
	}

	switch {
	case body == "":
		return fail("empty tag")
	case triple:
		if !isPath(body) {
			return fail(fmt.Sprintf("invalid variable %q", body))
		}
		return token{kind: tokVar, text: body, line: line}, nil
	case strings.HasPrefix(body, "!"):
		return token{kind: tokComment, line: line}, nil
	case strings.HasPrefix(body, "#"):
		helper, arg, _ := strings.Cut(strings.TrimSpace(body[1:]), " ")
		if helper != "each" {
			return fail(fmt.Sprintf("unknown block helper %q", helper))
		}
		arg = strings.TrimSpace(arg)
		if !isPath(arg) {
			return fail(fmt.Sprintf("#each needs a list variable, got %q", arg))
		}
		return token{kind: tokOpen, text: arg, line: line}, nil
	case strings.HasPrefix(body, "/"):
		if strings.TrimSpace(body[1:]) != "each" {
			return fail(fmt.Sprintf("unknown closing tag %q", body))
		}
		return token{kind: tokClose, line: line}, nil
	case isPath(body):
		return token{kind: tokVar, text: body, line: line}, nil
	}
	return fail(fmt.Sprintf("invalid variable %q", body))
}

func isPath(s string) bool {
	if s == "" {
		return false
	}
	if s == "@index" {
		return true
	}
	for _, seg := range strings.Split(s, ".") {
		if seg == "" {
			return false
		}
		for i, r := range seg {
			letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
			digit := r >= '0' && r <= '9'
			if !letter && !(digit && i > 0) {
				return false
			}
		}
	}
	return true
}

func trimStandalone(tokens []token) {
	for i, tok := range tokens {
		if tok.kind != tokOpen && tok.kind != tokClose && tok.kind != tokComment {
			continue
		}

		prevOK := i == 0
		if i > 0 && tokens[i-1].kind == tokText {
			prev := tokens[i-1].text
			idx := strings.LastIndex(prev, "\n")
			tail := prev[idx+1:]
			prevOK = strings.Trim(tail, " \t") == "" && (idx >= 0 || i == 1)
		}
		if !prevOK {
			continue
		}

		nextOK := i == len(tokens)-1
		nextCut := 0
		if i+1 < len(tokens) && tokens[i+1].kind == tokText {
			next := tokens[i+1].text
			idx := strings.Index(next, "\n")
			head := next
			if idx >= 0 {
				head = next[:idx]
			}
			if strings.Trim(strings.TrimSuffix(head, "\r"), " \t") == "" && (idx >= 0 || i+1 == len(tokens)-1) {
				nextOK = true
				nextCut = len(head)
				if idx >= 0 {
					nextCut = idx + 1
				}
			}
		}
		if !nextOK {
			continue
		}

		if i > 0 {
			prev := tokens[i-1].text
			tokens[i-1].text = prev[:strings.LastIndex(prev, "\n")+1]
		}
		if i+1 < len(tokens) && tokens[i+1].kind == tokText {
			tokens[i+1].text = tokens[i+1].text[nextCut:]
		}
	}
}

func build(name string, tokens []token, inBlock bool) ([]node, []token, error) {
	var nodes []node

	for len(tokens) > 0 {
		tok := tokens[0]
		tokens = tokens[1:]

		switch tok.kind {
		case tokText:
			if tok.text != "" {
				nodes = append(nodes, textNode(tok.text))
			}
		case tokComment:
		case tokVar:
			nodes = append(nodes, varNode{name: tok.text, line: tok.line})
		case tokOpen:
			body, rest, err := build(name, tokens, true)
			if err != nil {
				return nil, nil, err
			}
			if len(rest) == 0 || rest[0].kind != tokClose {
				return nil, nil, &ParseError{Template: name, Line: tok.line, Msg: "unclosed {{#each}}"}
			}
			nodes = append(nodes, eachNode{list: tok.text, body: body, line: tok.line})
			tokens = rest[1:]
		case tokClose:
			if !inBlock {
				return nil, nil, &ParseError{Template: name, Line: tok.line, Msg: "unexpected {{/each}}"}
			}
			return nodes, append([]token{tok}, tokens...), nil
		}
	}

	return nodes, nil, nil
}

type scope struct {
	vars    map[string]any
	this    any
	index   int
	inBlock bool
	parent  *scope
}

func (s *scope) lookup(path string) (any, bool, string) {
	if path == "@index" {
		if !s.inBlock {
			return nil, false, "@index used outside #each"
		}
		return s.index, true, ""
	}

	head, rest, hasRest := strings.Cut(path, ".")
	var (
		val any
		ok  bool
	)
	if head == "this" {
		if !s.inBlock {
			return nil, false, "this used outside #each"
		}
		val, ok = s.this, true
	} else {
		val, ok = s.resolve(head)
		if !ok {
			return nil, false, "missing variable"
		}
	}

	for hasRest {
		head, rest, hasRest = strings.Cut(rest, ".")
		val, ok = field(val, head)
		if !ok {
			return nil, false, "missing variable"
		}
	}
	return val, true, ""
}

func (s *scope) resolve(name string) (any, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.inBlock {
			if v, ok := field(cur.this, name); ok {
				return v, true
			}
			continue
		}
		v, ok := cur.vars[name]
		return v, ok
	}
	return nil, false
}

func field(v any, name string) (any, bool) {
	switch m := v.(type) {
	case map[string]any:
		f, ok := m[name]
		return f, ok
	case map[string]string:
		f, ok := m[name]
		return f, ok
	}
	return nil, false
}

func (n textNode) render(_ *Template, b *strings.Builder, _ *scope) error {
	b.WriteString(string(n))
	return nil
}

func (n varNode) render(t *Template, b *strings.Builder, s *scope) error {
	v, ok, why := s.lookup(n.name)
	if !ok {
		return &RenderError{Template: t.name, Line: n.line, Name: n.name, Msg: why}
	}
	str, ok := scalar(v)
	if !ok {
		return &RenderError{Template: t.name, Line: n.line, Name: n.name, Msg: fmt.Sprintf("%T is not a scalar value", v)}
	}
	b.WriteString(str)
	return nil
}

func (n eachNode) render(t *Template, b *strings.Builder, s *scope) error {
	v, ok, why := s.lookup(n.list)
	if !ok {
		return &RenderError{Template: t.name, Line: n.line, Name: "#each " + n.list, Msg: why}
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return &RenderError{Template: t.name, Line: n.line, Name: "#each " + n.list, Msg: fmt.Sprintf("%T is not a list", v)}
	}

	for i := 0; i < rv.Len(); i++ {
		inner := &scope{this: rv.Index(i).Interface(), index: i, inBlock: true, parent: s}
		for _, child := range n.body {
			if err := child.render(t, b, inner); err != nil {
				return err
			}
		}
	}
	return nil
}

func scalar(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	}
	return "", false
}
