package literal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax é retornado quando o texto não é um literal Python válido.
var ErrSyntax = errors.New("literal: invalid syntax")

// Map é um dicionário que preserva a ordem de inserção das chaves,
// como os dicts do Python.
type Map struct {
	Keys   []string
	values map[string]any
}

// NewMap cria um Map vazio.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Set define o valor de uma chave. Chaves repetidas mantêm a posição
// original e o último valor, igual ao Python.
func (m *Map) Set(key string, value any) {
	if _, exists := m.values[key]; !exists {
		m.Keys = append(m.Keys, key)
	}
	m.values[key] = value
}

// Get retorna o valor associado à chave.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Len retorna o número de chaves.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Keys)
}

// Plain converte o Map (recursivamente) em map[string]any, perdendo a ordem.
func (m *Map) Plain() map[string]any {
	out := make(map[string]any, m.Len())
	if m == nil {
		return out
	}
	for _, k := range m.Keys {
		out[k] = plain(m.values[k])
	}
	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Plain()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

// Parse avalia com segurança um literal Python (dict, list, tuple, str, int,
// float, True, False, None). Nomes, chamadas e operadores não são aceitos.
//
// Tipos retornados:
//   - dict  -> *Map
//   - list/tuple -> []any
//   - str   -> string
//   - int   -> int64
//   - float -> float64
//   - True/False -> bool
//   - None  -> nil
func Parse(src string) (any, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.errorf("unexpected %s after value", p.peek())
	}
	return v, nil
}

// --- Tokenizer ---

type tokKind int

const (
	tokEOF tokKind = iota
	tokString
	tokNumber
	tokName
	tokPunct
)

type token struct {
	kind tokKind
	text string // texto bruto (números, nomes, pontuação) ou valor decodificado (strings)
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString:
		return strconv.Quote(t.text)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			i++
		case c == '\\' && i+1 < len(src) && (src[i+1] == '\n' || src[i+1] == '\r'):
			// continuação de linha
			i += 2
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case strings.IndexByte("{}[](),:", c) >= 0:
			toks = append(toks, token{kind: tokPunct, text: string(c), pos: i})
			i++
		case c == '-' || c == '+':
			toks = append(toks, token{kind: tokPunct, text: string(c), pos: i})
			i++
		case c == '"' || c == '\'':
			s, n, err := readString(src[i:], false)
			if err != nil {
				return nil, fmt.Errorf("%w at offset %d: %v", ErrSyntax, i, err)
			}
			toks = append(toks, token{kind: tokString, text: s, pos: i})
			i += n
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			for i < len(src) && (isAlnum(src[i]) || src[i] == '.' || src[i] == '_' ||
				((src[i] == '-' || src[i] == '+') && (src[i-1] == 'e' || src[i-1] == 'E') && !isHexLiteral(src[start:i]))) {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], pos: start})
		case isIdentStart(c):
			start := i
			for i < len(src) && (isAlnum(src[i]) || src[i] == '_') {
				i++
			}
			word := src[start:i]
			// prefixos u".." e r".."; bytes (b"..") não são literais aceitos
			if i < len(src) && (src[i] == '"' || src[i] == '\'') && isStringPrefix(word) {
				raw := strings.ContainsAny(word, "rR")
				s, n, err := readString(src[i:], raw)
				if err != nil {
					return nil, fmt.Errorf("%w at offset %d: %v", ErrSyntax, i, err)
				}
				toks = append(toks, token{kind: tokString, text: s, pos: start})
				i += n
				continue
			}
			toks = append(toks, token{kind: tokName, text: word, pos: start})
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrSyntax, c, i)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

func isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "u", "r":
		return true
	}
	return false
}

func isHexLiteral(s string) bool {
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z') }
func isAlnum(c byte) bool      { return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'z') }

// readString lê uma string Python (simples ou tripla) no início de s e
// retorna o valor decodificado e a quantidade de bytes consumidos.
func readString(s string, raw bool) (string, int, error) {
	quote := s[0]
	delim := string(quote)
	if strings.HasPrefix(s, strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}
	var b strings.Builder
	i := len(delim)
	for i < len(s) {
		if strings.HasPrefix(s[i:], delim) {
			return b.String(), i + len(delim), nil
		}
		c := s[i]
		if c == '\n' && len(delim) == 1 {
			return "", 0, errors.New("unterminated string")
		}
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			break
		}
		if raw {
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			i += 2
			continue
		}
		n, err := writeEscape(&b, s[i:])
		if err != nil {
			return "", 0, err
		}
		i += n
	}
	return "", 0, errors.New("unterminated string")
}

// writeEscape decodifica a sequência de escape no início de s (que começa
// com a barra) e retorna quantos bytes foram consumidos.
func writeEscape(b *strings.Builder, s string) (int, error) {
	switch e := s[1]; e {
	case '\n':
		return 2, nil
	case '\\', '\'', '"':
		b.WriteByte(e)
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case 'a':
		b.WriteByte('\a')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		j := 1
		for j < 4 && j < len(s) && s[j] >= '0' && s[j] <= '7' {
			j++
		}
		v, _ := strconv.ParseUint(s[1:j], 8, 32)
		b.WriteRune(rune(v))
		return j, nil
	case 'x', 'u', 'U':
		width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[e]
		if len(s) < 2+width {
			return 0, fmt.Errorf("truncated \\%c escape", e)
		}
		v, err := strconv.ParseUint(s[2:2+width], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid \\%c escape", e)
		}
		b.WriteRune(rune(v))
		return 2 + width, nil
	default:
		// Python mantém escapes desconhecidos literalmente
		b.WriteByte('\\')
		b.WriteByte(e)
	}
	return 2, nil
}

// UnquoteBody decodifica as sequências de escape do conteúdo de uma string
// Python delimitada por aspas duplas (sem as aspas). Escapes inválidos são
// mantidos como estão.
func UnquoteBody(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}
		n, err := writeEscape(&b, s[i:])
		if err != nil {
			b.WriteByte(s[i])
			i++
			continue
		}
		i += n
	}
	return b.String()
}

// --- Parser ---

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.peek().pos, fmt.Sprintf(format, args...))
}

func (p *parser) isPunct(text string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == text
}

func (p *parser) value() (any, error) {
	t := p.peek()
	switch t.kind {
	case tokString:
		var b strings.Builder
		// strings adjacentes são concatenadas
		for p.peek().kind == tokString {
			b.WriteString(p.next().text)
		}
		return b.String(), nil
	case tokNumber:
		p.next()
		return parseNumber(t.text)
	case tokName:
		p.next()
		switch t.text {
		case "True":
			return true, nil
		case "False":
			return false, nil
		case "None":
			return nil, nil
		}
		return nil, fmt.Errorf("%w at offset %d: name %q is not a literal", ErrSyntax, t.pos, t.text)
	case tokPunct:
		switch t.text {
		case "{":
			return p.dict()
		case "[":
			items, _, err := p.sequence("]")
			return items, err
		case "(":
			items, tuple, err := p.sequence(")")
			if err == nil && !tuple && len(items) == 1 {
				// (x) sem vírgula é apenas agrupamento
				return items[0], nil
			}
			return items, err
		case "-", "+":
			p.next()
			v, err := p.value()
			if err != nil {
				return nil, err
			}
			return applySign(t, v)
		}
	}
	return nil, p.errorf("unexpected %s", t)
}

func applySign(sign token, v any) (any, error) {
	neg := sign.text == "-"
	switch n := v.(type) {
	case int64:
		if neg {
			return -n, nil
		}
		return n, nil
	case float64:
		if neg {
			return -n, nil
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w at offset %d: unary %s on non-number", ErrSyntax, sign.pos, sign.text)
}

func (p *parser) dict() (*Map, error) {
	p.next() // {
	m := NewMap()
	for !p.isPunct("}") {
		kt := p.peek()
		key, err := p.value()
		if err != nil {
			return nil, err
		}
		ks, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("%w at offset %d: dict keys must be strings, got %T", ErrSyntax, kt.pos, key)
		}
		if !p.isPunct(":") {
			if p.isPunct(",") || p.isPunct("}") {
				return nil, p.errorf("sets are not supported")
			}
			return nil, p.errorf("expected ':' after key")
		}
		p.next()
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		m.Set(ks, val)
		if p.isPunct(",") {
			p.next()
			continue
		}
		if !p.isPunct("}") {
			return nil, p.errorf("expected ',' or '}'")
		}
	}
	p.next() // }
	return m, nil
}

// sequence lê uma lista ou tupla; tuple indica se houve vírgula.
func (p *parser) sequence(closer string) ([]any, bool, error) {
	p.next()
	items := []any{}
	sawComma := false
	for !p.isPunct(closer) {
		v, err := p.value()
		if err != nil {
			return nil, false, err
		}
		items = append(items, v)
		if p.isPunct(",") {
			p.next()
			sawComma = true
			continue
		}
		if !p.isPunct(closer) {
			return nil, false, p.errorf("expected ',' or '%s'", closer)
		}
	}
	p.next()
	return items, sawComma || len(items) == 0, nil
}

func parseNumber(text string) (any, error) {
	clean := strings.ReplaceAll(text, "_", "")
	lower := strings.ToLower(clean)
	if strings.HasSuffix(lower, "j") {
		return nil, fmt.Errorf("%w: complex numbers are not supported: %s", ErrSyntax, text)
	}
	if len(lower) > 2 && lower[0] == '0' && strings.IndexByte("xob", lower[1]) >= 0 {
		base := map[byte]int{'x': 16, 'o': 8, 'b': 2}[lower[1]]
		n, err := strconv.ParseInt(lower[2:], base, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid number %s", ErrSyntax, text)
		}
		return n, nil
	}
	if strings.ContainsAny(lower, ".e") {
		f, err := strconv.ParseFloat(lower, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid number %s", ErrSyntax, text)
		}
		return f, nil
	}
	n, err := strconv.ParseInt(lower, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid number %s", ErrSyntax, text)
	}
	return n, nil
}
