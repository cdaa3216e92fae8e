// Package literal evaluates literals written in the py style: dicts, lists,
// tuples, sets, strings, numbers, True, False and None. Nothing is ever
// executed; anything beyond plain literals is rejected.
//
// Results use the same shapes as decoded JSON: map[string]any for dicts
// (non-string keys are stringified), []any for lists, tuples and sets,
// int for integers and float64 for floats.
package literal

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// SyntaxError reports where evaluation stopped
type SyntaxError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d in %q", e.Msg, e.Pos, e.Input)
}

type evaluator struct {
	src string
	pos int
}

// Eval evaluates s as a single literal
func Eval(s string) (any, error) {
	ev := &evaluator{src: s}
	ev.skipSpace()
	v, err := ev.value()
	if err != nil {
		return nil, err
	}
	ev.skipSpace()
	if ev.pos < len(ev.src) {
		return nil, ev.fail("unexpected trailing input")
	}
	return v, nil
}

func (ev *evaluator) fail(msg string) error {
	return &SyntaxError{Input: ev.src, Pos: ev.pos, Msg: msg}
}

func (ev *evaluator) peek() byte {
	if ev.pos >= len(ev.src) {
		return 0
	}
	return ev.src[ev.pos]
}

func (ev *evaluator) skipSpace() {
	for ev.pos < len(ev.src) {
		switch ev.src[ev.pos] {
		case ' ', '\t', '\n', '\r':
			ev.pos++
		default:
			return
		}
	}
}

func (ev *evaluator) value() (any, error) {
	switch c := ev.peek(); {
	case c == 0:
		return nil, ev.fail("unexpected end of input")
	case c == '{':
		return ev.dictOrSet()
	case c == '[':
		ev.pos++
		return ev.sequence(']')
	case c == '(':
		ev.pos++
		return ev.sequence(')')
	case c == '\'' || c == '"':
		return ev.strings()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return ev.number()
	case isIdentStart(c):
		return ev.name()
	default:
		return nil, ev.fail(fmt.Sprintf("unexpected character %q", c))
	}
}

func (ev *evaluator) sequence(closing byte) ([]any, error) {
	items := []any{}
	for {
		ev.skipSpace()
		if ev.peek() == closing {
			ev.pos++
			return items, nil
		}
		v, err := ev.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		ev.skipSpace()
		switch ev.peek() {
		case ',':
			ev.pos++
		case closing:
			ev.pos++
			return items, nil
		default:
			return nil, ev.fail(fmt.Sprintf("expected ',' or '%c'", closing))
		}
	}
}

func (ev *evaluator) dictOrSet() (any, error) {
	ev.pos++
	ev.skipSpace()
	if ev.peek() == '}' {
		ev.pos++
		return map[string]any{}, nil
	}

	first, err := ev.value()
	if err != nil {
		return nil, err
	}
	ev.skipSpace()
	if ev.peek() != ':' {
		rest, err := ev.continueSet()
		if err != nil {
			return nil, err
		}
		return append([]any{first}, rest...), nil
	}

	dict := map[string]any{}
	key := first
	for {
		ev.skipSpace()
		if ev.peek() != ':' {
			return nil, ev.fail("expected ':'")
		}
		ev.pos++
		ev.skipSpace()
		v, err := ev.value()
		if err != nil {
			return nil, err
		}
		k, err := ev.dictKey(key)
		if err != nil {
			return nil, err
		}
		dict[k] = v
		ev.skipSpace()
		switch ev.peek() {
		case ',':
			ev.pos++
		case '}':
			ev.pos++
			return dict, nil
		default:
			return nil, ev.fail("expected ',' or '}'")
		}
		ev.skipSpace()
		if ev.peek() == '}' {
			ev.pos++
			return dict, nil
		}
		if key, err = ev.value(); err != nil {
			return nil, err
		}
	}
}

func (ev *evaluator) continueSet() ([]any, error) {
	switch ev.peek() {
	case '}':
		ev.pos++
		return nil, nil
	case ',':
		ev.pos++
		return ev.sequence('}')
	default:
		return nil, ev.fail("expected ',', ':' or '}'")
	}
}

func (ev *evaluator) dictKey(key any) (string, error) {
	switch k := key.(type) {
	case string:
		return k, nil
	case nil:
		return "None", nil
	case bool:
		if k {
			return "True", nil
		}
		return "False", nil
	case int, int64, float64, *big.Int:
		return fmt.Sprint(k), nil
	default:
		return "", ev.fail("unhashable dict key")
	}
}

func (ev *evaluator) name() (any, error) {
	start := ev.pos
	for ev.pos < len(ev.src) && isIdentPart(ev.src[ev.pos]) {
		ev.pos++
	}
	word := ev.src[start:ev.pos]
	switch word {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	}
	// string prefixes such as r'..' or b".."
	if c := ev.peek(); (c == '\'' || c == '"') && len(word) <= 2 && strings.Trim(strings.ToLower(word), "rbu") == "" {
		ev.pos = start
		return ev.strings()
	}
	ev.pos = start
	return nil, ev.fail(fmt.Sprintf("malformed node or string: %s", word))
}

// strings reads one or more adjacent string literals and concatenates them
func (ev *evaluator) strings() (any, error) {
	var sb strings.Builder
	for {
		s, err := ev.str()
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)
		save := ev.pos
		ev.skipSpace()
		c := ev.peek()
		if c == '\'' || c == '"' || ((c == 'r' || c == 'R' || c == 'b' || c == 'B' || c == 'u' || c == 'U') && ev.prefixedQuote()) {
			continue
		}
		ev.pos = save
		return sb.String(), nil
	}
}

func (ev *evaluator) prefixedQuote() bool {
	i := ev.pos
	for i < len(ev.src) && i-ev.pos < 2 && strings.ContainsRune("rRbBuU", rune(ev.src[i])) {
		i++
	}
	return i < len(ev.src) && (ev.src[i] == '\'' || ev.src[i] == '"')
}

func (ev *evaluator) str() (string, error) {
	raw := false
	for strings.ContainsRune("rRbBuU", rune(ev.peek())) {
		if ev.peek() == 'r' || ev.peek() == 'R' {
			raw = true
		}
		ev.pos++
	}
	quote := ev.peek()
	if quote != '\'' && quote != '"' {
		return "", ev.fail("expected string")
	}
	delim := string(quote)
	if strings.HasPrefix(ev.src[ev.pos:], strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}
	ev.pos += len(delim)

	var sb strings.Builder
	for {
		if ev.pos >= len(ev.src) {
			return "", ev.fail("unterminated string")
		}
		if strings.HasPrefix(ev.src[ev.pos:], delim) {
			ev.pos += len(delim)
			return sb.String(), nil
		}
		c := ev.src[ev.pos]
		if c == '\n' && len(delim) == 1 {
			return "", ev.fail("newline in string")
		}
		if c != '\\' {
			r, size := utf8.DecodeRuneInString(ev.src[ev.pos:])
			sb.WriteRune(r)
			ev.pos += size
			continue
		}
		if raw {
			sb.WriteByte('\\')
			ev.pos++
			if ev.pos < len(ev.src) {
				sb.WriteByte(ev.src[ev.pos])
				ev.pos++
			}
			continue
		}
		if err := ev.escape(&sb); err != nil {
			return "", err
		}
	}
}

func (ev *evaluator) escape(sb *strings.Builder) error {
	ev.pos++
	if ev.pos >= len(ev.src) {
		return ev.fail("unterminated escape")
	}
	c := ev.src[ev.pos]
	ev.pos++
	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case '0':
		sb.WriteByte(0)
	case 'a':
		sb.WriteByte('\a')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '\\', '\'', '"':
		sb.WriteByte(c)
	case '\n':
		// line continuation
	case 'x', 'u', 'U':
		width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[c]
		if ev.pos+width > len(ev.src) {
			return ev.fail("truncated escape")
		}
		code, err := strconv.ParseUint(ev.src[ev.pos:ev.pos+width], 16, 32)
		if err != nil {
			return ev.fail("invalid escape")
		}
		sb.WriteRune(rune(code))
		ev.pos += width
	default:
		sb.WriteByte('\\')
		sb.WriteByte(c)
	}
	return nil
}

func (ev *evaluator) number() (any, error) {
	start := ev.pos
	sign := ""
	for ev.peek() == '-' || ev.peek() == '+' {
		if ev.peek() == '-' {
			if sign == "-" {
				sign = ""
			} else {
				sign = "-"
			}
		}
		ev.pos++
		ev.skipSpace()
	}
	bodyStart := ev.pos
	for ev.pos < len(ev.src) {
		c := ev.src[ev.pos]
		if isIdentPart(c) || c == '.' {
			ev.pos++
			continue
		}
		if (c == '-' || c == '+') && ev.pos > bodyStart && (ev.src[ev.pos-1] == 'e' || ev.src[ev.pos-1] == 'E') && !isRadixLiteral(ev.src[bodyStart:ev.pos]) {
			ev.pos++
			continue
		}
		break
	}
	body := strings.ReplaceAll(ev.src[bodyStart:ev.pos], "_", "")
	if body == "" {
		ev.pos = start
		return nil, ev.fail("malformed number")
	}

	if strings.ContainsAny(body, "jJ") {
		ev.pos = start
		return nil, ev.fail("complex numbers are not supported")
	}
	if isRadixLiteral(body) {
		n, ok := new(big.Int).SetString(sign+body, 0)
		if !ok {
			ev.pos = start
			return nil, ev.fail("malformed number")
		}
		return intValue(n), nil
	}
	if !startsNumeric(body) {
		ev.pos = start
		return nil, ev.fail("malformed number")
	}
	if !strings.ContainsAny(body, ".eE") {
		if len(body) > 1 && body[0] == '0' && strings.Trim(body, "0") != "" {
			ev.pos = start
			return nil, ev.fail("leading zeros in decimal integer literals are not permitted")
		}
		n, ok := new(big.Int).SetString(sign+body, 10)
		if !ok {
			ev.pos = start
			return nil, ev.fail("malformed number")
		}
		return intValue(n), nil
	}
	f, err := strconv.ParseFloat(sign+body, 64)
	if err != nil {
		ev.pos = start
		return nil, ev.fail("malformed number")
	}
	return f, nil
}

// intValue returns n as an int when it fits, as *big.Int otherwise
func intValue(n *big.Int) any {
	if n.IsInt64() {
		if i := n.Int64(); int64(int(i)) == i {
			return int(i)
		}
	}
	return n
}

func isRadixLiteral(s string) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}

func startsNumeric(s string) bool {
	return s[0] == '.' || (s[0] >= '0' && s[0] <= '9')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c|32 >= 'a' && c|32 <= 'z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
