package extraction

import (
	"encoding/hex"
	"strings"
	"unicode/utf16"
)

// TextFromContentStream collects the string operands of Tj, TJ, ' and "
// operators that appear between BT and ET. Each BT/ET block ends a line.
func TextFromContentStream(content []byte) string {
	var (
		sb      strings.Builder
		inText  bool
		pending []string
	)
	lex := &csLexer{data: content}

	for {
		tok, ok := lex.next()
		if !ok {
			break
		}
		switch tok.kind {
		case tokString:
			pending = append(pending, tok.text)
		case tokArray:
			pending = append(pending, strings.Join(tok.parts, ""))
		case tokOperator:
			switch tok.text {
			case "BT":
				inText = true
			case "ET":
				if inText {
					sb.WriteByte('\n')
				}
				inText = false
			case "Tj", "TJ", "'", "\"":
				if inText && len(pending) > 0 {
					if s := pending[len(pending)-1]; s != "" {
						sb.WriteString(s)
						sb.WriteByte(' ')
					}
				}
			}
			pending = pending[:0]
		}
	}
	return collapseSpaces(sb.String())
}

type csTokenKind int

const (
	tokOperand csTokenKind = iota
	tokString
	tokArray
	tokOperator
)

type csToken struct {
	kind  csTokenKind
	text  string
	parts []string
}

type csLexer struct {
	data []byte
	pos  int
}

func isPDFWhitespace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\r' || b == '\t' || b == '\f' || b == 0
}

func isPDFDelimiter(b byte) bool {
	return strings.IndexByte("()<>[]{}/%", b) >= 0
}

func (l *csLexer) next() (csToken, bool) {
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		switch {
		case isPDFWhitespace(b):
			l.pos++
		case b == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		case b == '(':
			return csToken{kind: tokString, text: l.literal()}, true
		case b == '<' && l.pos+1 < len(l.data) && l.data[l.pos+1] == '<':
			l.skipDict()
			return csToken{kind: tokOperand}, true
		case b == '<':
			return csToken{kind: tokString, text: l.hexString()}, true
		case b == '[':
			return csToken{kind: tokArray, parts: l.array()}, true
		case b == '/':
			l.pos++
			l.word()
			return csToken{kind: tokOperand}, true
		case b == ']' || b == '>' || b == ')' || b == '{' || b == '}':
			l.pos++
		default:
			w := l.word()
			if w == "" {
				l.pos++
				continue
			}
			if isNumeric(w) {
				return csToken{kind: tokOperand, text: w}, true
			}
			return csToken{kind: tokOperator, text: w}, true
		}
	}
	return csToken{}, false
}

func (l *csLexer) word() string {
	start := l.pos
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isPDFWhitespace(b) || isPDFDelimiter(b) {
			break
		}
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// literal reads a balanced (...) string starting at '('.
func (l *csLexer) literal() string {
	l.pos++
	depth := 1
	start := l.pos
	for l.pos < len(l.data) {
		switch l.data[l.pos] {
		case '\\':
			l.pos++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				raw := l.data[start:l.pos]
				l.pos++
				return decodePDFString(raw)
			}
		}
		l.pos++
	}
	return decodePDFString(l.data[start:])
}

func (l *csLexer) hexString() string {
	l.pos++
	start := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		l.pos++
	}
	raw := l.data[start:l.pos]
	if l.pos < len(l.data) {
		l.pos++
	}
	return decodeHexString(raw)
}

func (l *csLexer) skipDict() {
	depth := 0
	for l.pos+1 < len(l.data) {
		if l.data[l.pos] == '<' && l.data[l.pos+1] == '<' {
			depth++
			l.pos += 2
			continue
		}
		if l.data[l.pos] == '>' && l.data[l.pos+1] == '>' {
			depth--
			l.pos += 2
			if depth == 0 {
				return
			}
			continue
		}
		l.pos++
	}
	l.pos = len(l.data)
}

// array reads a TJ operand array. Large negative kerning adjustments are
// rendered as a word gap.
func (l *csLexer) array() []string {
	l.pos++
	var parts []string
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		switch {
		case b == ']':
			l.pos++
			return parts
		case isPDFWhitespace(b):
			l.pos++
		case b == '(':
			parts = append(parts, l.literal())
		case b == '<':
			parts = append(parts, l.hexString())
		default:
			w := l.word()
			if w == "" {
				l.pos++
				continue
			}
			if len(w) > 1 && w[0] == '-' && isNumeric(w) && kerningGap(w) {
				parts = append(parts, " ")
			}
		}
	}
	return parts
}

func kerningGap(w string) bool {
	digits := strings.TrimLeft(w, "-")
	if i := strings.IndexByte(digits, '.'); i >= 0 {
		digits = digits[:i]
	}
	return len(digits) >= 3
}

func isNumeric(w string) bool {
	if w == "" {
		return false
	}
	seenDigit := false
	for i := 0; i < len(w); i++ {
		c := w[i]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' || ((c == '-' || c == '+') && i == 0):
		default:
			return false
		}
	}
	return seenDigit
}

// decodePDFString resolves backslash escapes of a literal string body.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case '\n':
		case '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return decodeTextBytes([]byte(sb.String()))
}

func decodeHexString(raw []byte) string {
	clean := make([]byte, 0, len(raw))
	for _, b := range raw {
		if !isPDFWhitespace(b) {
			clean = append(clean, b)
		}
	}
	if len(clean)%2 == 1 {
		clean = append(clean, '0')
	}
	out := make([]byte, hex.DecodedLen(len(clean)))
	n, err := hex.Decode(out, clean)
	if err != nil {
		return ""
	}
	return decodeTextBytes(out[:n])
}

// decodeTextBytes honours a UTF-16BE byte order mark; anything else is taken
// byte-for-byte.
func decodeTextBytes(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		b = b[2:]
		units := make([]uint16, 0, len(b)/2)
		for i := 0; i+1 < len(b); i += 2 {
			units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(units))
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

func collapseSpaces(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
