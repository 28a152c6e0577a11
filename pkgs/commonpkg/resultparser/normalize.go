package resultparser

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

////////////////////////////////////////////////////////////////////////////////

const GRAMMAR_VERSION = "gtv-text/1"

var ErrMalformed = errors.New("malformed " + GRAMMAR_VERSION + " output")

////////////////////////////////////////////////////////////////////////////////

type scanner struct {
	src []byte
	pos int
	out bytes.Buffer
}

// Normalize converts one gtv-text document into canonical JSON.
func Normalize(src []byte) ([]byte, error) {
	s := &scanner{src: src}
	s.skipSpace()
	if err := s.value(); err != nil {
		return nil, err
	}
	s.skipSpace()
	if s.pos != len(s.src) {
		return nil, s.errorf("unexpected trailing input")
	}
	if !gjson.ValidBytes(s.out.Bytes()) {
		return nil, fmt.Errorf("%w: invalid literal", ErrMalformed)
	}
	return s.out.Bytes(), nil
}

////////////////////////////////////////////////////////////////////////////////

func (s *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrMalformed, fmt.Sprintf(format, args...), s.pos)
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) peek() (byte, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos], true
}

func (s *scanner) value() error {
	c, ok := s.peek()
	if !ok {
		return s.errorf("unexpected end of input")
	}

	switch {
	case c == '[':
		return s.bracket()
	case c == '{':
		return s.object()
	case c == '"':
		lit, err := s.stringLiteral()
		if err != nil {
			return err
		}
		s.out.Write(lit)
		return nil
	case c == 'x' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '"':
		s.pos++
		lit, err := s.stringLiteral()
		if err != nil {
			return err
		}
		s.out.Write(lit)
		return nil
	case c == '-' || (c >= '0' && c <= '9'):
		return s.number()
	default:
		for _, word := range []string{"true", "false", "null"} {
			if bytes.HasPrefix(s.src[s.pos:], []byte(word)) {
				s.pos += len(word)
				s.out.WriteString(word)
				return nil
			}
		}
		return s.errorf("unexpected character %q", c)
	}
}

// bracket handles "[": an empty array, an empty dict "[:]", a dict whose
// first element is a keyed string, or a plain array.
func (s *scanner) bracket() error {
	s.pos++
	s.skipSpace()

	c, ok := s.peek()
	if !ok {
		return s.errorf("unterminated bracket")
	}
	if c == ']' {
		s.pos++
		s.out.WriteString("[]")
		return nil
	}
	if c == ':' {
		s.pos++
		s.skipSpace()
		if c, ok := s.peek(); !ok || c != ']' {
			return s.errorf("expected ] after empty dict marker")
		}
		s.pos++
		s.out.WriteString("{}")
		return nil
	}

	if c == '"' {
		lit, err := s.stringLiteral()
		if err != nil {
			return err
		}
		s.skipSpace()
		if c, ok := s.peek(); ok && c == ':' {
			s.out.WriteByte('{')
			s.out.Write(lit)
			return s.entriesAfterKey(']', '}')
		}
		s.out.WriteByte('[')
		s.out.Write(lit)
		return s.elementsAfterFirst()
	}

	s.out.WriteByte('[')
	if err := s.value(); err != nil {
		return err
	}
	return s.elementsAfterFirst()
}

// elementsAfterFirst finishes an array whose first element is already written.
func (s *scanner) elementsAfterFirst() error {
	for {
		s.skipSpace()
		c, ok := s.peek()
		if !ok {
			return s.errorf("unterminated array")
		}
		switch c {
		case ']':
			s.pos++
			s.out.WriteByte(']')
			return nil
		case ',':
			s.pos++
			s.skipSpace()
			if c, ok := s.peek(); ok && c == ']' {
				continue
			}
			s.out.WriteByte(',')
			if err := s.value(); err != nil {
				return err
			}
		default:
			return s.errorf("expected , or ] in array")
		}
	}
}

// object handles a JSON style "{...}" dict.
func (s *scanner) object() error {
	s.pos++
	s.skipSpace()
	if c, ok := s.peek(); ok && c == '}' {
		s.pos++
		s.out.WriteString("{}")
		return nil
	}

	lit, err := s.stringLiteral()
	if err != nil {
		return err
	}
	s.skipSpace()
	s.out.WriteByte('{')
	s.out.Write(lit)
	return s.entriesAfterKey('}', '}')
}

// entriesAfterKey finishes a dict whose first key is already written; the
// scanner sits on the ':' following it.
func (s *scanner) entriesAfterKey(closer, emit byte) error {
	for {
		s.skipSpace()
		if c, ok := s.peek(); !ok || c != ':' {
			return s.errorf("expected : after dict key")
		}
		s.pos++
		s.out.WriteByte(':')
		s.skipSpace()
		if err := s.value(); err != nil {
			return err
		}

		s.skipSpace()
		c, ok := s.peek()
		if !ok {
			return s.errorf("unterminated dict")
		}
		if c == closer {
			s.pos++
			s.out.WriteByte(emit)
			return nil
		}
		if c != ',' {
			return s.errorf("expected , or %c in dict", closer)
		}
		s.pos++
		s.skipSpace()
		if c, ok := s.peek(); ok && c == closer {
			s.pos++
			s.out.WriteByte(emit)
			return nil
		}

		lit, err := s.stringLiteral()
		if err != nil {
			return err
		}
		s.out.WriteByte(',')
		s.out.Write(lit)
	}
}

// stringLiteral returns the raw quoted literal, escapes untouched.
func (s *scanner) stringLiteral() ([]byte, error) {
	if c, ok := s.peek(); !ok || c != '"' {
		return nil, s.errorf("expected string")
	}
	start := s.pos
	s.pos++
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
		case '"':
			s.pos++
			return s.src[start:s.pos], nil
		case '\n':
			return nil, s.errorf("newline in string")
		default:
			s.pos++
		}
	}
	return nil, s.errorf("unterminated string")
}

func (s *scanner) number() error {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' {
			s.pos++
			continue
		}
		break
	}
	s.out.Write(s.src[start:s.pos])
	return nil
}
