package assets

import (
	"fmt"
	"strings"
)

// parsePHPManifest reads the literal manifest emitted by the webpack
// dependency-extraction plugin:
//
//	<?php return array('dependencies' => array('react', 'wp-i18n'), 'version' => 'a1b2c3');
//
// Only string scalars and array()/[] literals are accepted. Nothing is executed.
func parsePHPManifest(data []byte) (map[string]any, error) {
	p := &phpParser{src: string(data)}

	p.skipSpace()
	p.consumeWord("<?php")
	p.skipSpace()
	if !p.consumeWord("return") {
		return nil, p.errorf("expected 'return'")
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	p.consume(";")
	p.skipSpace()
	p.consumeWord("?>")
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected trailing content")
	}

	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("manifest must return an associative array")
	}
	return m, nil
}

type phpParser struct {
	src string
	pos int
}

func (p *phpParser) errorf(format string, args ...any) error {
	return fmt.Errorf("php manifest offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *phpParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *phpParser) consume(tok string) bool {
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *phpParser) consumeWord(word string) bool {
	if len(p.src)-p.pos < len(word) {
		return false
	}
	if !strings.EqualFold(p.src[p.pos:p.pos+len(word)], word) {
		return false
	}
	end := p.pos + len(word)
	if isIdentByte(word[len(word)-1]) && end < len(p.src) && isIdentByte(p.src[end]) {
		return false
	}
	p.pos = end
	return true
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80
}

// doubleQuotedEscapes are the escapes PHP interprets inside "..." strings.
var doubleQuotedEscapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', 'v': '\v', 'f': '\f', 'e': 0x1b,
	'$': '$', '"': '"', '\\': '\\',
}

func (p *phpParser) parseValue() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of input")
	}

	switch c := p.src[p.pos]; {
	case c == '\'' || c == '"':
		return p.parseString()
	case c == '[':
		p.pos++
		return p.parseArray("]")
	case p.consumeWord("array"):
		p.skipSpace()
		if !p.consume("(") {
			return nil, p.errorf("expected '(' after array")
		}
		return p.parseArray(")")
	default:
		return nil, p.errorf("unsupported value starting with %q", c)
	}
}

// parseArray returns []any for a list literal and map[string]any for a keyed one.
func (p *phpParser) parseArray(closer string) (any, error) {
	var list []any
	var keyed map[string]any

	for {
		p.skipSpace()
		if p.consume(closer) {
			break
		}

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		if p.consume("=>") {
			key, ok := value.(string)
			if !ok {
				return nil, p.errorf("array keys must be strings")
			}
			if list != nil {
				return nil, p.errorf("mixed keyed and positional entries")
			}
			if keyed == nil {
				keyed = make(map[string]any)
			}
			value, err = p.parseValue()
			if err != nil {
				return nil, err
			}
			keyed[key] = value
		} else {
			if keyed != nil {
				return nil, p.errorf("mixed keyed and positional entries")
			}
			list = append(list, value)
		}

		p.skipSpace()
		if p.consume(",") {
			continue
		}
		if p.consume(closer) {
			break
		}
		return nil, p.errorf("expected ',' or '%s'", closer)
	}

	if keyed != nil {
		return keyed, nil
	}
	if list == nil {
		list = []any{}
	}
	return list, nil
}

func (p *phpParser) parseString() (string, error) {
	quote := p.src[p.pos]
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\' && p.pos+1 < len(p.src):
			next := p.src[p.pos+1]
			if quote == '"' {
				if r, ok := doubleQuotedEscapes[next]; ok {
					b.WriteByte(r)
					p.pos += 2
					continue
				}
			} else if next == quote || next == '\\' {
				b.WriteByte(next)
				p.pos += 2
				continue
			}
			b.WriteByte(c)
			p.pos++
		case c == '$' && quote == '"' && p.pos+1 < len(p.src) && (p.src[p.pos+1] == '{' || isIdentByte(p.src[p.pos+1])):
			return "", p.errorf("variable interpolation is not supported")
		default:
			b.WriteByte(c)
			p.pos++
		}
	}

	return "", p.errorf("unterminated string")
}
