package knowledge

import (
	"fmt"
	"strings"
)

// ParseList decodes a serialised list of strings such as
// "['Antifungal Cream', \"Fluconazole\"]". Only quoted string items are
// accepted; anything else is an error.
func ParseList(s string) ([]string, error) {
	p := listParser{src: strings.TrimSpace(s)}
	return p.parse()
}

type listParser struct {
	src string
	pos int
}

func (p *listParser) parse() ([]string, error) {
	if !p.consume('[') {
		return nil, p.errorf("expected '['")
	}
	items := []string{}
	p.skipSpace()
	if p.consume(']') {
		return items, p.end()
	}
	for {
		p.skipSpace()
		item, err := p.quoted()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipSpace()
		if p.consume(']') {
			return items, p.end()
		}
		if !p.consume(',') {
			return nil, p.errorf("expected ',' or ']'")
		}
		p.skipSpace()
		// trailing comma
		if p.consume(']') {
			return items, p.end()
		}
	}
}

func (p *listParser) quoted() (string, error) {
	if p.pos >= len(p.src) {
		return "", p.errorf("unexpected end of input")
	}
	quote := p.src[p.pos]
	if quote != '\'' && quote != '"' {
		return "", p.errorf("expected quoted string")
	}
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.src):
			b.WriteByte(p.src[p.pos+1])
			p.pos += 2
		case c == quote:
			p.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *listParser) end() error {
	p.skipSpace()
	if p.pos != len(p.src) {
		return p.errorf("trailing characters")
	}
	return nil
}

func (p *listParser) consume(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *listParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

func (p *listParser) errorf(msg string) error {
	return fmt.Errorf("list literal at offset %d: %s", p.pos, msg)
}
