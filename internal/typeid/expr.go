package typeid

import (
	"fmt"
	"unicode"
)

// ParseExpr resolves a type expression such as "hash_map<string, vector<i4>>"
// to its identity. Names must be registered; generic bases must receive
// exactly as many arguments as they declare.
func ParseExpr(expr string) (Info, error) {
	p := &exprParser{src: []rune(expr)}
	info, err := p.parseType()
	if err != nil {
		return Info{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Info{}, p.errorf("unexpected %q", string(p.src[p.pos]))
	}
	return info, nil
}

type exprParser struct {
	src []rune
	pos int
}

func (p *exprParser) errorf(format string, args ...any) error {
	return fmt.Errorf("typeid: offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *exprParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		p.pos++
	}
	return string(p.src[start:p.pos])
}

func (p *exprParser) accept(r rune) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == r {
		p.pos++
		return true
	}
	return false
}

func (p *exprParser) parseType() (Info, error) {
	start := p.pos
	name := p.ident()
	if name == "" {
		return Info{}, p.errorf("expected a type name")
	}
	info, arity, ok := Lookup(name)
	if !ok {
		p.pos = start
		p.skipSpace()
		return Info{}, p.errorf("unknown type %q", name)
	}

	if !p.accept('<') {
		if arity > 0 {
			return Info{}, p.errorf("%s needs %d type argument(s)", name, arity)
		}
		return info, nil
	}
	if arity == 0 {
		return Info{}, p.errorf("%s does not take type arguments", name)
	}

	var args []Info
	for {
		arg, err := p.parseType()
		if err != nil {
			return Info{}, err
		}
		args = append(args, arg)
		if p.accept(',') {
			continue
		}
		if p.accept('>') {
			break
		}
		return Info{}, p.errorf("expected ',' or '>'")
	}
	if len(args) != arity {
		return Info{}, p.errorf("%s needs %d type argument(s), got %d", name, arity, len(args))
	}
	return Generic(info, args...), nil
}
