package dna

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joshuapare/blendkit/internal/container"
)

// Name is one decoded member declaration, e.g. "*next", "co[3]" or "(*hook)()".
type Name struct {
	Raw      string
	Base     string // identifier without pointer, array or call decorations
	Hash     uint32 // hash of Raw
	BaseHash uint32 // hash of Base; equal for "name[24]" and "name[32]"
	Ptr      int
	FuncPtr  bool
	Dims     [MaxArrayRank]int
	Rank     int
	Count    int // product of Dims, 1 when not an array
}

// ErrBadName indicates a declaration the lexer cannot decode.
var ErrBadName = errors.New("dna: malformed member name")

// ParseName decodes a raw member declaration.
func ParseName(raw string) (Name, error) {
	n := Name{Raw: raw, Count: 1, Hash: container.StringHash(raw)}
	var base strings.Builder
	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; c {
		case '(':
			n.FuncPtr = true
		case ')':
		case '*':
			n.Ptr++
		case '[':
			end := strings.IndexByte(raw[i:], ']')
			if end < 0 {
				return Name{}, fmt.Errorf("%q: unterminated array: %w", raw, ErrBadName)
			}
			dim, ok := parseDim(raw[i+1 : i+end])
			if !ok {
				return Name{}, fmt.Errorf("%q: array extent: %w", raw, ErrBadName)
			}
			if n.Rank == MaxArrayRank {
				return Name{}, fmt.Errorf("%q: %w", raw, ErrArrayRank)
			}
			n.Dims[n.Rank] = dim
			n.Rank++
			n.Count *= dim
			i += end
		default:
			base.WriteByte(c)
		}
	}
	n.Base = base.String()
	if n.Base == "" {
		return Name{}, fmt.Errorf("%q: empty identifier: %w", raw, ErrBadName)
	}
	n.BaseHash = container.StringHash(n.Base)
	return n, nil
}

func parseDim(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
		if v > 1<<24 {
			return 0, false
		}
	}
	return v, v > 0
}
