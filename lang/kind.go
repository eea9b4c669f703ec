package lang

//go:generate go tool stringer --linecomment --type Kind,Container,Shrink --output kind_string.go

import (
	"log/slog"
	"strings"
)

// Kind is the semantic classification of a value.
type Kind uint8

const (
	KindString           Kind = iota // string
	KindBoolean                      // boolean
	KindBigInt                       // bigint
	KindNumber                       // number
	KindNaN                          // nan
	KindNegativeInfinity             // negative_infinity
	KindPositiveInfinity             // positive_infinity
	KindNull                         // null
	KindRepr                         // repr
	KindUndefined                    // undefined
	KindIterable                     // iterable
	KindInvalidDate                  // invalid_date
	KindDate                         // date
	KindObject                       // object
	KindCustom                       // custom
	KindFunction                     // function
	KindSymbol                       // symbol
	kindCount
)

// ParseKind returns the kind named s.
func ParseKind(s string) (Kind, error) {
	for k := range kindCount {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}

	return 0, ErrUnknownName.With(slog.String("kind", s))
}

// Container is a structural context a value can be placed in.
type Container uint8

const (
	ContainerIterable Container = iota // iterable
	ContainerObject                    // object
	ContainerRoot                      // root
	ContainerHead                      // head
	ContainerDeclare                   // declare
	ContainerBody                      // body
	ContainerFoot                      // foot
	containerCount
)

// ParseContainer returns the container named s.
func ParseContainer(s string) (Container, error) {
	for c := range containerCount {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}

	return 0, ErrUnknownName.With(slog.String("container", s))
}

// Shrink is the policy deciding whether big integers are represented as
// plain numbers.
type Shrink uint8

const (
	ShrinkSmall Shrink = iota // small
	ShrinkNone                // none
	ShrinkAll                 // all
)

// DefaultShrink is used when a definition leaves the policy empty.
const DefaultShrink = ShrinkSmall

// ParseShrink parses a shrink policy token. The tokens "true" and "false"
// are accepted as aliases of all and none, and the empty string selects
// [DefaultShrink].
func ParseShrink(s string) (Shrink, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultShrink, nil
	case "small":
		return ShrinkSmall, nil
	case "none", "false":
		return ShrinkNone, nil
	case "all", "true":
		return ShrinkAll, nil
	default:
		return 0, ErrShrinkPolicy.With(slog.String("policy", s))
	}
}
