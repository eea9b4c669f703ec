package runner

//go:generate go tool stringer --linecomment --type Mode --output mode_string.go

import (
	"log/slog"
	"strings"
)

// Mode selects what happens to an output stream of a spawned process.
type Mode uint8

const (
	ModePipe    Mode = iota // pipe
	ModeIgnore              // ignore
	ModeInherit             // inherit
	modeCount
)

// ParseMode returns the mode named s. The empty string is [ModePipe].
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModePipe, nil
	}

	for m := range modeCount {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}

	return 0, ErrMode.With(slog.String("mode", s))
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}

	*m = v

	return nil
}
