package profile

import (
	"slices"
	"testing"
)

func TestStart_Disabled(t *testing.T) {
	dir := t.TempDir()

	for _, mode := range []string{"", "bogus"} {
		p := Start(mode, dir)
		if _, ok := p.(ignore); !ok {
			t.Errorf("Start(%q) = %T, want no-op", mode, p)
		}

		p.Stop()
	}
}

func TestModes(t *testing.T) {
	modes := Modes()
	if !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v, not sorted", modes)
	}

	if slices.Contains(modes, "") {
		t.Errorf("Modes() = %v, contains empty mode", modes)
	}
}
