package looter

import (
	"os"
	"strings"
)

// AllowAll is the sentinel allow-list entry meaning "claim
// everything regardless of publisher".
const AllowAll = "all"

type Allowlist struct {
	all   bool
	names map[string]struct{}
}

func NewAllowlist(names []string) Allowlist {
	a := Allowlist{names: map[string]struct{}{}}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if name == AllowAll {
			a.all = true
			continue
		}
		a.names[name] = struct{}{}
	}
	return a
}

// LoadAllowlist reads a newline-separated publishers file.
func LoadAllowlist(path string) (Allowlist, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Allowlist{}, err
	}
	return NewAllowlist(strings.Split(string(raw), "\n")), nil
}

func (a Allowlist) Allows(publisher string) bool {
	if a.all {
		return true
	}
	_, ok := a.names[publisher]
	return ok
}
