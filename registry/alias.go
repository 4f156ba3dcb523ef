package registry

import (
	"fmt"
	"strings"

	"github.com/xy-planning-network/golink"
)

// ReservedPrefix begins every path golink serves itself.
const ReservedPrefix = "_golink"

// NormalizeAlias trims spaces and leading slashes from alias and lower-cases it.
//
// An alias that is empty or holds a space after normalizing
// or begins with [ReservedPrefix] is not valid.
func NormalizeAlias(alias string) (string, error) {
	alias = strings.ToLower(strings.TrimLeft(strings.TrimSpace(alias), "/"))
	switch {
	case alias == "":
		return "", fmt.Errorf("%w: alias is empty", golink.ErrNotValid)
	case strings.ContainsAny(alias, " \t\n"):
		return "", fmt.Errorf("%w: alias %q holds a space", golink.ErrNotValid, alias)
	case strings.HasPrefix(alias, ReservedPrefix):
		return "", fmt.Errorf("%w: alias %q is reserved", golink.ErrNotValid, alias)
	}

	return alias, nil
}
