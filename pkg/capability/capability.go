// Package capability implements the runtime feature gate. The
// capability set is resolved exactly once at startup from config and
// passed explicitly to every component; an operation on a disabled
// capability fails immediately instead of degrading silently.
package capability

import (
	"fmt"
	"strings"

	"github.com/gnames/botdb/pkg/errcode"
	"github.com/gnames/gn"
)

// Capability names one gated feature area.
type Capability string

const (
	Taxonomy     Capability = "taxonomy"
	Migrations   Capability = "migrations"
	Conservation Capability = "conservation"
	DarwinCore   Capability = "darwin-core"
)

var known = map[Capability]struct{}{
	Taxonomy:     {},
	Migrations:   {},
	Conservation: {},
	DarwinCore:   {},
}

// Gate is an immutable resolved capability set.
type Gate struct {
	set map[Capability]struct{}
}

// New resolves a capability set from config strings. Unknown names
// are a configuration error surfaced immediately, not ignored.
func New(caps []string) (*Gate, error) {
	set := make(map[Capability]struct{}, len(caps))
	for _, s := range caps {
		c := Capability(strings.ToLower(strings.TrimSpace(s)))
		if _, ok := known[c]; !ok {
			return nil, unknownCapabilityError(s)
		}
		set[c] = struct{}{}
	}
	return &Gate{set: set}, nil
}

// Default returns the minimal capability set: taxonomy and
// migrations only.
func Default() *Gate {
	return &Gate{set: map[Capability]struct{}{
		Taxonomy:   {},
		Migrations: {},
	}}
}

// Enabled reports whether c is in the resolved set.
func (g *Gate) Enabled(c Capability) bool {
	_, ok := g.set[c]
	return ok
}

// Require returns nil when c is enabled, or a CapabilityDisabled
// error otherwise. Components call it before doing any work.
func (g *Gate) Require(c Capability) error {
	if g.Enabled(c) {
		return nil
	}
	return disabledError(c)
}

// List returns the enabled capabilities in stable order.
func (g *Gate) List() []Capability {
	order := []Capability{Taxonomy, Migrations, Conservation, DarwinCore}
	var res []Capability
	for _, c := range order {
		if g.Enabled(c) {
			res = append(res, c)
		}
	}
	return res
}

func unknownCapabilityError(name string) error {
	msg := `Unknown capability in configuration

<em>Capability:</em> %s

<em>How to fix:</em>
  1. Use one of: taxonomy, migrations, conservation, darwin-core
  2. Check the capabilities list in botdb.yaml`

	return &gn.Error{
		Code: errcode.CapabilityUnknownError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("unknown capability %q", name),
	}
}

func disabledError(c Capability) error {
	msg := `Operation requires a disabled capability

<em>Capability:</em> %s

<em>How to fix:</em>
  1. Add "%s" to the capabilities list in botdb.yaml
  2. Restart the application`

	return &gn.Error{
		Code: errcode.CapabilityDisabledError,
		Msg:  msg,
		Vars: []any{string(c), string(c)},
		Err:  fmt.Errorf("capability %q is disabled", c),
	}
}
