package gamedef

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/skorat-app/skorat-core/internal/domain"
)

//go:embed games.yaml
var defaultFiles embed.FS

// Definition describes one supported game: its team default and which
// score limits a new match may be configured with.
type Definition struct {
	ID           domain.GameType `yaml:"id"`
	Name         string          `yaml:"name"`
	IsTeam       bool            `yaml:"isTeam"`
	ScoreLimits  []int           `yaml:"scoreLimits"`
	DefaultLimit int             `yaml:"defaultLimit"`
}

// Catalog holds the loaded game definitions keyed by game type.
type Catalog struct {
	defs map[domain.GameType]Definition
}

// New loads the embedded default catalog, optionally overridden by a YAML
// file on disk (same shape).
func New(overridePath string) (*Catalog, error) {
	raw, err := fs.ReadFile(defaultFiles, "games.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded game catalog: %w", err)
	}
	if strings.TrimSpace(overridePath) != "" {
		b, rerr := os.ReadFile(overridePath)
		if rerr != nil {
			return nil, fmt.Errorf("read game catalog override: %w", rerr)
		}
		raw = b
	}

	var doc struct {
		Games []Definition `yaml:"games"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse game catalog: %w", err)
	}
	if len(doc.Games) == 0 {
		return nil, fmt.Errorf("game catalog is empty")
	}

	c := &Catalog{defs: make(map[domain.GameType]Definition, len(doc.Games))}
	for _, d := range doc.Games {
		if d.ID == "" || d.DefaultLimit <= 0 {
			return nil, fmt.Errorf("invalid game definition %q", d.ID)
		}
		c.defs[d.ID] = d
	}
	return c, nil
}

// Lookup returns the definition for a game type.
func (c *Catalog) Lookup(t domain.GameType) (Definition, bool) {
	d, ok := c.defs[t]
	return d, ok
}

// DefaultLimit returns the default score limit for a game type, or 0 when
// the type is unknown.
func (c *Catalog) DefaultLimit(t domain.GameType) int {
	if d, ok := c.defs[t]; ok {
		return d.DefaultLimit
	}
	return 0
}

// AllowedLimit reports whether a configured score limit is one of the
// presets for the game type. A zero limit means "use the default".
func (c *Catalog) AllowedLimit(t domain.GameType, limit int) bool {
	d, ok := c.defs[t]
	if !ok {
		return false
	}
	if limit == 0 {
		return true
	}
	for _, l := range d.ScoreLimits {
		if l == limit {
			return true
		}
	}
	return false
}
