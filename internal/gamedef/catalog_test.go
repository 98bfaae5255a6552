package gamedef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skorat-app/skorat-core/internal/domain"
)

func TestNewLoadsEmbeddedCatalog(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, tc := range []struct {
		typ    domain.GameType
		isTeam bool
		limit  int
	}{
		{domain.Leekha, false, 101},
		{domain.Tarneeb, true, 31},
		{domain.FourHundred, true, 41},
	} {
		d, ok := c.Lookup(tc.typ)
		if !ok {
			t.Fatalf("missing definition for %s", tc.typ)
		}
		if d.IsTeam != tc.isTeam || d.DefaultLimit != tc.limit {
			t.Fatalf("%s = %+v", tc.typ, d)
		}
		if c.DefaultLimit(tc.typ) != tc.limit {
			t.Fatalf("DefaultLimit(%s) = %d", tc.typ, c.DefaultLimit(tc.typ))
		}
	}
}

func TestAllowedLimit(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !c.AllowedLimit(domain.Leekha, 0) {
		t.Fatalf("zero limit should mean default")
	}
	if !c.AllowedLimit(domain.Leekha, 151) {
		t.Fatalf("151 is a leekha preset")
	}
	if c.AllowedLimit(domain.Leekha, 100) {
		t.Fatalf("100 is not a leekha preset")
	}
	if c.AllowedLimit("whist", 0) {
		t.Fatalf("unknown type allowed")
	}
}

func TestNewOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.yaml")
	src := `games:
  - id: tarneeb
    name: Tarneeb
    isTeam: true
    scoreLimits: [41]
    defaultLimit: 41
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	c, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.DefaultLimit(domain.Tarneeb) != 41 {
		t.Fatalf("override not applied")
	}
	if _, ok := c.Lookup(domain.Leekha); ok {
		t.Fatalf("override should replace the embedded set")
	}
}

func TestNewOverrideErrors(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing override")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("games: [{id: '', defaultLimit: 0}]"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New(path); err == nil {
		t.Fatalf("expected error for invalid definition")
	}
}
