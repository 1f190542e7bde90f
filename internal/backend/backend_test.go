package backend

import (
	"context"
	"testing"

	"moneta/internal/config"
)

func TestTypeIsValid(t *testing.T) {
	for _, typ := range Types() {
		if !typ.IsValid() {
			t.Fatalf("%s should be valid", typ)
		}
	}
	if Type("sheets").IsValid() {
		t.Fatalf("unknown type must be invalid")
	}
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: "/tmp/x.db",
	})
	if err != nil {
		t.Fatalf("from app config: %v", err)
	}
	if cfg.Type != SQLite || cfg.SQLiteDBPath != "/tmp/x.db" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Fatalf("nil app config must fail")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "memory"}); err == nil {
		t.Fatalf("unknown backend must fail")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"jsonfile ok", Config{Type: JSONFile, DataDir: "/tmp/data"}, true},
		{"jsonfile missing dir", Config{Type: JSONFile}, false},
		{"sqlite missing path", Config{Type: SQLite}, false},
		{"postgres missing url", Config{Type: Postgres}, false},
		{"unknown type", Config{Type: "sheets"}, false},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: expected ok, got %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestOpenJSONFile(t *testing.T) {
	res, err := Open(context.Background(), Config{Type: JSONFile, DataDir: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer res.Cleanup()
	if res.Repo == nil {
		t.Fatalf("expected a repository")
	}
}
