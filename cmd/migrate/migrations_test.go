package main

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"000001_create_users.up.sql", 1, false},
		{"000042_add_index.up.sql", 42, false},
		{"000001_create_users.down.sql", 0, true},
		{"create_users.up.sql", 0, true},
		{"000000_zero.up.sql", 0, true},
		{"README.md", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseName(tt.name)
			if tt.wantErr {
				if !errors.Is(err, errBadName) {
					t.Fatalf("expected errBadName, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %d want %d", got, tt.want)
			}
		})
	}
}

func TestLoadMigrationsOrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"m/000010_c.up.sql": {Data: []byte("SELECT 10")},
		"m/000002_b.up.sql": {Data: []byte("SELECT 2")},
		"m/000001_a.up.sql": {Data: []byte("SELECT 1")},
	}
	got, err := loadMigrations(fsys, "m")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].version != 1 || got[1].version != 2 || got[2].version != 10 {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[2].sql != "SELECT 10" {
		t.Fatalf("body not loaded: %q", got[2].sql)
	}
}

func TestLoadMigrationsRejectsDuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"m/000001_a.up.sql":     {Data: []byte("SELECT 1")},
		"m/000001_again.up.sql": {Data: []byte("SELECT 1")},
	}
	if _, err := loadMigrations(fsys, "m"); err == nil {
		t.Fatal("expected duplicate version error")
	}
}

func TestPendingSkipsApplied(t *testing.T) {
	all := []migration{{version: 1}, {version: 2}, {version: 3}}
	got := pending(all, map[int]bool{1: true, 3: true})
	if len(got) != 1 || got[0].version != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestEmbeddedMigrationsLoad(t *testing.T) {
	all, err := loadMigrations(migrationFS, "migrations")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) == 0 {
		t.Fatal("no embedded migrations")
	}
	for i, m := range all {
		if m.version != i+1 {
			t.Fatalf("migration %s breaks the version sequence", m.name)
		}
	}
}
