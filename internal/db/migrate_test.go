package db

import (
	"testing"
	"testing/fstest"

	"shop-backoffice/migrations"
)

func TestDiscover_OrdersAndChecksums(t *testing.T) {
	fsys := fstest.MapFS{
		"002_more.sql":  {Data: []byte("SELECT 2;")},
		"001_init.sql":  {Data: []byte("SELECT 1;")},
		"README.md":     {Data: []byte("ignored")},
		"003_later.sql": {Data: []byte("SELECT 3;")},
	}

	got, err := Discover(fsys)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(got))
	}
	want := []string{"001", "002", "003"}
	for i, m := range got {
		if m.Version != want[i] {
			t.Errorf("migration %d: expected version %s, got %s", i, want[i], m.Version)
		}
		if len(m.Checksum) != 64 {
			t.Errorf("migration %s: expected sha256 hex checksum, got %q", m.Filename, m.Checksum)
		}
	}
}

func TestDiscover_Rejects(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"no underscore", fstest.MapFS{"001.sql": {Data: []byte("x")}}},
		{"duplicate version", fstest.MapFS{
			"001_a.sql": {Data: []byte("x")},
			"001_b.sql": {Data: []byte("y")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Discover(tt.fsys); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestDiscover_EmbeddedSchema(t *testing.T) {
	got, err := Discover(migrations.FS)
	if err != nil {
		t.Fatalf("Discover on embedded FS failed: %v", err)
	}
	if len(got) == 0 || got[0].Filename != "001_init.sql" {
		t.Fatalf("expected 001_init.sql first, got %+v", got)
	}
}
