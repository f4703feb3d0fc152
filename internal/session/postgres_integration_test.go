//go:build integration

package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/JonMunkholm/csv2sendy/internal/config"
)

func TestPostgresStore_Integration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := ConnectPostgres(ctx, config.DatabaseConfig{URL: url, MaxConns: 2, MinConns: 0})
	if err != nil {
		t.Fatalf("ConnectPostgres() error = %v", err)
	}
	s := NewPostgresStore(pool, time.Hour)
	defer s.Close()

	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	id, err := Create(ctx, s, testEntry(t))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.FileName != "contatos.csv" {
		t.Errorf("Get() FileName = %q, want %q", got.FileName, "contatos.csv")
	}

	if _, err := s.Get(ctx, "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(malformed) error = %v, want ErrNotFound", err)
	}

	expired := NewPostgresStore(pool, -time.Minute)
	oldID, err := Create(ctx, expired, testEntry(t))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := s.Get(ctx, oldID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(expired) error = %v, want ErrNotFound", err)
	}
	removed, err := s.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed < 1 {
		t.Errorf("Sweep() removed %d, want at least 1", removed)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}
