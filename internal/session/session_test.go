package session

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/JonMunkholm/csv2sendy/internal/config"
	"github.com/JonMunkholm/csv2sendy/internal/core"
)

func testEntry(t *testing.T) *Entry {
	t.Helper()
	table, err := core.Normalize("Nome;Email;Telefone;Cidade\nana lima;ana@x.com;11999999999;Recife\n", core.Options{})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	return &Entry{Table: table, FileName: "contatos.csv", Encoding: "utf-8"}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)
	e := testEntry(t)

	id, err := Create(ctx, s, e)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !ValidID(id) {
		t.Errorf("Create() id = %q, want a UUID", id)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.FileName != e.FileName || got.Encoding != e.Encoding {
		t.Errorf("Get() metadata = (%q, %q), want (%q, %q)", got.FileName, got.Encoding, e.FileName, e.Encoding)
	}
	if !reflect.DeepEqual(got.Table.Rows(), e.Table.Rows()) {
		t.Errorf("Get() rows = %v, want %v", got.Table.Rows(), e.Table.Rows())
	}
	if !reflect.DeepEqual(got.Table.Columns(), e.Table.Columns()) {
		t.Errorf("Get() columns = %v, want %v", got.Table.Columns(), e.Table.Columns())
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)
	id, err := Create(ctx, s, testEntry(t))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	first, _ := s.Get(ctx, id)
	first.Table.Records[0].Email = "changed@x.com"

	second, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := second.Table.Records[0].Email; got != "ana@x.com" {
		t.Errorf("stored email = %q, want it unaffected by callers", got)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	if err := s.Put(ctx, "a", testEntry(t)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	now = now.Add(30 * time.Second)
	if err := s.Put(ctx, "b", testEntry(t)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	now = now.Add(45 * time.Second)
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(expired) error = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, "b"); err != nil {
		t.Errorf("Get(live) error = %v", err)
	}

	removed, err := s.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 1 || s.Len() != 1 {
		t.Errorf("Sweep() removed %d, Len() = %d, want 1 and 1", removed, s.Len())
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)
	id, _ := Create(ctx, s, testEntry(t))

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{NewID(), true},
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"6ba7b8109dad11d180b400c04fd430c8", false},
		{"not-a-uuid", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidID(tt.id); got != tt.want {
			t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestDecode_Rejects(t *testing.T) {
	for _, input := range []string{"", "{", `{"fileName":"x.csv"}`} {
		if _, err := decode([]byte(input)); err == nil {
			t.Errorf("decode(%q) error = nil, want error", input)
		}
	}
}

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Backend: "memory", TTL: time.Hour}}

	s, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open() = %T, want *MemoryStore", s)
	}
	if _, ok := s.(Sweeper); !ok {
		t.Error("memory store should implement Sweeper")
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Backend: "s3", TTL: time.Hour}}

	if _, err := Open(context.Background(), cfg); err == nil {
		t.Error("Open() error = nil, want error for unknown backend")
	}
}

func TestRetryConnect(t *testing.T) {
	t.Run("succeeds after transient failure", func(t *testing.T) {
		calls := 0
		err := retryConnect(context.Background(), 10*time.Second, func() error {
			calls++
			if calls < 2 {
				return errors.New("connection refused")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("retryConnect() error = %v", err)
		}
		if calls != 2 {
			t.Errorf("calls = %d, want 2", calls)
		}
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		bad := errors.New("parse database URL")
		err := retryConnect(context.Background(), 10*time.Second, func() error {
			calls++
			return retryPermanent(bad)
		})
		if !errors.Is(err, bad) {
			t.Errorf("retryConnect() error = %v, want %v", err, bad)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := retryConnect(ctx, 10*time.Second, func() error { return nil })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("retryConnect() error = %v, want context.Canceled", err)
		}
	})
}

type countingSweeper struct{ calls chan struct{} }

func (c *countingSweeper) Sweep(context.Context) (int, error) {
	select {
	case c.calls <- struct{}{}:
	default:
	}
	return 1, nil
}

func TestRunSweeper(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sw := &countingSweeper{calls: make(chan struct{}, 4)}

	done := make(chan error, 1)
	go func() { done <- RunSweeper(ctx, sw, 10*time.Millisecond) }()

	select {
	case <-sw.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never ran")
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("RunSweeper() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
