package history

import (
	"errors"
	"testing"
	"time"

	"github.com/Brandand88/mirror/internal/catalog"
	"github.com/Brandand88/mirror/internal/player"
	"github.com/Brandand88/mirror/internal/session"
	"github.com/Brandand88/mirror/internal/shared"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := NewStore(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return store
}

func TestStore(t *testing.T) {
	t.Run("append fills id and timestamp", func(t *testing.T) {
		store := newTestStore(t)

		if err := store.Append(Record{Kind: "playback_changed", Detail: "play", PositionMS: 1500}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		records, err := store.List(10)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("len(records) = %d, want 1", len(records))
		}
		rec := records[0]
		if rec.ID == "" {
			t.Error("expected a generated ID")
		}
		if rec.CreatedAt.IsZero() {
			t.Error("expected a fill-in timestamp")
		}
		if rec.Kind != "playback_changed" || rec.Detail != "play" || rec.PositionMS != 1500 {
			t.Errorf("record = %+v", rec)
		}
	})

	t.Run("append requires a kind", func(t *testing.T) {
		store := newTestStore(t)

		err := store.Append(Record{Detail: "no kind"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("error = %v, want wrapped %v", err, shared.ErrInvalidInput)
		}
	})

	t.Run("list returns newest first", func(t *testing.T) {
		store := newTestStore(t)
		base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		for i, kind := range []string{"session_reset", "playback_changed", "track_identified"} {
			err := store.Append(Record{
				ID:        shared.GenerateID(),
				Kind:      kind,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			})
			if err != nil {
				t.Fatalf("Append() error = %v", err)
			}
		}

		records, err := store.List(10)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("len(records) = %d, want 3", len(records))
		}
		want := []string{"track_identified", "playback_changed", "session_reset"}
		for i := range want {
			if records[i].Kind != want[i] {
				t.Errorf("records[%d].Kind = %q, want %q", i, records[i].Kind, want[i])
			}
		}
	})

	t.Run("list honors the limit", func(t *testing.T) {
		store := newTestStore(t)
		for i := 0; i < 5; i++ {
			if err := store.Append(Record{Kind: "playback_changed"}); err != nil {
				t.Fatalf("Append() error = %v", err)
			}
		}

		records, err := store.List(2)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(records) != 2 {
			t.Errorf("len(records) = %d, want 2", len(records))
		}
	})
}

func TestSink(t *testing.T) {
	t.Run("maps playback events", func(t *testing.T) {
		store := newTestStore(t)
		sink := NewSink(store, nil)

		sink.Publish(session.PlaybackChanged{PositionMS: 2500, Type: player.EventPause})

		records, err := store.List(1)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("len(records) = %d, want 1", len(records))
		}
		rec := records[0]
		if rec.Kind != "playback_changed" || rec.Detail != "pause" || rec.PositionMS != 2500 {
			t.Errorf("record = %+v", rec)
		}
	})

	t.Run("maps track identifications", func(t *testing.T) {
		store := newTestStore(t)
		sink := NewSink(store, nil)

		sink.Publish(session.TrackIdentified{Track: catalog.Track{
			Title:  "Song",
			Artist: "Artist",
			URI:    "spotify:track:xyz",
		}})

		records, err := store.List(1)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if records[0].Detail != "Artist - Song (spotify:track:xyz)" {
			t.Errorf("detail = %q", records[0].Detail)
		}
	})

	t.Run("maps session resets", func(t *testing.T) {
		store := newTestStore(t)
		sink := NewSink(store, nil)

		sink.Publish(session.SessionReset{})

		records, err := store.List(1)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if records[0].Kind != "session_reset" {
			t.Errorf("kind = %q, want %q", records[0].Kind, "session_reset")
		}
	})
}
