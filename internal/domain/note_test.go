package domain

import (
	"testing"
	"time"
)

func TestNewNoteValidation(t *testing.T) {
	now := time.Now().UTC()

	if _, err := NewNote("note-1", "board-1", "  ", "content", 0, 0, "alice", now); err == nil {
		t.Fatalf("expected error for blank title")
	}
	if _, err := NewNote("note-1", "", "title", "content", 0, 0, "alice", now); err == nil {
		t.Fatalf("expected error for missing board id")
	}
	if _, err := NewNote("note-1", "board-1", "title", "content", -1, 5, "alice", now); err == nil {
		t.Fatalf("expected error for negative position")
	}

	note, err := NewNote("note-1", "board-1", "  title  ", "content", 10, 20, "alice", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.Title != "title" {
		t.Fatalf("expected trimmed title, got %q", note.Title)
	}
	if note.Version != 0 {
		t.Fatalf("expected initial version 0, got %d", note.Version)
	}
}

func TestNoteMutationsBumpVersion(t *testing.T) {
	created := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	note, err := NewNote("note-1", "board-1", "title", "content", 10, 20, "alice", created)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	later := created.Add(time.Minute)
	if err := note.UpdateTitle("renamed", "bob", later); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.Version != 1 {
		t.Fatalf("expected version 1 after title update, got %d", note.Version)
	}
	if note.Content != "content" {
		t.Fatalf("title update must not touch content, got %q", note.Content)
	}
	if note.UpdatedBy != "bob" {
		t.Fatalf("expected updated_by bob, got %q", note.UpdatedBy)
	}
	if !note.UpdatedAt.Equal(later) {
		t.Fatalf("expected updated_at %v, got %v", later, note.UpdatedAt)
	}
	if !note.CreatedAt.Equal(created) {
		t.Fatalf("created_at must not change, got %v", note.CreatedAt)
	}

	if err := note.MoveTo(30, 40, "bob", later.Add(time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.Version != 2 {
		t.Fatalf("expected version 2 after move, got %d", note.Version)
	}
	if note.Position.X != 30 || note.Position.Y != 40 {
		t.Fatalf("unexpected position: %+v", note.Position)
	}
}

func TestNoteMoveRejectsNegativeCoordinates(t *testing.T) {
	note, err := NewNote("note-1", "board-1", "title", "content", 10, 20, "alice", time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := note.MoveTo(-5, 10, "alice", time.Now().UTC()); err == nil {
		t.Fatalf("expected error for negative coordinate")
	}
	if note.Version != 0 {
		t.Fatalf("rejected move must not bump version, got %d", note.Version)
	}
	if note.Position.X != 10 || note.Position.Y != 20 {
		t.Fatalf("rejected move must not reposition, got %+v", note.Position)
	}
}

func TestAddCommentDoesNotBumpVersion(t *testing.T) {
	created := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	note, err := NewNote("note-1", "board-1", "title", "content", 10, 20, "alice", created)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	later := created.Add(time.Minute)
	comment, err := NewComment("comment-1", "bob", "looks good", later)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	note.AddComment(comment, later)

	if note.Version != 0 {
		t.Fatalf("comments must not bump version, got %d", note.Version)
	}
	if len(note.Comments) != 1 {
		t.Fatalf("expected one comment, got %d", len(note.Comments))
	}
	if !note.UpdatedAt.Equal(later) {
		t.Fatalf("expected updated_at %v, got %v", later, note.UpdatedAt)
	}
}

func TestNewCommentValidation(t *testing.T) {
	now := time.Now().UTC()
	if _, err := NewComment("comment-1", " ", "text", now); err == nil {
		t.Fatalf("expected error for blank author")
	}
	if _, err := NewComment("comment-1", "alice", "  ", now); err == nil {
		t.Fatalf("expected error for blank text")
	}
}
