package sqlite

import (
	"context"
	"testing"
	"time"

	"planner/internal/apperr"
)

func TestMeetingLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC)

	meeting, err := store.CreateMeeting(ctx, "u1", CreateMeetingParams{
		Title:        "weekly sync",
		Location:     "room 2",
		Participants: []string{"alice", "bob"},
		StartsAt:     start,
		EndsAt:       start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}
	if len(meeting.Participants) != 2 {
		t.Errorf("participants: got %v, want 2", meeting.Participants)
	}

	noPeople, err := store.CreateMeeting(ctx, "u1", CreateMeetingParams{
		Title:    "solo review",
		StartsAt: start.Add(2 * time.Hour),
		EndsAt:   start.Add(3 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}
	if noPeople.Participants == nil || len(noPeople.Participants) != 0 {
		t.Errorf("participants: got %v, want empty list", noPeople.Participants)
	}

	meetings, err := store.ListMeetings(ctx, "u1")
	if err != nil {
		t.Fatalf("ListMeetings failed: %v", err)
	}
	if len(meetings) != 2 || meetings[0].ID != meeting.ID {
		t.Errorf("meetings not ordered by start time")
	}

	if _, err := store.CreateMeeting(ctx, "u1", CreateMeetingParams{
		Title:    "backwards",
		StartsAt: start,
		EndsAt:   start.Add(-time.Minute),
	}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("inverted range: got %v, want validation error", err)
	}

	if err := store.DeleteMeeting(ctx, "u1", meeting.ID); err != nil {
		t.Fatalf("DeleteMeeting failed: %v", err)
	}
	if err := store.DeleteMeeting(ctx, "u1", meeting.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("second delete: got %v, want not found", err)
	}
}
