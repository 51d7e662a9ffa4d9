package sqlite

import (
	"context"
	"testing"
	"time"

	"planner/internal/apperr"
)

func TestScheduleLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	todo := mustCreateTodo(t, store, "u1", CreateTodoParams{Title: "prepare talk"})
	sch, err := store.CreateSchedule(ctx, "u1", CreateScheduleParams{
		Title:    "morning block",
		TodoID:   &todo.ID,
		StartsAt: start,
		EndsAt:   start.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}
	if sch.TodoID == nil || *sch.TodoID != todo.ID {
		t.Errorf("TodoID: got %v, want %s", sch.TodoID, todo.ID)
	}

	later, err := store.CreateSchedule(ctx, "u1", CreateScheduleParams{
		Title:    "evening block",
		StartsAt: start.Add(8 * time.Hour),
		EndsAt:   start.Add(9 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateSchedule failed: %v", err)
	}

	schedules, err := store.ListSchedules(ctx, "u1")
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if len(schedules) != 2 || schedules[0].ID != sch.ID || schedules[1].ID != later.ID {
		t.Errorf("schedules not ordered by start time")
	}

	if err := store.DeleteSchedule(ctx, "u1", sch.ID); err != nil {
		t.Fatalf("DeleteSchedule failed: %v", err)
	}
	if err := store.DeleteSchedule(ctx, "u1", sch.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("second delete: got %v, want not found", err)
	}
}

func TestCreateScheduleValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		params CreateScheduleParams
		kind   apperr.Kind
	}{
		{"blank title", CreateScheduleParams{StartsAt: start, EndsAt: start.Add(time.Hour)}, apperr.KindValidation},
		{"missing times", CreateScheduleParams{Title: "x"}, apperr.KindValidation},
		{"inverted range", CreateScheduleParams{Title: "x", StartsAt: start, EndsAt: start.Add(-time.Hour)}, apperr.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.CreateSchedule(ctx, "u1", tc.params); !apperr.IsKind(err, tc.kind) {
				t.Errorf("got %v, want kind %d", err, tc.kind)
			}
		})
	}

	missing := "nope"
	_, err := store.CreateSchedule(ctx, "u1", CreateScheduleParams{
		Title:    "linked",
		TodoID:   &missing,
		StartsAt: start,
		EndsAt:   start.Add(time.Hour),
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("missing todo link: got %v, want not found", err)
	}
}
