package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"branchout/internal/models"
)

func TestListEventsAbsentStartTime(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	now := time.Now()
	start := now.Add(2 * time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "title", "category", "description", "vibes", "lat", "lng", "address",
		"start_time", "end_time", "image_url", "org_id", "created_at",
	}).
		AddRow("e1", "Tree Planting", "Volunteer", "", []byte(`["Lively"]`), 29.95, -90.07, "",
			start, start.Add(time.Hour), "", "org-1", now).
		AddRow("e2", "Bayou Cleanup", "", "", nil, 29.91, -90.05, "",
			nil, nil, "", "org-1", now)

	mock.ExpectQuery("SELECT id, title, category, description, vibes, lat, lng, address,").
		WillReturnRows(rows)

	events, err := s.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	if !events[0].StartTime.Equal(start) {
		t.Errorf("event 0 start = %v, want %v", events[0].StartTime, start)
	}
	if !events[1].StartTime.IsZero() {
		t.Errorf("event 1 start = %v, want zero time", events[1].StartTime)
	}
	if len(events[1].Vibes) != 0 {
		t.Errorf("event 1 vibes = %v, want empty list", events[1].Vibes)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateEventAssignsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	now := time.Now()
	start := now.Add(24 * time.Hour)
	end := start.Add(2 * time.Hour)

	mock.ExpectQuery("INSERT INTO events").
		WithArgs("Garden Tour", "Tour", "", []byte(`[]`), 29.95, -90.07, "City Greenhouse",
			sqlmock.AnyArg(), sqlmock.AnyArg(), "", "org-7").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("e9", now))

	event := &models.Event{
		Title:     "Garden Tour",
		Category:  "Tour",
		Lat:       29.95,
		Lng:       -90.07,
		Address:   "City Greenhouse",
		StartTime: start,
		EndTime:   end,
		OrgID:     "org-7",
	}

	if err := s.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("CreateEvent error: %v", err)
	}

	if event.ID != "e9" {
		t.Fatalf("expected store-assigned ID e9, got %q", event.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
