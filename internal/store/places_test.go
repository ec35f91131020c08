package store

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"branchout/internal/models"
)

func TestNormalizeVibes(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want []string
	}{
		{
			name: "json array",
			raw:  []byte(`["Calming","Shady"]`),
			want: []string{"Calming", "Shady"},
		},
		{
			name: "encoded array string",
			raw:  []byte(`"[\"Calming\",\"Shady\"]"`),
			want: []string{"Calming", "Shady"},
		},
		{
			name: "absent",
			raw:  nil,
			want: []string{},
		},
		{
			name: "json null",
			raw:  []byte(`null`),
			want: []string{},
		},
		{
			name: "malformed",
			raw:  []byte(`{not json`),
			want: []string{},
		},
		{
			name: "string that is not an array",
			raw:  []byte(`"Calming"`),
			want: []string{},
		},
		{
			name: "duplicates tolerated",
			raw:  []byte(`["Lively","Lively"]`),
			want: []string{"Lively", "Lively"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeVibes(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("normalizeVibes(%s) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestListPlacesNormalizesVibes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "title", "category", "description", "vibes", "lat", "lng", "address", "image_url", "created_at",
	}).
		AddRow("p1", "Crescent Park", "Park", "", []byte(`["Calming"]`), 29.96, -90.03, "", "", now).
		AddRow("p2", "Audubon Trail", "Trail", "", []byte(`"[\"Shady\"]"`), 29.93, -90.12, "", "", now).
		AddRow("p3", "Bayou Study Spot", "", "", nil, 29.95, -90.07, "", "", now)

	mock.ExpectQuery("SELECT id, title, category, description, vibes, lat, lng, address, image_url, created_at").
		WillReturnRows(rows)

	places, err := s.ListPlaces(context.Background())
	if err != nil {
		t.Fatalf("ListPlaces error: %v", err)
	}

	if len(places) != 3 {
		t.Fatalf("expected 3 places, got %d", len(places))
	}

	want := [][]string{{"Calming"}, {"Shady"}, {}}
	for i, p := range places {
		if !reflect.DeepEqual(p.Vibes, want[i]) {
			t.Errorf("place %d vibes = %v, want %v", i, p.Vibes, want[i])
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePlaceAssignsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO places").
		WithArgs("City Park", "Park", "Oaks and lagoons", []byte(`["Photogenic"]`),
			29.99, -90.09, "1 Palm Dr, New Orleans", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("p9", now))

	place := &models.Place{
		Title:       "City Park",
		Category:    "Park",
		Description: "Oaks and lagoons",
		Vibes:       []string{"Photogenic"},
		Lat:         29.99,
		Lng:         -90.09,
		Address:     "1 Palm Dr, New Orleans",
	}

	if err := s.CreatePlace(context.Background(), place); err != nil {
		t.Fatalf("CreatePlace error: %v", err)
	}

	if place.ID != "p9" {
		t.Fatalf("expected store-assigned ID p9, got %q", place.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
