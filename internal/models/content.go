package models

import "time"

// RecordKind discriminates the two record variants shown on the map.
type RecordKind string

const (
	KindPlace RecordKind = "place"
	KindEvent RecordKind = "event"
)

// Place is a persistent, non-time-bounded location record (park, trail, study spot).
type Place struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Vibes       []string  `json:"vibes"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Address     string    `json:"address,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Event is a location record with a start/end window, authored by an approved
// organization. A zero StartTime means the stored value was absent or unparsable.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Vibes       []string  `json:"vibes"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Address     string    `json:"address,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	ImageURL    string    `json:"image_url,omitempty"`
	OrgID       string    `json:"org_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContentRecord is the tagged union rendered in the detail panel. Exactly one of
// Place or Event is set, matching Kind.
type ContentRecord struct {
	Kind  RecordKind `json:"kind"`
	Place *Place     `json:"place,omitempty"`
	Event *Event     `json:"event,omitempty"`
}

// PlaceRecord wraps a place as a ContentRecord.
func PlaceRecord(p Place) ContentRecord {
	return ContentRecord{Kind: KindPlace, Place: &p}
}

// EventRecord wraps an event as a ContentRecord.
func EventRecord(e Event) ContentRecord {
	return ContentRecord{Kind: KindEvent, Event: &e}
}

// ID returns the identifier of the underlying record.
func (r ContentRecord) ID() string {
	switch r.Kind {
	case KindPlace:
		if r.Place != nil {
			return r.Place.ID
		}
	case KindEvent:
		if r.Event != nil {
			return r.Event.ID
		}
	}
	return ""
}

// Coordinates returns the record's position, or ok=false when the record is empty.
func (r ContentRecord) Coordinates() (lat, lng float64, ok bool) {
	switch r.Kind {
	case KindPlace:
		if r.Place != nil {
			return r.Place.Lat, r.Place.Lng, true
		}
	case KindEvent:
		if r.Event != nil {
			return r.Event.Lat, r.Event.Lng, true
		}
	}
	return 0, 0, false
}

// Title returns the display title of the underlying record.
func (r ContentRecord) Title() string {
	switch r.Kind {
	case KindPlace:
		if r.Place != nil {
			return r.Place.Title
		}
	case KindEvent:
		if r.Event != nil {
			return r.Event.Title
		}
	}
	return ""
}
