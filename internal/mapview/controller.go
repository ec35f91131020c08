package mapview

import (
	"context"
	"errors"
	"sync"
	"time"

	"branchout/internal/geocode"
	"branchout/internal/models"
)

// ErrStaleLocation is returned when a location request resolves after the
// controller has moved on: a newer request started, or the controller closed.
var ErrStaleLocation = errors.New("mapview: location request superseded")

// Loader fetches the content the map renders.
type Loader interface {
	LoadPlaces(ctx context.Context) []models.Place
	LoadEvents(ctx context.Context) []models.Event
}

// Filters is the full visibility state of the map.
type Filters struct {
	ShowPlaces bool
	ShowEvents bool
	Window     Window
}

// Controller owns map state: loaded content, layer filters, the current
// selection, and the device location. All methods are safe for concurrent
// use. Subscribers are notified after every state change, outside the lock.
type Controller struct {
	loader Loader

	mu       sync.Mutex
	places   []models.Place
	events   []models.Event
	filters  Filters
	selected *models.ContentRecord
	location *geocode.Location
	locSeq   uint64
	closed   bool

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewController returns a controller with both layers on and no window filter.
func NewController(loader Loader) *Controller {
	return &Controller{
		loader:  loader,
		filters: Filters{ShowPlaces: true, ShowEvents: true, Window: WindowAll},
		subs:    make(map[int]func()),
	}
}

// Subscribe registers a callback invoked after every state change. The
// returned function removes the subscription.
func (c *Controller) Subscribe(fn func()) func() {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

func (c *Controller) notify() {
	c.subMu.Lock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Refresh reloads places and events through the loader.
func (c *Controller) Refresh(ctx context.Context) {
	places := c.loader.LoadPlaces(ctx)
	events := c.loader.LoadEvents(ctx)

	c.mu.Lock()
	c.places = places
	c.events = events
	c.mu.Unlock()

	c.notify()
}

// SetFilters replaces the visibility state.
func (c *Controller) SetFilters(f Filters) {
	c.mu.Lock()
	c.filters = f
	c.mu.Unlock()

	c.notify()
}

// Filters returns the current visibility state.
func (c *Controller) Filters() Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// Visible applies the current filters to the loaded content, evaluating
// event windows against now.
func (c *Controller) Visible(now time.Time) ([]models.Place, []models.Event) {
	c.mu.Lock()
	places := c.places
	events := c.events
	f := c.filters
	c.mu.Unlock()

	visiblePlaces := VisiblePlaces(places, f.ShowPlaces)
	if !f.ShowEvents {
		return visiblePlaces, []models.Event{}
	}
	return visiblePlaces, VisibleEvents(events, f.Window, now)
}

// Select marks the record with the given kind and ID as selected. Selecting
// a second record replaces the first; at most one record is ever selected.
// An unknown ID leaves the selection unchanged.
func (c *Controller) Select(kind models.RecordKind, id string) {
	c.mu.Lock()
	var rec *models.ContentRecord
	switch kind {
	case models.KindPlace:
		for i := range c.places {
			if c.places[i].ID == id {
				r := models.PlaceRecord(c.places[i])
				rec = &r
				break
			}
		}
	case models.KindEvent:
		for i := range c.events {
			if c.events[i].ID == id {
				r := models.EventRecord(c.events[i])
				rec = &r
				break
			}
		}
	}
	if rec == nil {
		c.mu.Unlock()
		return
	}
	c.selected = rec
	c.mu.Unlock()

	c.notify()
}

// ClearSelection drops the current selection. When nothing is selected it is
// a no-op and subscribers are not notified.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	if c.selected == nil {
		c.mu.Unlock()
		return
	}
	c.selected = nil
	c.mu.Unlock()

	c.notify()
}

// Selected returns the selected record, or nil.
func (c *Controller) Selected() *models.ContentRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Directions builds a navigation URL for the selected record's coordinates.
func (c *Controller) Directions(userAgent string) (string, bool) {
	c.mu.Lock()
	sel := c.selected
	c.mu.Unlock()

	if sel == nil {
		return "", false
	}
	lat, lng, ok := sel.Coordinates()
	if !ok {
		return "", false
	}
	return DirectionsURL(&lat, &lng, userAgent)
}

// Location returns the last resolved device location, or nil.
func (c *Controller) Location() *geocode.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.location
}

// RequestLocation resolves the device position and reverse-geocodes it. Only
// the most recent request may commit its result: if another request starts,
// or the controller closes, before this one resolves, the result is discarded
// and ErrStaleLocation is returned. Locator errors pass through unchanged.
func (c *Controller) RequestLocation(ctx context.Context, locator geocode.Locator, reverser geocode.Reverser) (geocode.Location, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return geocode.Location{}, ErrStaleLocation
	}
	c.locSeq++
	seq := c.locSeq
	c.mu.Unlock()

	loc, err := geocode.Locate(ctx, locator, reverser)
	if err != nil {
		return geocode.Location{}, err
	}

	c.mu.Lock()
	if c.closed || seq != c.locSeq {
		c.mu.Unlock()
		return geocode.Location{}, ErrStaleLocation
	}
	c.location = &loc
	c.mu.Unlock()

	c.notify()
	return loc, nil
}

// Close stops the controller. In-flight location requests resolve as stale.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}
