// Package catalog lists the events a display can be switched to. Each event
// id doubles as the guestbook room name.
package catalog

import "sort"

// Event is one entry of the events panel.
type Event struct {
	ID          string `mapstructure:"id" yaml:"id" json:"id"`
	Name        string `mapstructure:"name" yaml:"name" json:"name"`
	Date        string `mapstructure:"date" yaml:"date" json:"date"`
	Description string `mapstructure:"description" yaml:"description" json:"description"`
	Link        string `mapstructure:"link" yaml:"link" json:"link,omitempty"`
	Image       string `mapstructure:"image" yaml:"image" json:"image,omitempty"`
	Active      bool   `mapstructure:"active" yaml:"active" json:"active"`
}

// Defaults is the catalog used when none is configured.
func Defaults() []Event {
	return []Event{
		{
			ID:          "boda",
			Name:        "Boda",
			Date:        "23 de noviembre de 2025",
			Description: "Mensajes para los novios durante la fiesta.",
			Active:      true,
		},
		{
			ID:          "after",
			Name:        "After",
			Description: "Mensajes para la pantalla del after party.",
		},
		{
			ID:          "despedida",
			Name:        "Despedida",
			Description: "Saludos de despedida.",
		},
	}
}

// Catalog is an immutable set of events, kept in configuration order.
type Catalog struct {
	events []Event
	byID   map[string]int
}

// New builds a catalog. Later duplicates of an id replace earlier ones.
func New(events []Event) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(events))}
	for _, ev := range events {
		if ev.ID == "" {
			continue
		}
		if i, ok := c.byID[ev.ID]; ok {
			c.events[i] = ev
			continue
		}
		c.byID[ev.ID] = len(c.events)
		c.events = append(c.events, ev)
	}
	return c
}

// List returns all events, active ones first.
func (c *Catalog) List() []Event {
	out := make([]Event, len(c.events))
	copy(out, c.events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Active && !out[j].Active
	})
	return out
}

// Lookup returns the event with id.
func (c *Catalog) Lookup(id string) (Event, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Event{}, false
	}
	return c.events[i], true
}

// AcceptsMessages reports whether room may receive submissions. Rooms that
// are not in the catalog are open.
func (c *Catalog) AcceptsMessages(room string) bool {
	ev, ok := c.Lookup(room)
	return !ok || ev.Active
}
