package store

import (
	"fmt"

	"github.com/sahanr/community-backend/internal/apperr"
)

// Collection is a handle on one of the four parallel project tables. Only
// ResolveCollection can mint one, so arbitrary strings never reach the
// database layer.
type Collection struct {
	tab   string
	table string
}

func (c Collection) Tab() string   { return c.tab }
func (c Collection) Table() string { return c.table }

var collections = map[string]Collection{
	"cesp": {tab: "cesp", table: "projects_cesp"},
	"cp":   {tab: "cp", table: "projects_cp"},
	"led":  {tab: "led", table: "projects_led"},
	"in":   {tab: "in", table: "projects_in"},
}

// ResolveCollection maps a tab name to its collection handle. Unknown tabs
// fail with ErrInvalidCollection, which callers report as a client error
// distinct from "not found".
func ResolveCollection(tab string) (Collection, error) {
	c, ok := collections[tab]
	if !ok {
		return Collection{}, fmt.Errorf("%w: %q", apperr.ErrInvalidCollection, tab)
	}
	return c, nil
}

// Collections returns every known project collection handle.
func Collections() []Collection {
	out := make([]Collection, 0, len(collections))
	for _, tab := range []string{"cesp", "cp", "led", "in"} {
		out = append(out, collections[tab])
	}
	return out
}
