// Package catalog resolves subject ids to their scheduling attributes.
package catalog

import "github.com/lessonbird/timetable/core/model"

// Catalog looks up subjects by id. Implementations must be safe for
// concurrent use.
type Catalog interface {
	// Lookup returns the subject and true, or the zero subject and false
	// when the id is unknown.
	Lookup(subjectID string) (model.Subject, bool)
}

// MapCatalog is an immutable in-memory Catalog backed by a map.
type MapCatalog map[string]model.Subject

// NewMapCatalog builds a MapCatalog from the given subjects, keyed by id.
func NewMapCatalog(subjects ...model.Subject) MapCatalog {
	c := make(MapCatalog, len(subjects))
	for _, s := range subjects {
		c[s.ID] = s
	}
	return c
}

// Lookup implements Catalog.
func (c MapCatalog) Lookup(subjectID string) (model.Subject, bool) {
	s, ok := c[subjectID]
	return s, ok
}
