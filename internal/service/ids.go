package service

import "github.com/oklog/ulid/v2"

// newID generates a sortable unique ID for stored records.
func newID() string {
	return ulid.Make().String()
}
