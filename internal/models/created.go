package models

import "time"

// Created is embedded by entities that record the instant they were created.
// The value is set once on insert and never rewritten by updates.
type Created struct {
	CreatedAt time.Time
}

// Stamp sets the creation time if it has not been set yet.
// Calling Stamp on an already stamped value is a no-op.
func (c *Created) Stamp(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now.UTC()
	}
}
