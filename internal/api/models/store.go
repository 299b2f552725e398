package models

import "time"

// KnowledgeStore is a backing document store inside the execution
// engine, referenced by workflows.
type KnowledgeStore struct {
	ID          uint `gorm:"primaryKey"`
	Name        string
	Description string
	// ExternalID is the store's identifier inside the engine; it is
	// what gets overlaid onto search nodes as store_id.
	ExternalID string `gorm:"index"`
	// Ready flips to true after the first completed execution that
	// queried the store and never flips back.
	Ready     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
