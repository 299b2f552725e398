package models

import "time"

type Workflow struct {
	ID          uint `gorm:"primaryKey"`
	Name        string
	Description string
	Active      bool
	// StoreID links the workflow to the knowledge store its search
	// node queries when the node does not pin one itself.
	StoreID *uint
	Store   *KnowledgeStore `gorm:"foreignKey:StoreID"`
	Nodes   []Node          `gorm:"foreignKey:WorkflowID"`
	Edges   []Edge          `gorm:"foreignKey:WorkflowID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
