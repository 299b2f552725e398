package models

type Edge struct {
	ID uint `gorm:"primaryKey"`
	// Ref is the canvas-side edge id ("edge-1").
	Ref string `gorm:"index" json:"ref"`
	// SourceRef and TargetRef name nodes by their Ref. The client
	// does not validate the graph beyond existence of both ends; the
	// engine owns cycle and type checks.
	SourceRef string `json:"sourceRef"`
	TargetRef string `json:"targetRef"`

	WorkflowID uint `gorm:"index" json:"workflowId"`
}
