package request

type CreateStore struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	// ExternalID is the engine-side identifier of the store, injected
	// into search nodes at execution time
	ExternalID string `json:"externalId" validate:"required"`
}

type UpdateStore struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}
