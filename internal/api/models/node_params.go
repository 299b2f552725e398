package models

import (
	"database/sql/driver"
	"fmt"
)

// NodeParams stores a node's configuration as raw JSON in a jsonb
// column, passed through to the frontend and the engine unparsed.
type NodeParams []byte

// Scan implements sql.Scanner interface
func (n *NodeParams) Scan(value interface{}) error {
	if value == nil {
		*n = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*n = v
		return nil
	case string:
		*n = []byte(v)
		return nil
	default:
		return fmt.Errorf("cannot scan type %T into NodeParams", value)
	}
}

// Value implements driver.Valuer interface
func (n NodeParams) Value() (driver.Value, error) {
	if n == nil {
		return nil, nil
	}
	return []byte(n), nil
}

// MarshalJSON implements json.Marshaler - returns raw JSON
func (n NodeParams) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	return n, nil
}

// UnmarshalJSON implements json.Unmarshaler - stores raw JSON
func (n *NodeParams) UnmarshalJSON(data []byte) error {
	if data == nil {
		*n = nil
		return nil
	}
	*n = data
	return nil
}
