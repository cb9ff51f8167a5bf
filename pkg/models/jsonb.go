package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONBMap is a map type that handles PostgreSQL JSONB serialization.
// Obituary input-form snapshots use it: values may be scalars or lists.
type JSONBMap map[string]interface{}

// Value implements driver.Valuer for database serialization.
func (j JSONBMap) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner for database deserialization.
func (j *JSONBMap) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into JSONBMap", value)
	}

	return json.Unmarshal(bytes, j)
}
