package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RunLog is the stored record of one recommendation run
type RunLog struct {
	RunID          string    `json:"run_id" db:"run_id"`
	Utterance      string    `json:"utterance" db:"utterance"`
	Polarity       Polarity  `json:"polarity" db:"polarity"`
	Verdict        JSONMap   `json:"verdict" db:"verdict"`
	Analysis       JSONMap   `json:"analysis,omitempty" db:"analysis"`
	Terms          JSONArray `json:"terms" db:"terms"`
	Queries        []string  `json:"queries" db:"queries"`
	ResultCount    int       `json:"result_count" db:"result_count"`
	RejectedCount  int       `json:"rejected_count" db:"rejected_count"`
	Fallback       bool      `json:"fallback" db:"fallback"`
	ResponseTimeMs int       `json:"response_time_ms" db:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	return scanJSON(value, j)
}

// JSONMap represents a JSON object field
type JSONMap map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONMap) Scan(value interface{}) error {
	return scanJSON(value, j)
}

// ToJSONMap round-trips v through JSON into a JSONMap
func ToJSONMap(v any) (JSONMap, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m JSONMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func scanJSON(value interface{}, target any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, target)
	case string:
		return json.Unmarshal([]byte(v), target)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
}
