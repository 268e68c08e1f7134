package config

import (
	"encoding/json"
	"time"
)

// Duration is a [time.Duration] serialized as a string (e.g., "30s").
type Duration time.Duration

var (
	_ json.Marshaler   = Duration(0)
	_ json.Unmarshaler = new(Duration)
)

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	value, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(value)
	return nil
}

// Std returns the corresponding [time.Duration].
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
