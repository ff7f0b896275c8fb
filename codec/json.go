package codec

import (
	"bytes"
	"encoding/json"
)

// JSON is the standard-library JSON codec. Manifests written with it are
// readable by tools outside Go.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal rejects trailing data after the manifest object.
func (JSON) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errTrailing
	}
	return nil
}

func (JSON) Name() string { return "json" }
