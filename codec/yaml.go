package codec

import "gopkg.in/yaml.v3"

// YAML writes human-readable manifests. Field names follow the yaml tags of
// the encoded type.
type YAML struct{}

func (YAML) Marshal(v any) ([]byte, error) { return yaml.Marshal(v) }

func (YAML) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

func (YAML) Name() string { return "yaml" }
