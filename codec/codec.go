// Package codec encodes snapshot manifests.
//
// Snapshots record the codec name in their header, so a reader picks the
// decoder by name. Changing Default only affects newly written snapshots.
package codec

import (
	"fmt"
	"slices"
)

// Codec encodes and decodes manifests.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// MaxNameLen is the longest codec name a snapshot header can record.
const MaxNameLen = 255

// Default is the codec used for new snapshots.
var Default Codec = GoJSON{}

var builtin = []Codec{JSON{}, GoJSON{}, YAML{}}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	i := slices.IndexFunc(builtin, func(c Codec) bool { return c.Name() == name })
	if i < 0 {
		return nil, false
	}
	return builtin[i], true
}

// Names lists the built-in codec names.
func Names() []string {
	names := make([]string, len(builtin))
	for i, c := range builtin {
		names[i] = c.Name()
	}
	return names
}

// MustMarshal is like Codec.Marshal but panics on error. A nil codec selects
// Default.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s: marshal manifest: %w", c.Name(), err))
	}
	return b
}
