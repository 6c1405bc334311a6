package policy

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Decode populates out (a pointer to a concrete policy struct) from a map of
// validated field values. The resolver guarantees the map's scalar values
// already have the Go types the schema declared, so decoding only performs
// field-name mapping; nested Object values are assigned by the constructors
// directly and are not expected in the map passed here.
func Decode(fields map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("building decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return fmt.Errorf("decoding policy fields: %w", err)
	}
	return nil
}
