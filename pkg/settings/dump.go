package settings

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Dump writes s as YAML in the same layout Load reads.
func Dump(w io.Writer, s Settings) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return enc.Close()
}
