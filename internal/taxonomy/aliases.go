package taxonomy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// aliasFile is the on-disk shape of the hand-maintained alias table, mapping
// historical or drifted tag text to canonical tag ids:
//
//	aliases:
//	  "tax policy": taxes
//	  "trade war": trade
type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliases reads the alias table used by tag normalization. A missing file
// is not an error; normalization then runs on taxonomy names and ids alone.
func LoadAliases(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("taxonomy: reading alias table %s: %w", path, err)
	}

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("taxonomy: parsing alias table %s: %w", path, err)
	}
	if f.Aliases == nil {
		f.Aliases = map[string]string{}
	}
	return f.Aliases, nil
}
