package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/km-arc/loom"
)

// LoadManifest parses a TOML file of configuration values and flattens
// nested tables into dotted keys:
//
//	[database]
//	host = "127.0.0.1"
//	port = 5432
//
// becomes {"database.host": "127.0.0.1", "database.port": 5432}.
func LoadManifest(path string) (map[string]any, error) {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("config: parsing manifest %s: %w", path, err)
	}

	flat := make(map[string]any)
	flatten("", raw, flat)
	return flat, nil
}

// RegisterManifest loads a manifest and registers every entry as a value
// producer under its dotted key name:
//
//	host, err := ctx.Get(loom.Name("database.host"))
func RegisterManifest(ctx *loom.Context, path string) error {
	values, err := LoadManifest(path)
	if err != nil {
		return err
	}
	for key, v := range values {
		ctx.RegisterValue(v, loom.WithNames(loom.Name(key)), loom.WithHierarchy(loom.FlatHierarchy))
	}
	return nil
}

func flatten(prefix string, in map[string]any, out map[string]any) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if table, ok := v.(map[string]any); ok {
			flatten(key, table, out)
			continue
		}
		out[key] = v
	}
}
