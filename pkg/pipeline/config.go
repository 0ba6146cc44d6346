package pipeline

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pointpack/pkg/errors"
)

// LoadOptions decodes a TOML config file into Options. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
//
//	kind = "patchy"
//	box_length = 400
//	strategy = "ann"
//
//	[patches]
//	areas = [300.0, 200.0, 900.0]
//
//	[network.relax]
//	variant = "confined"
func LoadOptions(path string) (Options, error) {
	var opts Options
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return opts, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return opts, errors.Wrap(errors.ErrCodeInvalidPath, err, "config %s", path)
	}

	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return opts, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}
