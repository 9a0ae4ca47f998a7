package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/nrfg/pkg/errors"
)

// LoadConfig reads options from a .toml, .yaml or .yml file. Durations are
// written as strings such as "720h". Runtime fields stay unset and defaults
// are not applied; call [Options.ValidateAndSetDefaults] after merging
// command-line flags.
func LoadConfig(path string) (Options, error) {
	var opts Options
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return opts, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), &opts)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return opts, errors.New(errors.ErrCodeInvalidOption, "config %s: unknown key %s", path, keys[0])
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(&opts); err != nil && err != io.EOF {
			return opts, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
		}
	default:
		return opts, errors.New(errors.ErrCodeUnsupported, "config %s: unknown extension %q", path, ext)
	}
	return opts, nil
}
