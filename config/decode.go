package config

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// readDocument reads a JSON or YAML file, expanding environment variables first, into a generic
// value. YAML is chosen by a .yaml or .yml extension.
func readDocument(path string, out interface{}) error {
	buf, err := envsubst.ReadFile(path)
	if err != nil {
		return err
	}
	return decodeDocument(path, buf, out)
}

func decodeDocument(path string, buf []byte, out interface{}) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(buf, out); err != nil {
			return errors.Wrapf(err, "failed to decode yaml in %q", path)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(buf))
		if err := dec.Decode(out); err != nil {
			return errors.Wrapf(err, "failed to decode json in %q", path)
		}
	}
	return nil
}

// weakDecode converts a generic map into result using json tags, accepting strings for numbers
// and numbers for strings. It returns the json names of fields absent from the input.
func weakDecode(input map[string]interface{}, result interface{}) ([]string, error) {
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           result,
		WeaklyTypedInput: true,
		Metadata:         &md,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(input); err != nil {
		return nil, err
	}
	return md.Unset, nil
}
