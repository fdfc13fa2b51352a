package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/layout"
	"github.com/conneroisu/docket/internal/validation"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func readFile(path string) ([]byte, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeValidationFailed, err.Error()).WithFile(path)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.ErrFileNotFound(path, err)
	}
	if err != nil {
		return nil, errors.WrapIO(err, errors.ErrCodeFileNotFound, "cannot read file").WithFile(path)
	}
	return data, nil
}

// ReadLayout loads a layout file; .yaml and .yml files are read as YAML,
// anything else as JSON.
func ReadLayout(path string) (*layout.Layout, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var l *layout.Layout
	if isYAML(path) {
		l, err = layout.ParseYAML(data)
	} else {
		l, err = layout.Parse(data)
	}
	if err != nil {
		return nil, withFile(err, path)
	}
	return l, nil
}

// EncodeLayout renders l as indented JSON, or as YAML when yamlOut is set.
func EncodeLayout(l *layout.Layout, yamlOut bool) ([]byte, error) {
	if yamlOut {
		return layout.MarshalYAML(l)
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteLayout writes l in the format its extension names.
func WriteLayout(path string, l *layout.Layout) error {
	if err := validation.ValidatePath(path); err != nil {
		return errors.NewValidationError(errors.ErrCodeValidationFailed, err.Error()).WithFile(path)
	}
	data, err := EncodeLayout(l, isYAML(path))
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInternalError, "cannot encode layout", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapIO(err, errors.ErrCodeFileNotFound, "cannot write layout").WithFile(path)
	}
	return nil
}

// ReadData loads a JSON or YAML data object. YAML is normalized through
// JSON so numbers decode the same way in both formats.
func ReadData(path string) (map[string]any, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if isYAML(path) {
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, errors.WrapIO(err, errors.ErrCodeLayoutParse, "cannot parse data").WithFile(path)
		}
		if raw, err = json.Marshal(doc); err != nil {
			return nil, errors.WrapIO(err, errors.ErrCodeLayoutParse, "cannot parse data").WithFile(path)
		}
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.WrapIO(err, errors.ErrCodeLayoutParse, "data must be a JSON object").WithFile(path)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}
