package tuning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// codec reads and writes one tuning file format.
type codec interface {
	decode(data []byte, v any) error
	encode(v any) ([]byte, error)
}

// codecFor picks the codec from the file extension.
func codecFor(path string) (codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return jsonCodec{}, nil
	case ".toml":
		return tomlCodec{}, nil
	case ".yaml", ".yml":
		return yamlCodec{}, nil
	}
	return nil, fmt.Errorf("unsupported tuning file extension %q (want .json, .toml, .yaml)", filepath.Ext(path))
}

type jsonCodec struct{}

func (jsonCodec) decode(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

type tomlCodec struct{}

func (tomlCodec) decode(data []byte, v any) error {
	_, err := toml.Decode(string(data), v)
	return err
}

func (tomlCodec) encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type yamlCodec struct{}

func (yamlCodec) decode(data []byte, v any) error { return yaml.Unmarshal(data, v) }

func (yamlCodec) encode(v any) ([]byte, error) { return yaml.Marshal(v) }
