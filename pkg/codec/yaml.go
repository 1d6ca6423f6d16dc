package codec

import "gopkg.in/yaml.v3"

type yamlCodec struct{}

// YAML returns a human-readable codec backed by gopkg.in/yaml.v3.
func YAML() Codec { return yamlCodec{} }

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Marshal(v any) ([]byte, error) {
	if err := checkMarshal(v); err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, marshalError(err)
	}
	return data, nil
}

func (yamlCodec) Unmarshal(data []byte, v any) error {
	if err := checkTarget(v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return unmarshalError(err)
	}
	return nil
}
