package result

import "gopkg.in/yaml.v3"

// MarshalText renders r as YAML, the human-readable sidecar format
// alongside the binary codec.
func MarshalText(r *Result) ([]byte, error) {
	return yaml.Marshal(r)
}

// UnmarshalText parses a YAML-rendered Result.
func UnmarshalText(data []byte) (*Result, error) {
	r := &Result{}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return r, nil
}
