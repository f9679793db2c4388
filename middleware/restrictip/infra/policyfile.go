package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// PolicyFile é o formato YAML da política:
//
//	restrictip:
//	  whitelist: ["5.5.5.5"]
//	  allowPrivate: true
//	  trustedHeaders: ["x-real-ip"]
//
// Listas ausentes ficam nil (não informadas); "[]" é uma lista vazia informada.
type PolicyFile struct {
	Whitelist      []string `yaml:"whitelist"`
	Blacklist      []string `yaml:"blacklist"`
	AllowPrivate   bool     `yaml:"allowPrivate"`
	TrustedHeaders []string `yaml:"trustedHeaders"`
}

// LoadPolicyFile lê e decodifica o arquivo de política.
func LoadPolicyFile(path string) (PolicyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PolicyFile{}, fmt.Errorf("failed to read policy file: %w", err)
	}
	return ParsePolicyFile(data)
}

func ParsePolicyFile(data []byte) (PolicyFile, error) {
	var doc struct {
		RestrictIP PolicyFile `yaml:"restrictip"`
	}
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return PolicyFile{}, fmt.Errorf("failed to parse policy YAML: %w", err)
	}
	return doc.RestrictIP, nil
}
