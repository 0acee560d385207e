package config

import (
	"gopkg.in/yaml.v3"
)

// Workfile represents the structure of the cppm.work.yaml configuration file.
type Workfile struct {
	Version   string                `yaml:"version"`
	Projects  []string              `yaml:"projects"`
	Toolchain *ToolchainDTO         `yaml:"toolchain"`
	Options   map[string]StringList `yaml:"options"`
}

// ProjectFile represents the structure of the cppm.yaml configuration file.
type ProjectFile struct {
	Version         string                `yaml:"version"`
	Project         string                `yaml:"project"`
	IntermediateDir string                `yaml:"intermediate_dir"`
	Sources         []string              `yaml:"sources"`
	HeaderUnits     []string              `yaml:"header_units"`
	References      []string              `yaml:"references"`
	Store           string                `yaml:"store"`
	Toolchain       *ToolchainDTO         `yaml:"toolchain"`
	Options         map[string]StringList `yaml:"options"`
}

// ToolchainDTO represents the toolchain section of a configuration file.
type ToolchainDTO struct {
	Kind               string `yaml:"kind"`
	Compiler           string `yaml:"compiler"`
	Scanner            string `yaml:"scanner"`
	OptionsVersion     string `yaml:"options_version"`
	ExplicitStdModules *bool  `yaml:"explicit_std_modules"`
	InterfaceExtension string `yaml:"interface_extension"`
	ObjectExtension    string `yaml:"object_extension"`
}

// StringList accepts either a single scalar or a sequence of scalars.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Tag == "!!null" {
			*s = nil
			return nil
		}
		*s = StringList{node.Value}
		return nil
	}

	var values []string
	if err := node.Decode(&values); err != nil {
		return err
	}
	*s = values
	return nil
}
