// Package toolchain renders compiler command lines from versioned option tables.
package toolchain

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/cppm/internal/core/domain"
	"go.trai.ch/zerr"
)

// EffectKind is the way an option changes the generated command.
type EffectKind int

const (
	// Flag adds fixed arguments when the option value is true.
	Flag EffectKind = iota
	// Value formats the single option value into the argument.
	Value
	// List formats every option value into its own argument.
	List
	// Choice maps each accepted value onto fixed arguments.
	Choice
)

// Effect is what setting one named option does to the compile command.
type Effect struct {
	Kind EffectKind
	// Format is the argument for Flag, or a fmt pattern with one %s for Value and List.
	Format string
	// Choices maps accepted values to arguments for Choice. An empty argument is valid.
	Choices map[string]string
}

// Table is the option table and flag syntax of one compiler family.
type Table struct {
	Kind    domain.ToolchainKind
	Version *semver.Version
	Options map[string]Effect
	syntax  syntax
}

// syntax holds the family specific spelling of the fixed parts of a command.
type syntax struct {
	compile       func(compiler, flags, source, object string) string
	reference     func(ref domain.ModuleReference) string
	interfaceOut  func(artifact string) string
	headerUnitOut func(artifact string) string
}

// Lookup returns the table for the toolchain kind after checking the
// toolchain's options_version constraint against the table version.
func Lookup(tc domain.Toolchain) (*Table, error) {
	var table *Table
	switch tc.Kind {
	case domain.ToolchainClang:
		table = clangTable
	case domain.ToolchainMSVC:
		table = msvcTable
	default:
		return nil, zerr.With(domain.ErrInvalidToolchain, "kind", string(tc.Kind))
	}

	if tc.OptionsVersion == "" {
		return table, nil
	}
	constraint, err := semver.NewConstraint(tc.OptionsVersion)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidToolchain.Error()), "options_version", tc.OptionsVersion)
	}
	if !constraint.Check(table.Version) {
		err := zerr.With(domain.ErrInvalidToolchain, "options_version", tc.OptionsVersion)
		return nil, zerr.With(err, "table_version", table.Version.String())
	}
	return table, nil
}

// Flags renders the project options in name order.
func (t *Table) Flags(options map[string][]string) ([]string, error) {
	var flags []string
	for _, name := range slices.Sorted(maps.Keys(options)) {
		effect, ok := t.Options[name]
		if !ok {
			return nil, zerr.With(zerr.With(domain.ErrUnknownOption, "option", name), "toolchain", string(t.Kind))
		}
		rendered, err := effect.render(options[name])
		if err != nil {
			return nil, zerr.With(err, "option", name)
		}
		flags = append(flags, rendered...)
	}
	return flags, nil
}

func (e Effect) render(values []string) ([]string, error) {
	switch e.Kind {
	case Flag:
		if len(values) != 1 {
			return nil, zerr.With(domain.ErrInvalidOptionValue, "value", strings.Join(values, ","))
		}
		switch values[0] {
		case "true", "yes", "on":
			return []string{e.Format}, nil
		case "false", "no", "off":
			return nil, nil
		default:
			return nil, zerr.With(domain.ErrInvalidOptionValue, "value", values[0])
		}
	case Value:
		if len(values) != 1 {
			return nil, zerr.With(domain.ErrInvalidOptionValue, "value", strings.Join(values, ","))
		}
		return []string{fmt.Sprintf(e.Format, values[0])}, nil
	case List:
		out := make([]string, 0, len(values))
		for _, v := range values {
			out = append(out, fmt.Sprintf(e.Format, v))
		}
		return out, nil
	case Choice:
		if len(values) != 1 {
			return nil, zerr.With(domain.ErrInvalidOptionValue, "value", strings.Join(values, ","))
		}
		arg, ok := e.Choices[values[0]]
		if !ok {
			return nil, zerr.With(domain.ErrInvalidOptionValue, "value", values[0])
		}
		if arg == "" {
			return nil, nil
		}
		return strings.Fields(arg), nil
	default:
		return nil, zerr.With(domain.ErrInvalidOptionValue, "kind", int(e.Kind))
	}
}

// BuildCommand returns the base compile command of a source. It carries no
// module references, so it only changes when the source's options change.
func (t *Table) BuildCommand(project *domain.Project, source string) (string, error) {
	flags, err := t.Flags(project.Options)
	if err != nil {
		return "", zerr.With(err, "project", project.Name)
	}
	return t.syntax.compile(project.Toolchain.Compiler, strings.Join(flags, " "), source, project.ObjectFile(source)), nil
}

// NodeCommand appends module references and the interface output flags to the base command.
func (t *Table) NodeCommand(def *domain.ModuleDefinition, refs []domain.ModuleReference) string {
	var b strings.Builder
	b.WriteString(def.BuildCommand)
	for _, ref := range refs {
		b.WriteByte(' ')
		b.WriteString(t.syntax.reference(ref))
	}
	if def.Exports() {
		b.WriteByte(' ')
		if def.IsHeaderUnit {
			b.WriteString(t.syntax.headerUnitOut(def.InterfaceArtifact))
		} else {
			b.WriteString(t.syntax.interfaceOut(def.InterfaceArtifact))
		}
	}
	return b.String()
}

// ScanCommand returns the scanner invocation over a compilation database.
// The scanner prints the module protocol on stdout for every entry.
func ScanCommand(scanner, database string) string {
	return quote(scanner) + " --compilation-database=" + quote(database)
}

func quote(s string) string {
	return `"` + s + `"`
}
