package toolchain

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/cppm/internal/core/domain"
)

var clangTable = &Table{
	Kind:    domain.ToolchainClang,
	Version: semver.MustParse("1.1.0"),
	Options: map[string]Effect{
		"language_standard": {Kind: Value, Format: "-std=%s"},
		"include_dirs":      {Kind: List, Format: `-I"%s"`},
		"defines":           {Kind: List, Format: "-D%s"},
		"optimization": {Kind: Choice, Choices: map[string]string{
			"O0": "-O0", "O1": "-O1", "O2": "-O2", "O3": "-O3", "Os": "-Os",
		}},
		"warnings": {Kind: Choice, Choices: map[string]string{
			"none": "-w", "default": "", "all": "-Wall", "extra": "-Wall -Wextra",
		}},
		"warnings_as_errors": {Kind: Flag, Format: "-Werror"},
		"debug_info":         {Kind: Flag, Format: "-g"},
		"exceptions":         {Kind: Flag, Format: "-fexceptions"},
		"extra_flags":        {Kind: List, Format: "%s"},
	},
	syntax: syntax{
		compile: func(compiler, flags, source, object string) string {
			return joinArgs(quote(compiler), flags, "-c", quote(source), "-o", quote(object))
		},
		reference: func(ref domain.ModuleReference) string {
			if ref.HeaderUnit {
				return "-fmodule-file=" + quote(ref.Artifact)
			}
			return "-fmodule-file=" + ref.Module + "=" + quote(ref.Artifact)
		},
		interfaceOut: func(artifact string) string {
			return "-fmodule-output=" + quote(artifact)
		},
		headerUnitOut: func(artifact string) string {
			return "-fmodule-header -fmodule-output=" + quote(artifact)
		},
	},
}

var msvcTable = &Table{
	Kind:    domain.ToolchainMSVC,
	Version: semver.MustParse("1.0.0"),
	Options: map[string]Effect{
		"language_standard": {Kind: Value, Format: "/std:%s"},
		"include_dirs":      {Kind: List, Format: `/I"%s"`},
		"defines":           {Kind: List, Format: "/D%s"},
		"optimization": {Kind: Choice, Choices: map[string]string{
			"O0": "/Od", "O1": "/O1", "O2": "/O2", "O3": "/Ox", "Os": "/Os",
		}},
		"warnings": {Kind: Choice, Choices: map[string]string{
			"none": "/W0", "default": "/W3", "all": "/W4", "extra": "/Wall",
		}},
		"warnings_as_errors": {Kind: Flag, Format: "/WX"},
		"debug_info":         {Kind: Flag, Format: "/Zi"},
		"exceptions":         {Kind: Flag, Format: "/EHsc"},
		"extra_flags":        {Kind: List, Format: "%s"},
	},
	syntax: syntax{
		compile: func(compiler, flags, source, object string) string {
			return joinArgs(quote(compiler), "/nologo", flags, "/c", quote(source), "/Fo"+quote(object))
		},
		reference: func(ref domain.ModuleReference) string {
			if ref.HeaderUnit {
				return "/headerUnit " + quote(ref.Artifact)
			}
			return "/reference " + ref.Module + "=" + quote(ref.Artifact)
		},
		interfaceOut: func(artifact string) string {
			return "/interface /ifcOutput " + quote(artifact)
		},
		headerUnitOut: func(artifact string) string {
			return "/exportHeader /ifcOutput " + quote(artifact)
		},
	},
}

func joinArgs(args ...string) string {
	return strings.Join(slices.DeleteFunc(args, func(a string) bool { return a == "" }), " ")
}
