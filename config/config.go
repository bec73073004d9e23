// Copyright 2026 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the ambient, process-wide defaults an embedder can
// override from a YAML document: scanner/preprocessor flag names, the
// output line hint, and the default "#include <...>" search paths.
package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cppscan/cppscan/preprocessor"
	"github.com/cppscan/cppscan/scanner"
)

var scannerFlagNames = map[string]scanner.Flags{
	"no_errors":                     scanner.NoErrors,
	"no_warnings":                   scanner.NoWarnings,
	"no_fatal_errors":               scanner.NoFatalErrors,
	"no_string_concat":              scanner.NoStringConcat,
	"no_string_escape_chars":        scanner.NoStringEscapeChars,
	"allow_path_names":              scanner.AllowPathNames,
	"allow_number_names":            scanner.AllowNumberNames,
	"allow_ip_addresses":            scanner.AllowIPAddresses,
	"allow_float_exceptions":        scanner.AllowFloatExceptions,
	"allow_multi_char_literals":     scanner.AllowMultiCharLiterals,
	"allow_backslash_string_concat": scanner.AllowBackslashStringConcat,
	"only_strings":                  scanner.OnlyStrings,
}

var preprocessorFlagNames = map[string]preprocessor.Flags{
	"no_errors":                preprocessor.NoErrors,
	"no_warnings":              preprocessor.NoWarnings,
	"no_fatal_errors":          preprocessor.NoFatalErrors,
	"no_dollar_preproc":        preprocessor.NoDollarPreproc,
	"no_base_includes":         preprocessor.NoBaseIncludes,
	"no_includes":              preprocessor.NoIncludes,
	"warn_macro_redefinitions": preprocessor.WarnMacroRedefinitions,
}

// Document is the YAML-decodable shape of the ambient configuration
// described in SPEC_FULL.md §4.7.
type Document struct {
	ScannerFlagNames      []string `yaml:"scanner_flags"`
	PreprocessorFlagNames []string `yaml:"preprocessor_flags"`
	LineHint              int      `yaml:"line_hint"`
	SearchPaths           []string `yaml:"search_paths"`
}

// Load decodes a YAML document into a Document, validating every flag name
// against the known bitmask vocabulary so a typo surfaces at load time
// instead of silently doing nothing.
func Load(r io.Reader) (Document, error) {
	var doc Document
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}
	if len(data) == 0 {
		return defaultDocument(), nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("config: %w", err)
	}
	for _, name := range doc.ScannerFlagNames {
		if _, ok := scannerFlagNames[name]; !ok {
			return Document{}, fmt.Errorf("config: unknown scanner flag %q", name)
		}
	}
	for _, name := range doc.PreprocessorFlagNames {
		if _, ok := preprocessorFlagNames[name]; !ok {
			return Document{}, fmt.Errorf("config: unknown preprocessor flag %q", name)
		}
	}
	if doc.LineHint == 0 {
		doc.LineHint = preprocessor.DefaultLineHint
	}
	return doc, nil
}

// defaultDocument is what Load returns for an empty input, matching
// spec.md §6's process-wide defaults: no flags set, line hint 128, no
// search paths.
func defaultDocument() Document {
	return Document{LineHint: preprocessor.DefaultLineHint}
}

// ScannerFlags packs the document's named scanner flags into a bitmask.
func (d Document) ScannerFlags() scanner.Flags {
	var f scanner.Flags
	for _, name := range d.ScannerFlagNames {
		f |= scannerFlagNames[name]
	}
	return f
}

// PreprocessorFlags packs the document's named preprocessor flags into a
// bitmask.
func (d Document) PreprocessorFlags() preprocessor.Flags {
	var f preprocessor.Flags
	for _, name := range d.PreprocessorFlagNames {
		f |= preprocessorFlagNames[name]
	}
	return f
}

// ExpandedSearchPaths resolves the document's search paths through
// preprocessor.ExpandSearchPaths, expanding any doublestar glob segments.
func (d Document) ExpandedSearchPaths() ([]string, error) {
	return preprocessor.ExpandSearchPaths(d.SearchPaths)
}
