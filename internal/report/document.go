// Package report defines the serialized diff document exchanged with
// other tooling, and validates documents produced elsewhere before
// they are trusted.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sbomdiff/internal/diff"
)

// Format selects the document encoding.
type Format string

const (
	// FormatJSON writes 2-space indented JSON
	FormatJSON Format = "json"
	// FormatYAML writes YAML
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from an output path extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// SectionDoc is the wire form of one scalar category. The three change
// buckets are always present, {} when empty; unchanged appears only
// for diffs generated in full mode.
type SectionDoc struct {
	Added     map[string]string      `json:"added" yaml:"added"`
	Removed   map[string]string      `json:"removed" yaml:"removed"`
	Changed   map[string]diff.Change `json:"changed" yaml:"changed"`
	Unchanged map[string]string      `json:"unchanged,omitempty" yaml:"unchanged,omitempty"`
}

// PackageDoc is the wire form of the packageconfig category.
type PackageDoc struct {
	Added     map[string]map[string]string `json:"added" yaml:"added"`
	Removed   map[string]map[string]string `json:"removed" yaml:"removed"`
	Changed   map[string]SectionDoc        `json:"changed" yaml:"changed"`
	Unchanged map[string]map[string]string `json:"unchanged,omitempty" yaml:"unchanged,omitempty"`
}

// Document is the top-level report. The key names and the three-bucket
// section shape are a stable contract for downstream consumers.
type Document struct {
	Packages      SectionDoc `json:"package_diff" yaml:"package_diff"`
	KernelConfig  SectionDoc `json:"kernel_config_diff" yaml:"kernel_config_diff"`
	PackageConfig PackageDoc `json:"packageconfig_diff" yaml:"packageconfig_diff"`
}

// New builds the wire document for a diff result.
func New(r *diff.Result) *Document {
	return &Document{
		Packages:      newSectionDoc(r.Packages),
		KernelConfig:  newSectionDoc(r.KernelConfig),
		PackageConfig: newPackageDoc(r.PackageConfig),
	}
}

// Result converts a document back into an engine result, the inverse
// of New up to empty unchanged buckets.
func (d *Document) Result() *diff.Result {
	return &diff.Result{
		Packages:      d.Packages.section(),
		KernelConfig:  d.KernelConfig.section(),
		PackageConfig: d.PackageConfig.packageSection(),
	}
}

// Encode writes the document. JSON output is 2-space indented with
// HTML escaping off so package names and license strings come out
// verbatim.
func (d *Document) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encoding json report: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported report format: %s (valid: json, yaml)", format)
}

// Parse decodes a report from either encoding, sniffing JSON by the
// leading brace.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("parsing json report: %w", err)
		}
	} else if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing yaml report: %w", err)
	}
	doc.Packages = normalizeSectionDoc(doc.Packages)
	doc.KernelConfig = normalizeSectionDoc(doc.KernelConfig)
	doc.PackageConfig = normalizePackageDoc(doc.PackageConfig)
	return doc, nil
}

func newSectionDoc(sec diff.Section) SectionDoc {
	doc := SectionDoc{
		Added:   emptyIfNil(sec.Added),
		Removed: emptyIfNil(sec.Removed),
		Changed: emptyIfNil(sec.Changed),
	}
	if len(sec.Unchanged) > 0 {
		doc.Unchanged = sec.Unchanged
	}
	return doc
}

func newPackageDoc(ps diff.PackageSection) PackageDoc {
	doc := PackageDoc{
		Added:   emptyIfNil(ps.Added),
		Removed: emptyIfNil(ps.Removed),
		Changed: make(map[string]SectionDoc, len(ps.Changed)),
	}
	for pkg, inner := range ps.Changed {
		doc.Changed[pkg] = newSectionDoc(inner)
	}
	if len(ps.Unchanged) > 0 {
		doc.Unchanged = ps.Unchanged
	}
	return doc
}

func (s SectionDoc) section() diff.Section {
	return diff.Section{
		Added:     emptyIfNil(s.Added),
		Removed:   emptyIfNil(s.Removed),
		Changed:   emptyIfNil(s.Changed),
		Unchanged: s.Unchanged,
	}
}

func (p PackageDoc) packageSection() diff.PackageSection {
	ps := diff.PackageSection{
		Added:     emptyIfNil(p.Added),
		Removed:   emptyIfNil(p.Removed),
		Changed:   make(map[string]diff.Section, len(p.Changed)),
		Unchanged: p.Unchanged,
	}
	for pkg, inner := range p.Changed {
		ps.Changed[pkg] = inner.section()
	}
	return ps
}

func normalizeSectionDoc(s SectionDoc) SectionDoc {
	s.Added = emptyIfNil(s.Added)
	s.Removed = emptyIfNil(s.Removed)
	s.Changed = emptyIfNil(s.Changed)
	return s
}

func normalizePackageDoc(p PackageDoc) PackageDoc {
	p.Added = emptyIfNil(p.Added)
	p.Removed = emptyIfNil(p.Removed)
	if p.Changed == nil {
		p.Changed = map[string]SectionDoc{}
	} else {
		for pkg, inner := range p.Changed {
			p.Changed[pkg] = normalizeSectionDoc(inner)
		}
	}
	return p
}

func emptyIfNil[V any](m map[string]V) map[string]V {
	if m == nil {
		return map[string]V{}
	}
	return m
}
