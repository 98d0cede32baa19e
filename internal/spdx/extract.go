// Package spdx reads SPDX3 SBOM documents into comparable snapshots
// and writes kernel configuration back into them.
package spdx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"sbomdiff/internal/model"
)

// ErrNotSPDX marks inputs that are valid JSON but not an SPDX3
// document with an @graph element array.
var ErrNotSPDX = errors.New("SPDX3 file format is not recognized")

// ExtractOptions configures snapshot extraction.
type ExtractOptions struct {
	// IgnoreProprietary skips packages licensed LicenseRef-Proprietary.
	IgnoreProprietary bool
}

const proprietaryLicense = "LicenseRef-Proprietary"

type element struct {
	Type              string            `json:"type"`
	SpdxID            string            `json:"spdxId"`
	Name              string            `json:"name"`
	PackageVersion    string            `json:"software_packageVersion"`
	PrimaryPurpose    string            `json:"software_primaryPurpose"`
	LicenseExpression string            `json:"simplelicensing_licenseExpression"`
	BuildParameters   []json.RawMessage `json:"build_parameter"`
}

type dictionaryEntry struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// Extract walks the @graph of an SPDX3 document and collects installed
// packages (software_Package elements with purpose "install"), kernel
// CONFIG_* options and PACKAGECONFIG feature states (both from
// build_Build parameters). Kernel package names are normalized so
// version-suffixed kernel packages stay comparable across builds.
func Extract(r io.Reader, opts ExtractOptions, log zerolog.Logger) (*model.Snapshot, error) {
	var doc struct {
		Graph json.RawMessage `json:"@graph"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing SPDX document: %w", err)
	}

	graphRaw := bytes.TrimSpace(doc.Graph)
	if len(graphRaw) == 0 || graphRaw[0] != '[' {
		return nil, ErrNotSPDX
	}
	var graph []element
	if err := json.Unmarshal(graphRaw, &graph); err != nil {
		return nil, fmt.Errorf("parsing SPDX graph: %w", err)
	}

	log.Debug().Int("elements", len(graph)).Msg("scanning SPDX3 document")

	snap := model.NewSnapshot()
	buildCount := 0

	for _, item := range graph {
		switch item.Type {
		case "software_Package":
			name, version := item.Name, item.PackageVersion
			if name == "" || version == "" {
				continue
			}
			if opts.IgnoreProprietary && item.LicenseExpression == proprietaryLicense {
				log.Info().Str("package", name).Msg("Ignoring proprietary package")
				continue
			}
			if item.PrimaryPurpose != "install" {
				continue
			}
			if name == "kernel" || strings.HasPrefix(name, "kernel-") {
				name = NormalizePackageName(name)
			}
			snap.Packages[name] = version

		case "build_Build":
			buildCount++
			pkgName, _, hasColon := strings.Cut(item.Name, ":")
			if !hasColon {
				pkgName = ""
			}
			for _, raw := range item.BuildParameters {
				var param dictionaryEntry
				if err := json.Unmarshal(raw, &param); err != nil {
					continue
				}
				if param.Key == "" || param.Value == nil {
					continue
				}
				switch {
				case strings.HasPrefix(param.Key, "CONFIG_"):
					snap.KernelConfig[param.Key] = *param.Value
				case strings.HasPrefix(param.Key, "PACKAGECONFIG:") && pkgName != "":
					_, feature, _ := strings.Cut(param.Key, ":")
					snap.SetFeature(pkgName, feature, *param.Value)
				}
			}
		}
	}

	if buildCount == 0 {
		log.Warn().Msg("No build_Build objects found")
	}

	log.Debug().
		Int("packages", len(snap.Packages)).
		Int("config", len(snap.KernelConfig)).
		Int("packageconfig", len(snap.PackageConfig)).
		Msg("extracted snapshot")
	return snap, nil
}

// Kernel packages are renamed per version, e.g.
// kernel-6.12.43-00469-g647daef97a89. The suffix starts at the first
// "-" followed by a dotted version number.
var kernelVersionSuffix = regexp.MustCompile(`-(\d+\.\d+(?:\.\d+)?[a-zA-Z0-9._-]*)$`)

// NormalizePackageName strips the version suffix from a kernel package
// name so renamed packages compare as version changes:
//
//	kernel-6.12.43-00469-g647daef97a89 -> kernel
//	kernel-module-8021q-6.12.43-00469  -> kernel-module-8021q
func NormalizePackageName(name string) string {
	if loc := kernelVersionSuffix.FindStringIndex(name); loc != nil {
		return name[:loc[0]]
	}
	return name
}
