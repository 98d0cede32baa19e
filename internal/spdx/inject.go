package spdx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sbomdiff/internal/fileio"
	"sbomdiff/internal/kconfig"
)

// buildType identifies injected kernel build elements. It mirrors the
// do_create_spdx bitbake task that emits build_Build elements natively.
const buildType = "http://openembedded.org/bitbake/do_create_spdx/kernel-make"

// ErrNoKernelPackage means the document has no software_Package
// element describing the Linux kernel to attach the config to.
var ErrNoKernelPackage = errors.New("no software_Package with description 'Linux kernel.' found")

// Inject appends a build_Build element carrying kernel configuration
// options to the @graph of a raw SPDX3 document. The document is held
// as a generic map so every field survives the rewrite untouched. The
// new element reuses the kernel package's creation info and document
// namespace.
func Inject(doc map[string]any, entries []kconfig.Entry, log zerolog.Logger) error {
	graph, ok := doc["@graph"].([]any)
	if !ok {
		return ErrNotSPDX
	}

	pkg, err := findKernelPackage(graph)
	if err != nil {
		return err
	}

	pkgID, _ := pkg["spdxId"].(string)
	buildID := deriveBuildID(pkgID)

	creationInfo := pkg["creationInfo"]
	if creationInfo == nil || creationInfo == "" {
		creationInfo = "_:CreationInfoDefault"
	}

	params := make([]any, 0, len(entries))
	for _, e := range entries {
		params = append(params, map[string]any{
			"type":  "DictionaryEntry",
			"key":   e.Key,
			"value": e.Value,
		})
	}

	doc["@graph"] = append(graph, map[string]any{
		"type":            "build_Build",
		"spdxId":          buildID,
		"creationInfo":    creationInfo,
		"name":            "kernel-make",
		"build_buildType": buildType,
		"build_parameter": params,
	})

	log.Debug().
		Str("spdxId", buildID).
		Int("parameters", len(params)).
		Msg("injected kernel build element")
	return nil
}

func findKernelPackage(graph []any) (map[string]any, error) {
	for _, item := range graph {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if t, _ := obj["type"].(string); t != "software_Package" {
			continue
		}
		desc, _ := obj["description"].(string)
		if strings.ToLower(strings.TrimSpace(desc)) == "linux kernel." {
			return obj, nil
		}
	}
	return nil, ErrNoKernelPackage
}

// deriveBuildID places the build element under the same /spdxdocs/
// namespace as the kernel package. Ids that do not follow that scheme
// fall back to a fresh urn:uuid.
func deriveBuildID(pkgID string) string {
	base, rest, found := strings.Cut(pkgID, "/spdxdocs/")
	if !found || rest == "" {
		return "urn:uuid:" + uuid.NewString()
	}
	docID := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		docID = rest[:i]
	}
	return base + "/spdxdocs/" + docID + "/build/kernel-make"
}

// InjectFile reads an SPDX3 document and a kernel .config file and
// writes the document back out with the configuration attached as
// build parameters.
func InjectFile(spdxPath, configPath, outputPath string, log zerolog.Logger) error {
	sf, err := fileio.Open(spdxPath)
	if err != nil {
		return err
	}
	defer sf.Close()

	var doc map[string]any
	if err := json.NewDecoder(sf).Decode(&doc); err != nil {
		return fmt.Errorf("parsing %s: %w", spdxPath, err)
	}

	cf, err := fileio.Open(configPath)
	if err != nil {
		return err
	}
	defer cf.Close()

	entries, err := kconfig.Parse(cf)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", configPath, err)
	}
	log.Info().Str("file", configPath).Int("options", len(entries)).Msg("read kernel config")

	if err := Inject(doc, entries, log); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding %s: %w", outputPath, err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	log.Info().Str("file", outputPath).Msg("wrote SPDX document with kernel config")
	return nil
}
