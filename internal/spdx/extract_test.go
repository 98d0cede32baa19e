package spdx

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"sbomdiff/internal/model"
)

const sampleDoc = `{
  "@context": "https://spdx.org/rdf/3.0.1/spdx-context.jsonld",
  "@graph": [
    {
      "type": "SpdxDocument",
      "spdxId": "https://example.com/spdxdocs/doc-1",
      "name": "image.spdx.json"
    },
    {
      "type": "software_Package",
      "spdxId": "https://example.com/spdxdocs/doc-1/package/busybox",
      "name": "busybox",
      "software_packageVersion": "1.36.1",
      "software_primaryPurpose": "install",
      "simplelicensing_licenseExpression": "GPL-2.0-only"
    },
    {
      "type": "software_Package",
      "spdxId": "https://example.com/spdxdocs/doc-1/package/openssl",
      "name": "openssl",
      "software_packageVersion": "3.0.12",
      "software_primaryPurpose": "install",
      "simplelicensing_licenseExpression": "Apache-2.0"
    },
    {
      "type": "software_Package",
      "spdxId": "https://example.com/spdxdocs/doc-1/package/secretblob",
      "name": "secretblob",
      "software_packageVersion": "1.0",
      "software_primaryPurpose": "install",
      "simplelicensing_licenseExpression": "LicenseRef-Proprietary"
    },
    {
      "type": "software_Package",
      "spdxId": "https://example.com/spdxdocs/doc-1/package/busybox-doc",
      "name": "busybox-doc",
      "software_packageVersion": "1.36.1",
      "software_primaryPurpose": "documentation"
    },
    {
      "type": "software_Package",
      "spdxId": "https://example.com/spdxdocs/doc-1/package/unversioned",
      "name": "unversioned"
    },
    {
      "type": "software_Package",
      "spdxId": "https://example.com/spdxdocs/doc-1/package/kernel",
      "name": "kernel-6.12.43-00469-g647daef97a89",
      "software_packageVersion": "6.12.43",
      "software_primaryPurpose": "install"
    },
    {
      "type": "software_Package",
      "spdxId": "https://example.com/spdxdocs/doc-1/package/kernel-module-8021q",
      "name": "kernel-module-8021q-6.12.43-00469-g647daef97a89",
      "software_packageVersion": "6.12.43",
      "software_primaryPurpose": "install"
    },
    {
      "type": "build_Build",
      "spdxId": "https://example.com/spdxdocs/doc-1/build/kernel",
      "name": "kernel:do_configure",
      "build_buildType": "http://openembedded.org/bitbake",
      "build_parameter": [
        {"type": "DictionaryEntry", "key": "CONFIG_NET", "value": "y"},
        {"type": "DictionaryEntry", "key": "CONFIG_DEBUG_INFO", "value": "n"},
        {"type": "DictionaryEntry", "key": "CONFIG_NFS_FS", "value": null},
        {"type": "DictionaryEntry", "key": "", "value": "y"}
      ]
    },
    {
      "type": "build_Build",
      "spdxId": "https://example.com/spdxdocs/doc-1/build/openssl",
      "name": "openssl:do_configure",
      "build_buildType": "http://openembedded.org/bitbake",
      "build_parameter": [
        {"type": "DictionaryEntry", "key": "PACKAGECONFIG:cryptodev-linux", "value": "disabled"},
        {"type": "DictionaryEntry", "key": "PACKAGECONFIG:no-tls1", "value": "enabled"},
        "bogus"
      ]
    },
    {
      "type": "build_Build",
      "spdxId": "https://example.com/spdxdocs/doc-1/build/anon",
      "name": "do_image",
      "build_parameter": [
        {"type": "DictionaryEntry", "key": "PACKAGECONFIG:orphan", "value": "enabled"},
        {"type": "DictionaryEntry", "key": "CONFIG_LOOSE", "value": "m"}
      ]
    }
  ]
}`

func TestExtract(t *testing.T) {
	snap, err := Extract(strings.NewReader(sampleDoc), ExtractOptions{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	wantPackages := map[string]string{
		"busybox":             "1.36.1",
		"openssl":             "3.0.12",
		"secretblob":          "1.0",
		"kernel":              "6.12.43",
		"kernel-module-8021q": "6.12.43",
	}
	if !reflect.DeepEqual(snap.Packages, wantPackages) {
		t.Errorf("Packages = %v, want %v", snap.Packages, wantPackages)
	}

	// CONFIG_LOOSE comes from a build without a package prefix; CONFIG_*
	// options are collected regardless of which build carries them.
	wantConfig := map[string]string{
		"CONFIG_NET":        "y",
		"CONFIG_DEBUG_INFO": "n",
		"CONFIG_LOOSE":      "m",
	}
	if !reflect.DeepEqual(snap.KernelConfig, wantConfig) {
		t.Errorf("KernelConfig = %v, want %v", snap.KernelConfig, wantConfig)
	}

	// The orphan PACKAGECONFIG sits in a build whose name has no
	// "pkg:" prefix, so it cannot be attributed and is dropped.
	wantPC := map[string]map[string]string{
		"openssl": {
			"cryptodev-linux": "disabled",
			"no-tls1":         "enabled",
		},
	}
	if !reflect.DeepEqual(snap.PackageConfig, wantPC) {
		t.Errorf("PackageConfig = %v, want %v", snap.PackageConfig, wantPC)
	}
}

func TestExtract_IgnoreProprietary(t *testing.T) {
	snap, err := Extract(strings.NewReader(sampleDoc), ExtractOptions{IgnoreProprietary: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if _, ok := snap.Packages["secretblob"]; ok {
		t.Error("proprietary package not skipped")
	}
	if _, ok := snap.Packages["busybox"]; !ok {
		t.Error("non-proprietary package missing")
	}
}

func TestExtract_NotSPDX(t *testing.T) {
	for _, doc := range []string{
		`{"name": "not spdx"}`,
		`{"@graph": "wrong shape"}`,
		`{"@graph": {"still": "wrong"}}`,
		`{"@graph": null}`,
	} {
		_, err := Extract(strings.NewReader(doc), ExtractOptions{}, zerolog.Nop())
		if !errors.Is(err, ErrNotSPDX) {
			t.Errorf("Extract(%s) error = %v, want ErrNotSPDX", doc, err)
		}
	}
}

func TestExtract_MalformedJSON(t *testing.T) {
	_, err := Extract(strings.NewReader(`{"@graph": [`), ExtractOptions{}, zerolog.Nop())
	if err == nil {
		t.Fatal("Extract() expected error for truncated document")
	}
	if errors.Is(err, ErrNotSPDX) {
		t.Error("truncated document misreported as unrecognized format")
	}
}

func TestExtract_WarnsWithoutBuilds(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	doc := `{"@graph": [{"type": "software_Package", "name": "busybox",
		"software_packageVersion": "1.36.1", "software_primaryPurpose": "install"}]}`
	snap, err := Extract(strings.NewReader(doc), ExtractOptions{}, log)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(snap.Packages) != 1 {
		t.Errorf("Packages = %v, want one entry", snap.Packages)
	}
	if !strings.Contains(buf.String(), "No build_Build objects found") {
		t.Errorf("missing warning, log output: %s", buf.String())
	}
}

func TestExtract_EmptyGraph(t *testing.T) {
	snap, err := Extract(strings.NewReader(`{"@graph": []}`), ExtractOptions{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := model.NewSnapshot()
	if !reflect.DeepEqual(snap, want) {
		t.Errorf("Extract() = %+v, want empty snapshot", snap)
	}
}

func TestNormalizePackageName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"kernel-6.12.43-00469-g647daef97a89", "kernel"},
		{"kernel-module-8021q-6.12.43-00469-g647daef97a89", "kernel-module-8021q"},
		{"kernel-6.6.111-yocto-standard", "kernel"},
		{"kernel-6.1.38-rt13", "kernel"},
		{"kernel-6.12", "kernel"},
		{"kernel", "kernel"},
		{"kernel-dev", "kernel-dev"},
		{"kernel-module-8021q", "kernel-module-8021q"},
		{"busybox", "busybox"},
	}
	for _, tt := range tests {
		if got := NormalizePackageName(tt.name); got != tt.want {
			t.Errorf("NormalizePackageName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
