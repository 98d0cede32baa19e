package kconfig

import (
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `#
# Automatically generated file; DO NOT EDIT.
# Linux/x86 6.6.111 Kernel Configuration
#
CONFIG_PARPORT=y
# CONFIG_AD525X_DPOT is not set
CONFIG_CMDLINE="console=ttyS0,115200"
CONFIG_INITRAMFS_SOURCE=""

CONFIG_LOG_BUF_SHIFT=17
not a config line
`

	entries, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Entry{
		{"CONFIG_PARPORT", "y"},
		{"CONFIG_AD525X_DPOT", "n"},
		{"CONFIG_CMDLINE", "console=ttyS0,115200"},
		{"CONFIG_INITRAMFS_SOURCE", ""},
		{"CONFIG_LOG_BUF_SHIFT", "17"},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("Parse() = %v, want %v", entries, want)
	}
}

func TestParse_ValueTrimming(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		key   string
		value string
	}{
		{"plain tristate", "CONFIG_NET=y", "CONFIG_NET", "y"},
		{"quoted string", `CONFIG_HOSTNAME="buildhost"`, "CONFIG_HOSTNAME", "buildhost"},
		{"value with equals", "CONFIG_EXTRA=a=b", "CONFIG_EXTRA", "a=b"},
		{"padded key", "  CONFIG_PAD=y  ", "CONFIG_PAD", "y"},
		{"numeric", "CONFIG_NR_CPUS=8", "CONFIG_NR_CPUS", "8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Parse(strings.NewReader(tt.line))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}
			if entries[0].Key != tt.key || entries[0].Value != tt.value {
				t.Errorf("got %q=%q, want %q=%q", entries[0].Key, entries[0].Value, tt.key, tt.value)
			}
		})
	}
}

func TestParse_SkipsComments(t *testing.T) {
	input := `# CONFIG_FOO is disabled here but this is prose
# just a comment
`
	entries, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries from comments, got %v", entries)
	}
}

func TestParse_Empty(t *testing.T) {
	entries, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %v", entries)
	}
}

func TestMap_LastWins(t *testing.T) {
	entries := []Entry{
		{"CONFIG_NET", "y"},
		{"CONFIG_USB", "m"},
		{"CONFIG_NET", "n"},
	}
	got := Map(entries)
	want := map[string]string{"CONFIG_NET": "n", "CONFIG_USB": "m"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Map() = %v, want %v", got, want)
	}
}
