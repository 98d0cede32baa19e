// Package render turns diff results into line-oriented console output.
package render

import (
	"fmt"
	"sort"
	"strings"

	"sbomdiff/internal/diff"
)

// Options controls which parts of a result are rendered.
type Options struct {
	// Full renders section headers even for empty buckets and includes
	// unchanged entries when the result carries them.
	Full bool
	// View narrows the rendering to selected categories and buckets.
	View diff.View
}

// Text renders a result section by section. Added entries are prefixed
// with "+", removed with "-", changed with "~" and unchanged with "=".
// Keys are sorted so output is stable across runs.
func Text(r *diff.Result, opts Options) string {
	var b strings.Builder
	if opts.View.Allows(diff.CategoryPackages) {
		writeScalarSection(&b, "Packages", r.Packages, opts)
	}
	if opts.View.Allows(diff.CategoryKernelConfig) {
		writeScalarSection(&b, "Kernel Config", r.KernelConfig, opts)
	}
	if opts.View.Allows(diff.CategoryPackageConfig) {
		writePackageSection(&b, r.PackageConfig, opts)
	}
	return b.String()
}

func writeScalarSection(b *strings.Builder, title string, sec diff.Section, opts Options) {
	if opts.View.AllowsBucket(diff.BucketAdded) && (opts.Full || len(sec.Added) > 0) {
		fmt.Fprintf(b, "\n%s - Added:\n", title)
		for _, k := range sortedKeys(sec.Added) {
			fmt.Fprintf(b, " + %s: %s\n", k, sec.Added[k])
		}
	}
	if opts.View.AllowsBucket(diff.BucketRemoved) && (opts.Full || len(sec.Removed) > 0) {
		fmt.Fprintf(b, "\n%s - Removed:\n", title)
		for _, k := range sortedKeys(sec.Removed) {
			fmt.Fprintf(b, " - %s: %s\n", k, sec.Removed[k])
		}
	}
	if opts.View.AllowsBucket(diff.BucketChanged) && (opts.Full || len(sec.Changed) > 0) {
		fmt.Fprintf(b, "\n%s - Changed:\n", title)
		for _, k := range sortedKeys(sec.Changed) {
			ch := sec.Changed[k]
			fmt.Fprintf(b, " ~ %s: %s -> %s\n", k, ch.From, ch.To)
		}
	}
	if opts.Full && opts.View.AllowsBucket(diff.BucketUnchanged) && sec.Unchanged != nil {
		fmt.Fprintf(b, "\n%s - Unchanged:\n", title)
		for _, k := range sortedKeys(sec.Unchanged) {
			fmt.Fprintf(b, " = %s: %s\n", k, sec.Unchanged[k])
		}
	}
}

func writePackageSection(b *strings.Builder, ps diff.PackageSection, opts Options) {
	if opts.View.AllowsBucket(diff.BucketAdded) && (opts.Full || len(ps.Added) > 0) {
		b.WriteString("\nPACKAGECONFIG - Added Packages:\n")
		for _, pkg := range sortedKeys(ps.Added) {
			fmt.Fprintf(b, " + %s:\n", pkg)
			writeFeatures(b, ps.Added[pkg], "")
		}
	}
	if opts.View.AllowsBucket(diff.BucketRemoved) && (opts.Full || len(ps.Removed) > 0) {
		b.WriteString("\nPACKAGECONFIG - Removed Packages:\n")
		for _, pkg := range sortedKeys(ps.Removed) {
			fmt.Fprintf(b, " - %s:\n", pkg)
			writeFeatures(b, ps.Removed[pkg], "")
		}
	}
	if opts.View.AllowsBucket(diff.BucketChanged) && (opts.Full || len(ps.Changed) > 0) {
		b.WriteString("\nPACKAGECONFIG - Changed Packages:\n")
		for _, pkg := range sortedKeys(ps.Changed) {
			fmt.Fprintf(b, " ~ %s:\n", pkg)
			inner := ps.Changed[pkg]
			writeFeatures(b, inner.Added, "+ ")
			writeFeatures(b, inner.Removed, "- ")
			for _, feature := range sortedKeys(inner.Changed) {
				ch := inner.Changed[feature]
				fmt.Fprintf(b, "     ~ %s: %s -> %s\n", feature, ch.From, ch.To)
			}
			if opts.Full && inner.Unchanged != nil {
				writeFeatures(b, inner.Unchanged, "= ")
			}
		}
	}
	if opts.Full && opts.View.AllowsBucket(diff.BucketUnchanged) && ps.Unchanged != nil {
		b.WriteString("\nPACKAGECONFIG - Unchanged Packages:\n")
		for _, pkg := range sortedKeys(ps.Unchanged) {
			fmt.Fprintf(b, " = %s:\n", pkg)
			writeFeatures(b, ps.Unchanged[pkg], "")
		}
	}
}

// writeFeatures prints one feature per line, indented under its
// package line, with an optional bucket marker.
func writeFeatures(b *strings.Builder, features map[string]string, marker string) {
	for _, feature := range sortedKeys(features) {
		fmt.Fprintf(b, "     %s%s: %s\n", marker, feature, features[feature])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
