// Package diff classifies the entries of two metadata snapshots into
// added, removed, changed and unchanged buckets. Comparing build
// snapshots this way keeps review focused on the delta instead of
// re-reading full manifests.
package diff

import (
	"maps"

	"sbomdiff/internal/model"
)

// Change records a value transition for a key present in both inputs.
type Change struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Section is the diff of one scalar category (packages, kernel config).
// Added, Removed and Changed are always allocated; Unchanged is nil
// unless the diff was generated with IncludeUnchanged.
type Section struct {
	Added     map[string]string
	Removed   map[string]string
	Changed   map[string]Change
	Unchanged map[string]string
}

// HasChanges reports whether the section records any addition, removal
// or change. Unchanged entries do not count.
func (s Section) HasChanges() bool {
	return len(s.Added)+len(s.Removed)+len(s.Changed) > 0
}

// PackageSection is the diff of the nested PACKAGECONFIG category.
// Added and Removed carry the full feature map of packages present on
// one side only; Changed holds a feature-level Section for each package
// present on both sides with differing features.
type PackageSection struct {
	Added     map[string]map[string]string
	Removed   map[string]map[string]string
	Changed   map[string]Section
	Unchanged map[string]map[string]string
}

// HasChanges reports whether any package was added, removed or changed.
func (p PackageSection) HasChanges() bool {
	return len(p.Added)+len(p.Removed)+len(p.Changed) > 0
}

// Result groups the three category diffs of one comparison.
type Result struct {
	Packages      Section
	KernelConfig  Section
	PackageConfig PackageSection
}

// IsEmpty reports whether no category recorded any change.
func (r *Result) IsEmpty() bool {
	return !r.Packages.HasChanges() && !r.KernelConfig.HasChanges() && !r.PackageConfig.HasChanges()
}

// Options configures diff generation.
type Options struct {
	// IncludeUnchanged materializes the unchanged buckets ("full" mode).
	IncludeUnchanged bool
}

// Compare diffs two scalar mappings. Nil inputs behave as empty maps;
// the inputs are never modified and the returned section shares no map
// structure with them.
func Compare(ref, cur map[string]string, opts Options) Section {
	sec := newSection(opts)
	for key, curVal := range cur {
		refVal, exists := ref[key]
		switch {
		case !exists:
			sec.Added[key] = curVal
		case refVal != curVal:
			sec.Changed[key] = Change{From: refVal, To: curVal}
		case opts.IncludeUnchanged:
			sec.Unchanged[key] = curVal
		}
	}
	for key, refVal := range ref {
		if _, exists := cur[key]; !exists {
			sec.Removed[key] = refVal
		}
	}
	return sec
}

// ComparePackageConfig diffs two nested package-to-features mappings.
// A package present on both sides lands in Changed only when its
// feature-level diff records changes; otherwise it is unchanged.
func ComparePackageConfig(ref, cur map[string]map[string]string, opts Options) PackageSection {
	ps := PackageSection{
		Added:   make(map[string]map[string]string),
		Removed: make(map[string]map[string]string),
		Changed: make(map[string]Section),
	}
	if opts.IncludeUnchanged {
		ps.Unchanged = make(map[string]map[string]string)
	}

	for pkg, curFeatures := range cur {
		refFeatures, exists := ref[pkg]
		if !exists {
			ps.Added[pkg] = cloneFeatures(curFeatures)
			continue
		}
		inner := Compare(refFeatures, curFeatures, opts)
		switch {
		case inner.HasChanges():
			ps.Changed[pkg] = inner
		case opts.IncludeUnchanged:
			ps.Unchanged[pkg] = cloneFeatures(curFeatures)
		}
	}
	for pkg, refFeatures := range ref {
		if _, exists := cur[pkg]; !exists {
			ps.Removed[pkg] = cloneFeatures(refFeatures)
		}
	}
	return ps
}

// Snapshots diffs two normalized snapshots category by category.
func Snapshots(ref, cur *model.Snapshot, opts Options) *Result {
	return &Result{
		Packages:      Compare(ref.Packages, cur.Packages, opts),
		KernelConfig:  Compare(ref.KernelConfig, cur.KernelConfig, opts),
		PackageConfig: ComparePackageConfig(ref.PackageConfig, cur.PackageConfig, opts),
	}
}

func newSection(opts Options) Section {
	sec := Section{
		Added:   make(map[string]string),
		Removed: make(map[string]string),
		Changed: make(map[string]Change),
	}
	if opts.IncludeUnchanged {
		sec.Unchanged = make(map[string]string)
	}
	return sec
}

func cloneFeatures(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	maps.Copy(out, m)
	return out
}
