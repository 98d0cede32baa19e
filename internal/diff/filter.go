package diff

import (
	"fmt"
	"maps"
	"slices"
)

// Category selects one diff category in views and filters.
type Category string

const (
	CategoryPackages      Category = "packages"
	CategoryKernelConfig  Category = "kernel-config"
	CategoryPackageConfig Category = "packageconfig"
)

// ParseCategory validates a category name given on the command line.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryPackages, CategoryKernelConfig, CategoryPackageConfig:
		return c, nil
	}
	return "", fmt.Errorf("invalid category: %s (valid: packages, kernel-config, packageconfig)", s)
}

// Bucket selects one classification bucket in views and filters.
type Bucket string

const (
	BucketAdded     Bucket = "added"
	BucketRemoved   Bucket = "removed"
	BucketChanged   Bucket = "changed"
	BucketUnchanged Bucket = "unchanged"
)

// ParseBucket validates a bucket name given on the command line.
func ParseBucket(s string) (Bucket, error) {
	switch b := Bucket(s); b {
	case BucketAdded, BucketRemoved, BucketChanged, BucketUnchanged:
		return b, nil
	}
	return "", fmt.Errorf("invalid bucket: %s (valid: added, removed, changed, unchanged)", s)
}

// View narrows a result to selected categories and buckets. Empty
// slices select everything.
type View struct {
	Categories []Category
	Buckets    []Bucket
}

// Allows reports whether the view selects the category.
func (v View) Allows(c Category) bool {
	return len(v.Categories) == 0 || slices.Contains(v.Categories, c)
}

// AllowsBucket reports whether the view selects the bucket.
func (v View) AllowsBucket(b Bucket) bool {
	return len(v.Buckets) == 0 || slices.Contains(v.Buckets, b)
}

// Filter returns a projection of r holding only entries of the selected
// categories and buckets. Deselected buckets come back allocated but
// empty; entries are never reclassified and r is untouched. Bucket
// selection applies to the outer level of the packageconfig category;
// changed packages keep their whole feature-level section. Applying two
// views in sequence yields the same result as their intersection.
func (r *Result) Filter(v View) *Result {
	return &Result{
		Packages:      filterSection(r.Packages, v, v.Allows(CategoryPackages)),
		KernelConfig:  filterSection(r.KernelConfig, v, v.Allows(CategoryKernelConfig)),
		PackageConfig: filterPackages(r.PackageConfig, v, v.Allows(CategoryPackageConfig)),
	}
}

// Entry is one diff fact handed to predicate filters. Scalar entries
// carry their key and value (or the from/to pair when changed). Entries
// of the packageconfig category are package-level: added, removed and
// unchanged packages are atomic facts keyed by package name, while
// changed packages contribute one entry per differing feature with
// Package naming the owner.
type Entry struct {
	Category Category
	Bucket   Bucket
	Package  string
	Key      string
	Value    string
	From     string
	To       string
}

// FilterFunc returns a projection of r holding only entries the keep
// predicate accepts. A changed packageconfig package survives when any
// of its feature entries does, keeping exactly those features.
func (r *Result) FilterFunc(keep func(Entry) bool) *Result {
	return &Result{
		Packages:      filterSectionFunc(r.Packages, CategoryPackages, "", keep),
		KernelConfig:  filterSectionFunc(r.KernelConfig, CategoryKernelConfig, "", keep),
		PackageConfig: filterPackagesFunc(r.PackageConfig, keep),
	}
}

func filterSection(sec Section, v View, allowed bool) Section {
	out := Section{
		Added:   make(map[string]string),
		Removed: make(map[string]string),
		Changed: make(map[string]Change),
	}
	if sec.Unchanged != nil {
		out.Unchanged = make(map[string]string)
	}
	if !allowed {
		return out
	}
	if v.AllowsBucket(BucketAdded) {
		maps.Copy(out.Added, sec.Added)
	}
	if v.AllowsBucket(BucketRemoved) {
		maps.Copy(out.Removed, sec.Removed)
	}
	if v.AllowsBucket(BucketChanged) {
		maps.Copy(out.Changed, sec.Changed)
	}
	if sec.Unchanged != nil && v.AllowsBucket(BucketUnchanged) {
		maps.Copy(out.Unchanged, sec.Unchanged)
	}
	return out
}

func filterPackages(ps PackageSection, v View, allowed bool) PackageSection {
	out := PackageSection{
		Added:   make(map[string]map[string]string),
		Removed: make(map[string]map[string]string),
		Changed: make(map[string]Section),
	}
	if ps.Unchanged != nil {
		out.Unchanged = make(map[string]map[string]string)
	}
	if !allowed {
		return out
	}
	if v.AllowsBucket(BucketAdded) {
		for pkg, features := range ps.Added {
			out.Added[pkg] = cloneFeatures(features)
		}
	}
	if v.AllowsBucket(BucketRemoved) {
		for pkg, features := range ps.Removed {
			out.Removed[pkg] = cloneFeatures(features)
		}
	}
	if v.AllowsBucket(BucketChanged) {
		for pkg, inner := range ps.Changed {
			out.Changed[pkg] = cloneSection(inner)
		}
	}
	if ps.Unchanged != nil && v.AllowsBucket(BucketUnchanged) {
		for pkg, features := range ps.Unchanged {
			out.Unchanged[pkg] = cloneFeatures(features)
		}
	}
	return out
}

func filterSectionFunc(sec Section, c Category, pkg string, keep func(Entry) bool) Section {
	out := Section{
		Added:   make(map[string]string),
		Removed: make(map[string]string),
		Changed: make(map[string]Change),
	}
	if sec.Unchanged != nil {
		out.Unchanged = make(map[string]string)
	}
	for key, val := range sec.Added {
		if keep(Entry{Category: c, Bucket: BucketAdded, Package: pkg, Key: key, Value: val}) {
			out.Added[key] = val
		}
	}
	for key, val := range sec.Removed {
		if keep(Entry{Category: c, Bucket: BucketRemoved, Package: pkg, Key: key, Value: val}) {
			out.Removed[key] = val
		}
	}
	for key, ch := range sec.Changed {
		if keep(Entry{Category: c, Bucket: BucketChanged, Package: pkg, Key: key, From: ch.From, To: ch.To}) {
			out.Changed[key] = ch
		}
	}
	for key, val := range sec.Unchanged {
		if keep(Entry{Category: c, Bucket: BucketUnchanged, Package: pkg, Key: key, Value: val}) {
			out.Unchanged[key] = val
		}
	}
	return out
}

func filterPackagesFunc(ps PackageSection, keep func(Entry) bool) PackageSection {
	out := PackageSection{
		Added:   make(map[string]map[string]string),
		Removed: make(map[string]map[string]string),
		Changed: make(map[string]Section),
	}
	if ps.Unchanged != nil {
		out.Unchanged = make(map[string]map[string]string)
	}
	for pkg, features := range ps.Added {
		if keep(Entry{Category: CategoryPackageConfig, Bucket: BucketAdded, Package: pkg, Key: pkg}) {
			out.Added[pkg] = cloneFeatures(features)
		}
	}
	for pkg, features := range ps.Removed {
		if keep(Entry{Category: CategoryPackageConfig, Bucket: BucketRemoved, Package: pkg, Key: pkg}) {
			out.Removed[pkg] = cloneFeatures(features)
		}
	}
	for pkg, inner := range ps.Changed {
		kept := filterSectionFunc(inner, CategoryPackageConfig, pkg, keep)
		if kept.HasChanges() || len(kept.Unchanged) > 0 {
			out.Changed[pkg] = kept
		}
	}
	for pkg, features := range ps.Unchanged {
		if keep(Entry{Category: CategoryPackageConfig, Bucket: BucketUnchanged, Package: pkg, Key: pkg}) {
			out.Unchanged[pkg] = cloneFeatures(features)
		}
	}
	return out
}

func cloneSection(s Section) Section {
	out := Section{
		Added:   maps.Clone(s.Added),
		Removed: maps.Clone(s.Removed),
		Changed: maps.Clone(s.Changed),
	}
	if s.Unchanged != nil {
		out.Unchanged = maps.Clone(s.Unchanged)
	}
	return out
}
