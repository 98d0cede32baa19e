// Package model defines the normalized snapshot extracted from build
// metadata inputs before diffing.
package model

// Snapshot holds the three comparable fact categories of one input:
// installed packages, kernel configuration options, and per-package
// PACKAGECONFIG feature states. Values are opaque strings compared
// only for equality.
type Snapshot struct {
	Packages      map[string]string
	KernelConfig  map[string]string
	PackageConfig map[string]map[string]string
}

// NewSnapshot returns a snapshot with all maps allocated.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Packages:      make(map[string]string),
		KernelConfig:  make(map[string]string),
		PackageConfig: make(map[string]map[string]string),
	}
}

// SetFeature records one PACKAGECONFIG feature state, allocating the
// per-package map on first use.
func (s *Snapshot) SetFeature(pkg, feature, state string) {
	if s.PackageConfig[pkg] == nil {
		s.PackageConfig[pkg] = make(map[string]string)
	}
	s.PackageConfig[pkg][feature] = state
}
