package diff

// Counts tallies the bucket sizes of one section.
type Counts struct {
	Added     int
	Removed   int
	Changed   int
	Unchanged int
}

// HasChanges reports whether any count besides Unchanged is positive.
func (c Counts) HasChanges() bool {
	return c.Added+c.Removed+c.Changed > 0
}

// PackageConfigCounts splits packageconfig totals into package-level
// and feature-level counts.
type PackageConfigCounts struct {
	Packages Counts
	Features Counts
}

// Summary aggregates bucket counts across all categories.
type Summary struct {
	Packages      Counts
	KernelConfig  Counts
	PackageConfig PackageConfigCounts
}

// Summarize derives counts from an existing result without re-diffing.
// Feature totals sum over changed packages only; packages that were
// wholly added or removed are already accounted for at package level.
func Summarize(r *Result) Summary {
	s := Summary{
		Packages:     sectionCounts(r.Packages),
		KernelConfig: sectionCounts(r.KernelConfig),
	}
	s.PackageConfig.Packages = Counts{
		Added:     len(r.PackageConfig.Added),
		Removed:   len(r.PackageConfig.Removed),
		Changed:   len(r.PackageConfig.Changed),
		Unchanged: len(r.PackageConfig.Unchanged),
	}
	for _, inner := range r.PackageConfig.Changed {
		s.PackageConfig.Features.Added += len(inner.Added)
		s.PackageConfig.Features.Removed += len(inner.Removed)
		s.PackageConfig.Features.Changed += len(inner.Changed)
		s.PackageConfig.Features.Unchanged += len(inner.Unchanged)
	}
	return s
}

func sectionCounts(sec Section) Counts {
	return Counts{
		Added:     len(sec.Added),
		Removed:   len(sec.Removed),
		Changed:   len(sec.Changed),
		Unchanged: len(sec.Unchanged),
	}
}
