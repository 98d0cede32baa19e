package render

import (
	"fmt"
	"strings"

	"sbomdiff/internal/diff"
)

// Summary renders aggregate counts. The feature totals appear only
// when changed packages carry feature-level differences.
func Summary(s diff.Summary) string {
	var b strings.Builder
	b.WriteString("\nSPDX-SBOM-Diff Summary:\n\n")

	b.WriteString("Packages:\n")
	writeCounts(&b, s.Packages)

	b.WriteString("\nKernel Config:\n")
	writeCounts(&b, s.KernelConfig)

	b.WriteString("\nPACKAGECONFIG:\n")
	fmt.Fprintf(&b, "  Packages Added:   %d\n", s.PackageConfig.Packages.Added)
	fmt.Fprintf(&b, "  Packages Removed: %d\n", s.PackageConfig.Packages.Removed)
	fmt.Fprintf(&b, "  Packages Changed: %d\n", s.PackageConfig.Packages.Changed)

	if f := s.PackageConfig.Features; f.HasChanges() {
		fmt.Fprintf(&b, "  Features Added:   %d\n", f.Added)
		fmt.Fprintf(&b, "  Features Removed: %d\n", f.Removed)
		fmt.Fprintf(&b, "  Features Changed: %d\n", f.Changed)
	}

	b.WriteString("\n")
	return b.String()
}

func writeCounts(b *strings.Builder, c diff.Counts) {
	fmt.Fprintf(b, "  Added:   %d\n", c.Added)
	fmt.Fprintf(b, "  Removed: %d\n", c.Removed)
	fmt.Fprintf(b, "  Changed: %d\n", c.Changed)
}
