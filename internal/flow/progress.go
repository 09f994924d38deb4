package flow

// ProgressPercent maps the displayed section to a completion percentage.
// Section numbers start at 1; a displayed section of 0 (intro, nothing
// asked yet) reports zero progress. The result never exceeds 100.
func ProgressPercent(displayedSection, totalSections int) float64 {
	if totalSections <= 0 || displayedSection <= 0 {
		return 0
	}
	pct := 100 * float64(displayedSection) / float64(totalSections)
	if pct > 100 {
		return 100
	}
	return pct
}
