package types

// Severity represents the severity level of an issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Valid reports whether s is one of the known severity levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Category represents the check category an issue belongs to.
type Category string

const (
	CategoryCodeQuality   Category = "codeQuality"
	CategorySecurity      Category = "security"
	CategoryCodeSmell     Category = "codeSmell"
	CategoryLicense       Category = "license"
	CategoryDocumentation Category = "documentation"
	CategoryTestCoverage  Category = "testCoverage"
	CategoryPerformance   Category = "performance"
	CategoryAccessibility Category = "accessibility"
	CategoryLLMSpecific   Category = "llmSpecific"
)

// AllCategories lists every check category in a stable order.
var AllCategories = []Category{
	CategoryCodeQuality,
	CategorySecurity,
	CategoryCodeSmell,
	CategoryLicense,
	CategoryDocumentation,
	CategoryTestCoverage,
	CategoryPerformance,
	CategoryAccessibility,
	CategoryLLMSpecific,
}

// Valid reports whether c is one of the known check categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// FileDiff is a single file's unified diff extracted from git.
type FileDiff struct {
	Path      string
	Diff      string
	IsNew     bool
	IsDeleted bool
}

// Issue is a single finding produced by review or cache lookup.
// Line is nil when the location could not be determined.
type Issue struct {
	File       string   `json:"file"`
	Line       *int     `json:"line"`
	Severity   Severity `json:"severity"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion"`
}

// ScanResult is the complete result of one scan run.
type ScanResult struct {
	Issues       []Issue
	FilesScanned int
	FilesSkipped int
	FilesCached  int
	FilesDeduped int
	TokensUsed   int
	CacheHits    int
	SkippedFiles []string
}

// HasCritical reports whether any issue has critical severity.
func (r *ScanResult) HasCritical() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// HasWarning reports whether any issue has warning severity.
func (r *ScanResult) HasWarning() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// ShouldBlock determines whether the commit should be blocked given the
// configured blockOn setting (none, critical, warning, all).
func (r *ScanResult) ShouldBlock(blockOn string) bool {
	switch blockOn {
	case "none":
		return false
	case "critical":
		return r.HasCritical()
	case "warning":
		return r.HasCritical() || r.HasWarning()
	case "all":
		return len(r.Issues) > 0
	}
	return false
}
