package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mallardhq/mallard/internal/types"
)

// fileGroup holds the issues for one file, in discovery order.
type fileGroup struct {
	Path   string
	Issues []types.Issue
}

// data is the render model shared by the markdown and HTML generators.
type data struct {
	Timestamp     string
	CriticalCount int
	WarningCount  int
	InfoCount     int
	FilesScanned  int
	FilesCached   int
	TokensUsed    int
	Groups        []fileGroup
}

// Generate renders the scan result to a timestamped report file in dir
// and returns the written path. Format is "markdown" or "html".
func Generate(result *types.ScanResult, dir, format string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}

	now := time.Now()
	d := buildData(result, now)

	var ext, content string
	var err error
	switch format {
	case "markdown":
		ext = "md"
		content = renderMarkdown(d)
	case "html":
		ext = "html"
		content, err = renderHTML(d)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown report format %q", format)
	}

	name := fmt.Sprintf("report-%s.%s", now.Format("2006-01-02_1504"), ext)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// Latest returns the most recent report file in dir, or "" when none exist.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading report dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "report-") && (strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".html")) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", nil
	}
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}

func buildData(result *types.ScanResult, now time.Time) data {
	d := data{
		Timestamp:    now.Format("2006-01-02 15:04"),
		FilesScanned: result.FilesScanned,
		FilesCached:  result.FilesCached,
		TokensUsed:   result.TokensUsed,
	}

	index := make(map[string]int)
	for _, issue := range result.Issues {
		switch issue.Severity {
		case types.SeverityCritical:
			d.CriticalCount++
		case types.SeverityWarning:
			d.WarningCount++
		case types.SeverityInfo:
			d.InfoCount++
		}
		i, ok := index[issue.File]
		if !ok {
			i = len(d.Groups)
			index[issue.File] = i
			d.Groups = append(d.Groups, fileGroup{Path: issue.File})
		}
		d.Groups[i].Issues = append(d.Groups[i].Issues, issue)
	}
	return d
}

func renderMarkdown(d data) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Mallard Review Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", d.Timestamp)
	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "- Files scanned: %d\n", d.FilesScanned)
	fmt.Fprintf(&b, "- Cache hits: %d\n", d.FilesCached)
	fmt.Fprintf(&b, "- Tokens used: %d\n", d.TokensUsed)
	fmt.Fprintf(&b, "- Critical: %d, Warning: %d, Info: %d\n\n", d.CriticalCount, d.WarningCount, d.InfoCount)

	if len(d.Groups) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "## Issues\n\n")
	for _, g := range d.Groups {
		fmt.Fprintf(&b, "### %s\n\n", g.Path)
		for _, issue := range g.Issues {
			loc := ""
			if issue.Line != nil {
				loc = fmt.Sprintf(" (line %d)", *issue.Line)
			}
			fmt.Fprintf(&b, "- **%s** [%s]%s: %s\n", issue.Severity, issue.Category, loc, issue.Message)
			if issue.Suggestion != "" {
				fmt.Fprintf(&b, "  - Suggestion: %s\n", issue.Suggestion)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Mallard Review Report</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; max-width: 900px; margin: 2rem auto; padding: 0 1rem; color: #1f2328; }
h1 { border-bottom: 2px solid #d0d7de; padding-bottom: .4rem; }
.summary { background: #f6f8fa; border-radius: 6px; padding: 1rem; margin-bottom: 1.5rem; }
.summary span { margin-right: 1.5rem; }
.file { margin-bottom: 1.5rem; }
.file h3 { font-family: ui-monospace, monospace; background: #f6f8fa; padding: .4rem .6rem; border-radius: 6px; }
.issue { border-left: 4px solid #d0d7de; padding: .4rem .8rem; margin: .5rem 0; }
.issue.critical { border-left-color: #cf222e; }
.issue.warning { border-left-color: #bf8700; }
.issue.info { border-left-color: #0969da; }
.sev { font-weight: 600; text-transform: uppercase; font-size: .8rem; }
.sev.critical { color: #cf222e; }
.sev.warning { color: #bf8700; }
.sev.info { color: #0969da; }
.cat { color: #57606a; font-size: .8rem; margin-left: .5rem; }
.suggestion { color: #57606a; font-style: italic; margin-top: .3rem; }
</style>
</head>
<body>
<h1>Mallard Review Report</h1>
<p>Generated: {{.Timestamp}}</p>
<div class="summary">
<span>Files scanned: {{.FilesScanned}}</span>
<span>Cache hits: {{.FilesCached}}</span>
<span>Tokens used: {{.TokensUsed}}</span>
<span>Critical: {{.CriticalCount}}</span>
<span>Warning: {{.WarningCount}}</span>
<span>Info: {{.InfoCount}}</span>
</div>
{{if not .Groups}}<p>No issues found.</p>{{end}}
{{range .Groups}}
<div class="file">
<h3>{{.Path}}</h3>
{{range .Issues}}
<div class="issue {{.Severity}}">
<span class="sev {{.Severity}}">{{.Severity}}</span><span class="cat">{{.Category}}{{if .Line}} · line {{.Line}}{{end}}</span>
<div>{{.Message}}</div>
{{if .Suggestion}}<div class="suggestion">{{.Suggestion}}</div>{{end}}
</div>
{{end}}
</div>
{{end}}
</body>
</html>
`))

func renderHTML(d data) (string, error) {
	var b strings.Builder
	if err := htmlTemplate.Execute(&b, d); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return b.String(), nil
}
