package portfolio

import (
	"fmt"
	"regexp"
	"strings"

	"careerpilot/internal/types"
)

// requiredFiles must exist in every generated file set for the project to
// build as a Vite app.
var requiredFiles = []string{"package.json", "index.html", "src/App.jsx"}

var (
	iconUsagePattern  = regexp.MustCompile(`<(Github|Linkedin|Mail|Menu|X|ChevronDown|ArrowRight|ExternalLink)[\s/>]`)
	importLinePattern = regexp.MustCompile(`import\s+(?:\{([^}]+)\}|(\w+))`)
)

// staticValidate runs the deterministic checks over a generated file set:
// required files present, non-empty content, balanced braces, an export in
// every component file, plus style lints that only warn.
func staticValidate(files []types.GeneratedFile) types.ValidationReport {
	report := types.ValidationReport{}

	present := make(map[string]struct{}, len(files))
	for _, file := range files {
		present[file.Filepath] = struct{}{}
	}
	for _, required := range requiredFiles {
		if _, ok := present[required]; !ok {
			report.Errors = append(report.Errors, types.ValidationIssue{
				File:     required,
				Message:  "required file is missing",
				Severity: "error",
				Rule:     "missing-file",
			})
		}
	}

	for _, file := range files {
		if strings.TrimSpace(file.Content) == "" {
			report.Errors = append(report.Errors, types.ValidationIssue{
				File:     file.Filepath,
				Message:  "file is empty",
				Severity: "error",
				Rule:     "empty-file",
			})
			continue
		}
		if !isCodeFile(file.Filepath) {
			continue
		}

		report.Errors = append(report.Errors, checkBalance(file)...)

		if strings.HasSuffix(file.Filepath, ".jsx") || strings.HasSuffix(file.Filepath, ".tsx") {
			if !strings.Contains(file.Content, "export default") && !strings.Contains(file.Content, "export {") {
				report.Errors = append(report.Errors, types.ValidationIssue{
					File:     file.Filepath,
					Message:  "no export statement found",
					Severity: "error",
					Rule:     "missing-export",
				})
			}
		}

		report.Warnings = append(report.Warnings, lintFile(file)...)
	}

	report.Valid = len(report.Errors) == 0
	return report
}

func isCodeFile(path string) bool {
	for _, ext := range []string{".jsx", ".js", ".tsx", ".ts"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// checkBalance verifies braces, brackets and parens pair up. String and
// comment contents are not tokenized, so this stays a coarse check; it only
// reports when the file as a whole is unbalanced.
func checkBalance(file types.GeneratedFile) []types.ValidationIssue {
	pairs := map[rune]rune{'}': '{', ')': '(', ']': '['}
	counts := map[rune]int{}
	for _, r := range file.Content {
		switch r {
		case '{', '(', '[':
			counts[r]++
		case '}', ')', ']':
			counts[pairs[r]]--
		}
	}

	var issues []types.ValidationIssue
	for open, count := range counts {
		if count != 0 {
			issues = append(issues, types.ValidationIssue{
				File:     file.Filepath,
				Message:  fmt.Sprintf("unbalanced %q delimiters", string(open)),
				Severity: "error",
				Rule:     "unbalanced-delimiters",
			})
		}
	}
	return issues
}

// lintFile flags style issues that should not block assembly
func lintFile(file types.GeneratedFile) []types.ValidationIssue {
	var issues []types.ValidationIssue

	for i, line := range strings.Split(file.Content, "\n") {
		if strings.Contains(line, `className=""`) {
			issues = append(issues, types.ValidationIssue{
				File:     file.Filepath,
				Line:     i + 1,
				Message:  "empty className attribute",
				Severity: "warning",
				Rule:     "tailwind",
			})
		}
	}

	imports := importedNames(file.Content)
	for _, match := range iconUsagePattern.FindAllStringSubmatch(file.Content, -1) {
		icon := match[1]
		if _, ok := imports[icon]; !ok && !strings.Contains(file.Content, "lucide-react") {
			issues = append(issues, types.ValidationIssue{
				File:     file.Filepath,
				Message:  fmt.Sprintf("icon %q may not be imported from lucide-react", icon),
				Severity: "warning",
				Rule:     "missing-import",
			})
		}
	}
	return issues
}

func importedNames(content string) map[string]struct{} {
	names := map[string]struct{}{}
	for _, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "import ") {
			continue
		}
		match := importLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		group := match[1]
		if group == "" {
			group = match[2]
		}
		for _, name := range strings.Split(group, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names[name] = struct{}{}
			}
		}
	}
	return names
}
