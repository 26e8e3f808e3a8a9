package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sicxe/assembler/parser"
)

// LintLevel is the severity of a lint finding.
type LintLevel int

const (
	LintError   LintLevel = iota // would also fail assembly
	LintWarning                  // style or likely-mistake, assembles fine
	LintInfo                     // suggestion
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	default:
		return "info"
	}
}

// LintIssue is a single finding reported by the linter.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", i.Line, i.Level, i.Message, i.Code)
}

// LintOptions controls which linter passes run.
type LintOptions struct {
	CheckUnused  bool // flag defined-but-never-referenced labels
	CheckReach   bool // flag code after an unconditional jump or RSUB
	SuggestFixes bool // suggest a near-miss label for undefined references
}

// DefaultLintOptions returns the standard set of enabled passes.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{
		CheckUnused:  true,
		CheckReach:   true,
		SuggestFixes: true,
	}
}

// Linter runs style and correctness checks over tokenized SIC/XE
// source beyond what Pass 1/Pass 2 already reject.
type Linter struct {
	options *LintOptions
	issues  []*LintIssue

	lines            []*parser.Line
	definedLabels    map[string]int
	referencedLabels map[string][]int
}

// NewLinter creates a Linter with the given options, falling back to
// DefaultLintOptions when options is nil.
func NewLinter(options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{
		options:          options,
		definedLabels:    make(map[string]int),
		referencedLabels: make(map[string][]int),
	}
}

// Lint analyzes source and returns findings ordered by line number.
func (l *Linter) Lint(source string) []*LintIssue {
	l.lines = parser.Tokenize(source)

	l.collectLabels()
	l.checkUndefinedReferences()

	if l.options.CheckUnused {
		l.checkUnusedLabels()
	}
	if l.options.CheckReach {
		l.checkUnreachableCode()
	}
	l.checkDirectiveArgCounts()

	sort.SliceStable(l.issues, func(i, j int) bool {
		return l.issues[i].Line < l.issues[j].Line
	})
	return l.issues
}

func (l *Linter) collectLabels() {
	for _, line := range l.lines {
		if line.Label == "" {
			continue
		}
		if _, exists := l.definedLabels[line.Label]; exists {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintWarning,
				Line:    line.LineNo,
				Message: fmt.Sprintf("duplicate label %q", line.Label),
				Code:    "DUPLICATE_LABEL",
			})
			continue
		}
		l.definedLabels[line.Label] = line.LineNo
	}
}

// checkUndefinedReferences flags Format-3/4 instruction operands that
// reference a label never defined in the source. Immediate numeric
// literals and the location-counter symbol '*' are skipped. Operands of
// WORD, EQU, ORG and other directives are not checked.
func (l *Linter) checkUndefinedReferences() {
	for _, line := range l.lines {
		if line.IsComment || line.Opcode == "" {
			continue
		}
		entry, known := parser.OpTable[line.Opcode]
		if !known || entry.Operand == 0 {
			continue
		}
		if entry.Fmt != parser.Format3 {
			continue
		}
		operand := strings.TrimSpace(line.Operand)
		if operand == "" || operand == "*" {
			continue
		}
		if line.Prefix == parser.PrefixImmediate {
			if _, err := parser.ParseNumeric(operand); err == nil {
				continue
			}
		}
		l.checkLabelReference(operand, line.LineNo)
	}
}

func (l *Linter) checkLabelReference(label string, line int) {
	label = strings.ToUpper(strings.TrimSpace(label))
	l.referencedLabels[label] = append(l.referencedLabels[label], line)

	if _, exists := l.definedLabels[label]; exists {
		return
	}
	suggestion := l.findSimilarLabel(label)
	msg := fmt.Sprintf("undefined label %q", label)
	if suggestion != "" && l.options.SuggestFixes {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	l.issues = append(l.issues, &LintIssue{
		Level:   LintError,
		Line:    line,
		Message: msg,
		Code:    "UNDEF_LABEL",
	})
}

func (l *Linter) checkUnusedLabels() {
	for label, defLine := range l.definedLabels {
		if _, used := l.referencedLabels[label]; used {
			continue
		}
		l.issues = append(l.issues, &LintIssue{
			Level:   LintWarning,
			Line:    defLine,
			Message: fmt.Sprintf("label %q defined but never referenced", label),
			Code:    "UNUSED_LABEL",
		})
	}
}

// checkUnreachableCode flags a statement immediately following an
// unconditional jump (J) or RSUB that carries no label of its own,
// since nothing could ever branch to it.
func (l *Linter) checkUnreachableCode() {
	for i, line := range l.lines {
		if line.Opcode != "J" && line.Opcode != "RSUB" {
			continue
		}
		for j := i + 1; j < len(l.lines); j++ {
			next := l.lines[j]
			if next.IsComment || strings.TrimSpace(next.Raw) == "" {
				continue
			}
			if next.Opcode == "" {
				break
			}
			if next.Label == "" {
				l.issues = append(l.issues, &LintIssue{
					Level:   LintWarning,
					Line:    next.LineNo,
					Message: "unreachable code",
					Code:    "UNREACHABLE_CODE",
				})
			}
			break
		}
	}
}

func (l *Linter) checkDirectiveArgCounts() {
	for _, line := range l.lines {
		switch line.Opcode {
		case "ORG", "EQU", "BASE":
			if strings.TrimSpace(line.Operand) == "" {
				l.issues = append(l.issues, &LintIssue{
					Level:   LintError,
					Line:    line.LineNo,
					Message: fmt.Sprintf("%s directive requires an operand", line.Opcode),
					Code:    "INVALID_DIRECTIVE",
				})
			}
		case "RESB", "RESW":
			if strings.TrimSpace(line.Operand) == "" {
				l.issues = append(l.issues, &LintIssue{
					Level:   LintError,
					Line:    line.LineNo,
					Message: fmt.Sprintf("%s directive requires a count", line.Opcode),
					Code:    "INVALID_DIRECTIVE",
				})
			}
		}
	}
}

// findSimilarLabel returns the defined label closest to target by edit
// distance, within a tolerance of 3 characters, or "" if none is close.
func (l *Linter) findSimilarLabel(target string) string {
	target = strings.ToLower(target)
	bestMatch := ""
	bestDistance := 999

	for label := range l.definedLabels {
		dist := levenshteinDistance(strings.ToLower(label), target)
		if dist < bestDistance && dist <= 3 {
			bestMatch = label
			bestDistance = dist
		}
	}

	return bestMatch
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}

func min(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
