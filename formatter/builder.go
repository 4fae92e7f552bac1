package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fatih/color"

	"github.com/gnolang/seqcheck/internal"
	tt "github.com/gnolang/seqcheck/internal/types"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	infoStyle    = color.New(color.FgHiCyan, color.Bold)
	checkStyle   = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	witnessStyle = color.New(color.FgGreen, color.Bold)
)

// issueFormatter is the interface that wraps the IssueTemplate method.
type issueFormatter interface {
	IssueTemplate() string
}

// getIssueFormatter returns the formatter for the given check. Issues
// raised by the engine itself get a shorter layout.
func getIssueFormatter(check string) issueFormatter {
	switch check {
	case internal.UnknownCheck, internal.InvalidCase:
		return &EngineIssueFormatter{}
	default:
		return &GeneralIssueFormatter{}
	}
}

// GenerateFormattedIssue formats the issues of one case file into a
// human-readable string.
func GenerateFormattedIssue(issues []tt.Issue, snippet *internal.SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		builder.WriteString(buildIssue(issue, snippet, getIssueFormatter(issue.Check)))
	}
	return builder.String()
}

type IssueData struct {
	Severity        string
	Check           string
	Case            string
	Filename        string
	Line            int
	EndLine         int
	MaxLineNumWidth int
	Padding         string
	Message         string
	Witness         string
	Note            string
	SnippetLines    []string
	CommonIndent    string
}

func buildIssue(issue tt.Issue, snippet *internal.SourceCode, formatter issueFormatter) string {
	var lines []string
	if snippet != nil {
		lines = snippet.Lines
	}

	endLine := caseBlockEnd(lines, issue.Line)
	maxLineNumWidth := calculateMaxLineNumWidth(endLine)

	var commonIndent string
	if isValidLineRange(issue.Line, endLine, lines) {
		commonIndent = findCommonIndent(lines[issue.Line-1 : endLine])
	}

	data := IssueData{
		Severity:        issue.Severity.String(),
		Check:           issue.Check,
		Case:            issue.Case,
		Filename:        issue.Filename,
		Line:            issue.Line,
		EndLine:         endLine,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
		Message:         issue.Message,
		Witness:         issue.Witness,
		Note:            issue.Note,
		SnippetLines:    lines,
		CommonIndent:    commonIndent,
	}

	funcMap := template.FuncMap{
		"header":  header,
		"snippet": codeSnippet,
		"message": message,
		"witness": witness,
		"note":    note,
	}

	tmpl := template.Must(template.New("issue").Funcs(funcMap).Parse(formatter.IssueTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(check, caseName, severity string, maxLineNumWidth int, filename string, line int) string {
	var endString string
	switch severity {
	case "error":
		endString = errorStyle.Sprint("error: ")
	case "warning":
		endString = warningStyle.Sprint("warning: ")
	case "info":
		endString = infoStyle.Sprint("info: ")
	}

	endString += checkStyle.Sprint(check)
	if caseName != "" {
		endString += fmt.Sprintf(" (%s)", caseName)
	}
	endString += "\n"

	location := filename
	if line > 0 {
		location = fmt.Sprintf("%s:%d", filename, line)
	}
	endString += lineStyle.Sprintf("%s--> ", strings.Repeat(" ", maxLineNumWidth))
	endString += fileStyle.Sprint(location) + "\n"

	return endString
}

func codeSnippet(snippetLines []string, startLine, endLine, maxLineNumWidth int, commonIndent, padding string) string {
	if !isValidLineRange(startLine, endLine, snippetLines) {
		return ""
	}

	endString := lineStyle.Sprintf("%s|", padding) + "\n"
	for i := startLine; i <= endLine; i++ {
		line := strings.TrimPrefix(snippetLines[i-1], commonIndent)
		lineNum := fmt.Sprintf("%*d", maxLineNumWidth, i)
		endString += lineStyle.Sprintf("%s | ", lineNum) + line + "\n"
	}
	endString += lineStyle.Sprintf("%s|", padding) + "\n"

	return endString
}

func message(msg, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + messageStyle.Sprint(msg) + "\n"
}

func witness(w string) string {
	if w == "" {
		return ""
	}
	return witnessStyle.Sprint("Witness: ") + w + "\n"
}

func note(n string) string {
	if n == "" {
		return ""
	}
	return witnessStyle.Sprint("Note: ") + n + "\n"
}

// caseBlockEnd returns the last line of the case starting at line: every
// following non-blank line indented deeper than the case's list dash.
func caseBlockEnd(lines []string, line int) int {
	if line < 1 || line > len(lines) {
		return line
	}
	dashIndent := indentWidth(lines[line-1])
	end := line
	for i := line; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" || indentWidth(lines[i]) <= dashIndent {
			break
		}
		end = i + 1
	}
	return end
}

func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
}

func isValidLineRange(startLine, endLine int, snippetLines []string) bool {
	return startLine > 0 &&
		endLine > 0 &&
		startLine <= endLine &&
		startLine <= len(snippetLines) &&
		endLine <= len(snippetLines)
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

// findCommonIndent finds the common indent in the code snippet.
func findCommonIndent(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	// find first non-empty line's indent
	var firstIndent []rune
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed != "" {
			firstIndent = []rune(line[:len(line)-len(trimmed)])
			break
		}
	}

	if len(firstIndent) == 0 {
		return ""
	}

	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}

		firstIndent = commonPrefix(firstIndent, []rune(line[:len(line)-len(trimmed)]))
		if len(firstIndent) == 0 {
			break
		}
	}

	return string(firstIndent)
}

// commonPrefix finds the common prefix of two strings.
func commonPrefix(a, b []rune) []rune {
	minLen := min(len(a), len(b))
	for i := 0; i < minLen; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:minLen]
}
