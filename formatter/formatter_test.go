package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gnolang/seqcheck/internal"
	tt "github.com/gnolang/seqcheck/internal/types"
)

const caseSource = `cases:
  - name: ok
    check: repeats
    seq: [a, b, a]
  - name: wrongly-expected
    check: no-repeats
    seq: [a, b, a]
  - name: typo
    check: repeat
    seq: [a]
`

func TestGenerateFormattedIssue(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{Lines: strings.Split(caseSource, "\n")}

	issues := []tt.Issue{
		{
			Check:    "no-repeats",
			Case:     "wrongly-expected",
			Filename: "cases.seq.yaml",
			Line:     5,
			Message:  "expected no-repeats to hold, but it fails",
			Note:     `"a" at positions 0 and 2`,
			Severity: tt.SeverityError,
		},
		{
			Check:    internal.UnknownCheck,
			Case:     "typo",
			Filename: "cases.seq.yaml",
			Line:     8,
			Message:  `case "typo" names unknown check "repeat"`,
			Severity: tt.SeverityError,
		},
	}

	expected := `error: no-repeats (wrongly-expected)
 --> cases.seq.yaml:5
  |
5 | - name: wrongly-expected
6 |   check: no-repeats
7 |   seq: [a, b, a]
  |
  = expected no-repeats to hold, but it fails
Note: "a" at positions 0 and 2

error: unknown-check (typo)
  --> cases.seq.yaml:8
   |
 8 | - name: typo
   |
   = case "typo" names unknown check "repeat"

`

	result := GenerateFormattedIssue(issues, code)
	assert.Equal(t, expected, result)
}

func TestGenerateFormattedIssueWitness(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{Lines: []string{
		"cases:",
		"- check: pigeonhole",
		"  items: [a, b, a]",
		"  labels: [a, b]",
		"  expect: fails",
	}}

	issues := []tt.Issue{{
		Check:    "pigeonhole",
		Filename: "p.seq.yaml",
		Line:     2,
		Message:  "expected pigeonhole to fail, but it holds",
		Witness:  `"a" at positions 0 and 2`,
		Severity: tt.SeverityWarning,
	}}

	expected := `warning: pigeonhole
 --> p.seq.yaml:2
  |
2 | - check: pigeonhole
3 |   items: [a, b, a]
4 |   labels: [a, b]
5 |   expect: fails
  |
  = expected pigeonhole to fail, but it holds
Witness: "a" at positions 0 and 2

`

	assert.Equal(t, expected, GenerateFormattedIssue(issues, code))
}

func TestGenerateFormattedIssueWithoutSource(t *testing.T) {
	t.Parallel()

	issues := []tt.Issue{{
		Check:    "merge",
		Filename: "gone.seq.yaml",
		Line:     12,
		Message:  "expected merge to hold, but it fails",
		Severity: tt.SeverityInfo,
	}}

	expected := `info: merge
  --> gone.seq.yaml:12
   = expected merge to hold, but it fails

`
	assert.Equal(t, expected, GenerateFormattedIssue(issues, nil))
}

func TestCaseBlockEnd(t *testing.T) {
	t.Parallel()
	lines := strings.Split(caseSource, "\n")

	tests := []struct {
		line, want int
	}{
		{2, 4},
		{5, 7},
		{8, 10},
		{0, 0},
		{99, 99},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, caseBlockEnd(lines, tc.line), "line %d", tc.line)
	}
}

func TestFindCommonIndent(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "  ", findCommonIndent([]string{"  - a", "", "    b"}))
	assert.Equal(t, "", findCommonIndent([]string{"a", "  b"}))
	assert.Equal(t, "", findCommonIndent(nil))
}
