package internal

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/seqcheck/internal/nolint"
	tt "github.com/gnolang/seqcheck/internal/types"
)

var caseFileExtensions = map[string]bool{
	".seq.yaml": true,
	".seq.yml":  true,
}

// IsCaseFile reports whether path names a case file.
func IsCaseFile(path string) bool {
	for ext := range caseFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// DecodeCases parses a case file and records the line of every case.
func DecodeCases(source []byte) ([]tt.Case, error) {
	cases, _, err := parseCaseFile(source)
	return cases, err
}

// parseCaseFile decodes the cases of a case file together with the nolint
// comments attached to them or to the file.
func parseCaseFile(source []byte) ([]tt.Case, *nolint.Manager, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return nil, nil, fmt.Errorf("error parsing case file: %w", err)
	}
	mgr := nolint.NewManager()
	if len(doc.Content) == 0 {
		return nil, mgr, nil
	}
	mgr.AddFileComment(doc.HeadComment)

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("line %d: case file must be a mapping with a cases key", root.Line)
	}
	mgr.AddFileComment(root.HeadComment)

	var cases []tt.Case
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, list := root.Content[i], root.Content[i+1]
		if key.Value != "cases" {
			continue
		}
		mgr.AddFileComment(key.HeadComment)
		if list.Kind != yaml.SequenceNode {
			return nil, nil, fmt.Errorf("line %d: cases must be a list", list.Line)
		}
		for idx, node := range list.Content {
			c, err := decodeCase(node, idx)
			if err != nil {
				return nil, nil, err
			}
			comments := caseComments(node)
			if idx == 0 {
				comments = append(comments, list.HeadComment)
			}
			for _, comment := range comments {
				mgr.AddCaseComment(c.Line, comment)
			}
			cases = append(cases, c)
		}
	}
	return cases, mgr, nil
}

func decodeCase(node *yaml.Node, idx int) (tt.Case, error) {
	var c tt.Case
	if err := node.Decode(&c); err != nil {
		return c, fmt.Errorf("line %d: %w", node.Line, err)
	}
	switch c.Expect {
	case "", tt.ExpectHolds, tt.ExpectFails:
	default:
		return c, fmt.Errorf("line %d: expect must be %q or %q, got %q", node.Line, tt.ExpectHolds, tt.ExpectFails, c.Expect)
	}
	if c.Name == "" {
		c.Name = fmt.Sprintf("case-%d", idx+1)
	}
	c.Line = node.Line
	return c, nil
}

// caseComments collects the comments above a case and on its first line,
// wherever the YAML parser attached them.
func caseComments(node *yaml.Node) []string {
	comments := []string{node.HeadComment, node.LineComment}
	if node.Kind == yaml.MappingNode && len(node.Content) >= 2 {
		comments = append(comments,
			node.Content[0].HeadComment,
			node.Content[0].LineComment,
			node.Content[1].LineComment,
		)
	}
	return comments
}

// SourceCode stores the lines of a case file for rendering.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads a file and splits it into lines.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return &SourceCode{Lines: strings.Split(string(content), "\n")}, nil
}
