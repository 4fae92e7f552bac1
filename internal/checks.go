package internal

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gnolang/seqcheck/internal/eq"
	"github.com/gnolang/seqcheck/internal/filter"
	"github.com/gnolang/seqcheck/internal/member"
	"github.com/gnolang/seqcheck/internal/pigeon"
	"github.com/gnolang/seqcheck/internal/relation"
	tt "github.com/gnolang/seqcheck/internal/types"
)

// Check verifies one relation for the cases that name it.
type Check interface {
	// Run returns the verified outcome, or an error when the case cannot
	// be evaluated (missing fields, violated preconditions).
	Run(c tt.Case) (tt.Outcome, error)

	Name() string
	Severity() tt.Severity
	SetSeverity(tt.Severity)
}

// ErrInvalidCase reports a case that is missing what its check needs.
var ErrInvalidCase = errors.New("invalid case")

var strs = eq.Comparable[string]()

type checkBase struct {
	name     string
	severity tt.Severity
}

func (b *checkBase) Name() string { return b.name }
func (b *checkBase) Severity() tt.Severity { return b.severity }
func (b *checkBase) SetSeverity(s tt.Severity) { b.severity = s }

type checkFunc func(c tt.Case) (tt.Outcome, error)

type relationCheck struct {
	checkBase
	run checkFunc
}

func (r *relationCheck) Run(c tt.Case) (tt.Outcome, error) { return r.run(c) }

func newCheck(name string, run checkFunc) Check {
	return &relationCheck{checkBase: checkBase{name: name, severity: tt.SeverityError}, run: run}
}

// allCheckConstructors registers every check by the name case files use.
var allCheckConstructors = map[string]func() Check{
	"member":               func() Check { return newCheck("member", runMember) },
	"merge":                func() Check { return newCheck("merge", runMerge) },
	"subsequence":          func() Check { return newCheck("subsequence", runSubsequence) },
	"stutter-free":         func() Check { return newCheck("stutter-free", runStutterFree) },
	"no-repeats":           func() Check { return newCheck("no-repeats", runNoRepeats) },
	"repeats":              func() Check { return newCheck("repeats", runRepeats) },
	"disjoint":             func() Check { return newCheck("disjoint", runDisjoint) },
	"filter-decomposition": func() Check { return newCheck("filter-decomposition", runFilterDecomposition) },
	"filter-longest":       func() Check { return newCheck("filter-longest", runFilterLongest) },
	"pigeonhole":           func() Check { return newCheck("pigeonhole", runPigeonhole) },
}

// CheckNames lists the registered checks in a stable order.
func CheckNames() []string {
	names := make([]string, 0, len(allCheckConstructors))
	for name := range allCheckConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runMember(c tt.Case) (tt.Outcome, error) {
	if c.Elem == "" {
		return tt.Outcome{}, fmt.Errorf("%w: member needs elem", ErrInvalidCase)
	}
	ev, found := member.Find(strs, c.Elem, c.Seq)
	if !found {
		return tt.Outcome{Detail: fmt.Sprintf("%q does not occur", c.Elem)}, nil
	}
	return tt.Outcome{Holds: true, Witness: fmt.Sprintf("%q at position %d", c.Elem, ev.Index())}, nil
}

func parseSides(raw []string) ([]relation.Side, error) {
	sides := make([]relation.Side, len(raw))
	for i, s := range raw {
		switch strings.ToLower(s) {
		case "l", "left":
			sides[i] = relation.FromLeft
		case "r", "right":
			sides[i] = relation.FromRight
		default:
			return nil, fmt.Errorf("%w: side %d is %q, want left or right", ErrInvalidCase, i, s)
		}
	}
	return sides, nil
}

func formatSides(sides []relation.Side) string {
	parts := make([]string, len(sides))
	for i, s := range sides {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// decompose returns merge evidence for the case: the decomposition the
// case spells out when it has sides, otherwise any valid one.
func decompose(c tt.Case) (relation.Merge[string], string, error) {
	if len(c.Sides) == 0 {
		ev, ok := relation.IsMerge(strs, c.Left, c.Right, c.Merged)
		if !ok {
			return nil, "merged is not an interleaving of left and right", nil
		}
		return ev, "", nil
	}
	sides, err := parseSides(c.Sides)
	if err != nil {
		return nil, "", err
	}
	ev, err := relation.Interleave(strs, c.Left, c.Right, c.Merged, sides)
	if err != nil {
		return nil, err.Error(), nil
	}
	return ev, "", nil
}

func runMerge(c tt.Case) (tt.Outcome, error) {
	ev, detail, err := decompose(c)
	if err != nil || ev == nil {
		return tt.Outcome{Detail: detail}, err
	}
	sides, err := relation.Sides(ev)
	if err != nil {
		return tt.Outcome{}, err
	}
	merged, left, right := relation.MergeLen(ev)
	return tt.Outcome{
		Holds:   true,
		Witness: fmt.Sprintf("sides %s, %d = %d + %d", formatSides(sides), merged, left, right),
	}, nil
}

func runSubsequence(c tt.Case) (tt.Outcome, error) {
	ev, ok := relation.IsSubsequence(strs, c.Sub, c.Seq)
	if !ok {
		return tt.Outcome{Detail: "sub is not a subsequence of seq"}, nil
	}
	return tt.Outcome{Holds: true, Witness: fmt.Sprintf("%d of %d elements kept", len(ev.Sub()), len(ev.Super()))}, nil
}

func runStutterFree(c tt.Case) (tt.Outcome, error) {
	if _, ok := relation.IsStutterFree(strs, c.Seq); ok {
		return tt.Outcome{Holds: true}, nil
	}
	i, _ := relation.Stutter(strs, c.Seq)
	return tt.Outcome{Detail: fmt.Sprintf("%q repeats at positions %d and %d", c.Seq[i], i, i+1)}, nil
}

func describeRepeat(r relation.Repeats[string]) (string, error) {
	x, first, second, err := relation.Positions(r)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%q at positions %d and %d", x, first, second), nil
}

func runNoRepeats(c tt.Case) (tt.Outcome, error) {
	_, r := relation.Classify(strs, c.Seq)
	if r == nil {
		return tt.Outcome{Holds: true}, nil
	}
	w, err := describeRepeat(r)
	return tt.Outcome{Detail: w}, err
}

func runRepeats(c tt.Case) (tt.Outcome, error) {
	r, ok := relation.FindRepeats(strs, c.Seq)
	if !ok {
		return tt.Outcome{Detail: "every element is distinct"}, nil
	}
	w, err := describeRepeat(r)
	return tt.Outcome{Holds: true, Witness: w}, err
}

func runDisjoint(c tt.Case) (tt.Outcome, error) {
	if ov, found := relation.FindOverlap(strs, c.Left, c.Right); found {
		return tt.Outcome{Detail: fmt.Sprintf("%q is at left %d and right %d", ov.Left.Elem(), ov.Left.Index(), ov.Right.Index())}, nil
	}
	out := tt.Outcome{Holds: true}
	cat := append(append([]string{}, c.Left...), c.Right...)
	if nr, ok := relation.HasNoRepeats(strs, cat); ok {
		if err := relation.DisjointFromNoRepeats(strs, c.Left, c.Right, nr); err != nil {
			return tt.Outcome{}, err
		}
		out.Witness = "derived from a repeat-free concatenation"
	}
	return out, nil
}

func keepSet(c tt.Case) (func(string) bool, error) {
	if c.Keep == nil {
		return nil, fmt.Errorf("%w: %s needs keep", ErrInvalidCase, c.Check)
	}
	keep := make(map[string]bool, len(c.Keep))
	for _, k := range c.Keep {
		keep[k] = true
	}
	return func(s string) bool { return keep[s] }, nil
}

func violationOutcome(err error) (tt.Outcome, error) {
	var v *filter.Violation[string]
	if errors.As(err, &v) {
		return tt.Outcome{Detail: v.Error()}, nil
	}
	return tt.Outcome{}, err
}

func runFilterDecomposition(c tt.Case) (tt.Outcome, error) {
	test, err := keepSet(c)
	if err != nil {
		return tt.Outcome{}, err
	}
	ev, detail, err := decompose(c)
	if err != nil || ev == nil {
		return tt.Outcome{Detail: detail}, err
	}
	if err := filter.New(strs).VerifyDecomposition(test, c.Left, c.Right, c.Merged, ev); err != nil {
		return violationOutcome(err)
	}
	return tt.Outcome{Holds: true, Witness: fmt.Sprintf("filter keeps exactly %d elements", len(c.Left))}, nil
}

func runFilterLongest(c tt.Case) (tt.Outcome, error) {
	test, err := keepSet(c)
	if err != nil {
		return tt.Outcome{}, err
	}
	ev, ok := relation.IsSubsequence(strs, c.Sub, c.Seq)
	if !ok {
		return tt.Outcome{Detail: "sub is not a subsequence of seq"}, nil
	}
	kept, bound, err := filter.New(strs).Bound(test, c.Seq, ev)
	if err != nil {
		return violationOutcome(err)
	}
	return tt.Outcome{Holds: true, Witness: fmt.Sprintf("%d <= %d", kept, bound)}, nil
}

func runPigeonhole(c tt.Case) (tt.Outcome, error) {
	if len(c.Assign) == 0 {
		r, err := pigeon.FindRepeat(strs, c.Items, c.Labels, pigeon.Inclusion(strs, c.Labels))
		if err != nil {
			return tt.Outcome{}, err
		}
		w, err := describeRepeat(r)
		return tt.Outcome{Holds: true, Witness: w}, err
	}

	col, err := pigeon.FindCollision(strs, c.Items, c.Labels, func(x string) string { return c.Assign[x] })
	if err != nil {
		return tt.Outcome{}, err
	}
	return tt.Outcome{
		Holds: true,
		Witness: fmt.Sprintf("items %d (%q) and %d (%q) share label %q",
			col.First, col.FirstItem, col.Second, col.SecondItem, col.Label),
	}, nil
}

// RunCase verifies a single case with a fresh instance of its check.
func RunCase(c tt.Case) (tt.Outcome, error) {
	newCheck, ok := allCheckConstructors[c.Check]
	if !ok {
		return tt.Outcome{}, fmt.Errorf("%w: unknown check %q", ErrInvalidCase, c.Check)
	}
	return newCheck().Run(c)
}
