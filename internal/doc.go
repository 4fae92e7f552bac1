// Package internal runs sequence relation checks over case files.
//
// A case file is YAML with a list of cases. Each case names a check (a
// relation such as merge, subsequence or pigeonhole), its operands and
// whether the relation is expected to hold:
//
//	cases:
//	  - name: pigeon
//	    check: pigeonhole
//	    items: ["1", "2", "1"]
//	    labels: [a, b]
//	    assign: {"1": a, "2": b}
//	  # nolint:no-repeats
//	  - check: no-repeats
//	    seq: [a, b, a]
//	    expect: fails
//
// Engine decodes case files, runs every enabled check concurrently and
// reports an Issue for each case whose verified outcome disagrees with its
// expectation. Issues also carry the witness found by the check, such as
// the positions of a repeated element.
//
// Usage:
//
//	engine, err := internal.NewEngine(logger, nil)
//	if err != nil {
//	    // handle error
//	}
//
//	issues, err := engine.Run("testdata/merge.seq.yaml")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, issue := range issues {
//	    fmt.Printf("%s:%d: %s\n", issue.Filename, issue.Line, issue.Message)
//	}
//
// Results can be cached on disk (Cache) and case files re-verified on
// change (StartWatching). The relation algorithms themselves live in the
// eq, member, relation, filter and pigeon subpackages and do no I/O.
package internal
