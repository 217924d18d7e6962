package catalog

import "fmt"

// Problem describes one integrity issue found by Validate.
type Problem struct {
	NodeID  string
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.NodeID, p.Message)
}

// Validate checks graph integrity: every successor id must resolve to a
// node or the terminal sentinel, choice nodes need options, and free-text
// nodes need acceptance criteria. Returns nil when the catalog is clean.
func Validate(c *Catalog) []Problem {
	var problems []Problem

	check := func(id, target, label string) {
		if target == DoneNodeID {
			return
		}
		if _, ok := c.LookupByID(target); !ok {
			problems = append(problems, Problem{
				NodeID:  id,
				Message: fmt.Sprintf("%s points at missing node %q", label, target),
			})
		}
	}

	for _, n := range c.Nodes {
		switch n.Kind {
		case KindYesNo:
			check(n.ID, n.NextYes, "next_yes")
			if !n.EscalateOnNo {
				check(n.ID, n.NextNo, "next_no")
			}
		default:
			check(n.ID, n.NextDefault, "next_default")
		}

		if n.Kind == KindSingleChoice && len(n.Choices) == 0 {
			problems = append(problems, Problem{NodeID: n.ID, Message: "choice node has no options"})
		}
		if n.Kind == KindFreeText && n.Criteria == "" {
			problems = append(problems, Problem{NodeID: n.ID, Message: "free-text node has no acceptance criteria"})
		}
		if n.ContentMalformed {
			problems = append(problems, Problem{NodeID: n.ID, Message: "content column holds invalid JSON (will degrade at render)"})
		}
	}

	return problems
}
