package catalog

// DoneNodeID is the terminal sentinel. A node whose successor resolves to
// this id ends the training walk.
const DoneNodeID = "DONE"

// Kind identifies the behavior of a question node. The set is closed;
// records with an unrecognized question_type are rejected at load time.
type Kind int

const (
	KindFreeText Kind = iota
	KindYesNo
	KindSingleChoice
	KindInformational
	KindExpandable
)

// String returns the CSV question_type value for the kind.
func (k Kind) String() string {
	switch k {
	case KindFreeText:
		return "text"
	case KindYesNo:
		return "yes_no"
	case KindSingleChoice:
		return "choice"
	case KindInformational:
		return "info"
	case KindExpandable:
		return "expandable"
	}
	return "unknown"
}

// Section is one revealable detail block of an expandable node.
type Section struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Node is one immutable step in the curriculum graph. Only the fields
// relevant to its Kind are populated; everything else is zero.
type Node struct {
	ID     string
	Kind   Kind
	Prompt string

	// Criteria describes what counts as an acceptable answer.
	// Free-text nodes only; passed verbatim to the evaluator.
	Criteria string

	// WhatToDo is kind-dependent: an evaluation hint for free-text nodes,
	// or the tip shown before advancing on a "Yes" answer for yes/no nodes.
	WhatToDo string

	// Choices holds the selectable options of a single-choice node.
	Choices []string

	// ChoiceMessages maps a selected option to its display message.
	// Nil when the content column was absent or malformed; lookups then
	// fall back to a generic message.
	ChoiceMessages map[string]string

	// Sections holds the detail blocks of an expandable node.
	Sections []Section

	// Content is the plain-text payload of an informational node.
	Content string

	// ContentMalformed records that the content column held invalid JSON.
	// The node still renders; the UI degrades to a fallback message.
	ContentMalformed bool

	// Successor ids. Empty values are normalized to DoneNodeID at load.
	NextDefault string
	NextYes     string
	NextNo      string

	// EscalateOnNo blocks advancement on a "No" answer and asks the
	// trainee to seek help from a trainer instead.
	EscalateOnNo bool
}

// Catalog is an ordered, immutable collection of question nodes.
type Catalog struct {
	Key     Key
	Nodes   []Node
	EntryID string

	byID map[string]int
}

// Len returns the number of nodes in the catalog.
func (c *Catalog) Len() int {
	return len(c.Nodes)
}

// LookupByID returns the node with the given id. The second return is
// false when no such node exists; callers surface that as
// *NodeNotFoundError.
func (c *Catalog) LookupByID(id string) (Node, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Node{}, false
	}
	return c.Nodes[i], true
}

// buildIndex populates the id index. Called once at load.
func (c *Catalog) buildIndex() {
	c.byID = make(map[string]int, len(c.Nodes))
	for i, n := range c.Nodes {
		c.byID[n.ID] = i
	}
}
