package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Column names of the catalog record layout. Columns beyond these are
// ignored so authored files can carry notes.
const (
	colID          = "question_id"
	colQuestion    = "question"
	colType        = "question_type"
	colCriteria    = "correct_answer"
	colChoices     = "choices"
	colContent     = "content"
	colNextDefault = "next_default"
	colNextYes     = "next_yes"
	colNextNo      = "next_no"
	colReferOnNo   = "refer_on_no"
	colWhatToDo    = "what_to_do"
)

// ParseCSV reads a catalog file and converts each record into a validated
// Node. Structural problems (missing id column, duplicate ids, unknown
// question_type) fail the whole load. Malformed content JSON does not: it
// is recorded on the node and degrades at render time.
func ParseCSV(r io.Reader, key Key) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols[colID]; !ok {
		return nil, fmt.Errorf("catalog header missing %q column", colID)
	}

	cat := &Catalog{Key: key}
	seen := make(map[string]bool)

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog line %d: %w", line, err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		node, err := buildNode(field)
		if err != nil {
			return nil, fmt.Errorf("catalog line %d: %w", line, err)
		}
		if seen[node.ID] {
			return nil, fmt.Errorf("catalog line %d: duplicate question_id %q", line, node.ID)
		}
		seen[node.ID] = true
		cat.Nodes = append(cat.Nodes, node)
	}

	if len(cat.Nodes) > 0 {
		cat.EntryID = cat.Nodes[0].ID
	}
	cat.buildIndex()
	return cat, nil
}

// buildNode converts one record into a Node, keeping only the fields
// relevant to its kind.
func buildNode(field func(string) string) (Node, error) {
	id := field(colID)
	if id == "" {
		return Node{}, fmt.Errorf("empty question_id")
	}
	if id == DoneNodeID {
		return Node{}, fmt.Errorf("question_id %q collides with the terminal sentinel", id)
	}

	kind, err := parseKind(id, field(colType))
	if err != nil {
		return Node{}, err
	}

	node := Node{
		ID:          id,
		Kind:        kind,
		Prompt:      field(colQuestion),
		NextDefault: successor(field(colNextDefault)),
		NextYes:     successor(field(colNextYes)),
		NextNo:      successor(field(colNextNo)),
	}

	switch kind {
	case KindFreeText:
		node.Criteria = field(colCriteria)
		node.WhatToDo = field(colWhatToDo)

	case KindYesNo:
		node.WhatToDo = field(colWhatToDo)
		node.EscalateOnNo = strings.EqualFold(field(colReferOnNo), "yes")

	case KindSingleChoice:
		node.Choices = splitChoices(field(colChoices))
		raw := field(colContent)
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &node.ChoiceMessages); err != nil {
				node.ChoiceMessages = nil
				node.ContentMalformed = true
			}
		}

	case KindInformational:
		node.Content = field(colContent)

	case KindExpandable:
		raw := field(colContent)
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &node.Sections); err != nil {
				node.Sections = nil
				node.ContentMalformed = true
			}
		}
	}

	return node, nil
}

func parseKind(id, questionType string) (Kind, error) {
	switch questionType {
	case "text":
		return KindFreeText, nil
	case "yes_no":
		return KindYesNo, nil
	case "choice":
		return KindSingleChoice, nil
	case "info":
		return KindInformational, nil
	case "expandable":
		return KindExpandable, nil
	}
	return 0, &UnknownKindError{ID: id, Type: questionType}
}

// successor normalizes an absent branch target to the terminal sentinel,
// so a walk can never get stuck on a node with no way forward.
func successor(id string) string {
	if id == "" {
		return DoneNodeID
	}
	return id
}

func splitChoices(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
