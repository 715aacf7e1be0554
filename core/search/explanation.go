package search

import (
	"fmt"
	"strings"
)

/* How the score of one document was computed, as a tree of values. */
type Explanation interface {
	IsMatch() bool
	Value() float32
	Description() string
	Details() []Explanation
}

/*
A node of an explanation tree. Unless the match was decided when the
node was built, a node matches when its value is positive.
*/
type ExplanationNode struct {
	value       float32
	description string
	decided     bool
	match       bool
	details     []Explanation
}

func NewExplanation(value float32, description string) *ExplanationNode {
	return &ExplanationNode{value: value, description: description}
}

/* Builds a node whose match does not depend on its value. */
func NewMatchExplanation(match bool, value float32, description string) *ExplanationNode {
	return &ExplanationNode{value: value, description: description, decided: true, match: match}
}

func (e *ExplanationNode) IsMatch() bool {
	if e.decided {
		return e.match
	}
	return e.value > 0
}

func (e *ExplanationNode) Value() float32          { return e.value }
func (e *ExplanationNode) Description() string     { return e.description }
func (e *ExplanationNode) Details() []Explanation  { return e.details }
func (e *ExplanationNode) AddDetail(d Explanation) { e.details = append(e.details, d) }

func (e *ExplanationNode) summary() string {
	if !e.decided {
		return fmt.Sprintf("%v = %v", e.value, e.description)
	}
	tag := "(NON_MATCH)"
	if e.match {
		tag = "(MATCH)"
	}
	return fmt.Sprintf("%v = %v %v", e.value, tag, e.description)
}

/* One line per node, children indented by two spaces. */
func (e *ExplanationNode) String() string {
	var sb strings.Builder
	writeExplanation(&sb, e, 0)
	return sb.String()
}

func writeExplanation(sb *strings.Builder, e Explanation, depth int) {
	assert2(depth <= 1000, "explanation nested too deep")
	sb.WriteString(strings.Repeat("  ", depth))
	if node, ok := e.(*ExplanationNode); ok {
		sb.WriteString(node.summary())
	} else {
		fmt.Fprintf(sb, "%v = %v", e.Value(), e.Description())
	}
	sb.WriteByte('\n')
	for _, d := range e.Details() {
		writeExplanation(sb, d, depth+1)
	}
}
