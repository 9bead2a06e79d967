package domain

import (
	"fmt"
	"sort"
)

// NodeKind discriminates the node variants.
type NodeKind string

const (
	// KindLine is a line of narration. It continues to Next without learner input.
	KindLine NodeKind = "line"
	// KindChoice is a decision point. It halts until the learner selects an option.
	KindChoice NodeKind = "choice"
)

// EndNodeID is the identifier of the terminal sentinel every script carries.
const EndNodeID = "$end"

// DefaultEndText is the sentinel text shown when a lesson is over.
const DefaultEndText = "End of example."

// DirectiveImage is the only directive type understood by the shell.
const DirectiveImage = "image"

// Directive is a structured tag attached to a line, e.g. "show image X".
type Directive struct {
	Type string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
}

// Option is one selectable branch of a choice node.
type Option struct {
	Text string `json:"text" yaml:"text"`
	Next string `json:"next" yaml:"next"`
}

// Node is one unit of the script.
type Node struct {
	ID   string   `json:"id" yaml:"id"`
	Kind NodeKind `json:"kind" yaml:"kind"`

	// Text is a template; placeholders are resolved against the lesson variables.
	Text string `json:"text" yaml:"text"`

	// Next is the successor of a line. On a guarded choice it is where the
	// dialogue falls through when the condition does not hold.
	Next string `json:"next,omitempty" yaml:"next,omitempty"`

	// Line only.
	Directive *Directive `json:"directive,omitempty" yaml:"directive,omitempty"`
	Terminal  bool       `json:"terminal,omitempty" yaml:"terminal,omitempty"`

	// Choice only.
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`

	// When is an optional condition. A node whose condition evaluates to false
	// is skipped whenever it would become the current node.
	When string `json:"when,omitempty" yaml:"when,omitempty"`
}

// IsTerminal reports whether the node is the end-of-script sentinel.
func (n Node) IsTerminal() bool {
	return n.Kind == KindLine && n.Terminal
}

// Image returns the image name carried by the node's directive, if any.
func (n Node) Image() string {
	if n.Kind != KindLine || n.Directive == nil || n.Directive.Type != DirectiveImage {
		return ""
	}
	return n.Directive.Name
}

// OptionAt returns the option at index, failing with ErrOutOfRange.
func (n Node) OptionAt(index int) (Option, error) {
	if n.Kind != KindChoice {
		return Option{}, fmt.Errorf("node %s is a %s, not a choice: %w", n.ID, n.Kind, ErrInvalidState)
	}
	if index < 0 || index >= len(n.Options) {
		return Option{}, &OutOfRangeError{NodeID: n.ID, Index: index, Count: len(n.Options)}
	}
	return n.Options[index], nil
}

// ResolvedText substitutes every placeholder of the node text.
func (n Node) ResolvedText(r Resolver) (string, error) {
	return resolve(n.ID, n.Text, r)
}

// ResolvedOption substitutes every placeholder of an option text.
func (n Node) ResolvedOption(index int, r Resolver) (string, error) {
	opt, err := n.OptionAt(index)
	if err != nil {
		return "", err
	}
	return resolve(n.ID, opt.Text, r)
}

func resolve(nodeID, text string, r Resolver) (string, error) {
	out, err := r.Resolve(text)
	if err != nil {
		return "", fmt.Errorf("node %s: %w", nodeID, err)
	}
	return out, nil
}

// Resolver fills template placeholders. It is implemented by the variable context.
type Resolver interface {
	Resolve(template string) (string, error)
}

// Script is the immutable branching dialogue.
type Script struct {
	Title   string          `json:"title" yaml:"title"`
	Start   string          `json:"start" yaml:"start"`
	EndText string          `json:"end_text" yaml:"end_text"`
	Nodes   map[string]Node `json:"nodes" yaml:"nodes"`

	// Order lists node IDs in authoring order. It may be empty for
	// hand-built scripts, in which case IDs are sorted.
	Order []string `json:"order,omitempty" yaml:"order,omitempty"`
}

// StartNode returns the first node of the script.
func (s *Script) StartNode() (Node, error) {
	return s.Node(s.Start)
}

// Node looks a node up by ID.
func (s *Script) Node(id string) (Node, error) {
	n, ok := s.Nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	return n, nil
}

// IDs returns all node IDs in a deterministic order.
func (s *Script) IDs() []string {
	ids := make([]string, 0, len(s.Nodes))
	for id := range s.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns all nodes in authoring order.
func (s *Script) List() []Node {
	ids := s.Order
	if len(ids) != len(s.Nodes) {
		ids = s.IDs()
	}
	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, s.Nodes[id])
	}
	return nodes
}

// Successors returns the IDs a node can move to.
func (n Node) Successors() []string {
	switch n.Kind {
	case KindLine:
		if n.Next == "" {
			return nil
		}
		return []string{n.Next}
	case KindChoice:
		out := make([]string, 0, len(n.Options)+1)
		for _, o := range n.Options {
			out = append(out, o.Next)
		}
		if n.Next != "" {
			out = append(out, n.Next)
		}
		return out
	default:
		return nil
	}
}
