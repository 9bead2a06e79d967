package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/autotutor/pkg/domain"
)

// Builder manages the script construction.
type Builder struct {
	title   string
	start   string
	endText string
	order   []string
	nodes   map[string]*NodeBuilder
}

// New creates a new script builder.
func New(title string) *Builder {
	return &Builder{
		title:   title,
		endText: domain.DefaultEndText,
		nodes:   make(map[string]*NodeBuilder),
	}
}

// Start overrides the entry node. It defaults to the first node added.
func (b *Builder) Start(id string) *Builder {
	b.start = id
	return b
}

// EndText sets the text of the terminal sentinel.
func (b *Builder) EndText(text string) *Builder {
	b.endText = text
	return b
}

// Add creates a new node in the script.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID: id,
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build compiles the nodes into a Script with its terminal sentinel.
func (b *Builder) Build() (*domain.Script, error) {
	if len(b.order) == 0 {
		return nil, errors.New("script has no nodes")
	}

	script := &domain.Script{
		Title:   b.title,
		Start:   b.start,
		EndText: b.endText,
		Nodes:   make(map[string]domain.Node, len(b.nodes)+1),
	}
	if script.Start == "" {
		script.Start = b.order[0]
	}

	for _, id := range b.order {
		if id == domain.EndNodeID {
			return nil, fmt.Errorf("node id %q is reserved", id)
		}
		n := b.nodes[id].node
		switch n.Kind {
		case domain.KindLine:
			if n.Next == "" {
				n.Next = domain.EndNodeID
			}
		case domain.KindChoice:
			if len(n.Options) == 0 {
				return nil, fmt.Errorf("choice %q has no options", id)
			}
		default:
			return nil, fmt.Errorf("node %q has no kind: call Text or Choice", id)
		}
		script.Nodes[id] = n
		script.Order = append(script.Order, id)
	}

	script.Nodes[domain.EndNodeID] = domain.Node{
		ID:       domain.EndNodeID,
		Kind:     domain.KindLine,
		Text:     b.endText,
		Terminal: true,
	}
	script.Order = append(script.Order, domain.EndNodeID)

	return script, nil
}
