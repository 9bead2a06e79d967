package dsl

import "github.com/aretw0/autotutor/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Text sets the content of the node and marks it as a narration line.
func (n *NodeBuilder) Text(content string) *NodeBuilder {
	n.node.Kind = domain.KindLine
	n.node.Text = content
	return n
}

// Image attaches an image directive to a line.
func (n *NodeBuilder) Image(name string) *NodeBuilder {
	n.node.Directive = &domain.Directive{Type: domain.DirectiveImage, Name: name}
	return n
}

// Choice marks the node as a decision point with an optional prompt.
func (n *NodeBuilder) Choice(prompt string) *NodeBuilder {
	n.node.Kind = domain.KindChoice
	n.node.Text = prompt
	return n
}

// Option appends a selectable branch to a choice node.
func (n *NodeBuilder) Option(text, target string) *NodeBuilder {
	n.node.Kind = domain.KindChoice
	n.node.Options = append(n.node.Options, domain.Option{Text: text, Next: target})
	return n
}

// Go sets the successor of a line, or the fall-through of a guarded choice.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.node.Next = target
	return n
}

// End sends a line to the terminal sentinel.
func (n *NodeBuilder) End() *NodeBuilder {
	n.node.Next = domain.EndNodeID
	return n
}

// When guards the node with a condition over the lesson variables.
func (n *NodeBuilder) When(condition string) *NodeBuilder {
	n.node.When = condition
	return n
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}
