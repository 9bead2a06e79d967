package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/autotutor/internal/runtime"
	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/variables"
)

// Severity grades an issue. Errors make a script unusable.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding about a script.
type Issue struct {
	Severity Severity `json:"severity"`
	NodeID   string   `json:"node_id,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.NodeID == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: node '%s': %s", i.Severity, i.NodeID, i.Message)
}

// Report aggregates the issues of a script.
type Report struct {
	Issues []Issue `json:"issues"`
}

// Errors returns the error-level issues.
func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-level issues.
func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r *Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// Err returns the report as an error when it holds error-level issues.
func (r *Report) Err() error {
	if len(r.Errors()) == 0 {
		return nil
	}
	return r
}

func (r *Report) Error() string {
	errs := r.Errors()
	if len(errs) == 1 {
		return errs[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "found %d errors:", len(errs))
	for _, i := range errs {
		b.WriteString("\n- ")
		b.WriteString(i.String())
	}
	return b.String()
}

func (r *Report) add(s Severity, nodeID, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: s, NodeID: nodeID, Message: fmt.Sprintf(format, args...)})
}

type config struct {
	known      map[string]struct{}
	conditions *runtime.Conditions
}

// Option configures validation.
type Option func(*config)

// WithKnownVariables replaces the set of placeholder names a script may use.
func WithKnownVariables(names ...string) Option {
	return func(c *config) {
		c.known = make(map[string]struct{}, len(names))
		for _, n := range names {
			c.known[n] = struct{}{}
		}
	}
}

// WithConditions reuses a condition cache.
func WithConditions(conds *runtime.Conditions) Option {
	return func(c *config) {
		c.conditions = conds
	}
}

// ValidateScript checks links, reachability, choices, narration cycles,
// placeholders and conditions.
func ValidateScript(script *domain.Script, opts ...Option) *Report {
	cfg := &config{}
	WithKnownVariables(variables.Known()...)(cfg)
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.conditions == nil {
		cfg.conditions = runtime.NewConditions()
	}

	r := &Report{}
	checkSentinel(script, r)

	if _, err := script.StartNode(); err != nil {
		r.add(SeverityError, "", "start node '%s' not found", script.Start)
		return r
	}

	visited := crawl(script, r)

	for _, n := range script.List() {
		if _, ok := visited[n.ID]; !ok {
			r.add(SeverityWarning, n.ID, "unreachable from start node '%s'", script.Start)
		}
		checkNode(n, cfg, r)
	}

	if _, ok := visited[domain.EndNodeID]; !ok {
		r.add(SeverityWarning, "", "the end of the lesson is not reachable")
	}

	checkLineCycles(script, r)
	return r
}

func checkSentinel(script *domain.Script, r *Report) {
	terminals := 0
	for _, n := range script.Nodes {
		if n.IsTerminal() {
			terminals++
			if n.ID != domain.EndNodeID {
				r.add(SeverityError, n.ID, "terminal node must be named '%s'", domain.EndNodeID)
			}
		}
	}
	if terminals != 1 {
		r.add(SeverityError, "", "expected exactly one terminal node, found %d", terminals)
	}
}

// crawl walks the script breadth-first from the start node and reports links
// to missing nodes.
func crawl(script *domain.Script, r *Report) map[string]struct{} {
	visited := make(map[string]struct{})
	queue := []string{script.Start}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if _, seen := visited[currentID]; seen {
			continue
		}
		visited[currentID] = struct{}{}

		node := script.Nodes[currentID]
		for _, target := range node.Successors() {
			if _, ok := script.Nodes[target]; !ok {
				r.add(SeverityError, currentID, "links to missing node '%s'", target)
				continue
			}
			if _, seen := visited[target]; !seen {
				queue = append(queue, target)
			}
		}
	}
	return visited
}

func checkNode(n domain.Node, cfg *config, r *Report) {
	switch n.Kind {
	case domain.KindLine:
		if n.Next == "" && !n.IsTerminal() {
			r.add(SeverityError, n.ID, "line has no successor")
		}
		if n.Directive != nil && n.Directive.Type != domain.DirectiveImage {
			r.add(SeverityWarning, n.ID, "unknown directive type '%s'", n.Directive.Type)
		}
		checkPlaceholders(n.ID, n.Text, cfg, r)
	case domain.KindChoice:
		if len(n.Options) == 0 {
			r.add(SeverityError, n.ID, "choice has no options")
		}
		if n.When != "" && n.Next == "" {
			r.add(SeverityError, n.ID, "guarded choice has no fall-through")
		}
		checkPlaceholders(n.ID, n.Text, cfg, r)
		for _, o := range n.Options {
			if strings.TrimSpace(o.Text) == "" {
				r.add(SeverityError, n.ID, "option with empty text")
			}
			checkPlaceholders(n.ID, o.Text, cfg, r)
		}
	default:
		r.add(SeverityError, n.ID, "unknown node kind '%s'", n.Kind)
	}

	if n.When != "" {
		if _, err := cfg.conditions.Compile(n.When); err != nil {
			r.add(SeverityError, n.ID, "%v", err)
		}
	}
}

func checkPlaceholders(nodeID, text string, cfg *config, r *Report) {
	for _, name := range variables.Placeholders(text) {
		if _, ok := cfg.known[name]; !ok {
			r.add(SeverityError, nodeID, "unknown variable '%s'", name)
		}
	}
}

// checkLineCycles finds loops made only of lines, which fast-forward could
// never leave. Loops through a guarded line are only warned about.
func checkLineCycles(script *domain.Script, r *Report) {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int)
	reported := make(map[string]struct{})

	var visit func(id string, path []string)
	visit = func(id string, path []string) {
		n, ok := script.Nodes[id]
		if !ok || n.Kind != domain.KindLine || n.IsTerminal() {
			return
		}
		switch color[id] {
		case black:
			return
		case grey:
			cycle := cycleFrom(path, id)
			key := canonical(cycle)
			if _, dup := reported[key]; dup {
				return
			}
			reported[key] = struct{}{}
			severity := SeverityError
			for _, c := range cycle {
				if script.Nodes[c].When != "" {
					severity = SeverityWarning
					break
				}
			}
			r.add(severity, id, "narration cycle without a choice: %s", strings.Join(append(cycle, id), " -> "))
			return
		}
		color[id] = grey
		visit(n.Next, append(path, id))
		color[id] = black
	}

	for _, id := range script.IDs() {
		visit(id, nil)
	}
}

func cycleFrom(path []string, id string) []string {
	for i, p := range path {
		if p == id {
			return append([]string(nil), path[i:]...)
		}
	}
	return []string{id}
}

func canonical(cycle []string) string {
	sorted := append([]string(nil), cycle...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
