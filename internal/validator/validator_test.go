package validator

import (
	"strings"
	"testing"

	"github.com/aretw0/autotutor/internal/compiler"
	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/dsl"
)

func build(t *testing.T, fn func(b *dsl.Builder)) *domain.Script {
	t.Helper()
	b := dsl.New("test")
	fn(b)
	script, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return script
}

func hasIssue(r *Report, s Severity, fragment string) bool {
	for _, i := range r.Issues {
		if i.Severity == s && strings.Contains(i.String(), fragment) {
			return true
		}
	}
	return false
}

func TestValidateScript(t *testing.T) {
	// Scenario A: Valid Script
	valid := build(t, func(b *dsl.Builder) {
		b.Add("start").Text("Hi {studentName}").Go("ask")
		b.Add("ask").Choice("").Option("At {x1}", "end").Option("Again", "start")
		b.Add("end").Text("Bye").End()
	})
	if r := ValidateScript(valid); r.Err() != nil || len(r.Issues) != 0 {
		t.Errorf("Scenario A (Valid) failed: %v", r.Issues)
	}

	tests := []struct {
		name     string
		script   *domain.Script
		severity Severity
		fragment string
	}{
		{
			name: "Broken Link",
			script: build(t, func(b *dsl.Builder) {
				b.Add("start").Text("x").Go("ghost_node")
			}),
			severity: SeverityError,
			fragment: "missing node 'ghost_node'",
		},
		{
			name: "Unreachable Node",
			script: build(t, func(b *dsl.Builder) {
				b.Add("start").Text("x").End()
				b.Add("island").Text("y").End()
			}),
			severity: SeverityWarning,
			fragment: "node 'island': unreachable",
		},
		{
			name: "Unknown Variable",
			script: build(t, func(b *dsl.Builder) {
				b.Add("start").Text("Hello {coach}").End()
			}),
			severity: SeverityError,
			fragment: "unknown variable 'coach'",
		},
		{
			name: "Narration Cycle",
			script: build(t, func(b *dsl.Builder) {
				b.Add("start").Text("a").Go("b")
				b.Add("b").Text("b").Go("start")
			}),
			severity: SeverityError,
			fragment: "narration cycle",
		},
		{
			name: "Guarded Narration Cycle",
			script: build(t, func(b *dsl.Builder) {
				b.Add("start").Text("a").Go("b")
				b.Add("b").Text("b").When(`linearity == "true"`).Go("start")
			}),
			severity: SeverityWarning,
			fragment: "narration cycle",
		},
		{
			name: "Bad Condition",
			script: build(t, func(b *dsl.Builder) {
				b.Add("start").Text("a").When("linearity ==").End()
			}),
			severity: SeverityError,
			fragment: "invalid condition",
		},
		{
			name: "Guarded Choice Without Fall-Through",
			script: build(t, func(b *dsl.Builder) {
				b.Add("start").Choice("").When(`linearity == "true"`).Option("ok", "$end")
			}),
			severity: SeverityError,
			fragment: "fall-through",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateScript(tt.script)
			if !hasIssue(r, tt.severity, tt.fragment) {
				t.Errorf("Expected %s containing %q, got: %v", tt.severity, tt.fragment, r.Issues)
			}
		})
	}
}

func TestValidateScript_EmptyChoice(t *testing.T) {
	script := &domain.Script{
		Start: "ask",
		Nodes: map[string]domain.Node{
			"ask":            {ID: "ask", Kind: domain.KindChoice},
			domain.EndNodeID: {ID: domain.EndNodeID, Kind: domain.KindLine, Terminal: true, Text: "End"},
		},
	}
	r := ValidateScript(script)
	if !hasIssue(r, SeverityError, "choice has no options") {
		t.Errorf("Expected empty choice error, got: %v", r.Issues)
	}
	if r.Err() == nil {
		t.Error("Expected Err() to be non-nil")
	}
}

func TestValidateScript_MissingSentinel(t *testing.T) {
	script := &domain.Script{
		Start: "a",
		Nodes: map[string]domain.Node{
			"a": {ID: "a", Kind: domain.KindLine, Text: "x", Next: "a2"},
		},
	}
	r := ValidateScript(script)
	if !hasIssue(r, SeverityError, "exactly one terminal node") {
		t.Errorf("Expected sentinel error, got: %v", r.Issues)
	}
}

func TestValidateScript_Compiled(t *testing.T) {
	src := `
passages:
  start:
    - "Hi {studentName}"
    - choice:
      options:
        - text: "Go"
          jump: nowhere
`
	script, err := compiler.NewParser().Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	r := ValidateScript(script)
	if !hasIssue(r, SeverityError, "missing node 'nowhere'") {
		t.Errorf("Expected dead link error, got: %v", r.Issues)
	}
}
