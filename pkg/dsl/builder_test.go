package dsl

import (
	"testing"

	"github.com/aretw0/autotutor/pkg/domain"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := New("Greeting")

	b.Add("start").
		Text("Hello, {studentName}!").
		Image("img-wave.svg").
		Go("ask")

	b.Add("ask").
		Choice("").
		Option("Again", "start").
		Option("Done", "bye")

	b.Add("bye").
		Text("Goodbye!")

	script, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if script.Start != "start" {
		t.Errorf("Expected start 'start', got '%s'", script.Start)
	}

	start, err := script.Node("start")
	if err != nil {
		t.Fatalf("Node('start') failed: %v", err)
	}
	if start.Kind != domain.KindLine {
		t.Errorf("Expected start node kind 'line', got '%s'", start.Kind)
	}
	if start.Image() != "img-wave.svg" {
		t.Errorf("Expected image 'img-wave.svg', got '%s'", start.Image())
	}
	if start.Next != "ask" {
		t.Errorf("Expected next 'ask', got '%s'", start.Next)
	}

	ask, _ := script.Node("ask")
	if len(ask.Options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(ask.Options))
	}
	if ask.Options[1].Next != "bye" {
		t.Errorf("Expected option 1 to target 'bye', got '%s'", ask.Options[1].Next)
	}

	// A line without a successor ends the lesson.
	bye, _ := script.Node("bye")
	if bye.Next != domain.EndNodeID {
		t.Errorf("Expected 'bye' to continue to the sentinel, got '%s'", bye.Next)
	}

	end, err := script.Node(domain.EndNodeID)
	if err != nil || !end.IsTerminal() {
		t.Errorf("Expected terminal sentinel, got %+v (err %v)", end, err)
	}

	want := []string{"start", "ask", "bye", domain.EndNodeID}
	for i, id := range want {
		if script.Order[i] != id {
			t.Errorf("Order[%d] = %s, want %s", i, script.Order[i], id)
		}
	}
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("Empty Choice", func(t *testing.T) {
		b := New("x")
		b.Add("ask").Choice("?")
		if _, err := b.Build(); err == nil {
			t.Error("Expected error for choice without options")
		}
	})

	t.Run("Missing Kind", func(t *testing.T) {
		b := New("x")
		b.Add("nothing")
		if _, err := b.Build(); err == nil {
			t.Error("Expected error for node without kind")
		}
	})

	t.Run("Reserved ID", func(t *testing.T) {
		b := New("x")
		b.Add(domain.EndNodeID).Text("bye")
		if _, err := b.Build(); err == nil {
			t.Error("Expected error for reserved sentinel id")
		}
	})
}
