/*
Package autotutor is a dialogue-driven math lesson engine.

A learner configures a linear or quadratic function, then walks through a
branching script that asks where the function crosses the x-axis. The engine
substitutes per-learner variables into the script, fast-forwards through
narration, halts at every choice, and projects the run into a chat transcript.

# Concept

The script is immutable and shared. Each lesson owns an immutable runner state
that is replaced on every transition, so any snapshot can be handed to a
renderer without copying. Front-ends (terminal, TUI, HTTP, MCP) only call
Start and Choose and render the resulting transcript.

# Usage

	tutor, err := autotutor.New()
	if err != nil {
		log.Fatal(err)
	}

	info, err := setup.DefaultFunction.Handoff("Sam", setup.DefaultBounds)
	if err != nil {
		log.Fatal(err)
	}

	l, err := tutor.Start(ctx, info)
	if err != nil {
		log.Fatal(err)
	}

	snap, err := l.Choose(ctx, 0)

# Scripts

Scripts are YAML documents made of named passages. Each passage is a list of
lines, choices and jumps:

	passages:
	  intro:
	    - "Hi {studentName}! [img-balcony /]"
	    - choice:
	      options:
	        - text: "Where does it land?"
	          then:
	            - "At {answerCoords}."
	    - jump: outro

A sequence that runs out continues after its enclosing choice; a passage that
runs out ends the lesson. Lines and choices may carry a "when" condition over
the lesson variables.
*/
package autotutor
