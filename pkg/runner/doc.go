/*
Package runner drives a live lesson from a console.

It is the bridge between the lesson shell and the outside world: it streams
new transcript entries through a pluggable IOHandler, reads the learner's
selection, and feeds it back to the lesson until the end is reached.

# Key Components

  - Runner: the read-choose loop over a *lesson.Lesson.
  - IOHandler: decouples how entries are shown and selections are read.
  - TextHandler: chat bubbles for interactive terminals.
  - JSONHandler: JSON lines for headless hosts.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithPlot(true),
	)

	if err := r.Run(ctx, l); err != nil {
		log.Fatal(err)
	}
*/
package runner
