/*
Package domain contains the core domain models of the AutoTutor lesson engine.

It defines the branching dialogue script, the immutable runner snapshots and the
render-ready transcript. This package is kept pure and free of I/O, template
syntax and presentation concerns.

# Key Entities

  - Script: The static, authored graph of narration and choice nodes.
  - Node: A tagged variant, either a Line (narration) or a Choice (decision point).
  - State: An immutable snapshot of a lesson run (Current Node, History, Status).
  - TranscriptEntry: One chat bubble of the projected conversation.
  - LessonInfo: The function definition handed over by the setup step.
*/
package domain
