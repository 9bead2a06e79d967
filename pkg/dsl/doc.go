/*
Package dsl provides a fluent Go builder for lesson scripts.

It is an alternative to the YAML passage format, useful for tests and for
scripts generated at runtime.

Example usage:

	b := dsl.New("Greeting")

	b.Add("hello").
		Text("Hi {studentName}!").
		Image("img-wave.svg").
		Go("ask")

	b.Add("ask").
		Choice("Shall we start?").
		Option("Yes", "go").
		Option("Not yet", "hello")

	b.Add("go").
		Text("Let's find where the ball lands.").
		End()

	script, err := b.Build()
*/
package dsl
