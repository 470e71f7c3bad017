/*
Package dsl provides a fluent Go API for constructing Turing machine programs.

It is an alternative to the .turing text and YAML forms for programs generated in
code or written inline in tests.

Example usage:

	b := dsl.New('S', '_')

	b.State('S').On('_').Write('*').Right().Go('R')

	b.State('R').
		On('x').Write('o').Left().Go('B').
		On('_').Accept()

	schematic, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

A rule that only calls Go keeps the symbol it read and does not move.
*/
package dsl
