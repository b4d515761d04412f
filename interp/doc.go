// Package interp spawns the tree of shell constructs spec.md §4.6-§4.9
// describes: simple commands, pipelines, and/or lists, sequences, if/case/
// loop, function definitions and invocation, and the standard built-ins.
// Every exported node type implements ops.Spawner; nothing here parses
// shell syntax into these node types, that's an out-of-scope collaborator
// (spec §1).
package interp
