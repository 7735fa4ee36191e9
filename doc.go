// A C-style preprocessor for shader and other source text.
//
// Current caveats
//   - Concurrency: an *Engine is safe for concurrent Process calls as long as
//     each call supplies its own defines slice; the symbol table lives only
//     for the duration of one Process call and is never shared across calls.
//   - Conditionals only ever look at symbol presence/absence. There is no
//     numeric or boolean expression evaluation (#if/#elif are rejected).
//
// A tiny example with no loader:
//
//	out, err := shaderpp.Process("#define GREETING hello\nGREETING world\n", nil, nil)
//	if err != nil {
//	        panic(err)
//	}
//	fmt.Println(out) // Output: hello world
package shaderpp
