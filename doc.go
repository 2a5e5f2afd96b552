/* Package forth implements an embeddable interpreter for a small Forth.

A host creates an engine with New (or Init), gives it input and output, and
then calls Run to interpret all of its input, or Eval to interpret a string.
Any number of engines may exist at once; each is fully isolated, but no one
engine may be used from more than one goroutine at a time.

Machine

The machine word is 16 bits wide; all arithmetic wraps, and signed words use
two's complement. Core memory is a single flat array of words, holding both
the engine's registers and the dictionary:

	@0  null, ending the dictionary chain
	@1  here, the first free cell (dp)
	@2  latest dictionary entry (latest)
	@3  state, 0 while interpreting, 1 while compiling (state)
	@4  numeric base (base)

Since these live in core, programs may read or change them with @ and !.
The data and return stacks however live outside of core, and are only
reachable through stack words.

Dictionary

The dictionary starts above the registers, as a chain of entries each linked
back to its predecessor. Compiled bodies are threaded code: each cell is
either a primitive opcode or the address of another body to call. Defining a
word again shadows, but does not erase, its prior definition.

Interpretation

The outer interpreter reads whitespace separated tokens. A token naming a
word executes it; unless compiling, when the word is instead compiled into
the current definition (immediate words are always executed). Failing that, a
token may be a number in the current base, or a character literal like 'a'
or ^C; numbers are pushed, or compiled as literals when compiling.

Errors

Every error is an *Error, classified by its Kind; errors.Is may be used to
test for a kind, and Status maps an error to a negative status code. Any
error invalidates its engine: after one, every Run, Eval and DumpCore fails
with ErrInvalidEngine.

Core Images

DumpCore writes a snapshot of engine state, which ReadImage decodes for
inspection; there is no way to restore an engine from an image.
*/
package forth
