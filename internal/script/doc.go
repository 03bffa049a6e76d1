// Package script drives ropes from Lua.
//
// A State is a sandboxed gopher-lua interpreter with a global "rope" module
// bound to an engine. Scripts build and query ropes the same way a language
// runtime would:
//
//	local a = rope.new("héllo")
//	local b = rope.concat(a, rope.new(" world"))
//	assert(b:bytelen() == 12)
//	assert(b:charlen() == 11)
//	assert(b:coderange() == "VALID")
//	assert(tostring(rope.substring(b, 7, 5)) == "world")
//
// Byte offsets and character indices are zero based, matching the engine.
// Only the base, table, string and math libraries are opened.
package script

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'textrope.script'
func tracer() tracing.Trace {
	return tracing.Select("textrope.script")
}
