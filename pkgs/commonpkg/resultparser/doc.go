// Package resultparser turns the textual value dump printed by the chr CLI
// into similarity results.
//
// Grammar gtv-text/1:
//
//	value  = dict | array | string | number | "true" | "false" | "null" | bytes
//	array  = "[" [ value { "," value } [ "," ] ] "]"
//	dict   = "[" entry { "," entry } [ "," ] "]" | "[" ":" "]"
//	       | "{" [ entry { "," entry } [ "," ] ] "}"
//	entry  = string ":" value
//	string = JSON string literal
//	bytes  = "x" string
//	number = JSON number
//
// A "[" opens a dict when its first element is a string followed by ":".
// Normalize rewrites a document into canonical JSON; ParseResults reads a
// top-level array of dicts that each carry "text" and "distance".
package resultparser
