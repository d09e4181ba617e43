// Package things implements task operations against Things 3.
//
// A Client normalizes date arguments with the dates package, renders the
// matching script with the applescript package and runs it once through a
// ScriptRunner. Outputs are returned as trimmed text; lookups that find no
// task are reported inside that text rather than as errors.
package things
