// Package tools defines the tool abstraction the agent workflows dispatch
// to: a typed [FuncTool] that handles the JSON boundary (with repair for
// the almost-valid JSON language models emit), a concurrency-safe
// [Registry], and the built-in demo tools (calculator, clock, weather,
// search) used throughout the examples.
package tools
