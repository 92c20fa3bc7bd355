// Package memory provides the two memory layers the conversational
// workflows use: a short-term [Buffer] holding the live conversation, and a
// long-term [Store] of scored items with keyword retrieval and an explicit
// forgetting pass. The sqlitestore subpackage persists the long-term layer.
package memory
