// Package model defines the provider-agnostic chat model contract used by
// the workflows: messages, tool specs, requests, responses, and the
// [Provider] interface. The mock subpackage implements it with
// deterministic canned behavior so every tutorial runs offline.
package model
