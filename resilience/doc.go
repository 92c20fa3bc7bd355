// Package resilience provides the retry and circuit-breaker utilities used
// by the error-handling workflows. [Retry] re-invokes a function with
// exponential backoff between attempts; [CircuitBreaker] isolates a failing
// dependency with the closed/open/half-open state machine.
//
// Both are deliberately small, in-process utilities: they protect the mock
// services the tutorials call, not a distributed system.
package resilience
