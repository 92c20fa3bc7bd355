// Command flowgraph is the tutorial launcher: it lists the example
// programs, runs a quick built-in demo, and reports the version.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leofalp/flowgraph/workflow"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// tutorial describes one runnable example program.
type tutorial struct {
	path        string
	description string
}

var tutorials = []tutorial{
	{"examples/01-basics/helloworld", "first graph: two nodes and an edge"},
	{"examples/01-basics/statemanagement", "state flowing and accumulating through nodes"},
	{"examples/01-basics/nodesedges", "linear, conditional, loop, and combined topologies"},
	{"examples/01-basics/toolagent", "an agent loop that calls tools"},
	{"examples/02-intermediate/conditionalrouting", "compound routing on priority and quality"},
	{"examples/02-intermediate/humaninloop", "interrupt, human input, resume"},
	{"examples/02-intermediate/parallelexecution", "fan-out with a bounded worker pool"},
	{"examples/03-advanced/customtools", "writing and chaining custom tools"},
	{"examples/03-advanced/errorhandling", "retry, circuit breaker, recovery chains"},
	{"examples/03-advanced/memorysystem", "short-term, long-term, and forgetting"},
	{"examples/04-realworld/chatbot", "intent routing, memory, tools, streaming"},
	{"examples/04-realworld/automation", "order processing with compensation"},
	{"examples/05-exercises/challenges", "self-checking exercises"},
	{"examples/05-exercises/advanced", "recommendation, streaming, adaptive learning"},
	{"examples/05-exercises/projects", "customer service and analytics projects"},
	{"examples/06-cuttingedge/monitoring", "tracing, logging, run metrics"},
	{"examples/06-cuttingedge/ragqa", "retrieval-augmented question answering"},
	{"examples/06-cuttingedge/multimodal", "parallel per-modality analysis"},
	{"examples/06-cuttingedge/templates", "graphs declared in YAML"},
	{"examples/06-cuttingedge/server", "HTTP + WebSocket chat deployment"},
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "flowgraph",
		Short: "Graduated tutorials for graph-based workflow orchestration",
		Long: strings.TrimSpace(`
flowgraph is a collection of runnable tutorials that teach graph-based
workflow orchestration: nodes, edges, conditional routing, checkpoints,
human-in-the-loop, tools, memory, and retrieval.

Run each tutorial directly with "go run ./<path>".`),
		SilenceUsage: true,
	}

	root.AddCommand(newListCommand(), newDemoCommand(), newVersionCommand())
	return root
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tutorial programs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, entry := range tutorials {
				fmt.Fprintf(cmd.OutOrStdout(), "%-48s %s\n", entry.path, entry.description)
			}
			return nil
		},
	}
}

// newDemoCommand runs a minimal graph inline so "flowgraph demo" works
// without picking a tutorial first.
func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo [name]",
		Short: "Run a quick built-in workflow demo",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "gopher"
			if len(args) == 1 {
				name = args[0]
			}

			type DemoState struct {
				Name     string
				Greeting string
			}

			graph, err := workflow.NewStateGraph[DemoState]().
				AddNode("greet", func(_ context.Context, state DemoState) (DemoState, error) {
					state.Greeting = fmt.Sprintf("Hello, %s!", state.Name)
					return state, nil
				}).
				AddNode("shout", func(_ context.Context, state DemoState) (DemoState, error) {
					state.Greeting = strings.ToUpper(state.Greeting)
					return state, nil
				}).
				AddEdge(workflow.Start, "greet").
				AddEdge("greet", "shout").
				AddEdge("shout", workflow.End).
				Compile()
			if err != nil {
				return err
			}

			final, err := graph.Invoke(cmd.Context(), DemoState{Name: name})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), final.Greeting)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "flowgraph %s\n", version)
		},
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
