package tools

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrDivisionByZero is returned by the calculator for a zero divisor.
var ErrDivisionByZero = errors.New("tools: division by zero")

// CalculatorInput is the calculator's argument payload.
type CalculatorInput struct {
	// A is the left operand.
	A float64 `json:"a"`

	// B is the right operand.
	B float64 `json:"b"`

	// Operation is one of "add", "subtract", "multiply", "divide".
	Operation string `json:"operation"`
}

// CalculatorOutput carries the arithmetic result.
type CalculatorOutput struct {
	Result float64 `json:"result"`
}

// Calculator returns a tool performing basic arithmetic on two operands.
func Calculator() Tool {
	return New("calculator",
		"Performs basic arithmetic. Operations: add, subtract, multiply, divide.",
		func(_ context.Context, input CalculatorInput) (CalculatorOutput, error) {
			var result float64

			switch input.Operation {
			case "add":
				result = input.A + input.B
			case "subtract":
				result = input.A - input.B
			case "multiply":
				result = input.A * input.B
			case "divide":
				if input.B == 0 {
					return CalculatorOutput{}, ErrDivisionByZero
				}
				result = input.A / input.B
			default:
				return CalculatorOutput{}, fmt.Errorf("tools: unknown operation %q", input.Operation)
			}

			return CalculatorOutput{Result: result}, nil
		},
	)
}

// ClockInput selects the time layout. Empty means time.DateTime.
type ClockInput struct {
	Layout string `json:"layout,omitempty"`
}

// ClockOutput carries the formatted current time.
type ClockOutput struct {
	Now string `json:"now"`
}

// Clock returns a tool reporting the current local time. The clock function
// is injectable so tests get deterministic output.
func Clock(now func() time.Time) Tool {
	if now == nil {
		now = time.Now
	}

	return New("clock",
		"Returns the current date and time.",
		func(_ context.Context, input ClockInput) (ClockOutput, error) {
			layout := input.Layout
			if layout == "" {
				layout = time.DateTime
			}
			return ClockOutput{Now: now().Format(layout)}, nil
		},
	)
}

// WeatherInput names the city to report on.
type WeatherInput struct {
	City string `json:"city"`
}

// WeatherOutput is a fabricated weather report.
type WeatherOutput struct {
	City        string  `json:"city"`
	Temperature int     `json:"temperature_celsius"`
	Humidity    int     `json:"humidity_percent"`
	Condition   string  `json:"condition"`
	WindSpeed   float64 `json:"wind_speed_kmh"`
}

var weatherConditions = []string{"sunny", "cloudy", "rainy", "snowy"}

// Weather returns a mock weather tool producing randomized but plausible
// reports. Pass a fixed seed for reproducible output. Safe for concurrent
// calls; the random source is mutex-guarded.
func Weather(seed uint64) Tool {
	var mu sync.Mutex
	rng := rand.New(rand.NewPCG(seed, seed))

	return New("weather",
		"Returns the current weather for a city.",
		func(_ context.Context, input WeatherInput) (WeatherOutput, error) {
			if input.City == "" {
				return WeatherOutput{}, errors.New("tools: city is required")
			}

			mu.Lock()
			defer mu.Unlock()

			return WeatherOutput{
				City:        input.City,
				Temperature: rng.IntN(46) - 10,
				Humidity:    30 + rng.IntN(61),
				Condition:   weatherConditions[rng.IntN(len(weatherConditions))],
				WindSpeed:   float64(rng.IntN(200)) / 10,
			}, nil
		},
	)
}

// SearchInput carries the search query.
type SearchInput struct {
	Query string `json:"query"`
}

// SearchHit is one matched corpus entry.
type SearchHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// SearchOutput lists the matched entries.
type SearchOutput struct {
	Query string      `json:"query"`
	Hits  []SearchHit `json:"hits"`
}

// Search returns a tool performing keyword lookup over a canned corpus.
// A nil corpus uses a small built-in one about workflow concepts.
func Search(corpus map[string]string) Tool {
	if corpus == nil {
		corpus = map[string]string{
			"State graphs":      "A state graph threads a typed state value through named nodes connected by edges.",
			"Conditional edges": "A router function inspects the state and picks the next node, enabling branches and loops.",
			"Checkpoints":       "Checkpoints persist the state after each step so runs can be inspected and resumed.",
			"Human in the loop": "An interrupt pauses a run at a node until a person supplies the missing input.",
		}
	}

	return New("search",
		"Searches a small knowledge base and returns matching entries.",
		func(_ context.Context, input SearchInput) (SearchOutput, error) {
			output := SearchOutput{Query: input.Query}

			terms := strings.Fields(strings.ToLower(input.Query))
			for title, snippet := range corpus {
				haystack := strings.ToLower(title + " " + snippet)
				for _, term := range terms {
					if strings.Contains(haystack, term) {
						output.Hits = append(output.Hits, SearchHit{Title: title, Snippet: snippet})
						break
					}
				}
			}

			// Map iteration order is random; keep results stable.
			sort.Slice(output.Hits, func(left, right int) bool {
				return output.Hits[left].Title < output.Hits[right].Title
			})

			return output, nil
		},
	)
}
