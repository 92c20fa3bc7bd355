package tools

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/flowgraph/providers/model"
)

func TestCalculator(t *testing.T) {
	testCases := []struct {
		name     string
		args     string
		expected string
	}{
		{name: "add", args: `{"a": 2, "b": 3, "operation": "add"}`, expected: `{"result":5}`},
		{name: "subtract", args: `{"a": 10, "b": 4, "operation": "subtract"}`, expected: `{"result":6}`},
		{name: "multiply", args: `{"a": 6, "b": 7, "operation": "multiply"}`, expected: `{"result":42}`},
		{name: "divide", args: `{"a": 9, "b": 2, "operation": "divide"}`, expected: `{"result":4.5}`},
	}

	calculator := Calculator()

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			output, err := calculator.Call(context.Background(), testCase.args)
			require.NoError(t, err)
			assert.JSONEq(t, testCase.expected, output)
		})
	}
}

func TestCalculatorDivisionByZero(t *testing.T) {
	calculator := Calculator()

	_, err := calculator.Call(context.Background(), `{"a": 1, "b": 0, "operation": "divide"}`)
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestCalculatorUnknownOperation(t *testing.T) {
	calculator := Calculator()

	_, err := calculator.Call(context.Background(), `{"a": 1, "b": 2, "operation": "modulo"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}

func TestDecodeArgsRepairsMalformedJSON(t *testing.T) {
	// Single quotes and a trailing comma, the way models tend to write it.
	input, err := DecodeArgs[CalculatorInput](`{'a': 2, 'b': 3, 'operation': 'add',}`)
	require.NoError(t, err)

	assert.Equal(t, CalculatorInput{A: 2, B: 3, Operation: "add"}, input)
}

func TestDecodeArgsEmptyString(t *testing.T) {
	input, err := DecodeArgs[CalculatorInput]("")
	require.NoError(t, err)
	assert.Zero(t, input)
}

func TestClock(t *testing.T) {
	fixed := time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)
	clock := Clock(func() time.Time { return fixed })

	output, err := clock.Call(context.Background(), `{}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"now":"2025-03-14 09:26:53"}`, output)

	output, err = clock.Call(context.Background(), `{"layout": "2006-01-02"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"now":"2025-03-14"}`, output)
}

func TestWeatherIsReproducibleWithSeed(t *testing.T) {
	first, err := Weather(7).Call(context.Background(), `{"city": "Lisbon"}`)
	require.NoError(t, err)

	second, err := Weather(7).Call(context.Background(), `{"city": "Lisbon"}`)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, `"city":"Lisbon"`)
}

func TestWeatherConcurrentCalls(t *testing.T) {
	weather := Weather(3)

	var group sync.WaitGroup
	errs := make(chan error, 16)

	for range 16 {
		group.Add(1)
		go func() {
			defer group.Done()
			_, err := weather.Call(context.Background(), `{"city": "Lisbon"}`)
			errs <- err
		}()
	}

	group.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}

func TestWeatherRequiresCity(t *testing.T) {
	_, err := Weather(1).Call(context.Background(), `{}`)
	require.Error(t, err)
}

func TestSearchMatchesKeywords(t *testing.T) {
	corpus := map[string]string{
		"Go concurrency": "Goroutines and channels make concurrent code straightforward.",
		"Go modules":     "Modules version dependencies with a go.mod file.",
		"Rust ownership": "The borrow checker enforces memory safety at compile time.",
	}

	search := Search(corpus)

	var output SearchOutput
	raw, err := search.Call(context.Background(), `{"query": "go"}`)
	require.NoError(t, err)
	require.NoError(t, decodeInto(raw, &output))

	require.Len(t, output.Hits, 2)
	assert.Equal(t, "Go concurrency", output.Hits[0].Title)
	assert.Equal(t, "Go modules", output.Hits[1].Title)
}

func TestSearchNoMatches(t *testing.T) {
	search := Search(map[string]string{"Title": "Body text."})

	var output SearchOutput
	raw, err := search.Call(context.Background(), `{"query": "zeppelin"}`)
	require.NoError(t, err)
	require.NoError(t, decodeInto(raw, &output))

	assert.Empty(t, output.Hits)
}

func TestRegistryDispatch(t *testing.T) {
	registry := NewRegistry(Calculator(), Clock(nil))

	specs := registry.Specs()
	require.Len(t, specs, 2)
	assert.Equal(t, "calculator", specs[0].Name)
	assert.Equal(t, "clock", specs[1].Name)

	output, err := registry.Call(context.Background(), model.ToolCall{
		Name:      "calculator",
		Arguments: `{"a": 1, "b": 1, "operation": "add"}`,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":2}`, output)
}

func TestRegistryUnknownTool(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Call(context.Background(), model.ToolCall{Name: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown tool "missing"`)
}

func decodeInto(raw string, target any) error {
	return json.Unmarshal([]byte(raw), target)
}
