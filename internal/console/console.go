// Package console provides the banner printing and interactive menu loop
// shared by the example programs.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Printer writes the step/result/error banners the examples use to narrate
// workflow progress.
type Printer struct {
	out io.Writer
}

// NewPrinter writes banners to out. A nil out means os.Stdout.
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

// Step prints a workflow step banner.
func (printer *Printer) Step(format string, args ...any) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintf(printer.out, "\n%s\n>> %s\n%s\n", rule, fmt.Sprintf(format, args...), rule)
}

// Result prints a success banner.
func (printer *Printer) Result(format string, args ...any) {
	rule := strings.Repeat("-", 50)
	fmt.Fprintf(printer.out, "\n%s\nOK %s\n%s\n", rule, fmt.Sprintf(format, args...), rule)
}

// Error prints a failure banner.
func (printer *Printer) Error(format string, args ...any) {
	rule := strings.Repeat("!", 50)
	fmt.Fprintf(printer.out, "\n%s\nERROR %s\n%s\n", rule, fmt.Sprintf(format, args...), rule)
}

var defaultPrinter = NewPrinter(nil)

// PrintStep prints a step banner to stdout.
func PrintStep(format string, args ...any) { defaultPrinter.Step(format, args...) }

// PrintResult prints a success banner to stdout.
func PrintResult(format string, args ...any) { defaultPrinter.Result(format, args...) }

// PrintError prints a failure banner to stdout.
func PrintError(format string, args ...any) { defaultPrinter.Error(format, args...) }

// MenuItem is one numbered menu entry.
type MenuItem struct {
	// Label is shown next to the entry's number.
	Label string

	// Run executes the entry. An error is printed but does not end the
	// menu loop.
	Run func() error
}

// Menu is an interactive numbered menu. Entering 0 exits the loop.
type Menu struct {
	title string
	items []MenuItem
	in    io.Reader
	out   io.Writer
}

// NewMenu builds a menu over items. A nil in/out means stdin/stdout.
func NewMenu(title string, items []MenuItem) *Menu {
	return &Menu{
		title: title,
		items: items,
		in:    os.Stdin,
		out:   os.Stdout,
	}
}

// WithIO redirects the menu's input and output, used by tests and by the
// demo server's non-interactive mode.
func (menu *Menu) WithIO(in io.Reader, out io.Writer) *Menu {
	menu.in = in
	menu.out = out
	return menu
}

// Loop shows the menu and dispatches choices until the user enters 0 or
// input is exhausted.
func (menu *Menu) Loop() {
	scanner := bufio.NewScanner(menu.in)

	for {
		fmt.Fprintf(menu.out, "\n%s\n", menu.title)
		for index, item := range menu.items {
			fmt.Fprintf(menu.out, "  %d. %s\n", index+1, item.Label)
		}
		fmt.Fprintln(menu.out, "  0. Exit")
		fmt.Fprint(menu.out, "Choice: ")

		if !scanner.Scan() {
			fmt.Fprintln(menu.out)
			return
		}

		choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || choice < 0 || choice > len(menu.items) {
			fmt.Fprintln(menu.out, "Invalid choice, try again.")
			continue
		}

		if choice == 0 {
			fmt.Fprintln(menu.out, "Bye.")
			return
		}

		if err := menu.items[choice-1].Run(); err != nil {
			fmt.Fprintf(menu.out, "\nERROR %v\n", err)
		}
	}
}
