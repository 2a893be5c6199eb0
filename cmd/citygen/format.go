package main

import (
	"fmt"

	"github.com/maitrix-org/simworld/pkg/validation"
)

func printReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.Field != "" {
				fmt.Printf("    -> %s = %v\n", e.Field, e.Actual)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.Field != "" {
				fmt.Printf("    -> %s = %v\n", w.Field, w.Actual)
			}
			if w.Expected != "" {
				fmt.Printf("    expected: %s\n", w.Expected)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}
