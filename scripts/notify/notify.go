// notify is a sample after-hook: it appends one line per executed
// combination to a log file, from the AVQA_* variables the runner exports.
package main

import (
	"fmt"
	"os"
	"time"
)

func main() {
	path := "reports/hooks.log"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "notify: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	fmt.Fprintf(f, "%s %s %s %s %s %s\n",
		time.Now().UTC().Format(time.RFC3339),
		os.Getenv("AVQA_CASE"),
		os.Getenv("AVQA_BROWSER"),
		os.Getenv("AVQA_LANGUAGE"),
		os.Getenv("AVQA_ENV"),
		os.Getenv("AVQA_STATUS"),
	)
}
