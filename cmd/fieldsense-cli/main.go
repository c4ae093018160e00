// Command fieldsense-cli is the operator interface to the decision core.
//
// Commands:
//
//	recommend    Generate domain recommendations from a field snapshot
//	decide       Run the irrigation decision cascade
//	control      Execute a control command against registered equipment
//	killswitch   Emergency stop for one unit of equipment
package main

import (
	"fmt"
	"os"

	"fieldsense/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
