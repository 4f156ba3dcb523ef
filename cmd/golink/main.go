// Command golink serves go links: short aliases redirecting to templated destinations.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
