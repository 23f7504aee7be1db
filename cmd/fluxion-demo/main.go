// Command fluxion-demo runs small example pipelines built on the fluxion
// streaming library.
package main

import (
	"fmt"
	"os"

	"github.com/shivanshkc/fluxion/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Println("ERROR:", err.Error())
		os.Exit(1)
	}
}
