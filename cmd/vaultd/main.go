// Command vaultd operates a multi-owner custody vault stored in a local
// directory.
package main

import (
	"fmt"
	"os"

	"github.com/iov-one/vault/errors"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		code, msg := errors.Info(err, true)
		fmt.Fprintf(os.Stderr, "Error %d: %s\n", code, msg)
		os.Exit(1)
	}
}
