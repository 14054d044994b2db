// Command serial converts documents between the registered serialization
// formats.
//
//	serial -in config.yaml -to json
//	curl -s https://example.com/users.json | serial -from json -to yaml
//	serial -list
package main

import (
	"flag"
	"os"

	"github.com/cockroachdb/errors"
)

func main() {
	opts, err := ParseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}
	os.Exit(run(opts, os.Stdin, os.Stdout, os.Stderr))
}
