// Command schema regenerates the JSON schema embedded in pkg/config. Run via
// go:generate whenever Config fields or their jsonschema tags change.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/gaurv/sitegen/pkg/config"
)

func main() {
	out := flag.String("out", "schema.json", "schema output path")
	flag.Parse()
	if flag.NArg() > 0 { // go:generate passes the path positionally
		*out = flag.Arg(0)
	}

	data, err := json.MarshalIndent(jsonschema.Reflect(&config.Config{}), "", "  ")
	if err != nil {
		log.Fatalf("reflect config schema: %v", err)
	}

	if err := os.WriteFile(*out, data, 0o600); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	log.Printf("schema written to %s", *out)
}
