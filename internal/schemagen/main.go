// Command schemagen writes the JSON schema for challenge catalogs, so
// editors can validate catalog.yaml.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/dynatrace-oss/open-ecosystem-challenge-verifier/api/v1beta1/catalogs"
)

func main() {
	outFile := pflag.StringP("out", "o", "schema.json", "Output file for the generated schema")
	pflag.Parse()

	err := run(*outFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outFile string) error {
	jsData, err := catalogs.Schema()
	if err != nil {
		return fmt.Errorf("generate JSON schema: %w", err)
	}

	err = os.WriteFile(outFile, jsData, 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}
