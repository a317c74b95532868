// Package main provides the entry point for the elinkctl CLI.
//
// elinkctl submits entity-linking training runs and linking jobs to the
// entity-linking service and keeps a local history of submissions.
//
// Usage:
//
//	elinkctl train -f recipe.yaml
//	elinkctl link --catalog wikipedia-5.9M --mentions /data/test.jsonl
//
// See --help for all available options.
package main

func main() {
	Execute()
}
