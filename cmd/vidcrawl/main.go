// Package main provides the entry point for the vidcrawl CLI.
//
// vidcrawl crawls paginated video listing sites, stores newly found
// videos with their tags, and reports on the collected data.
//
// Usage:
//
//	vidcrawl crawl [site...]
//	vidcrawl report --format markdown
//
// See --help for all available options.
package main

// main is the entry point for vidcrawl.
func main() {
	Execute()
}
