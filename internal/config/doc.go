// Package config provides configuration structures and utilities for
// vidcrawl. It defines the runtime options populated from CLI flags,
// the YAML configuration file schema describing each crawled site, and
// the duration format registry used to interpret scraped durations.
package config
