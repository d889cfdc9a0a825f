// Package randomname composes adjective-noun style names from curated word
// lists, unique within one Generator. It backs offline name generation when no
// LLM provider is configured.
package randomname
