// Package slug converts free-form brand names into lowercase ASCII slugs and
// RFC 1035 domain labels.
//
// Make produces a general slug with a configurable separator and length limit;
// Label is the domain-specific shortcut that collapses a name into a single
// label of at most 63 alphanumeric characters:
//
//	slug.Make("Café Nouveau")  // "cafe-nouveau"
//	slug.Label("Zen Lify!")    // "zenlify"
package slug
