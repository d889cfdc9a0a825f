package randomname

// WordType selects a word list for one position of the name pattern.
type WordType int

const (
	Adjective WordType = iota
	Noun
)

var wordLists = map[WordType][]string{
	Adjective: adjectives,
	Noun:      nouns,
}

var adjectives = []string{
	"agile", "amber", "apex", "astro", "atomic", "bold", "bright", "brisk",
	"clear", "cosmic", "crisp", "deep", "echo", "ever", "fleet", "flux",
	"fresh", "golden", "hyper", "keen", "lively", "lucid", "lunar", "meta",
	"mighty", "nimble", "nova", "omni", "open", "prime", "pure", "quick",
	"rapid", "sharp", "silent", "sleek", "solid", "sonic", "spark", "swift",
	"terra", "true", "ultra", "vital", "vivid", "zen",
}

var nouns = []string{
	"anchor", "arc", "atlas", "beacon", "bloom", "bolt", "bridge", "canvas",
	"cargo", "circuit", "compass", "craft", "current", "dash", "drift", "ember",
	"falcon", "field", "flare", "forge", "fox", "grid", "harbor", "haven",
	"kite", "lab", "lark", "ledger", "lens", "loop", "mesh", "mint",
	"orbit", "otter", "peak", "pilot", "pulse", "quill", "raven", "reef",
	"relay", "ridge", "river", "signal", "spring", "stack", "stream", "summit",
	"tide", "trail", "vault", "wave", "wren",
}
