// Package namegen generates brand/project name candidates via an LLM and
// optionally annotates them with domain availability.
package namegen

import (
	"context"
	"time"
)

// GenerateRequest describes one generation call to the LLM.
type GenerateRequest struct {
	// Description is the user's free-form description of the project.
	Description string

	// Count is the number of names to generate. Clamped to [1, 10];
	// zero means the default of 5.
	Count int

	// Style optionally steers naming (e.g. "playful", "corporate").
	Style string
}

// GeneratedName is one candidate produced by the LLM.
type GeneratedName struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline,omitempty"`
}

// Generator produces structured name candidates. Implementations handle
// authentication, timeouts, and provider error mapping.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) ([]GeneratedName, error)
}

// Config carries the env-provided generation settings. An empty API key
// switches generation to the offline word-combination generator.
type Config struct {
	OpenAIAPIKey string        `env:"OPENAI_API_KEY"`
	Model        string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Timeout      time.Duration `env:"OPENAI_TIMEOUT" envDefault:"30s"`
	TLDs         []string      `env:"NAMEGEN_TLDS" envDefault:"com,io,ai,co"`
}
