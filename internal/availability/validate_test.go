package availability_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/namesmith/namesmith/internal/availability"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example.com", availability.Normalize("  Example.COM "))
	assert.Equal(t, "foo.io", availability.Normalize("FOO.IO"))
	assert.Equal(t, "", availability.Normalize("   "))
}

func TestIsValidDomainName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		domain string
		want   bool
	}{
		{"simple", "example.com", true},
		{"subdomain", "api.example.com", true},
		{"hyphenated label", "my-startup.io", true},
		{"digits", "0example1.com", true},
		{"long tld", "example.technology", true},
		{"empty", "", false},
		{"no tld", "example", false},
		{"single char tld", "example.c", false},
		{"numeric tld", "example.123", false},
		{"leading hyphen", "-example.com", false},
		{"trailing hyphen", "example-.com", false},
		{"spaces", "not a domain.com", false},
		{"uppercase is not normalized here", "Example.com", false},
		{"label too long", strings.Repeat("a", 64) + ".com", false},
		{"total length over limit", strings.Repeat("a", 60) + "." + strings.Repeat("b", 60) + "." + strings.Repeat("c", 60) + "." + strings.Repeat("d", 60) + "." + strings.Repeat("e", 60) + ".com", false},
		{"scheme prefix", "https://example.com", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, availability.IsValidDomainName(tt.domain))
		})
	}
}
