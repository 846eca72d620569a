package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_MixedCase_Lowercases(t *testing.T) {
	assert.Equal(t, "grocery list", Normalize("Grocery List"))
}

func TestNormalize_Diacritics_Stripped(t *testing.T) {
	// Given: text with combining marks in several scripts
	cases := map[string]string{
		"Kimün":        "kimun",
		"café":         "cafe",
		"RÉSUMÉ":       "resume",
		"naïve piñata": "naive pinata",
	}

	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestNormalize_Punctuation_BecomesWordBoundary(t *testing.T) {
	assert.Equal(t, "wine tasting notes", Normalize("wine-tasting_notes"))
	assert.Equal(t, "a b c", Normalize("a.b!c"))
}

func TestNormalize_LeadingTrailingJunk_NoStraySpaces(t *testing.T) {
	assert.Equal(t, "hello world", Normalize("  --hello, world!  "))
}

func TestNormalize_Digits_Kept(t *testing.T) {
	assert.Equal(t, "meeting 2024 01 15", Normalize("meeting-2024-01-15"))
}

func TestNormalize_Empty_ReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("!!! ---"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Grocery List", "Kimün!", "wine-tasting", "  a  b  "}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestWords_SplitsNormalizedText(t *testing.T) {
	assert.Equal(t, []string{"buy", "red", "wine"}, Words("Buy red wine!"))
}

func TestWords_Empty_ReturnsNil(t *testing.T) {
	assert.Nil(t, Words("   "))
}

func TestWordSet_Duplicates_Collapse(t *testing.T) {
	set := WordSet("wine Wine WINE tasting")

	assert.Len(t, set, 2)
	assert.Contains(t, set, "wine")
	assert.Contains(t, set, "tasting")
}

func TestPattern_NoWildcard_FullyNormalized(t *testing.T) {
	assert.Equal(t, "cafe", Pattern("Café"))
}

func TestPattern_Wildcards_Preserved(t *testing.T) {
	// Given: patterns with wildcards in various positions
	assert.Equal(t, "*thoughts", Pattern("*Thoughts"))
	assert.Equal(t, "gro*list", Pattern("Gro*List"))
	assert.Equal(t, "wine*", Pattern("wine*"))
	assert.Equal(t, "*", Pattern("*"))
}

func TestPattern_SegmentsNormalizedIndependently(t *testing.T) {
	assert.Equal(t, "cafe*menu", Pattern("Café*Menü"))
}
