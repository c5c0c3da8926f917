package lexicon

import "strings"

// Regular English inflection rules. Irregular words carry their forms
// explicitly in the lexicon and never reach these functions.

const vowels = "aeiou"

func isVowel(b byte) bool {
	return strings.IndexByte(vowels, b) >= 0
}

// endsWithConsonantY reports "city", "carry" but not "day", "toy".
func endsWithConsonantY(w string) bool {
	n := len(w)
	return n >= 2 && w[n-1] == 'y' && !isVowel(w[n-2])
}

func hasAnySuffix(w string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(w, s) {
			return true
		}
	}
	return false
}

// Pluralize returns the regular plural of a noun.
func Pluralize(w string) string {
	switch {
	case hasAnySuffix(w, "s", "x", "z", "ch", "sh"):
		return w + "es"
	case endsWithConsonantY(w):
		return w[:len(w)-1] + "ies"
	default:
		return w + "s"
	}
}

// ThirdPerson returns the third person singular present of a verb.
func ThirdPerson(w string) string {
	if strings.HasSuffix(w, "o") && len(w) > 1 && !isVowel(w[len(w)-2]) {
		return w + "es"
	}
	return Pluralize(w)
}

// PresentParticiple returns the -ing form of a verb.
func PresentParticiple(w string) string {
	switch {
	case strings.HasSuffix(w, "ie"):
		return w[:len(w)-2] + "ying"
	case hasAnySuffix(w, "ee", "ye", "oe"):
		return w + "ing"
	case strings.HasSuffix(w, "e") && len(w) > 2:
		return w[:len(w)-1] + "ing"
	default:
		return w + "ing"
	}
}

// Past returns the regular simple past (and past participle) of a verb.
func Past(w string) string {
	switch {
	case strings.HasSuffix(w, "e"):
		return w + "d"
	case endsWithConsonantY(w):
		return w[:len(w)-1] + "ied"
	default:
		return w + "ed"
	}
}

// long adjectives are compared with more/most.
func isLongAdjective(w string) bool {
	return len(w) > 6 || hasAnySuffix(w, "ful", "ous", "ive", "ing", "ed", "ish", "ic")
}

// Comparative returns the comparative of an adjective.
func Comparative(w string) string {
	switch {
	case isLongAdjective(w):
		return "more " + w
	case strings.HasSuffix(w, "e"):
		return w + "r"
	case endsWithConsonantY(w):
		return w[:len(w)-1] + "ier"
	default:
		return w + "er"
	}
}

// Superlative returns the superlative of an adjective.
func Superlative(w string) string {
	switch {
	case isLongAdjective(w):
		return "most " + w
	case strings.HasSuffix(w, "e"):
		return w + "st"
	case endsWithConsonantY(w):
		return w[:len(w)-1] + "iest"
	default:
		return w + "est"
	}
}
