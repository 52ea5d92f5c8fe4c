// Package schools collapses the many spellings a college appears under across
// stat providers (mascot-suffixed, city-suffixed, abbreviated, full legal
// name) into one canonical display name. Canonicalization is a pure function
// of its input; the same raw string always yields the same output.
package schools

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parenRe    = regexp.MustCompile(`\(([^)]*)\)`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// Canonicalize maps any free-text school or team name to its canonical
// display name. It never fails; empty or whitespace-only input returns "".
func Canonicalize(raw string) string {
	tokens := normalizeTokens(raw)
	if len(tokens) == 0 {
		return ""
	}

	stripped := stripLocations(tokens)

	// Override lookup is tried twice, first hit wins: the full token
	// sequence may carry a disambiguating location ("miami fl") that the
	// stripped sequence has lost.
	if name, ok := overrides[strings.Join(tokens, " ")]; ok {
		return name
	}
	if name, ok := overrides[strings.Join(stripped, " ")]; ok {
		return name
	}

	rendered := make([]string, len(stripped))
	for i, tok := range stripped {
		rendered[i] = renderToken(tok)
	}
	return strings.Join(rendered, " ")
}

// normalizeTokens runs the tokenization half of the pipeline: diacritics,
// parentheticals, "&", case folding, single-letter collapse, stop and mascot
// word removal, irregular spellings. Location stripping is left to the
// caller so both forms can be tried against the override table.
func normalizeTokens(raw string) []string {
	s := stripDiacritics(strings.TrimSpace(raw))
	if s == "" {
		return nil
	}

	// Parenthetical asides are noise ("(probable)", sponsor tags) except
	// when they carry the state that tells two same-name schools apart.
	s = parenRe.ReplaceAllStringFunc(s, func(m string) string {
		inner := strings.ToLower(strings.TrimSpace(m[1 : len(m)-1]))
		if stateCodes[inner] {
			return " " + inner + " "
		}
		if code, ok := stateNames[inner]; ok {
			return " " + code + " "
		}
		return " "
	})

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ToLower(s)

	tokens := splitTokens(s)
	tokens = collapseSingleLetters(tokens)
	tokens = dropNoiseTokens(tokens)

	for i, tok := range tokens {
		if mapped, ok := irregulars[tok]; ok {
			tokens[i] = mapped
		}
	}
	return tokens
}

func splitTokens(s string) []string {
	parts := nonAlnumRe.Split(s, -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// collapseSingleLetters merges runs of consecutive single-letter tokens, so
// acronyms split by punctuation ("U.C.L.A.", "u c l a") come back together.
func collapseSingleLetters(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	i := 0
	for i < len(tokens) {
		if len(tokens[i]) == 1 {
			j := i
			for j < len(tokens) && len(tokens[j]) == 1 {
				j++
			}
			if j-i > 1 {
				out = append(out, strings.Join(tokens[i:j], ""))
				i = j
				continue
			}
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}

func dropNoiseTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if stopWords[tok] || mascotWords[tok] {
			continue
		}
		out = append(out, tok)
	}
	// A leading "college" is noise ("College of Charleston") but only when
	// something else remains, so "Boston College" keeps its second token
	// and a bare "College" survives.
	if len(out) > 1 && out[0] == "college" {
		out = out[1:]
	}
	return out
}

// stripLocations iteratively removes trailing city names, two-word city
// pairs, and US state codes, as long as more than one token remains. Some
// providers append the venue city after the team name.
func stripLocations(tokens []string) []string {
	out := tokens
	for len(out) > 1 {
		n := len(out)
		if n > 2 && cityPairs[out[n-2]+" "+out[n-1]] {
			out = out[:n-2]
			continue
		}
		last := out[n-1]
		if cityTokens[last] || stateCodes[last] {
			out = out[:n-1]
			continue
		}
		break
	}
	return out
}

func renderToken(tok string) string {
	if fixed, ok := specialCase[tok]; ok {
		return fixed
	}
	switch tok {
	case "st", "ft", "mt":
		return upperFirst(tok) + "."
	}
	if len(tok) <= 2 {
		return strings.ToUpper(tok)
	}
	if strings.HasPrefix(tok, "mc") && len(tok) > 2 {
		return "Mc" + strings.ToUpper(tok[2:3]) + tok[3:]
	}
	return upperFirst(tok)
}

func upperFirst(tok string) string {
	if tok == "" {
		return tok
	}
	return strings.ToUpper(tok[:1]) + tok[1:]
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
