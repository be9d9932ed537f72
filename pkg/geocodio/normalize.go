package geocodio

import (
	"regexp"
	"strings"
)

// expresswayAliases maps colloquial Baltimore expressway names to their
// route numbers. Longer aliases come first so they are consumed whole.
var expresswayAliases = []struct {
	alias string
	route string
}{
	{"JONES FALLS EXPRESSWAY", "I-83"},
	{"JONES FALLS EXPWY", "I-83"},
	{"JONES FALLS", "I-83"},
}

// directionRe matches a leading "<digits> <N|S|E|W>[.] " prefix.
var directionRe = regexp.MustCompile(`^(\d+) ([NSEW])\.? `)

var directionWords = map[string]string{
	"N": "NORTH",
	"S": "SOUTH",
	"E": "EAST",
	"W": "WEST",
}

// NormalizeAddress canonicalizes a street address for cache keying by:
//  1. Uppercasing and collapsing whitespace
//  2. Dropping block qualifiers (BLK, BLOCK)
//  3. Fixing the truncated highway abbreviation (HW -> HWY)
//  4. Substituting known expressway aliases with their route numbers
//  5. Expanding a leading directional abbreviation after the house number
//
// It does not validate the address, and it is idempotent:
// NormalizeAddress(NormalizeAddress(x)) == NormalizeAddress(x).
func NormalizeAddress(address string) string {
	norm := strings.ToUpper(strings.TrimSpace(address))

	fields := strings.Fields(norm)
	kept := fields[:0]
	for _, f := range fields {
		switch f {
		case "BLK", "BLOCK":
			// Block qualifiers carry no location information.
		case "HW":
			kept = append(kept, "HWY")
		default:
			kept = append(kept, f)
		}
	}
	norm = strings.Join(kept, " ")

	for _, sub := range expresswayAliases {
		norm = strings.ReplaceAll(norm, sub.alias, sub.route)
	}

	if m := directionRe.FindStringSubmatch(norm); m != nil {
		norm = m[1] + " " + directionWords[m[2]] + " " + norm[len(m[0]):]
	}

	return norm
}
