package tree

import (
	"fmt"
	"strings"
)

// asciiSubstitutions maps each accented rune to exactly one ASCII base
// letter. It covers the Latin-1 diacritics plus the full set of Vietnamese
// tone-mark vowels, no locale-sensitive collation involved.
var asciiSubstitutions = map[rune]rune{
	'à': 'a', 'á': 'a', 'ả': 'a', 'ã': 'a', 'ạ': 'a',
	'â': 'a', 'ầ': 'a', 'ấ': 'a', 'ẩ': 'a', 'ẫ': 'a', 'ậ': 'a',
	'ă': 'a', 'ằ': 'a', 'ắ': 'a', 'ẳ': 'a', 'ẵ': 'a', 'ặ': 'a',
	'ä': 'a', 'å': 'a',
	'è': 'e', 'é': 'e', 'ẻ': 'e', 'ẽ': 'e', 'ẹ': 'e',
	'ê': 'e', 'ề': 'e', 'ế': 'e', 'ể': 'e', 'ễ': 'e', 'ệ': 'e',
	'ë': 'e',
	'ì': 'i', 'í': 'i', 'ỉ': 'i', 'ĩ': 'i', 'ị': 'i', 'î': 'i', 'ï': 'i',
	'ò': 'o', 'ó': 'o', 'ỏ': 'o', 'õ': 'o', 'ọ': 'o',
	'ô': 'o', 'ồ': 'o', 'ố': 'o', 'ổ': 'o', 'ỗ': 'o', 'ộ': 'o',
	'ơ': 'o', 'ờ': 'o', 'ớ': 'o', 'ở': 'o', 'ỡ': 'o', 'ợ': 'o',
	'ö': 'o',
	'ù': 'u', 'ú': 'u', 'ủ': 'u', 'ũ': 'u', 'ụ': 'u',
	'ư': 'u', 'ừ': 'u', 'ứ': 'u', 'ử': 'u', 'ữ': 'u', 'ự': 'u',
	'û': 'u', 'ü': 'u',
	'ỳ': 'y', 'ý': 'y', 'ỷ': 'y', 'ỹ': 'y', 'ỵ': 'y', 'ÿ': 'y',
	'đ': 'd',
	'ç': 'c',
	'ñ': 'n',
}

// GenerateId derives a stable human-readable identifier from a name,
// joining the normalized last, middle and first components in that order.
// A collision against existing is resolved with a numeric suffix starting
// at 2. Degenerate input (no usable first or last name) yields "": the
// caller substitutes its own placeholder scheme so incomplete historical
// records are never blocked.
func GenerateId(name Name, existing []string) string {
	last := normalizeComponent(name.Last)
	middle := normalizeComponent(name.Middle)
	first := normalizeComponent(name.First)

	if last == "" || first == "" {
		return ""
	}

	components := []string{last}
	if middle != "" {
		components = append(components, middle)
	}
	components = append(components, first)

	return UniqueId(strings.Join(components, "_"), existing)
}

// UniqueId makes base unique against existing by appending _2, _3, ...
// The suffix never starts at _1.
func UniqueId(base string, existing []string) string {
	taken := make(map[string]bool, len(existing))
	for _, id := range existing {
		taken[id] = true
	}

	if !taken[base] {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if !taken[candidate] {
			return candidate
		}
	}
}

func normalizeComponent(component string) string {
	var b strings.Builder
	lastUnderscore := true // swallow leading separators

	for _, r := range strings.ToLower(component) {
		if sub, ok := asciiSubstitutions[r]; ok {
			r = sub
		}
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	return strings.TrimRight(b.String(), "_")
}

// RewriteReferences returns a new roster in which every fatherId, motherId
// and union spouseId equal to oldId now reads newId. The input roster is
// left untouched; records that change are copied. Updating the renamed
// record's own id field is the caller's responsibility.
func RewriteReferences(roster []Person, oldId, newId string) []Person {
	updated := make([]Person, len(roster))

	for i, person := range roster {
		if person.FatherId == oldId {
			person.FatherId = newId
		}
		if person.MotherId == oldId {
			person.MotherId = newId
		}

		// the struct copy still shares the unions backing array with the
		// input roster, copy it before the first in-place edit
		unionsCopied := false
		for j := range person.Unions {
			if person.Unions[j].SpouseId != oldId {
				continue
			}
			if !unionsCopied {
				unions := make([]Union, len(person.Unions))
				copy(unions, person.Unions)
				person.Unions = unions
				unionsCopied = true
			}
			person.Unions[j].SpouseId = newId
		}

		updated[i] = person
	}

	return updated
}
