package service

import "github.com/google/uuid"

// canonicalUUIDLength is the hyphenated 8-4-4-4-12 form
const canonicalUUIDLength = 36

// parseTerm classifies a caller-supplied lookup string. Only the canonical
// hyphenated UUID form resolves by identifier equality; uuid.Parse alone also
// accepts braced, URN and bare-hex spellings, and those must fall through to
// the text key path, matched case-insensitively against title and slug.
func parseTerm(term string) (uuid.UUID, bool) {
	if len(term) != canonicalUUIDLength {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(term)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
