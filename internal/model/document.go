package model

// Document is the single persisted unit: every snippet and every user,
// together, in one structure. The store loads the whole Document at the
// start of an operation and saves the whole Document at the end of a
// mutating one — there is no partial update and no cross-operation cache.
//
// Both collections always exist. A freshly loaded Document from an empty or
// missing backing file has empty (non-nil) slices, so callers never need a
// nil check before ranging or appending.
type Document struct {
	Snippets []Snippet `json:"snippets"`
	Users    []User    `json:"users"`
}

// NewDocument returns an empty Document with both collections initialised.
func NewDocument() *Document {
	return &Document{
		Snippets: []Snippet{},
		Users:    []User{},
	}
}

// Normalize ensures both collections are non-nil. Called by store backends
// after decoding, because a stored document may legitimately omit a
// collection (e.g. a file created before users existed).
func (d *Document) Normalize() {
	if d.Snippets == nil {
		d.Snippets = []Snippet{}
	}
	if d.Users == nil {
		d.Users = []User{}
	}
}

// NextSnippetID returns the id for the next snippet: one more than the
// highest existing id, or 1 for an empty collection.
//
// WHY max+1 AND NOT len+1?
// len+1 would reuse ids after a deletion (or any future compaction).
// max+1 guarantees ids strictly increase and are never handed out twice.
// It must be computed from the freshly loaded Document every time — caching
// the counter across operations would collide after a restart.
func (d *Document) NextSnippetID() int {
	max := 0
	for _, s := range d.Snippets {
		if s.ID > max {
			max = s.ID
		}
	}
	return max + 1
}

// NextUserID returns the id for the next user. Users and snippets have
// independent id namespaces, so this scans only the users collection.
func (d *Document) NextUserID() int {
	max := 0
	for _, u := range d.Users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}
