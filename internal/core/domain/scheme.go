package domain

import "errors"

var ErrSchemeNotFound = errors.New("scheme not found")
var ErrSchemeExists = errors.New("scheme already exists")

// Scheme is a taxonomy entry: a named scheme with its registered subjects.
// A document may only be filed under a (scheme, subject) pair that exists here.
type Scheme struct {
	ID       string   `json:"id" bson:"_id,omitempty"`
	Scheme   string   `json:"scheme" bson:"scheme"`
	Subjects []string `json:"subjects" bson:"subjects"`
}

// HasSubject reports whether subject is registered under the scheme.
func (s *Scheme) HasSubject(subject string) bool {
	for _, sub := range s.Subjects {
		if sub == subject {
			return true
		}
	}
	return false
}
