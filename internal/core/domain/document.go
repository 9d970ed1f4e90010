package domain

import (
	"errors"
	"time"
)

var ErrDocumentNotFound = errors.New("document not found")
var ErrDocumentExists = errors.New("document with the same name exists")
var ErrInvalidScheme = errors.New("invalid scheme or subject")

// ErrMetadataResidue marks the consistency gap where the blob was removed but
// the metadata record could not be deleted. Operators reconcile these from
// the logs; the error is never collapsed into a generic failure.
var ErrMetadataResidue = errors.New("blob deleted but metadata record remains")

// Document is a named, categorized binary artifact. Owner stores the display
// name of the uploading user at creation time, not a foreign key: cascade
// deletion matches on the name as it is at deletion time.
type Document struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	Name       string    `json:"name" bson:"name"`
	StorageKey string    `json:"storage_key" bson:"storage_key"`
	Owner      string    `json:"owner" bson:"owner"`
	Scheme     string    `json:"scheme" bson:"scheme"`
	Subject    string    `json:"subject" bson:"subject"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
