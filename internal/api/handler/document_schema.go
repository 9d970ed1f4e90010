package handler

import (
	"time"

	"github.com/gitedu/docuvault/internal/core/domain"
)

// uploadDocumentForm holds the multipart fields accompanying the file part.
type uploadDocumentForm struct {
	Name    string `form:"name"    validate:"required"`
	Scheme  string `form:"scheme"  validate:"required"`
	Subject string `form:"subject" validate:"required"`
}

type documentView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StorageKey string    `json:"storage_key"`
	Owner      string    `json:"owner"`
	Scheme     string    `json:"scheme"`
	Subject    string    `json:"subject"`
	CreatedAt  time.Time `json:"created_at"`
}

type documentListResponse struct {
	Success   bool           `json:"success"`
	Documents []documentView `json:"documents"`
}

func toDocumentViews(docs []*domain.Document) []documentView {
	views := make([]documentView, 0, len(docs))
	for _, d := range docs {
		views = append(views, documentView{
			ID:         d.ID,
			Name:       d.Name,
			StorageKey: d.StorageKey,
			Owner:      d.Owner,
			Scheme:     d.Scheme,
			Subject:    d.Subject,
			CreatedAt:  d.CreatedAt,
		})
	}
	return views
}
