package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gitedu/docuvault/internal/core/ports"
)

// DocumentHandler handles HTTP requests for the document lifecycle.
type DocumentHandler struct {
	documents ports.DocumentService
}

func NewDocumentHandler(documents ports.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Upload stores a new document from a multipart form.
//
// @Summary      Upload a document
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData  file    true  "Document content"
// @Param        name     formData  string  true  "Display name, unique across the store"
// @Param        scheme   formData  string  true  "Taxonomy scheme"
// @Param        subject  formData  string  true  "Taxonomy subject"
// @Success      200      {object}  messageResponse
// @Failure      400      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Router       /documents [post]
func (h *DocumentHandler) Upload(c echo.Context) error {
	var form uploadDocumentForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}

	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	_, err = h.documents.Upload(c.Request().Context(), ports.UploadDocumentInput{
		OwnerName:   ident.Name,
		Name:        form.Name,
		Scheme:      form.Scheme,
		Subject:     form.Subject,
		Content:     content,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Document Uploaded Successfully"})
}

// Download redirects to a time-limited signed URL for the storage key.
//
// @Summary      Download a document
// @Tags         documents
// @Param        storageKey  path  string  true  "Opaque storage key"
// @Success      302
// @Failure      400  {object}  map[string]string
// @Router       /documents/download/{storageKey} [get]
func (h *DocumentHandler) Download(c echo.Context) error {
	storageKey := c.Param("storageKey")
	if storageKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing storage key")
	}

	url, err := h.documents.Download(c.Request().Context(), storageKey)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="downloaded"`)
	return c.Redirect(http.StatusFound, url)
}

// Delete removes a document's blob and metadata.
//
// @Summary      Delete a document
// @Tags         documents
// @Produce      json
// @Param        storageKey  path      string  true  "Opaque storage key"
// @Success      200         {object}  messageResponse
// @Failure      404         {object}  map[string]string
// @Router       /documents/{storageKey} [delete]
func (h *DocumentHandler) Delete(c echo.Context) error {
	storageKey := c.Param("storageKey")
	if storageKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing storage key")
	}

	if err := h.documents.Delete(c.Request().Context(), storageKey); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "File Deleted Successfully"})
}

// ListByOwner lists the calling user's own documents, newest first.
//
// @Summary      List own documents
// @Tags         documents
// @Produce      json
// @Success      200  {object}  documentListResponse
// @Router       /documents/owner [get]
func (h *DocumentHandler) ListByOwner(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	docs, err := h.documents.ListByOwner(c.Request().Context(), ident.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, documentListResponse{Success: true, Documents: toDocumentViews(docs)})
}

// ListByScheme lists documents filed under a scheme.
//
// @Summary      List documents by scheme
// @Tags         documents
// @Produce      json
// @Param        scheme  path      string  true  "Taxonomy scheme"
// @Success      200     {object}  documentListResponse
// @Failure      400     {object}  map[string]string
// @Router       /documents/scheme/{scheme} [get]
func (h *DocumentHandler) ListByScheme(c echo.Context) error {
	scheme := c.Param("scheme")
	if scheme == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing scheme")
	}

	docs, err := h.documents.ListByScheme(c.Request().Context(), scheme)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, documentListResponse{Success: true, Documents: toDocumentViews(docs)})
}

// ListBySubject lists documents filed under a subject.
//
// @Summary      List documents by subject
// @Tags         documents
// @Produce      json
// @Param        subject  path      string  true  "Taxonomy subject"
// @Success      200      {object}  documentListResponse
// @Failure      400      {object}  map[string]string
// @Router       /documents/subject/{subject} [get]
func (h *DocumentHandler) ListBySubject(c echo.Context) error {
	subject := c.Param("subject")
	if subject == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing subject")
	}

	docs, err := h.documents.ListBySubject(c.Request().Context(), subject)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, documentListResponse{Success: true, Documents: toDocumentViews(docs)})
}

// ListAll lists every document in the store, newest first.
//
// @Summary      List all documents
// @Tags         documents
// @Produce      json
// @Success      200  {object}  documentListResponse
// @Router       /documents [get]
func (h *DocumentHandler) ListAll(c echo.Context) error {
	docs, err := h.documents.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, documentListResponse{Success: true, Documents: toDocumentViews(docs)})
}
