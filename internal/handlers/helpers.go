package handlers

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/propmarket/backend/internal/listing"
	"github.com/propmarket/backend/internal/models"
	"github.com/propmarket/backend/internal/services"
	"github.com/propmarket/backend/pkg/logger"
	"github.com/propmarket/backend/pkg/utils"
)

const (
	imagesField = "images"
	maxImages   = 10
)

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

// respondServiceError maps service errors onto the response envelope.
// Unknown errors are logged under action and hidden from the client.
func respondServiceError(c *fiber.Ctx, action string, err error, notFound string) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return utils.FieldError(c, verr.Field, verr.Message)
	case errors.Is(err, services.ErrNotFound):
		return utils.Error(c, fiber.StatusNotFound, notFound)
	case errors.Is(err, services.ErrEmailTaken):
		return utils.FieldError(c, "email", "Email already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		return utils.Error(c, fiber.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrIdentityUnavailable):
		return utils.Error(c, fiber.StatusServiceUnavailable, "Google sign-in is not configured")
	}

	if userID := logger.GetUserIDFromContext(c); userID != nil {
		logger.ErrorWithUser(*userID, action, err, nil)
	} else {
		logger.Error(action, err, nil)
	}
	return utils.Error(c, fiber.StatusInternalServerError, "Something went wrong")
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// readListingForm turns a multipart, JSON or urlencoded body into listing
// input. Only multipart bodies can carry images.
func readListingForm(c *fiber.Ctx) (listing.Form, []services.ImageUpload, error) {
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, nil, models.NewValidationError("", "Invalid multipart body")
		}
		uploads, err := imageUploads(form.File[imagesField])
		if err != nil {
			return nil, nil, err
		}
		return listing.Values(form.Value), uploads, nil
	}

	if c.Is("json") {
		values, err := listing.ValuesFromJSON(c.Body())
		if err != nil {
			return nil, nil, models.NewValidationError("", "Invalid JSON body")
		}
		return values, nil, nil
	}

	values := listing.Values{}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		values[k] = append(values[k], string(value))
	})
	return values, nil, nil
}

func imageUploads(files []*multipart.FileHeader) ([]services.ImageUpload, error) {
	if len(files) > maxImages {
		return nil, models.NewValidationError(imagesField, "You can upload at most 10 images")
	}

	uploads := make([]services.ImageUpload, 0, len(files))
	for _, fh := range files {
		contentType := imageContentType(fh)
		if contentType == "" {
			return nil, models.NewValidationError(imagesField, "Only image files are allowed")
		}
		fh := fh
		uploads = append(uploads, services.ImageUpload{
			Filename:    fh.Filename,
			ContentType: contentType,
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return uploads, nil
}

func imageContentType(fh *multipart.FileHeader) string {
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if strings.HasPrefix(contentType, "image/") {
		return contentType
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); strings.HasPrefix(byExt, "image/") {
		return byExt
	}
	return ""
}
