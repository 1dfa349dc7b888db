// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"houstonpro/internal/imaging"
	"houstonpro/internal/models"
	"houstonpro/internal/render"
	"houstonpro/internal/storage"
)

// maxGalleryImages caps the photos one contractor can upload.
const maxGalleryImages = 50

// ObjectStore is the part of the S3 client the gallery needs.
// *storage.Client implements it.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
}

func (d *Dashboard) renderGallery(w http.ResponseWriter, r *http.Request, status int, c *models.Contractor, errMsg string) {
	images, err := d.gallery.ListByContractor(c.ID)
	if err != nil {
		slog.Error("list gallery images failed", "error", err, "contractor", c.Slug)
	}

	d.page(w, r, status, "dashboard/gallery", &render.PageData{
		Title:   "Gallery",
		Section: "gallery",
		Data: map[string]any{
			"Images":         images,
			"StorageEnabled": d.objects != nil,
			"Error":          errMsg,
		},
	})
}

// Gallery renders the project photo manager.
func (d *Dashboard) Gallery(w http.ResponseWriter, r *http.Request) {
	_, c, ok := d.current(w, r)
	if !ok {
		return
	}
	d.renderGallery(w, r, http.StatusOK, c, "")
}

// GalleryUpload stores a project photo and its thumbnail in object storage
// and appends it to the contractor's gallery.
func (d *Dashboard) GalleryUpload(w http.ResponseWriter, r *http.Request) {
	sess, c, ok := d.current(w, r)
	if !ok {
		return
	}
	if d.objects == nil {
		d.renderGallery(w, r, http.StatusServiceUnavailable, c, "Photo uploads are not available right now.")
		return
	}

	count, err := d.gallery.Count(c.ID)
	if err != nil {
		slog.Error("count gallery images failed", "error", err, "contractor", c.Slug)
		d.renderGallery(w, r, http.StatusInternalServerError, c, "Failed to upload photo.")
		return
	}
	if count >= maxGalleryImages {
		d.renderGallery(w, r, http.StatusConflict, c, "Your gallery is full. Delete a photo to add a new one.")
		return
	}

	// Allow some overhead for the caption fields and multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+64<<10)
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		d.renderGallery(w, r, http.StatusRequestEntityTooLarge, c, "Photo too large. Maximum size is 10 MB.")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("image")
	if err != nil {
		d.renderGallery(w, r, http.StatusBadRequest, c, "Please choose a photo to upload.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, imaging.MaxUploadSize+1))
	if err != nil {
		d.renderGallery(w, r, http.StatusBadRequest, c, "Failed to read the photo.")
		return
	}
	if len(data) > imaging.MaxUploadSize {
		d.renderGallery(w, r, http.StatusRequestEntityTooLarge, c, "Photo too large. Maximum size is 10 MB.")
		return
	}

	contentType, ext, err := imaging.Detect(data)
	if err != nil {
		d.renderGallery(w, r, http.StatusUnsupportedMediaType, c, "Only JPEG, PNG and WebP photos are supported.")
		return
	}
	if _, _, err := imaging.Dimensions(data); err != nil {
		if errors.Is(err, imaging.ErrTooManyPixels) {
			d.renderGallery(w, r, http.StatusRequestEntityTooLarge, c, "Photo dimensions too large. Maximum is 40 megapixels.")
			return
		}
		d.renderGallery(w, r, http.StatusBadRequest, c, "That file does not look like a photo.")
		return
	}

	caption := formValue(r, "caption")
	projectType := formValue(r, "project_type")
	if tooLong(caption, maxCaptionLen) || tooLong(projectType, maxProjectTypeLen) {
		d.renderGallery(w, r, http.StatusUnprocessableEntity, c, "Caption or project type is too long.")
		return
	}

	ctx := r.Context()
	key := storage.GalleryKey(c.ID, ext)
	if err := d.objects.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		d.renderGallery(w, r, http.StatusBadGateway, c, "Failed to upload photo.")
		return
	}

	img := &models.GalleryImage{
		ContractorID: c.ID,
		ImageURL:     d.objects.FileURL(key),
		S3Key:        key,
		ContentType:  contentType,
		SizeBytes:    int64(len(data)),
		Caption:      optional(caption),
		ProjectType:  optional(projectType),
	}

	// A missing thumbnail only costs bandwidth; the original is shown.
	thumb, err := imaging.Generate(data, imaging.Thumb)
	if err != nil {
		slog.Warn("thumbnail generation failed", "error", err, "key", key)
	} else if thumb != nil {
		thumbKey := storage.ThumbKey(key)
		if err := d.objects.Upload(ctx, thumbKey, thumb.ContentType, bytes.NewReader(thumb.Data), int64(len(thumb.Data))); err != nil {
			slog.Warn("thumbnail upload failed", "error", err, "key", thumbKey)
		} else {
			thumbURL := d.objects.FileURL(thumbKey)
			img.ThumbURL = &thumbURL
			img.ThumbS3Key = &thumbKey
		}
	}

	created, err := d.gallery.Create(img)
	if err != nil {
		slog.Error("create gallery image failed", "error", err, "contractor", c.Slug)
		d.deleteObjects(ctx, img)
		d.renderGallery(w, r, http.StatusInternalServerError, c, "Failed to upload photo.")
		return
	}

	d.invalidate(r, c)
	slog.Info("gallery image uploaded", "contractor", c.Slug, "image_id", created.ID, "bytes", created.SizeBytes)
	d.redirect(w, r, sess, "/dashboard/gallery", "Photo uploaded.")
}

// GalleryDelete removes a photo from the gallery, then from storage.
func (d *Dashboard) GalleryDelete(w http.ResponseWriter, r *http.Request) {
	sess, c, ok := d.current(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, r, d.renderer)
		return
	}

	img, err := d.gallery.Delete(c.ID, id)
	if err != nil {
		slog.Error("delete gallery image failed", "error", err, "image_id", id)
		serverError(w, r, d.renderer)
		return
	}
	if img == nil {
		notFound(w, r, d.renderer)
		return
	}

	d.deleteObjects(r.Context(), img)
	d.invalidate(r, c)
	d.redirect(w, r, sess, "/dashboard/gallery", "Photo deleted.")
}

// deleteObjects removes an image and its thumbnail from storage. Failures
// are logged; the database row is the source of truth.
func (d *Dashboard) deleteObjects(ctx context.Context, img *models.GalleryImage) {
	if d.objects == nil {
		return
	}
	keys := []string{img.S3Key}
	if img.ThumbS3Key != nil {
		keys = append(keys, *img.ThumbS3Key)
	}
	for _, key := range keys {
		if err := d.objects.Delete(ctx, key); err != nil {
			slog.Warn("s3 delete failed", "error", err, "key", key)
		}
	}
}
