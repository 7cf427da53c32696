package handlers

import (
	"strings"
	"unicode/utf8"

	"thumbcraft/internal/generator"
	"thumbcraft/internal/models"
)

// updateRequest is the body of a thumbnail update. ImageURL is decoded
// only so that an attempt to change it can be rejected.
type updateRequest struct {
	models.ThumbnailPatch
	ImageURL *string `json:"imageUrl"`
}

// validatePatch checks the fields present in a thumbnail update, trims the
// title and normalises the format alias. It returns nil when the patch is
// valid.
func validatePatch(req *updateRequest) error {
	fields := make(map[string]string)
	p := &req.ThumbnailPatch

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		switch {
		case title == "":
			fields["title"] = "Title is required"
		case utf8.RuneCountInString(title) > generator.MaxTitleLen:
			fields["title"] = "Title must be 60 characters or less"
		default:
			p.Title = &title
		}
	}
	if p.Description != nil && utf8.RuneCountInString(*p.Description) > generator.MaxDescriptionLen {
		fields["description"] = "Description must be 150 characters or less"
	}
	if p.Format != nil {
		if f, ok := models.ParseImageFormat(string(*p.Format)); ok {
			p.Format = &f
		} else {
			fields["format"] = "Format must be png or jpeg"
		}
	}
	if p.TextPosition != nil && !generator.ValidPosition(*p.TextPosition) {
		fields["textPosition"] = "Text position must be between 0 and 100"
	}
	checkPatchOption(fields, "style", p.Style)
	checkPatchOption(fields, "colorScheme", p.ColorScheme)
	if req.ImageURL != nil {
		fields["imageUrl"] = "Image URL cannot be changed"
	}

	if len(fields) > 0 {
		return &generator.ValidationError{Fields: fields}
	}
	return nil
}

func checkPatchOption(fields map[string]string, field string, value *string) {
	if value == nil {
		return
	}
	if strings.TrimSpace(*value) == "" {
		fields[field] = "Value cannot be empty"
		return
	}
	if !generator.ValidOption(*value) {
		fields[field] = "Value must be 64 characters or less"
	}
}
