package domain

// IsDisplayableImage reports whether contentType can be served inline as an image.
func IsDisplayableImage(contentType string) bool {
	return contentType == "image/jpeg" || contentType == "image/png"
}
