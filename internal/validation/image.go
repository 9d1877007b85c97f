package validation

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"net/http"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const msgInvalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

// Image is an uploaded file that decoded as a supported image.
type Image struct {
	Format string // jpeg, png, gif or webp
	Width  int
	Height int
	Data   []byte
}

// Ext is the file extension used when storing the image.
func (i *Image) Ext() string {
	if i.Format == "jpeg" {
		return "jpg"
	}
	return i.Format
}

func isAllowedImageMIME(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

// CheckImage sniffs and decodes the upload header. It returns a form message
// when the upload is not an acceptable image.
func (v *Validator) CheckImage(u *Upload) (*Image, string) {
	if len(u.Data) == 0 {
		return nil, "The submitted file is empty."
	}
	if v.maxImageBytes > 0 && int64(len(u.Data)) > v.maxImageBytes {
		return nil, fmt.Sprintf("File too large (max %dMB).", v.maxImageBytes/(1024*1024))
	}
	if !isAllowedImageMIME(http.DetectContentType(u.Data)) {
		return nil, msgInvalidImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(u.Data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return nil, msgInvalidImage
	}
	return &Image{Format: format, Width: cfg.Width, Height: cfg.Height, Data: u.Data}, ""
}
