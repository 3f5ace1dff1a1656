package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"furniture/admin/internal/domain"

	"github.com/h2non/filetype"
	"resty.dev/v3"
)

// MaxImages is the most images a product may carry
const MaxImages = 5

// Image is a file picked for upload
type Image struct {
	FileName string
	Data     []byte
}

// ProductPayload is the multipart body of POST /products and PUT /products/{id}
type ProductPayload struct {
	Fields      map[string]string
	CategoryIDs []domain.ID
	Images      []Image

	// ExistingImageURLs is sent on update only, to tell the API which of the
	// current images to keep
	ExistingImageURLs []string
	KeepImages        bool
}

// DetectImage sniffs the content type of an upload and rejects anything that
// is not an image
func DetectImage(img Image) (string, error) {
	if len(img.Data) == 0 {
		return "", fmt.Errorf("image %s is empty", img.FileName)
	}

	kind, err := filetype.Match(img.Data)
	if err != nil || kind == filetype.Unknown {
		return "", fmt.Errorf("image %s: unknown file type", img.FileName)
	}
	if !filetype.IsImage(img.Data) {
		return "", fmt.Errorf("image %s: %s is not an image", img.FileName, kind.MIME.Value)
	}

	return kind.MIME.Value, nil
}

// ValidateImages checks count and content of the images about to be uploaded
func ValidateImages(images []Image) error {
	if len(images) > MaxImages {
		return fmt.Errorf("you can only upload maximum %d images", MaxImages)
	}
	for _, img := range images {
		if _, err := DetectImage(img); err != nil {
			return err
		}
	}
	return nil
}

func (p *ProductPayload) apply(req *resty.Request) error {
	if err := ValidateImages(p.Images); err != nil {
		return err
	}

	fields := make(map[string]string, len(p.Fields)+1)
	for k, v := range p.Fields {
		fields[k] = v
	}

	if p.KeepImages {
		existing := p.ExistingImageURLs
		if existing == nil {
			existing = []string{}
		}
		encoded, err := json.Marshal(existing)
		if err != nil {
			return fmt.Errorf("failed to encode existing images: %w", err)
		}
		fields["existingImageUrls"] = string(encoded)
	}

	req.SetMultipartFormData(fields)

	if len(p.CategoryIDs) > 0 {
		ids := make([]string, 0, len(p.CategoryIDs))
		for _, id := range p.CategoryIDs {
			ids = append(ids, id.String())
		}
		req.SetMultipartOrderedFormData("categoryIds", ids)
	}

	for _, img := range p.Images {
		contentType, _ := DetectImage(img)
		req.SetMultipartField("images", safeFileName(img.FileName), contentType, bytes.NewReader(img.Data))
	}

	return nil
}

func safeFileName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "image"
	}
	return name
}
