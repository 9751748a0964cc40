package media

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	pkgerrors "github.com/wrapnest/storefront-backend/pkg/errors"
)

var allowedMIMEs = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
	"image/gif":  {},
}

// Image is a decoded inline media payload ready for storage.
type Image struct {
	MIME    string
	DataURI string
	Size    int
}

// Ingestor validates base64 data URIs submitted by the admin panel. Catalog
// images are stored inline as data URIs rather than in object storage.
type Ingestor struct {
	maxBytes int
}

// NewIngestor builds an ingestor capped at maxUploadMB per image.
func NewIngestor(maxUploadMB int) *Ingestor {
	if maxUploadMB <= 0 {
		maxUploadMB = 8
	}
	return &Ingestor{maxBytes: maxUploadMB << 20}
}

// Ingest decodes a data URI, sniffs the real content type and re-encodes the
// canonical URI. The declared MIME in the URI header is ignored; only the
// sniffed type counts.
func (i *Ingestor) Ingest(dataURI string) (*Image, error) {
	payload, ok := splitDataURI(dataURI)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image must be a base64 data URI")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid base64 image payload")
	}
	if len(raw) > i.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image exceeds the upload size limit")
	}

	mime := mimetype.Detect(raw)
	if _, ok := allowedMIMEs[mime.String()]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type "+mime.String())
	}

	return &Image{
		MIME:    mime.String(),
		DataURI: "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(raw),
		Size:    len(raw),
	}, nil
}

// IngestAll ingests each URI in order, failing on the first bad entry.
func (i *Ingestor) IngestAll(dataURIs []string) ([]string, error) {
	out := make([]string, 0, len(dataURIs))
	for _, uri := range dataURIs {
		img, err := i.Ingest(uri)
		if err != nil {
			return nil, err
		}
		out = append(out, img.DataURI)
	}
	return out, nil
}

func splitDataURI(uri string) (payload string, ok bool) {
	if !strings.HasPrefix(uri, "data:") {
		return "", false
	}
	_, payload, ok = strings.Cut(uri, ",")
	if !ok || payload == "" {
		return "", false
	}
	return payload, true
}
