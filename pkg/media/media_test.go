package media

import (
	"encoding/base64"
	"strings"
	"testing"
)

// Minimal valid 1x1 PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e,
	0x44, 0xae, 0x42, 0x60, 0x82,
}

func pngDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

func TestIngestValidPNG(t *testing.T) {
	t.Parallel()

	img, err := NewIngestor(8).Ingest(pngDataURI())
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if img.MIME != "image/png" {
		t.Fatalf("expected image/png, got %s", img.MIME)
	}
	if !strings.HasPrefix(img.DataURI, "data:image/png;base64,") {
		t.Fatalf("canonical URI missing prefix: %s", img.DataURI)
	}
	if img.Size != len(pngBytes) {
		t.Fatalf("size mismatch: want %d got %d", len(pngBytes), img.Size)
	}
}

func TestIngestRejectsSpoofedMIME(t *testing.T) {
	t.Parallel()

	// declared type is png but the payload is plain text
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello world"))
	if _, err := NewIngestor(8).Ingest(uri); err == nil {
		t.Fatal("text payload behind an image header must be rejected")
	}
}

func TestIngestRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	ing := NewIngestor(8)
	for _, uri := range []string{
		"",
		"https://example.com/a.png",
		"data:image/png;base64,",
		"data:image/png;base64,@@@not-base64@@@",
	} {
		if _, err := ing.Ingest(uri); err == nil {
			t.Fatalf("expected rejection for %q", uri)
		}
	}
}

func TestIngestEnforcesSizeCap(t *testing.T) {
	t.Parallel()

	ing := &Ingestor{maxBytes: 16}
	if _, err := ing.Ingest(pngDataURI()); err == nil {
		t.Fatal("payload above the cap must be rejected")
	}
}

func TestIngestAllFailsFast(t *testing.T) {
	t.Parallel()

	uris := []string{pngDataURI(), "garbage"}
	if _, err := NewIngestor(8).IngestAll(uris); err == nil {
		t.Fatal("expected failure on the malformed entry")
	}

	out, err := NewIngestor(8).IngestAll([]string{pngDataURI(), pngDataURI()})
	if err != nil {
		t.Fatalf("ingest all: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 canonical URIs, got %d", len(out))
	}
}
