package export

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"lawdesk-platform/internal/documents"
	"lawdesk-platform/internal/versions"

	qrcode "github.com/skip2/go-qrcode"
)

// VersionLookup and DocumentLookup are the read-side stores the generator
// pulls from; the versions and documents repositories satisfy them directly.
type VersionLookup interface {
	Get(ctx context.Context, id string) (versions.Version, bool, error)
}

type DocumentLookup interface {
	Get(ctx context.Context, id string) (documents.Document, bool, error)
}

// Package is an exported, hash-stamped PDF bundle.
type Package struct {
	// Buffer is the rendered PDF.
	Buffer []byte

	// Hash is the sha256 hex digest of Buffer: the tamper-evidence anchor.
	// Same version + same locales + unchanged data always yields the same hash.
	Hash string

	// QRCodeURL is a PNG data URL of a QR code pointing at the verification
	// endpoint for Hash.
	QRCodeURL string
}

// Generator renders approved versions into verifiable PDF packages.
//
// It does NOT re-check the approval gate and never mutates version status:
// authorization belongs to versions.Service, the status advance and the
// export_created audit event belong to the caller after success.
type Generator struct {
	versions VersionLookup
	docs     DocumentLookup

	verifyBaseURL string
	fontPath      string
}

func NewGenerator(vs VersionLookup, docs DocumentLookup, verifyBaseURL, fontPath string) *Generator {
	return &Generator{
		versions:      vs,
		docs:          docs,
		verifyBaseURL: strings.TrimRight(verifyBaseURL, "/"),
		fontPath:      fontPath,
	}
}

var (
	ErrVersionNotFound  = errors.New("export: version not found")
	ErrDocumentNotFound = errors.New("export: document not found")
	ErrInvalidArgument  = errors.New("export: invalid argument")
)

// GeneratePackage renders the version into a single PDF, one section per
// target locale, and stamps it with a content hash.
// Any rendering error aborts the whole call; no partial PDF is ever returned.
func (g *Generator) GeneratePackage(ctx context.Context, versionID string, targetLocales []string, actorID string) (Package, error) {
	_ = actorID // reserved: the renderer output must not vary by actor

	if versionID == "" || len(targetLocales) == 0 {
		return Package{}, ErrInvalidArgument
	}

	v, ok, err := g.versions.Get(ctx, versionID)
	if err != nil {
		return Package{}, err
	}
	if !ok {
		return Package{}, ErrVersionNotFound
	}

	doc, ok, err := g.docs.Get(ctx, v.DocumentID)
	if err != nil {
		return Package{}, err
	}
	if !ok {
		return Package{}, ErrDocumentNotFound
	}

	buf, err := renderPDF(renderInput{
		Document:      doc,
		Version:       v,
		TargetLocales: targetLocales,
		FontPath:      g.fontPath,
	})
	if err != nil {
		return Package{}, err
	}

	sum := sha256.Sum256(buf)
	hash := hex.EncodeToString(sum[:])

	qrURL, err := g.qrCodeURL(hash)
	if err != nil {
		return Package{}, err
	}

	return Package{
		Buffer:    buf,
		Hash:      hash,
		QRCodeURL: qrURL,
	}, nil
}

// VerifyURL is the public address a downloaded package can be checked against.
func (g *Generator) VerifyURL(hash string) string {
	return g.verifyBaseURL + "/verify/" + hash
}

func (g *Generator) qrCodeURL(hash string) (string, error) {
	png, err := qrcode.Encode(g.VerifyURL(hash), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
