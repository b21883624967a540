package render

import (
	"encoding/base64"
	"image"
	"io"
	"strings"

	"github.com/pkg/errors"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ImageOpener fetches the raw bytes behind a stored image reference, such as
// a /media/ URL returned by the object store.
type ImageOpener interface {
	Open(ref string) (io.ReadCloser, error)
}

// Resolver turns element and background image references into decoded images.
// Inline data URLs decode directly; anything else goes through the opener.
type Resolver struct {
	opener ImageOpener
}

// NewResolver builds a resolver. A nil opener resolves data URLs only.
func NewResolver(opener ImageOpener) *Resolver {
	return &Resolver{opener: opener}
}

// Resolve decodes the referenced image. Failures are reported as-is; the
// renderer wraps them into its render error taxonomy.
func (r *Resolver) Resolve(ref string) (image.Image, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURL(ref)
	}
	if r.opener == nil {
		return nil, errors.Errorf("no opener configured for reference %q", truncateRef(ref))
	}
	rc, err := r.opener.Open(ref)
	if err != nil {
		return nil, errors.Wrapf(err, "open image %q", truncateRef(ref))
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "decode image %q", truncateRef(ref))
	}
	return img, nil
}

func decodeDataURL(ref string) (image.Image, error) {
	idx := strings.Index(ref, ",")
	if idx < 0 || !strings.Contains(ref[:idx], ";base64") {
		return nil, errors.New("malformed data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(ref[idx+1:])
	if err != nil {
		return nil, errors.Wrap(err, "decode data URL payload")
	}
	img, _, err := image.Decode(strings.NewReader(string(raw)))
	if err != nil {
		return nil, errors.Wrap(err, "decode inline image")
	}
	return img, nil
}

// truncateRef keeps error messages readable when the reference is a large
// inline payload.
func truncateRef(ref string) string {
	if len(ref) > 64 {
		return ref[:64] + "..."
	}
	return ref
}
