package uploads

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
)

// sniffLen is how much of a file http.DetectContentType looks at.
const sniffLen = 512

// ErrNotImage is returned for uploads whose content is not a supported image.
var ErrNotImage = errors.New("uploads: not a supported image")

// imageExt maps the sniffed image types we accept to the extension the
// stored object gets.
var imageExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// SniffImage detects the type of r from its content, not from a filename
// or a client header. It returns the content type, the matching extension
// and a reader that still yields the whole file.
func SniffImage(r io.Reader) (contentType, ext string, body io.Reader, err error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", "", nil, err
	}
	head = head[:n]

	contentType = http.DetectContentType(head)
	ext, ok := imageExt[contentType]
	if !ok {
		return "", "", nil, ErrNotImage
	}
	return contentType, ext, io.MultiReader(bytes.NewReader(head), r), nil
}

// PictureKey is NewKey with the filename's extension replaced by ext.
func PictureKey(filename, ext string) string {
	safe := SecureFilename(filename)
	base := strings.TrimSuffix(safe, path.Ext(safe))
	if base == "" {
		base = "upload"
	}
	return NewKey(base + ext)
}
