// Package service holds the upload pipelines: validate the incoming file(s),
// stage them on disk, transcode to JPEG, persist through the store, and
// dispose of the staged files on every exit path.
package service

import (
	"io"
	"path/filepath"
	"strings"
)

// Upload is one file from a multipart request, decoupled from net/http so
// pipelines can be driven directly in tests.
type Upload struct {
	Field       string
	Filename    string
	ContentType string // as declared by the client
	Reader      io.Reader
}

// The gallery resource filters uploads before transcoding; the project
// resource deliberately does not (its photos arrive from a trusted admin
// form and undecodable input is rejected by the transcoder anyway).
var (
	allowedExtensions = map[string]bool{
		".jpeg": true,
		".jpg":  true,
		".png":  true,
		".gif":  true,
	}
	allowedMIMETypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
	}
)

func extensionAllowed(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

func mimeAllowed(contentType string) bool {
	mt := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return allowedMIMETypes[mt]
}
