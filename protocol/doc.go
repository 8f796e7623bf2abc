package protocol

import (
	"fmt"
	"net/url"
	"strings"
)

const fileScheme = "file://"

// Creates the documentation markdown string from the provided signature as
// swift code and description as markdown.
func CreateDocMarkdownString(signature, desc string) string {
	if signature == "" {
		return desc
	}
	if desc == "" {
		return fmt.Sprintf("```swift\n%s\n```", signature)
	}
	return fmt.Sprintf("```swift\n%s\n```\n---\n%s", signature, desc)
}

// URI converts a file path into a file URI. Windows paths are converted to
// forward slashes.
func URI(filepath string) string {
	path := strings.ReplaceAll(filepath, "\\", "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fileScheme + path
}

// Path converts a file URI back into a file path, unescaping percent encoded
// characters. URIs of other schemes are returned unchanged.
func Path(uri string) string {
	if !strings.HasPrefix(uri, fileScheme) {
		return uri
	}
	path := strings.TrimPrefix(uri, fileScheme)
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	// file:///C:/foo is the windows path C:/foo.
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return path
}
