package sharing

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mcoot/xctimer/internal/model"
)

const (
	// JSONContentType is the media type of every exported session document
	JSONContentType = "application/json"

	dataURIPrefix = "data:" + JSONContentType + ";base64,"
)

var whitespaceRun = regexp.MustCompile(`[\s\p{Z}\x{FEFF}]+`)

// File is a downloadable export artifact
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// CompactJSON encodes the session on a single line, leaving HTML characters unescaped
func CompactJSON(session model.Session) ([]byte, error) {
	return encodeJSON(session, "")
}

// PrettyJSON encodes the session with two-space indentation
func PrettyJSON(session model.Session) ([]byte, error) {
	return encodeJSON(session, "  ")
}

func encodeJSON(session model.Session, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(session); err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DataURI returns the session as a base64 JSON data URI
func DataURI(session model.Session) (string, error) {
	data, err := CompactJSON(session)
	if err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// Slug lowercases name and collapses each whitespace run into a hyphen
func Slug(name string) string {
	return cases.Lower(language.Und).String(whitespaceRun.ReplaceAllString(name, "-"))
}

// FileName returns the download file name for a session
func FileName(session model.Session) string {
	return "xc-times-" + Slug(session.Name) + ".json"
}

// Download builds the export file for a session
func Download(session model.Session) (File, error) {
	data, err := PrettyJSON(session)
	if err != nil {
		return File{}, err
	}
	return File{
		Name:        FileName(session),
		ContentType: JSONContentType,
		Data:        data,
	}, nil
}
