// Package output renders a packaged repository document in the supported formats.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/rcpack/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
	yamlIndent   = 2

	xmlHeader = xml.Header

	unsupportedFormatErrorFormat = "unsupported format: %s"
	encodeJSONErrorFormat        = "encode json: %w"
	encodeYAMLErrorFormat        = "encode yaml: %w"
	encodeXMLErrorFormat         = "encode xml: %w"
)

// Render dispatches to the renderer registered for format. Aliases such as
// "md" or "yml" are accepted.
func Render(format string, document types.PackageDocument) (string, error) {
	canonicalFormat, known := types.NormalizeFormat(strings.ToLower(strings.TrimSpace(format)))
	if !known {
		return "", fmt.Errorf(unsupportedFormatErrorFormat, format)
	}
	switch canonicalFormat {
	case types.FormatJSON:
		return RenderJSON(document)
	case types.FormatYAML:
		return RenderYAML(document)
	case types.FormatXML:
		return RenderXML(document)
	default:
		return RenderMarkdown(document), nil
	}
}

// RenderJSON marshals the document with two-space indentation. Non-ASCII and
// HTML-sensitive characters are written verbatim.
func RenderJSON(document types.PackageDocument) (string, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent(indentPrefix, indentSpacer)
	if err := encoder.Encode(normalizeDocument(document)); err != nil {
		return "", fmt.Errorf(encodeJSONErrorFormat, err)
	}
	return strings.TrimSuffix(buffer.String(), "\n"), nil
}

// RenderYAML marshals the document as a YAML mapping in field order.
func RenderYAML(document types.PackageDocument) (string, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	if err := encoder.Encode(normalizeDocument(document)); err != nil {
		return "", fmt.Errorf(encodeYAMLErrorFormat, err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf(encodeYAMLErrorFormat, err)
	}
	return buffer.String(), nil
}

// RenderXML marshals the document under a <package> root element.
func RenderXML(document types.PackageDocument) (string, error) {
	encoded, err := xml.MarshalIndent(normalizeDocument(document), indentPrefix, indentSpacer)
	if err != nil {
		return "", fmt.Errorf(encodeXMLErrorFormat, err)
	}
	return xmlHeader + string(encoded), nil
}

// normalizeDocument makes an empty file list encode as [] rather than null.
func normalizeDocument(document types.PackageDocument) types.PackageDocument {
	if document.Files == nil {
		document.Files = []types.FileSection{}
	}
	return document
}
