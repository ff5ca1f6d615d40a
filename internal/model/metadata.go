package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// MetaValue is a scraped value that may arrive as a string, a list of strings,
// or an object carrying a url. It is stored as an ordered list of raw values.
type MetaValue []string

// UnmarshalJSON accepts any JSON shape and keeps the string-like parts.
// Unknown shapes decode to an empty value rather than failing the document.
func (v *MetaValue) UnmarshalJSON(data []byte) error {
	*v = collectStrings(data, 0)
	return nil
}

// MarshalJSON writes a single value as a string and several as a list.
func (v MetaValue) MarshalJSON() ([]byte, error) {
	switch len(v) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(v[0])
	default:
		return json.Marshal([]string(v))
	}
}

// First returns the first value that is non-empty after trimming.
func (v MetaValue) First() string {
	for _, s := range v {
		if t := strings.TrimSpace(s); t != "" {
			return t
		}
	}
	return ""
}

// objectURLKeys are checked, in order, when a value is an object such as a
// schema.org ImageObject.
var objectURLKeys = []string{"url", "contentUrl", "@id"}

func collectStrings(data []byte, depth int) []string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || depth > 4 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		return []string{s}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		var out []string
		for _, item := range items {
			out = append(out, collectStrings(item, depth+1)...)
		}
		return out
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		for _, key := range objectURLKeys {
			if raw, ok := obj[key]; ok {
				if vals := collectStrings(raw, depth+1); len(vals) > 0 {
					return vals
				}
			}
		}
		return nil
	default:
		return nil
	}
}

// StructuredDataEntry is one machine-readable block embedded in a page,
// typically a schema.org Organization.
type StructuredDataEntry struct {
	Type MetaValue `json:"@type,omitempty"`
	Name MetaValue `json:"name,omitempty"`
	Logo MetaValue `json:"logo,omitempty"`
}

// StructuredData is the ordered list of structured-data entries on a page.
// It decodes a single object, a list, and JSON-LD @graph containers.
type StructuredData []StructuredDataEntry

// UnmarshalJSON flattens objects, arrays and @graph wrappers in document order.
func (s *StructuredData) UnmarshalJSON(data []byte) error {
	*s = flattenStructured(data, 0)
	return nil
}

func flattenStructured(data []byte, depth int) StructuredData {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || depth > 4 {
		return nil
	}
	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		var out StructuredData
		for _, item := range items {
			out = append(out, flattenStructured(item, depth+1)...)
		}
		return out
	case '{':
		var wrapper struct {
			Graph json.RawMessage `json:"@graph"`
		}
		_ = json.Unmarshal(data, &wrapper)

		var entry StructuredDataEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil
		}
		var out StructuredData
		if len(entry.Name) > 0 || len(entry.Logo) > 0 || len(entry.Type) > 0 {
			out = append(out, entry)
		}
		if len(wrapper.Graph) > 0 {
			out = append(out, flattenStructured(wrapper.Graph, depth+1)...)
		}
		return out
	default:
		return nil
	}
}

// RawMetadata holds the facts scraped from a company homepage.
type RawMetadata struct {
	MetaTags       map[string]MetaValue `json:"metaTags,omitempty"`
	StructuredData StructuredData       `json:"jsonLd,omitempty"`
	Favicon        string               `json:"favicon,omitempty"`
	FirstH1        string               `json:"firstH1,omitempty"`
	AllH1s         []string             `json:"allH1s,omitempty"`
	AllH2s         []string             `json:"allH2s,omitempty"`
	WordCount      int                  `json:"wordCount,omitempty"`
	URL            string               `json:"url,omitempty"`
}

// Meta returns the first non-empty value of a meta tag. Keys are matched
// exactly first, then case-insensitively.
func (m RawMetadata) Meta(key string) string {
	if v, ok := m.MetaTags[key]; ok {
		if s := v.First(); s != "" {
			return s
		}
	}
	for k, v := range m.MetaTags {
		if strings.EqualFold(k, key) {
			if s := v.First(); s != "" {
				return s
			}
		}
	}
	return ""
}

// FaviconURL returns the favicon from meta tags, falling back to the
// top-level favicon field.
func (m RawMetadata) FaviconURL() string {
	if s := m.Meta("favicon"); s != "" {
		return s
	}
	return strings.TrimSpace(m.Favicon)
}

// Heading returns the page's first h1 text.
func (m RawMetadata) Heading() string {
	if s := strings.TrimSpace(m.FirstH1); s != "" {
		return s
	}
	return firstNonEmpty(m.AllH1s)
}

// StructuredName returns the first non-empty structured-data name.
func (m RawMetadata) StructuredName() string {
	for _, e := range m.StructuredData {
		if s := e.Name.First(); s != "" {
			return s
		}
	}
	return ""
}

// StructuredLogo returns the first non-empty structured-data logo, scanning
// entries in document order.
func (m RawMetadata) StructuredLogo() string {
	for _, e := range m.StructuredData {
		if s := e.Logo.First(); s != "" {
			return s
		}
	}
	return ""
}

func firstNonEmpty(values []string) string {
	for _, s := range values {
		if t := strings.TrimSpace(s); t != "" {
			return t
		}
	}
	return ""
}
