package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaValue_Unmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  MetaValue
		first string
	}{
		{"string", `"Acme"`, MetaValue{"Acme"}, "Acme"},
		{"list", `["", "  ", " Acme Inc "]`, MetaValue{"", "  ", " Acme Inc "}, "Acme Inc"},
		{"image object", `{"@type":"ImageObject","url":"https://acme.com/logo.png"}`, MetaValue{"https://acme.com/logo.png"}, "https://acme.com/logo.png"},
		{"list of objects", `[{"url":""},{"contentUrl":"https://acme.com/l.svg"}]`, MetaValue{"", "https://acme.com/l.svg"}, "https://acme.com/l.svg"},
		{"number", `42`, nil, ""},
		{"null", `null`, nil, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var v MetaValue
			require.NoError(t, json.Unmarshal([]byte(tt.input), &v))
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.first, v.First())
		})
	}
}

func TestMetaValue_MarshalRoundTripShape(t *testing.T) {
	t.Parallel()

	single, err := json.Marshal(MetaValue{"a"})
	require.NoError(t, err)
	assert.JSONEq(t, `"a"`, string(single))

	multi, err := json.Marshal(MetaValue{"a", "b"})
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(multi))
}

func TestRawMetadata_Decode(t *testing.T) {
	t.Parallel()

	body := `{
		"metaTags": {"og:title": "Acme", "og:image": ["", "https://acme.com/og.png"], "Description": "Tools"},
		"jsonLd": {"@graph": [{"@type": "WebSite"}, {"@type": "Organization", "name": "Acme Corp", "logo": {"url": "https://acme.com/logo.png"}}]},
		"favicon": "https://acme.com/favicon.ico",
		"allH1s": ["", "Acme builds tools"],
		"allH2s": ["Fast", "Reliable"],
		"wordCount": 321,
		"url": "https://acme.com"
	}`

	var m RawMetadata
	require.NoError(t, json.Unmarshal([]byte(body), &m))

	assert.Equal(t, "Acme", m.Meta("og:title"))
	assert.Equal(t, "https://acme.com/og.png", m.Meta("og:image"))
	assert.Equal(t, "Tools", m.Meta("description"))
	assert.Equal(t, "", m.Meta("twitter:image"))
	assert.Equal(t, "https://acme.com/favicon.ico", m.FaviconURL())
	assert.Equal(t, "Acme builds tools", m.Heading())
	assert.Equal(t, "Acme Corp", m.StructuredName())
	assert.Equal(t, "https://acme.com/logo.png", m.StructuredLogo())
	assert.Len(t, m.StructuredData, 2)
	assert.Equal(t, 321, m.WordCount)
}

func TestRawMetadata_FaviconPrefersMetaTag(t *testing.T) {
	t.Parallel()

	m := RawMetadata{
		MetaTags: map[string]MetaValue{"favicon": {"https://acme.com/meta.ico"}},
		Favicon:  "https://acme.com/top.ico",
	}
	assert.Equal(t, "https://acme.com/meta.ico", m.FaviconURL())

	m.MetaTags = nil
	assert.Equal(t, "https://acme.com/top.ico", m.FaviconURL())
}

func TestRawMetadata_HeadingPrefersFirstH1(t *testing.T) {
	t.Parallel()

	m := RawMetadata{FirstH1: "  Lead  ", AllH1s: []string{"Other"}}
	assert.Equal(t, "Lead", m.Heading())

	m.FirstH1 = ""
	assert.Equal(t, "Other", m.Heading())
}

func TestCompanyInfo_NarrativeFields(t *testing.T) {
	t.Parallel()

	var c CompanyInfo
	fields := c.NarrativeFields()
	assert.Len(t, fields, len(NarrativeKeys))
	for _, k := range NarrativeKeys {
		require.Contains(t, fields, k)
	}
	*fields["hero_title"] = "Careers at Acme"
	assert.Equal(t, "Careers at Acme", c.HeroTitle)
}
