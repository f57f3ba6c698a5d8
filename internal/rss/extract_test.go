package rss_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/climbhero/climbnews/internal/rss"
)

func TestExtractField(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		tag      string
		want     string
	}{
		{
			name:     "cdata and entity",
			fragment: "<title><![CDATA[Hello &amp; World]]></title>",
			tag:      "title",
			want:     "Hello & World",
		},
		{
			name:     "first match only",
			fragment: "<title>First</title><title>Second</title>",
			tag:      "title",
			want:     "First",
		},
		{
			name:     "attributes ignored",
			fragment: `<title lang="en">Adam Ondra sends 9c</title>`,
			tag:      "title",
			want:     "Adam Ondra sends 9c",
		},
		{
			name:     "case insensitive",
			fragment: "<TITLE>Shouty feed</TITLE>",
			tag:      "title",
			want:     "Shouty feed",
		},
		{
			name:     "absent tag",
			fragment: "<link>https://example.com</link>",
			tag:      "title",
			want:     "",
		},
		{
			name:     "unclosed tag",
			fragment: "<title>never closed",
			tag:      "title",
			want:     "",
		},
		{
			name:     "inner markup stripped",
			fragment: "<description><p>Big <b>send</b> at the crag</p></description>",
			tag:      "description",
			want:     "Big send at the crag",
		},
		{
			name:     "all five entities",
			fragment: "<title>&lt;a&gt; &quot;b&quot; &#39;c&#39; &amp;d</title>",
			tag:      "title",
			want:     `<a> "b" 'c' &d`,
		},
		{
			name:     "unknown entities untouched",
			fragment: "<title>route&nbsp;update &#233;</title>",
			tag:      "title",
			want:     "route&nbsp;update &#233;",
		},
		{
			name:     "whitespace trimmed",
			fragment: "<title>\n  padded  \n</title>",
			tag:      "title",
			want:     "padded",
		},
		{
			name:     "multiline content",
			fragment: "<description>line one\nline two</description>",
			tag:      "description",
			want:     "line one\nline two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, rss.ExtractField(tt.fragment, tt.tag))
		})
	}
}
