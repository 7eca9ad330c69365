package attachref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	u1 = "https://files.example.com/subtask-attachments/u-1/aaa.png"
	u2 = "https://files.example.com/subtask-attachments/u-1/bbb.pdf"
)

func TestEncode_EmptyContent(t *testing.T) {
	got := Encode("", []string{u1, u2})
	want := "<!-- attachment: " + u1 + " -->\n<!-- attachment: " + u2 + " -->"
	assert.Equal(t, want, got)
}

func TestEncode_AppendsAfterBlankLine(t *testing.T) {
	got := Encode("buy milk", []string{u1})
	assert.Equal(t, "buy milk\n\n<!-- attachment: "+u1+" -->", got)
}

func TestEncode_NoRefsLeavesContentUntouched(t *testing.T) {
	assert.Equal(t, "as is", Encode("as is", nil))
}

func TestExtract_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		content string
		urls    []string
	}{
		{"empty content", "", []string{u1, u2}},
		{"existing prose", "# heading\n\nsome *text*", []string{u1}},
		{"no refs", "plain text", nil},
		{"content already holding a ref", Encode("x", []string{u1}), []string{u2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded := Encode(tc.content, tc.urls)
			got := Extract(encoded)

			want := append(Extract(tc.content), tc.urls...)
			// Extract dedupes preserving first occurrence.
			seen := map[string]bool{}
			var dedup []string
			for _, u := range want {
				if !seen[u] {
					seen[u] = true
					dedup = append(dedup, u)
				}
			}
			if len(dedup) == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, dedup, got)
			}
		})
	}
}

func TestExtract_ReadsLegacyMarkdownImages(t *testing.T) {
	content := "intro ![shot](" + u1 + ") outro"
	assert.Equal(t, []string{u1}, Extract(content))
}

func TestExtract_IgnoresForeignMarkdownImages(t *testing.T) {
	content := "![logo](https://cdn.example.com/logo.png)"
	assert.Empty(t, Extract(content))
}

func TestExtract_DedupAcrossForms(t *testing.T) {
	content := "<!-- attachment: " + u1 + " -->\n![shot](" + u1 + ")"
	got := Extract(content)
	require.Len(t, got, 1)
	assert.Equal(t, u1, got[0])
}

func TestExtract_SentinelsPrecedeLegacyForms(t *testing.T) {
	// The legacy image sits earlier in the text but sentinels are scanned
	// first, so u2 leads the result.
	content := "![shot](" + u1 + ")\n\n<!-- attachment: " + u2 + " -->"
	assert.Equal(t, []string{u2, u1}, Extract(content))
}

func TestExtract_Idempotent(t *testing.T) {
	content := Encode("note", []string{u1, u2})
	first := Extract(content)
	second := Extract(content)
	assert.Equal(t, first, second)
}

func TestExtract_RepeatedEncodeExtractStable(t *testing.T) {
	content := Encode("note", []string{u1})
	for i := 0; i < 3; i++ {
		content = Encode(content, Extract(content))
	}
	assert.Equal(t, []string{u1}, Extract(content))
}

func TestSaveScenario_TwoUploadsOnEmptyContent(t *testing.T) {
	persisted := Encode("", []string{u1, u2})
	require.Equal(t, "<!-- attachment: "+u1+" -->\n<!-- attachment: "+u2+" -->", persisted)
	assert.Equal(t, []string{u1, u2}, Extract(persisted))
}

func TestIsAttachmentURL(t *testing.T) {
	assert.True(t, IsAttachmentURL(u1))
	assert.False(t, IsAttachmentURL("https://cdn.example.com/logo.png"))
	assert.False(t, IsAttachmentURL(""))
}

func TestParseRefs_RecoversNameAndMime(t *testing.T) {
	content := Encode("", []string{u1, u2})
	refs := ParseRefs(content)
	require.Len(t, refs, 2)

	assert.Equal(t, "aaa.png", refs[0].DisplayName)
	assert.Equal(t, "image/png", refs[0].MimeType)
	assert.Zero(t, refs[0].SizeBytes, "size is not persisted in the reference")

	assert.Equal(t, "bbb.pdf", refs[1].DisplayName)
	assert.Equal(t, "application/octet-stream", refs[1].MimeType)
}

func TestMimeFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.PNG", "image/png"},
		{"b.jpeg", "image/jpeg"},
		{"c.webp", "image/webp"},
		{"d.pdf", "application/octet-stream"},
		{"noext", "application/octet-stream"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MimeFromName(tc.name), tc.name)
	}
}

func TestStripForDisplay(t *testing.T) {
	content := "before ![shot](" + u1 + ") after\n\n<!-- attachment: " + u2 + " -->"
	got := StripForDisplay(content)
	assert.Equal(t, "before [image] after", got)
}

func TestStripForDisplay_LeavesPlainTextAlone(t *testing.T) {
	assert.Equal(t, "# title\n\nbody", StripForDisplay("# title\n\nbody"))
}

func TestStripForDisplay_PreservesTrailingWhitespace(t *testing.T) {
	tests := []string{
		"line one  \nline two\n",
		"hard break  \n",
		"body\n\n",
		"\ttabbed\t",
	}
	for _, content := range tests {
		assert.Equal(t, content, StripForDisplay(content))
	}
}

func TestStripForDisplay_UndoesEncodeExactly(t *testing.T) {
	tests := []string{
		"",
		"note",
		"note\n",
		"line one  \nline two\n",
		"# title\n\nbody\n\n",
	}
	for _, body := range tests {
		encoded := Encode(body, []string{u1, u2})
		assert.Equal(t, body, StripForDisplay(encoded), "body %q", body)
	}
}

func TestStripForDisplay_InlineSentinelKeepsSurroundingText(t *testing.T) {
	content := "before <!-- attachment: " + u1 + " --> after\n"
	assert.Equal(t, "before  after\n", StripForDisplay(content))
}
