// Package attachref implements the embedded attachment-reference encoding
// used inside task and subtask content.
//
// The write side emits only HTML-comment sentinels, one per line:
//
//	<!-- attachment: https://.../subtask-attachments/<user>/<id>.png -->
//
// The read side additionally understands the older Markdown-image form
// (![name](url)) so content written by previous clients keeps parsing.
// Comments are invisible in rendered Markdown, which is why the sentinel is
// the system-of-record encoding.
//
// All functions here are pure text transforms; no I/O.
package attachref

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/avorobjovs/taskdeck/internal/models"
)

// PathSegment is the sole discriminator for URLs managed by this system.
const PathSegment = "/subtask-attachments/"

var (
	sentinelRe = regexp.MustCompile(`<!--\s*attachment:\s*([^\s>]+)\s*-->`)
	mdImageRe  = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)\)`)
)

// imageExts are extensions recognized as images when recovering a MIME type
// from a bare URL.
var imageExts = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {},
}

// IsAttachmentURL reports whether url belongs to this system.
func IsAttachmentURL(url string) bool {
	return strings.Contains(url, PathSegment)
}

// Encode appends one sentinel line per url after the existing content,
// separated from it by a blank line when the content is non-empty.
// Existing text is never mutated or reordered.
func Encode(content string, urls []string) string {
	if len(urls) == 0 {
		return content
	}

	lines := make([]string, 0, len(urls))
	for _, u := range urls {
		lines = append(lines, fmt.Sprintf("<!-- attachment: %s -->", u))
	}

	block := strings.Join(lines, "\n")
	if content == "" {
		return block
	}
	return content + "\n\n" + block
}

// Extract returns the attachment urls referenced by content, in
// first-occurrence order: all sentinel forms first, then all legacy
// Markdown-image urls carrying the attachment path segment. Duplicates are
// dropped keeping the first occurrence.
func Extract(content string) []string {
	var ordered []string

	for _, m := range sentinelRe.FindAllStringSubmatch(content, -1) {
		ordered = append(ordered, m[1])
	}

	for _, m := range mdImageRe.FindAllStringSubmatch(content, -1) {
		if IsAttachmentURL(m[1]) {
			ordered = append(ordered, m[1])
		}
	}

	seen := make(map[string]struct{}, len(ordered))
	urls := make([]string, 0, len(ordered))
	for _, u := range ordered {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}

// ParseRefs recovers displayable references from stored content. Sizes are
// unknown on this path and reported as 0.
func ParseRefs(content string) []models.AttachmentRef {
	urls := Extract(content)
	refs := make([]models.AttachmentRef, 0, len(urls))
	for _, u := range urls {
		name := path.Base(u)
		refs = append(refs, models.AttachmentRef{
			URL:         u,
			DisplayName: name,
			MimeType:    MimeFromName(name),
		})
	}
	return refs
}

// MimeFromName derives a MIME type from a file name's extension. Known image
// extensions map to image/<ext>; everything else is an opaque byte stream.
func MimeFromName(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if _, ok := imageExts[ext]; ok || strings.HasPrefix(ext, "image") {
		return "image/" + ext
	}
	return "application/octet-stream"
}

// StripForDisplay prepares content for consumers that cannot resolve
// attachments (document export): Markdown-image spans become a "[image]"
// placeholder and sentinel comments are removed. A line holding nothing but
// sentinels disappears entirely, and when such lines close the content the
// blank-line separator Encode placed before them goes with them. Text
// without attachment markup passes through byte-identical.
func StripForDisplay(content string) string {
	out := mdImageRe.ReplaceAllString(content, "[image]")
	if !sentinelRe.MatchString(out) {
		return out
	}

	lines := strings.Split(out, "\n")
	kept := make([]string, 0, len(lines))
	endsOnSentinels := false
	for _, line := range lines {
		stripped := sentinelRe.ReplaceAllString(line, "")
		if stripped != line && strings.TrimSpace(stripped) == "" {
			endsOnSentinels = true
			continue
		}
		endsOnSentinels = false
		kept = append(kept, stripped)
	}
	if endsOnSentinels {
		if n := len(kept); n > 0 && kept[n-1] == "" {
			kept = kept[:n-1]
		}
	}
	return strings.Join(kept, "\n")
}
