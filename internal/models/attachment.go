package models

// AttachmentRef points at one uploaded file embedded in task or subtask
// content.
//
// SizeBytes is only known at upload time; refs recovered by parsing stored
// content carry 0 (the size is not persisted inside the reference).
type AttachmentRef struct {
	URL         string
	DisplayName string
	SizeBytes   int64
	MimeType    string
}
