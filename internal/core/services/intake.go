package services

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

// intakeResult is the outcome of normalising one submission batch.
type intakeResult struct {
	accepted []domain.FileDescriptor
	rejected []domain.RejectionEvent
}

// normaliseInputs turns heterogeneous raw inputs into a uniform list of
// upload candidates. Files that are not an accepted document type are
// refused, and candidates matching a live upload (same name and size)
// or an earlier entry of the same batch are dropped as duplicates.
//
// Duplicates produce no rejection event: resubmitting a file that is
// already on its way is a no-op, not an error. Only type refusals are
// reported.
func normaliseInputs(inputs []domain.RawInput, settings domain.IngestSettings, live func(name string, size int64) bool) intakeResult {
	var result intakeResult
	seen := make(map[string]struct{}, len(inputs))

	for _, input := range inputs {
		name := input.Name
		if name == "" {
			name = filepath.Base(input.Path)
		}

		if !acceptedType(name, input.MIMEType, settings) {
			result.rejected = append(result.rejected, domain.RejectionEvent{
				Name:   name,
				Reason: "not a PDF document",
			})
			continue
		}

		key := batchKey(name, input.Size)
		if _, dup := seen[key]; dup {
			continue
		}
		if live != nil && live(name, input.Size) {
			continue
		}
		seen[key] = struct{}{}

		result.accepted = append(result.accepted, domain.FileDescriptor{
			Name:     name,
			Size:     input.Size,
			MIMEType: normaliseMIME(input.MIMEType),
			Path:     input.Path,
		})
	}
	return result
}

// acceptedType checks a candidate against the allow-list. The MIME type
// decides when the source provides one; otherwise the extension does.
func acceptedType(name, mimeType string, settings domain.IngestSettings) bool {
	if mt := normaliseMIME(mimeType); mt != "" {
		for _, allowed := range settings.AllowedTypes {
			if mt == allowed {
				return true
			}
		}
		return false
	}

	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range settings.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// normaliseMIME strips parameters like "; charset=utf-8" and lowercases
// the media type.
func normaliseMIME(mimeType string) string {
	mt, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

func batchKey(name string, size int64) string {
	return name + "\x00" + strconv.FormatInt(size, 10)
}
