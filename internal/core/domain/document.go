package domain

import "fmt"

// DocumentRecord is one entry in the ingestion registry. It is the
// canonical list-entry shape every presentation layer consumes.
//
// Identity is synthetic and assigned at submission time; two uploads of
// the same filename are distinct records with distinct IDs.
type DocumentRecord struct {
	// ID is the unique identity of the record. Never the filename.
	ID string

	// DisplayName is the filename shown to the user.
	DisplayName string

	// Detail is a short human-readable summary: a size label while the
	// upload is live ("1.4 MB"), a chunk summary once ingested
	// ("12 chunks").
	Detail string

	// Size is the local file size in bytes. Zero for records seeded
	// from the backend snapshot.
	Size int64

	// Status is the current lifecycle state.
	Status UploadStatus

	// FailureDetail is the user-facing reason, set only when failed.
	FailureDetail string

	// Pages is the page count reported by the backend, when known.
	Pages int

	// Title is the document title reported by the backend, when known.
	Title string

	// Author is the document author reported by the backend, when known.
	Author string
}

// RemoteDocument is one corpus entry reported by the backend's document
// listing. Used to seed the registry at startup.
type RemoteDocument struct {
	// Filename is the name the backend stored the document under.
	Filename string

	// ChunkCount is how many retrieval chunks the document holds.
	ChunkCount int

	// TotalPages is the page count, zero when unknown.
	TotalPages int

	// Title is the PDF title metadata, empty when unknown.
	Title string

	// Author is the PDF author metadata, empty when unknown.
	Author string
}

// Record converts a remote corpus entry into a completed registry record
// with the given identity.
func (r RemoteDocument) Record(id string) DocumentRecord {
	return DocumentRecord{
		ID:          id,
		DisplayName: r.Filename,
		Detail:      FormatChunkCount(r.ChunkCount),
		Status:      UploadCompleted,
		Pages:       r.TotalPages,
		Title:       r.Title,
		Author:      r.Author,
	}
}

// FormatByteSize renders a byte count as a short human-readable label,
// e.g. "672 B", "87.5 KB", "1.4 MB".
func FormatByteSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGT"[exp])
}

// FormatChunkCount renders a chunk count as a short label, e.g.
// "1 chunk", "12 chunks".
func FormatChunkCount(n int) string {
	if n == 1 {
		return "1 chunk"
	}
	return fmt.Sprintf("%d chunks", n)
}
