package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

// ingestResponse is the backend's /ingest acknowledgement format.
type ingestResponse struct {
	Filename       string `json:"filename"`
	ChunksIngested int    `json:"chunks_ingested"`
	Status         string `json:"status"`
}

// documentInfo is the backend's /documents listing format.
type documentInfo struct {
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
	TotalPages int    `json:"total_pages"`
	Title      string `json:"title"`
	Author     string `json:"author"`
}

// Ingest uploads one file into the backend corpus. Failures come back
// classified: network faults as transport errors, non-2xx responses as
// server rejections carrying the backend's detail message.
func (c *Client) Ingest(ctx context.Context, file domain.FileDescriptor) (domain.IngestReceipt, error) {
	if err := c.wait(ctx); err != nil {
		return domain.IngestReceipt{}, domain.NewTransportError(err)
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return domain.IngestReceipt{}, &domain.UploadError{
			Kind:   domain.UploadErrorTransport,
			Detail: "could not read the file",
			Err:    err,
		}
	}
	defer f.Close()

	body, contentType, err := fileForm(file.Name, f)
	if err != nil {
		return domain.IngestReceipt{}, &domain.UploadError{
			Kind:   domain.UploadErrorTransport,
			Detail: "could not read the file",
			Err:    err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/ingest"), body)
	if err != nil {
		return domain.IngestReceipt{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.IngestReceipt{}, domain.NewTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.IngestReceipt{}, domain.NewServerRejection(resp.StatusCode, responseDetail(resp))
	}

	var ingResp ingestResponse
	if err := json.NewDecoder(resp.Body).Decode(&ingResp); err != nil {
		return domain.IngestReceipt{}, fmt.Errorf("decode response: %w", err)
	}

	return domain.IngestReceipt{
		Filename:       ingResp.Filename,
		ChunksIngested: ingResp.ChunksIngested,
	}, nil
}

// LoadDocuments fetches the backend's corpus listing.
func (c *Client) LoadDocuments(ctx context.Context) ([]domain.RemoteDocument, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/documents"), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var infos []documentInfo
	if err := json.NewDecoder(resp.Body).Decode(&infos); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	docs := make([]domain.RemoteDocument, len(infos))
	for i, info := range infos {
		docs[i] = domain.RemoteDocument{
			Filename:   info.Filename,
			ChunkCount: info.ChunkCount,
			TotalPages: info.TotalPages,
			Title:      info.Title,
			Author:     info.Author,
		}
	}
	return docs, nil
}
