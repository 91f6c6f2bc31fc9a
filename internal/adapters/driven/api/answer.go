package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/shashanksh04/RAG-Assistant/internal/core/domain"
)

// askRequest is the backend's /ask request format.
type askRequest struct {
	Query                string `json:"query"`
	ConversationID       string `json:"conversation_id,omitempty"`
	EnableQueryExpansion bool   `json:"enable_query_expansion"`
	EnableHyDE           bool   `json:"enable_hyde"`
}

// sourceInfo is the backend's citation format.
type sourceInfo struct {
	Source   string  `json:"source"`
	Page     int     `json:"page"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"relevance_score"`
	Citation string  `json:"citation"`
}

// askResponse is the backend's /ask and /ask-audio response format.
type askResponse struct {
	Answer         string       `json:"answer"`
	Sources        []sourceInfo `json:"sources"`
	Confidence     float64      `json:"confidence"`
	IsGrounded     bool         `json:"is_grounded"`
	ConversationID string       `json:"conversation_id"`
}

// transcriptionSegment is one timed span of a transcript.
type transcriptionSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// transcriptionResponse is the backend's /transcribe response format.
type transcriptionResponse struct {
	Text       string                 `json:"text"`
	Language   string                 `json:"language"`
	Confidence float64                `json:"confidence"`
	Duration   float64                `json:"duration"`
	Segments   []transcriptionSegment `json:"segments"`
}

// Ask sends a question to the backend and returns the grounded answer.
func (c *Client) Ask(ctx context.Context, req domain.AskRequest) (domain.Answer, error) {
	if err := c.wait(ctx); err != nil {
		return domain.Answer{}, fmt.Errorf("rate limit: %w", err)
	}

	resp, err := c.postJSON(ctx, "/ask", askRequest{
		Query:                req.Query,
		ConversationID:       req.ConversationID,
		EnableQueryExpansion: req.QueryExpansion,
		EnableHyDE:           req.HyDE,
	})
	if err != nil {
		return domain.Answer{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Answer{}, statusError(resp)
	}

	return decodeAnswer(resp)
}

// AskAudio uploads a spoken question; the backend transcribes it and
// answers in one round trip.
func (c *Client) AskAudio(ctx context.Context, path string) (domain.Answer, error) {
	resp, err := c.uploadFile(ctx, "/ask-audio", path)
	if err != nil {
		return domain.Answer{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Answer{}, statusError(resp)
	}

	return decodeAnswer(resp)
}

// Transcribe uploads an audio file and returns its transcript.
func (c *Client) Transcribe(ctx context.Context, path string) (domain.Transcription, error) {
	resp, err := c.uploadFile(ctx, "/transcribe", path)
	if err != nil {
		return domain.Transcription{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Transcription{}, statusError(resp)
	}

	var trResp transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&trResp); err != nil {
		return domain.Transcription{}, fmt.Errorf("decode response: %w", err)
	}

	segments := make([]domain.TranscriptSegment, len(trResp.Segments))
	for i, segment := range trResp.Segments {
		segments[i] = domain.TranscriptSegment{
			Start: segment.Start,
			End:   segment.End,
			Text:  segment.Text,
		}
	}
	return domain.Transcription{
		Text:       trResp.Text,
		Language:   trResp.Language,
		Confidence: trResp.Confidence,
		Duration:   trResp.Duration,
		Segments:   segments,
	}, nil
}

// Health probes the backend's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/health"), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

// uploadFile posts a local file as a multipart form to the given route.
func (c *Client) uploadFile(ctx context.Context, route, path string) (*http.Response, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	body, contentType, err := fileForm(filepath.Base(path), f)
	if err != nil {
		return nil, err
	}

	return c.postForm(ctx, route, body, contentType)
}

// decodeAnswer maps an answer payload to the domain type.
func decodeAnswer(resp *http.Response) (domain.Answer, error) {
	var askResp askResponse
	if err := json.NewDecoder(resp.Body).Decode(&askResp); err != nil {
		return domain.Answer{}, fmt.Errorf("decode response: %w", err)
	}

	sources := make([]domain.SourceCitation, len(askResp.Sources))
	for i, source := range askResp.Sources {
		sources[i] = domain.SourceCitation{
			Source:    source.Source,
			Page:      source.Page,
			Snippet:   source.Snippet,
			Relevance: source.Score,
			Citation:  source.Citation,
		}
	}
	return domain.Answer{
		Text:           askResp.Answer,
		Sources:        sources,
		Confidence:     askResp.Confidence,
		Grounded:       askResp.IsGrounded,
		ConversationID: askResp.ConversationID,
	}, nil
}
