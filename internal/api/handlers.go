package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/genai"
	"github.com/matzehuels/mindgrid/pkg/mindmap"
	"github.com/matzehuels/mindgrid/pkg/pipeline"
	"github.com/matzehuels/mindgrid/pkg/scene"
)

// maxRequestBody bounds request payloads (trees and prompts are small).
const maxRequestBody = 1 << 20

type generationKind int

const (
	kindMindmap generationKind = iota
	kindDiagram
)

// generateRequest is the payload for both generation endpoints.
type generateRequest struct {
	Prompt   string `json:"prompt"`
	Language string `json:"language,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`
}

// generateResponse mirrors the upstream wire contract so existing clients
// can point at this server directly.
type generateResponse struct {
	GeneratedResponse  string `json:"generatedResponse"`
	RateLimit          int    `json:"rateLimit"`
	RateLimitRemaining int    `json:"rateLimitRemaining"`
	Cached             bool   `json:"cached,omitempty"`
}

func (s *Server) handleGenerate(kind generationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.generator == nil {
			s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "generation is not configured on this server"))
			return
		}

		var req generateRequest
		if err := decodeJSON(r.Body, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "prompt is required"))
			return
		}

		var res *genai.Result
		var err error
		switch kind {
		case kindMindmap:
			res, err = s.generator.GenerateMindmap(r.Context(), req.Prompt, req.Language, req.Refresh)
		case kindDiagram:
			res, err = s.generator.GenerateDiagram(r.Context(), req.Prompt, req.Language, req.Refresh)
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, generateResponse{
			GeneratedResponse:  res.Generated,
			RateLimit:          res.RateLimit.Limit,
			RateLimitRemaining: res.RateLimit.Remaining,
			Cached:             res.FromCache,
		})
	}
}

// sceneRequest is the payload for the scene endpoint. Tree carries the raw
// mindmap JSON (as produced by the mindmap generation endpoint).
type sceneRequest struct {
	Tree    json.RawMessage `json:"tree"`
	Theme   string          `json:"theme,omitempty"`
	Formats []string        `json:"formats,omitempty"`
	Scale   float64         `json:"scale,omitempty"`
	Refresh bool            `json:"refresh,omitempty"`
}

// sceneResponse returns the synthesized elements plus any requested
// artifacts. Binary artifacts are base64-encoded by encoding/json.
type sceneResponse struct {
	Elements  []*scene.Element         `json:"elements"`
	Nodes     []mindmap.PositionedNode `json:"nodes"`
	Edges     []mindmap.Edge           `json:"edges"`
	TreeHash  string                   `json:"treeHash"`
	Artifacts map[string][]byte        `json:"artifacts,omitempty"`
	Cached    bool                     `json:"cached"`
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	var req sceneRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Tree) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "tree is required"))
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		TreeJSON: string(req.Tree),
		Theme:    req.Theme,
		Formats:  req.Formats,
		Scale:    req.Scale,
		Refresh:  req.Refresh,
		Logger:   s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sceneResponse{
		Elements:  result.Elements,
		Nodes:     result.Nodes,
		Edges:     result.Edges,
		TreeHash:  result.TreeHash,
		Artifacts: result.Artifacts,
		Cached:    result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	})
}

func decodeJSON(body io.Reader, v any) error {
	dec := json.NewDecoder(io.LimitReader(body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
