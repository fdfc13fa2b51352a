package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/form"
	"github.com/conneroisu/docket/internal/layout"
	"github.com/conneroisu/docket/internal/mockdata"
	"github.com/conneroisu/docket/internal/preview"
	"github.com/conneroisu/docket/internal/store"
	"github.com/conneroisu/docket/internal/validation"
	"github.com/conneroisu/docket/internal/version"
)

const maxBodyBytes = 4 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps a DocketError to an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := map[string]any{"error": err.Error()}
	if de, ok := errors.AsDocketError(err); ok {
		body["code"] = de.Code
		switch {
		case de.Code == errors.ErrCodeFileNotFound,
			de.Code == errors.ErrCodeUnknownDocumentType,
			de.Code == errors.ErrCodeComponentNotFound:
			status = http.StatusNotFound
		case de.Code == errors.ErrCodeLayoutParse, de.Type == errors.ErrorTypeValidation:
			status = http.StatusBadRequest
		}
		if len(de.Context) > 0 {
			body["context"] = de.Context
		}
	}
	writeJSON(w, status, body)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeValidationFailed, "cannot read request body: "+err.Error())
	}
	return data, nil
}

func documentTypeParam(r *http.Request) (layout.DocumentType, error) {
	return layout.ParseDocumentType(chi.URLParam(r, "type"))
}

func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	var watching []string
	if s.watcher != nil {
		watching = s.watcher.Files()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "healthy",
		"timestamp":  time.Now().UTC(),
		"version":    version.GetShortVersion(),
		"build_info": version.GetBuildInfo(),
		"checks": map[string]any{
			"preview":  s.driver.Latest().Status.String(),
			"clients":  s.hub.ConnectedClients(),
			"watching": watching,
			"type":     string(s.docType),
		},
	})
}

func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	revision := s.currentRevision()
	page, err := s.pageFor(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out, err := injectLiveReload(page, revision)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.WriteString(w, out)
}

type previewResponse struct {
	preview.Result
	LoadError string `json:"loadError,omitempty"`
	Revision  uint64 `json:"revision"`
}

func (s *PreviewServer) handlePreview(w http.ResponseWriter, r *http.Request) {
	resp := previewResponse{Revision: s.currentRevision(), Result: s.driver.Latest()}
	s.sourceMutex.RLock()
	if s.loadErr != nil {
		resp.LoadError = s.loadErr.Error()
	}
	s.sourceMutex.RUnlock()
	if r.URL.Query().Get("html") != "1" {
		resp.HTML = ""
	}
	writeJSON(w, http.StatusOK, resp)
}

type renderRequest struct {
	Layout   json.RawMessage `json:"layout"`
	Data     map[string]any  `json:"data"`
	Type     string          `json:"type"`
	MockData *bool           `json:"mockData"`
}

// handleRender renders an ad-hoc layout without touching the live preview.
func (s *PreviewServer) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req renderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, errors.ErrLayoutParse("request", err))
		return
	}
	if len(req.Layout) == 0 {
		jsonError(w, "layout is required", http.StatusBadRequest)
		return
	}
	l, err := layout.Parse(req.Layout)
	if err != nil {
		writeError(w, err)
		return
	}

	docType := s.docType
	if req.Type != "" {
		if docType, err = layout.ParseDocumentType(req.Type); err != nil {
			writeError(w, err)
			return
		}
	}

	data := req.Data
	if data == nil {
		if data, err = mockdata.Sample(docType); err != nil {
			writeError(w, err)
			return
		}
	}
	mock := s.cfg.MockDataEnabled()
	if req.MockData != nil {
		mock = *req.MockData
	}
	if mock {
		data = mockdata.NewDefaultGenerator().FillMissing(data, layout.BindingPaths(l.Components))
	}

	opts := s.options
	opts.Title = docType.Title()
	out, err := s.renderer.RenderDocument(r.Context(), l, data, opts)
	if err != nil {
		writeError(w, errors.NewRenderError(errors.ErrCodeRenderFailed, "cannot render layout", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

type issue struct {
	Field       string   `json:"field"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type validateResponse struct {
	Valid    bool    `json:"valid"`
	Errors   []issue `json:"errors"`
	Warnings []issue `json:"warnings"`
}

func issues(list []*errors.FieldValidationError) []issue {
	out := make([]issue, 0, len(list))
	for _, e := range list {
		out = append(out, issue{Field: e.Field(), Message: e.ErrorMessage, Suggestions: e.Suggestions()})
	}
	return out
}

func reportResponse(report *validation.Report) validateResponse {
	return validateResponse{
		Valid:    report.Valid(),
		Errors:   issues(report.Errors.Errors),
		Warnings: issues(report.Warnings),
	}
}

func (s *PreviewServer) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	l, err := layout.Parse(body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse(validation.ValidateLayout(l)))
}

func (s *PreviewServer) handleSample(w http.ResponseWriter, r *http.Request) {
	t, err := documentTypeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := mockdata.Sample(t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *PreviewServer) handleDefaultLayout(w http.ResponseWriter, r *http.Request) {
	t, err := documentTypeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	l, err := form.DefaultLayout(t)
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "yaml" {
		out, err := store.EncodeLayout(l, true)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(out)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *PreviewServer) handlePresets(w http.ResponseWriter, r *http.Request) {
	t, err := documentTypeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layout.Presets(t))
}

func (s *PreviewServer) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": names})
}

func (s *PreviewServer) handleLoadTemplate(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// handleSaveTemplate stores a layout that passes validation.
func (s *PreviewServer) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	l, err := layout.Parse(body)
	if err != nil {
		writeError(w, err)
		return
	}
	if report := validation.ValidateLayout(l); !report.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, reportResponse(report))
		return
	}
	if err := s.store.Save(r.Context(), chi.URLParam(r, "name"), l); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *PreviewServer) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
