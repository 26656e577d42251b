package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/veraxsec/mailguard/pkg/ai"
	"github.com/veraxsec/mailguard/pkg/mask"
	"github.com/veraxsec/mailguard/pkg/report"
	"github.com/veraxsec/mailguard/pkg/scan"
)

// anonymizeResponse embeds the report so its fields flatten into the JSON
// object next to the rewritten text.
type anonymizeResponse struct {
	Original   string `json:"original"`
	Anonymized string `json:"anonymized"`
	ai.Report
}

type errorResponse struct {
	Error string `json:"error"`
}

// analysisInput reads the analysis input from either a JSON body ({"text"})
// or a multipart form with a "text" field and optional "file" attachments.
func (s *Server) analysisInput(r *http.Request) (string, []scan.Attachment, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = "application/json"
	}

	if !strings.HasPrefix(mediaType, "multipart/") {
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, s.cfg.MaxAttachmentBytes())).Decode(&body); err != nil {
			return "", nil, err
		}
		return body.Text, nil, nil
	}

	if err := r.ParseMultipartForm(s.cfg.MaxAttachmentBytes()); err != nil {
		return "", nil, err
	}

	text := r.FormValue("text")
	var attachments []scan.Attachment
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["file"] {
			file, err := header.Open()
			if err != nil {
				return "", nil, err
			}
			content, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxAttachmentBytes()))
			_ = file.Close()
			if err != nil {
				return "", nil, err
			}
			attachments = append(attachments, scan.Attachment{Filename: header.Filename, Content: content})
		}
	}

	return text, attachments, nil
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (string, ai.Report, bool) {
	text, attachments, err := s.analysisInput(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return "", ai.Report{}, false
	}

	flattened := scan.Flatten(text, attachments)

	started := time.Now()
	result := s.pipeline.Analyze(r.Context(), flattened)
	s.metrics.Observe(result, time.Since(started))

	return flattened, result, true
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	_, result, ok := s.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	text, result, ok := s.analyze(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, anonymizeResponse{
		Original:   text,
		Anonymized: mask.Mask(text, result.Entities),
		Report:     result,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	text, result, ok := s.analyze(w, r)
	if !ok {
		return
	}

	pdf, err := report.Generate(text, result.Entities)
	if err != nil {
		log.Error().Err(err).Msg("Failed rendering PDF report")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "report rendering failed"})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename=mailguard-report.pdf`)
	_, _ = w.Write(pdf)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Debug().Err(err).Msg("Failed encoding JSON response")
	}
}
