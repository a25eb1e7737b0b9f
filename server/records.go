package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nachoal/lingo-tutor-go/assessment"
	"github.com/nachoal/lingo-tutor-go/vocabexport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// historyPoints is how many recent results the progress chart shows
const historyPoints = 5

type assessmentRequest struct {
	Text         string    `json:"text"`
	Language     string    `json:"language"`
	Scenario     string    `json:"scenario"`
	ScenarioName string    `json:"scenarioName,omitempty"`
	Date         time.Time `json:"date,omitempty"`
}

type assessmentResponse struct {
	assessment.Result
	Grades map[string]string `json:"grades"`
}

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondWithError(w, http.StatusBadRequest, "Assessment text is required", nil)
		return
	}

	name := req.ScenarioName
	if name == "" {
		if sc, ok := s.opts.Catalog.Get(req.Scenario); ok {
			name = sc.Name
		}
	}

	result := assessment.Analyze(req.Text, assessment.Meta{
		Language:     req.Language,
		Scenario:     req.Scenario,
		ScenarioName: name,
		Date:         req.Date,
	})

	if s.opts.History != nil {
		if err := s.opts.History.Save(r.Context(), &result); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to save assessment", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, assessmentResponse{
		Result: result,
		Grades: map[string]string{
			"fluency":    assessment.LetterGrade(float64(result.Fluency)),
			"vocabulary": assessment.LetterGrade(float64(result.Vocabulary)),
			"grammar":    assessment.LetterGrade(float64(result.Grammar)),
			"speed":      assessment.LetterGrade(float64(result.Speed)),
		},
	})
}

type historyResponse struct {
	Results  []assessment.Result `json:"results"`
	Averages assessment.Averages `json:"averages"`
	Progress []assessment.Result `json:"progress"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.opts.History == nil {
		writeJSON(w, http.StatusOK, historyResponse{Results: []assessment.Result{}, Progress: []assessment.Result{}})
		return
	}

	language := r.URL.Query().Get("language")
	results, err := s.opts.History.List(r.Context(), language)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load history", err)
		return
	}
	if results == nil {
		results = []assessment.Result{}
	}

	writeJSON(w, http.StatusOK, historyResponse{
		Results:  results,
		Averages: assessment.Average(results, "all"),
		Progress: assessment.Progress(results, historyPoints),
	})
}

func (s *Server) handleVocabulary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Store.Vocabulary())
}

func (s *Server) handleVocabularyExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := vocabexport.Write(&buf, s.opts.Store.Vocabulary()); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to export vocabulary", err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, vocabexport.Filename(time.Now())))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
