package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/vianime/internal/domain"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
)

type draftRequest struct {
	Text *string `json:"text"`
}

type draftResponse struct {
	Text string `json:"text"`
}

type feedbackResponse struct {
	Entry domain.FeedbackEntry `json:"entry"`
	Draft string               `json:"draft"`
}

func GetDraft(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, draftResponse{Text: d.Feedback.Draft()})
	}
}

func PutDraft(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req draftRequest
		if err := decode(w, r, &req); err != nil || req.Text == nil {
			writeError(w, d.Logger, r, errBadRequest)
			return
		}
		d.Feedback.SetDraft(*req.Text)
		writeJSON(w, http.StatusOK, draftResponse{Text: *req.Text})
	}
}

// SubmitFeedback sends the draft. A text in the body replaces the draft
// first. On failure the draft is kept for a retry.
func SubmitFeedback(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req draftRequest
		if r.ContentLength != 0 {
			if err := decode(w, r, &req); err != nil {
				writeError(w, d.Logger, r, err)
				return
			}
		}
		if req.Text != nil {
			d.Feedback.SetDraft(*req.Text)
		}

		s, _ := d.Sessions.Current()
		entry, err := d.Feedback.Submit(r.Context(), s.Identity)
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, feedbackResponse{Entry: entry, Draft: d.Feedback.Draft()})
	}
}
