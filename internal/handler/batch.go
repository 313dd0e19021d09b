package handler

import (
	"errors"
	"net/http"

	"github.com/pkordes/camp-directory/internal/batch"
	"github.com/pkordes/camp-directory/internal/domain"
)

// SaveBatchRequest is the body of POST /camps/batch: a save plan computed
// by a batch editing session.
type SaveBatchRequest struct {
	Upserts   []Camp       `json:"upserts"`
	Deletions []string     `json:"deletions"`
	Renames   []RenamePair `json:"renames,omitempty"`
}

type RenamePair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SaveBatchResponse reports what a batch save applied.
type SaveBatchResponse struct {
	Upserted    int      `json:"upserted"`
	Deleted     int      `json:"deleted"`
	AlreadyGone []string `json:"alreadyGone"`
}

// SaveBatch handles POST /camps/batch.
// Every upsert is validated before anything is written. A failure part way
// through returns 500 with no report; clients should reload.
func (s *Server) SaveBatch(w http.ResponseWriter, r *http.Request) {
	var body SaveBatchRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	plan := batch.SavePlan{
		Upserts:   make([]domain.Camp, 0, len(body.Upserts)),
		Deletions: body.Deletions,
	}
	for _, c := range body.Upserts {
		plan.Upserts = append(plan.Upserts, requestToCamp(c))
	}
	for _, rp := range body.Renames {
		plan.Renames = append(plan.Renames, batch.RenamePair{From: rp.From, To: rp.To})
	}

	report, err := s.camps.ApplyPlan(r.Context(), plan)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeJSON(w, r, http.StatusUnprocessableEntity, validationBody(err))
			return
		}
		writeInternal(w, r, err)
		return
	}

	gone := report.AlreadyGone
	if gone == nil {
		gone = []string{}
	}
	writeJSON(w, r, http.StatusOK, SaveBatchResponse{
		Upserted:    report.Upserted,
		Deleted:     report.Deleted,
		AlreadyGone: gone,
	})
}
