package batch

import (
	"slices"

	"github.com/pkordes/camp-directory/internal/domain"
)

// RenamePair records a saved camp whose key changed during the session.
type RenamePair struct {
	From string
	To   string
}

// SavePlan is the set of store writes that brings the record store in line
// with the working copy. Upserts are keyed by their current name and must be
// applied before Deletions.
type SavePlan struct {
	Upserts   []domain.Camp
	Deletions []string
	Renames   []RenamePair
}

// Empty reports whether the plan writes nothing.
func (p SavePlan) Empty() bool {
	return len(p.Upserts) == 0 && len(p.Deletions) == 0
}

// ComputeSavePlan diffs the working copy against the snapshot.
//
//   - Every dirty row not marked for deletion is upserted under its current name.
//   - A saved row whose current name differs from its original name leaves
//     its original key orphaned; that key is deleted.
//   - A saved row marked for deletion has its original key deleted, even if
//     it was renamed first.
//
// A deletion that names the current key of an upsert is dropped: the upsert
// already replaces that record. This happens when two rows swap names.
func (s *Session) ComputeSavePlan() SavePlan {
	var plan SavePlan
	var explicit, orphaned []string

	for _, r := range s.rows {
		switch {
		case r.deleted:
			explicit = append(explicit, r.original)
		case s.dirty(r):
			plan.Upserts = append(plan.Upserts, r.camp.Clone())
			if !r.isNew() && r.original != r.camp.Name {
				plan.Renames = append(plan.Renames, RenamePair{From: r.original, To: r.camp.Name})
				orphaned = append(orphaned, r.original)
			}
		}
	}

	upserted := make(map[string]struct{}, len(plan.Upserts))
	for _, c := range plan.Upserts {
		upserted[c.Name] = struct{}{}
	}
	seen := make(map[string]struct{})
	for _, name := range slices.Concat(explicit, orphaned) {
		if _, ok := upserted[name]; ok {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		plan.Deletions = append(plan.Deletions, name)
	}
	return plan
}
