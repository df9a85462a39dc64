package documents

import (
	"sahaay/internal/rules"
)

// ComputeMatrix derives the validation matrix for one (session, program)
// pair from the requirement set and the recorded submissions. Pure: the
// matrix is a view, recomputed on every read.
//
// Aggregation: a mandatory document that was submitted and failed forces
// FAILED even when other mandatory documents are merely missing; INCOMPLETE
// is reported only when nothing failed. Optional documents never block
// COMPLETE.
func ComputeMatrix(requirements map[string]rules.Requirement, submissions map[string]Submission, initialized bool) ValidationMatrix {
	if !initialized {
		return ValidationMatrix{
			Matrix:      map[string]MatrixEntry{},
			FinalStatus: StatusNotInitialized,
		}
	}

	matrix := make(map[string]MatrixEntry, len(requirements))
	var hasFailed, hasMissing bool

	for docKey, req := range requirements {
		sub, submitted := submissions[docKey]

		var entry MatrixEntry
		if submitted {
			entry = MatrixEntry{
				Mandatory:       req.Mandatory,
				Submitted:       true,
				Status:          sub.Status,
				Reason:          sub.Reason,
				MatchedKeywords: sub.MatchedKeywords,
				Confidence:      sub.Confidence,
			}
		} else {
			entry = MatrixEntry{Mandatory: req.Mandatory, Status: StatusPass}
			if req.Mandatory {
				entry.Status = StatusFail
				entry.Reason = "Document not submitted"
			}
		}
		matrix[docKey] = entry

		if req.Mandatory {
			switch {
			case !submitted:
				hasMissing = true
			case sub.Status == StatusFail:
				hasFailed = true
			}
		}
	}

	final := StatusComplete
	switch {
	case hasFailed:
		final = StatusFailed
	case hasMissing:
		final = StatusIncomplete
	}

	return ValidationMatrix{Matrix: matrix, FinalStatus: final}
}
