package content

import (
	"github.com/rushboard/challenge-api/internal/models"
)

// Sanitizer strips internal-only fields from a record before it leaves the
// service.
type Sanitizer interface {
	Sanitize(record Record)
}

// DefaultSanitizer removes moderation metadata (submitter IPs, moderator
// notes) from submissions nested under a record. Content rows themselves carry
// no internal fields.
type DefaultSanitizer struct{}

func (DefaultSanitizer) Sanitize(record Record) {
	switch rec := record.(type) {
	case *models.Challenge:
		scrubSubmissions(rec.Submissions)
	case *models.Tournament:
		for i := range rec.Challenges {
			scrubSubmissions(rec.Challenges[i].Submissions)
		}
	case *models.CustomCode:
		for i := range rec.Challenges {
			scrubSubmissions(rec.Challenges[i].Submissions)
		}
	case *models.Creator:
		for i := range rec.Challenges {
			scrubSubmissions(rec.Challenges[i].Submissions)
		}
	}
}

// ScrubSubmission clears internal moderation fields on a single submission.
func ScrubSubmission(s *models.Submission) {
	s.SubmitterIP = nil
	s.ModeratorNote = nil
}

func scrubSubmissions(subs []models.Submission) {
	for i := range subs {
		ScrubSubmission(&subs[i])
	}
}
