package handler

import (
	"github.com/vitvoice/sadhana-api/internal/core/domain"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           req.Role,
		CounsellorName: req.CounsellorName,
	}
}

func toGoogleLoginInput(req googleLoginRequest) ports.GoogleLoginInput {
	return ports.GoogleLoginInput{
		IDToken:        req.IDToken,
		Role:           req.Role,
		CounsellorName: req.CounsellorName,
	}
}

func toEntryInput(req addEntryRequest) ports.EntryInput {
	return ports.EntryInput{
		Date:          req.Date,
		WakeUp:        req.WakeUp,
		JapaCompleted: req.JapaCompleted,
		DayRest:       req.DayRest,
		Hearing:       req.Hearing,
		Reading:       req.Reading,
		Study:         req.Study,
		TimeToBed:     req.TimeToBed,
		Seva:          req.Seva,
		Concern:       req.Concern,
	}
}

// --- Service output → Response ---

// entries never renders null so clients can iterate without a guard.
func entries(list []*domain.SadhanaEntry) []*domain.SadhanaEntry {
	if list == nil {
		return []*domain.SadhanaEntry{}
	}
	return list
}

func summaries(list []domain.CounsilliSummary) []domain.CounsilliSummary {
	if list == nil {
		return []domain.CounsilliSummary{}
	}
	return list
}
