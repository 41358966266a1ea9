package preference

import (
	"context"

	"go-salesdash/internal/features/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PreferenceService interface {
	// ActiveBusinessLine returns the user's remembered selection, falling
	// back to Solar when nothing was persisted yet.
	ActiveBusinessLine(ctx context.Context, userID primitive.ObjectID) (metrics.BusinessLine, error)
	SetActiveBusinessLine(ctx context.Context, userID primitive.ObjectID, line metrics.BusinessLine) error
}

type PreferenceServiceImpl struct {
	repo PreferenceRepository
}

func NewPreferenceService(repo PreferenceRepository) PreferenceService {
	return &PreferenceServiceImpl{repo: repo}
}

func (s *PreferenceServiceImpl) ActiveBusinessLine(ctx context.Context, userID primitive.ObjectID) (metrics.BusinessLine, error) {
	pref, err := s.repo.Get(ctx, userID, KeyBusinessLine)
	if err != nil {
		return metrics.LineSolar, err
	}
	if pref == nil {
		return metrics.LineSolar, nil
	}

	switch metrics.BusinessLine(pref.Value) {
	case metrics.LineSolar, metrics.LineEco4:
		return metrics.BusinessLine(pref.Value), nil
	default:
		return metrics.LineSolar, nil
	}
}

func (s *PreferenceServiceImpl) SetActiveBusinessLine(ctx context.Context, userID primitive.ObjectID, line metrics.BusinessLine) error {
	return s.repo.Upsert(ctx, userID, KeyBusinessLine, string(line))
}
