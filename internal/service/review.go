package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chocoblitz/storefront/internal/log"
	inOtel "github.com/chocoblitz/storefront/internal/otel"
	"github.com/chocoblitz/storefront/pkg/request"
	"github.com/chocoblitz/storefront/pkg/response"
)

// ReviewService keeps customer reviews in memory, newest first. Reviews are
// session-scoped; they are not persisted across restarts.
type ReviewService struct {
	mu       sync.Mutex
	reviews  []response.Review
	validate *validator.Validate
}

func NewReviewService(validate *validator.Validate) *ReviewService {
	return &ReviewService{validate: validate}
}

func (s *ReviewService) Submit(c context.Context, param request.Review) (response.Review, error) {
	c, span := inOtel.Tracer.Start(c, "ReviewService Submit")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReviewService Submit").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating review").Logger()
	logger.Info().Msg("validating review")
	if err := s.validate.StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating review with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Review{}, err
	}
	logger.Info().Msg("validated review")

	review := response.Review{
		ID:        uuid.NewString(),
		Name:      param.Name,
		Rating:    param.Rating,
		Comment:   param.Comment,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.reviews = append([]response.Review{review}, s.reviews...)
	s.mu.Unlock()

	logger.Info().Str(log.KeyReviewID, review.ID).Msg("submitted review")
	return review, nil
}

// List returns reviews newest first.
func (s *ReviewService) List() []response.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	reviews := make([]response.Review, len(s.reviews))
	copy(reviews, s.reviews)
	return reviews
}

// Contact acknowledges the message; there is no mail backend, the form only
// confirms receipt to the sender.
func (s *ReviewService) Contact(c context.Context, param request.Contact) error {
	c, span := inOtel.Tracer.Start(c, "ReviewService Contact")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReviewService Contact").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating contact message").Logger()
	logger.Info().Msg("validating contact message")
	if err := s.validate.StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating contact message with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger.Info().Msg("received contact message")
	return nil
}
