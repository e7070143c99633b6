package service

import (
	"context"
	"fmt"

	"feteer-storefront/internal/model"

	"github.com/rs/zerolog"
)

// inquiryService implements InquiryService.
type inquiryService struct {
	client ContactSubmitter
	forms  *formChecker
	logger zerolog.Logger
}

// NewInquiryService creates a new inquiry service.
func NewInquiryService(client ContactSubmitter, logger zerolog.Logger) InquiryService {
	return &inquiryService{
		client: client,
		forms:  newFormChecker(),
		logger: logger.With().Str("service", "inquiry").Logger(),
	}
}

// Submit validates the inquiry and posts it to /contacts.
// Nothing is sent when a required field is empty.
func (s *inquiryService) Submit(ctx context.Context, form *model.InquiryForm) error {
	if form == nil {
		return fmt.Errorf("inquiry form is nil")
	}

	cleaned := s.forms.cleanInquiry(form)
	if err := s.forms.check(cleaned); err != nil {
		s.logger.Debug().Err(err).Msg("inquiry rejected")
		return err
	}

	contact := &model.ContactRequest{
		Name:    cleaned.Name,
		Phone:   cleaned.Phone,
		Address: cleaned.Address,
		Inquiry: cleaned.Inquiry,
	}

	if err := s.client.SubmitContact(ctx, contact); err != nil {
		s.logger.Error().Err(err).Msg("failed to submit inquiry")
		return err
	}

	s.logger.Info().Msg("inquiry submitted successfully")
	return nil
}
