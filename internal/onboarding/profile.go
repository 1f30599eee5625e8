package onboarding

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fincoach-dev/fincoach/internal/api"
)

// maxAge bounds the accepted age; anything above is a typo.
const maxAge = 150

// ProfileInput is the demographic profile as entered by the user. Age is
// kept as raw text and validated before submission.
type ProfileInput struct {
	FullName  string `validate:"required" label:"full name"`
	Age       string `validate:"required" label:"age"`
	Sex       string `validate:"required" label:"sex"`
	TaxStatus string `validate:"required" label:"tax status"`
	State     string `validate:"required" label:"state"`
	City      string `validate:"required" label:"city"`
}

// profileValidator reports fields by their label tag.
var profileValidator = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("label")
	})
	return v
}()

func (p ProfileInput) trimmed() ProfileInput {
	return ProfileInput{
		FullName:  strings.TrimSpace(p.FullName),
		Age:       strings.TrimSpace(p.Age),
		Sex:       strings.TrimSpace(p.Sex),
		TaxStatus: strings.TrimSpace(p.TaxStatus),
		State:     strings.TrimSpace(p.State),
		City:      strings.TrimSpace(p.City),
	}
}

// Validate checks every field locally and converts the input into the wire
// request. It returns a Validation error naming the first bad field.
func (p ProfileInput) Validate() (api.ProfileRequest, error) {
	in := p.trimmed()
	if err := profileValidator.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return api.ProfileRequest{}, api.NewValidationError("%s is required", fieldErrs[0].Field())
		}
		return api.ProfileRequest{}, api.NewValidationError("%s", err.Error())
	}

	age, err := strconv.Atoi(in.Age)
	if err != nil {
		return api.ProfileRequest{}, api.NewValidationError("age must be a whole number, got %q", p.Age)
	}
	if age < 0 || age > maxAge {
		return api.ProfileRequest{}, api.NewValidationError("age must be between 0 and %d, got %d", maxAge, age)
	}

	return api.ProfileRequest{
		FullName:  in.FullName,
		Age:       age,
		Sex:       in.Sex,
		TaxStatus: in.TaxStatus,
		State:     in.State,
		City:      in.City,
	}, nil
}

// ProfileBackend is the slice of the backend client the Submitter needs.
type ProfileBackend interface {
	Onboarding(ctx context.Context, in api.ProfileRequest) (string, error)
}

// Submitter sends the profile and parses the returned question block.
type Submitter struct {
	backend ProfileBackend
	logger  *zap.Logger
}

// NewSubmitter creates a Submitter. A nil logger discards output.
func NewSubmitter(backend ProfileBackend, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{backend: backend, logger: logger}
}

// Submission is the outcome of a profile submission.
type Submission struct {
	Questions QuestionSet
	Preamble  string
	Raw       string
}

// SubmitProfile validates in, posts it and parses the question text.
// Invalid input never reaches the network.
func (s *Submitter) SubmitProfile(ctx context.Context, in ProfileInput) (QuestionSet, error) {
	sub, err := s.Submit(ctx, in)
	if err != nil {
		return nil, err
	}
	return sub.Questions, nil
}

// Submit is SubmitProfile keeping the raw text and preamble alongside the
// parsed questions.
func (s *Submitter) Submit(ctx context.Context, in ProfileInput) (*Submission, error) {
	req, err := in.Validate()
	if err != nil {
		return nil, err
	}

	text, err := s.backend.Onboarding(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit profile: %w", err)
	}

	questions := ParseQuestions(text)
	s.logger.Info("profile submitted",
		zap.Int("questions", len(questions)),
		zap.Int("response_bytes", len(text)))

	return &Submission{
		Questions: questions,
		Preamble:  Preamble(text),
		Raw:       text,
	}, nil
}
