package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/go-playground/validator/v10"
)

// FieldError — описание ошибки одного поля формы.
type FieldError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationError содержит ошибки по полям формы.
type ValidationError struct {
	Fields map[string][]FieldError
}

func (v *ValidationError) Error() string {
	names := make([]string, 0, len(v.Fields))
	for name := range v.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return fmt.Sprintf("%s: %s", e.ErrValidation, strings.Join(names, ", "))
}

func (v *ValidationError) Unwrap() error {
	return e.ErrValidation
}

// ContactUseCase принимает сообщения из формы обратной связи.
type ContactUseCase struct {
	repo      ContactRepository
	outbox    OutboxWriter
	txManager TxManager
	validate  *validator.Validate
	logger    logger.Logger
}

func NewContactUC(repo ContactRepository, outbox OutboxWriter, txManager TxManager, logger logger.Logger) *ContactUseCase {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ContactUseCase{
		repo:      repo,
		outbox:    outbox,
		txManager: txManager,
		validate:  validate,
		logger:    logger,
	}
}

// Submit валидирует форму, сохраняет сообщение и пишет событие contact.submitted.
func (c *ContactUseCase) Submit(ctx context.Context, req *ContactReq) error {
	const op = "ContactUseCase.Submit"

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.Content = strings.TrimSpace(req.Content)

	if err := c.validate.Struct(req); err != nil {
		return e.Wrap(op, toValidationError(err))
	}

	var messageID int64
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		msg, err := c.repo.Create(ctx, domain.NewContactMessage(req.FullName, req.Email, req.Content))
		if err != nil {
			return err
		}
		messageID = msg.ID

		event, err := NewOutboxEvent(EventContactSubmitted, msg.ID, ContactSubmittedPayload{
			MessageID: msg.ID,
			FullName:  msg.FullName,
			Email:     msg.Email,
		})
		if err != nil {
			return err
		}

		_, err = c.outbox.Create(ctx, event)
		return err
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	c.logger.Infof("Contact message received. message_id: %d", messageID)

	return nil
}

// toValidationError переводит ошибки validator в ошибки полей формы.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	res := &ValidationError{Fields: make(map[string][]FieldError, len(verrs))}
	for _, fe := range verrs {
		res.Fields[fe.Field()] = append(res.Fields[fe.Field()], fieldError(fe))
	}

	return res
}

func fieldError(fe validator.FieldError) FieldError {
	switch fe.Tag() {
	case "required":
		return FieldError{Message: "This field is required.", Code: "required"}
	case "email":
		return FieldError{Message: "Enter a valid email address.", Code: "invalid"}
	case "max":
		return FieldError{Message: fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param()), Code: "max_length"}
	default:
		return FieldError{Message: "Enter a valid value.", Code: "invalid"}
	}
}
