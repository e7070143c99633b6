package service

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"feteer-storefront/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// formChecker cleans and validates customer supplied forms.
type formChecker struct {
	validate *validator.Validate
	policy   *bluemonday.Policy
}

func newFormChecker() *formChecker {
	validate := validator.New()
	// Report fields by their form names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &formChecker{
		validate: validate,
		policy:   bluemonday.StrictPolicy(),
	}
}

// clean strips markup and surrounding whitespace from a field value.
func (f *formChecker) clean(value string) string {
	return strings.TrimSpace(html.UnescapeString(f.policy.Sanitize(strings.TrimSpace(value))))
}

// check validates a cleaned form and converts failures to *model.ValidationError.
func (f *formChecker) check(form any) error {
	err := f.validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fe.Field())
	}
	return &model.ValidationError{Fields: fields}
}

func (f *formChecker) cleanCheckout(form *model.CheckoutForm) *model.CheckoutForm {
	return &model.CheckoutForm{
		Name:        f.clean(form.Name),
		PhoneNumber: f.clean(form.PhoneNumber),
		Address:     f.clean(form.Address),
		Notes:       f.clean(form.Notes),
	}
}

func (f *formChecker) cleanInquiry(form *model.InquiryForm) *model.InquiryForm {
	return &model.InquiryForm{
		Name:    f.clean(form.Name),
		Phone:   f.clean(form.Phone),
		Address: f.clean(form.Address),
		Inquiry: f.clean(form.Inquiry),
	}
}
