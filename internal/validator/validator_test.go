package validator

import (
	"testing"

	"castboard_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validationErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	vErr, ok := err.(*ValidationError)
	require.True(t, ok, "ожидалась *ValidationError, получено %T", err)
	return vErr.Errors
}

func TestValidate_SignupCollectsAllErrors(t *testing.T) {
	v := New()

	err := v.Validate(&dto.SignupRequest{
		Email:    "not-an-email",
		Password: "123",
		Role:     "Model",
		Phone:    strPtr("12-34"),
	})

	errs := validationErrors(t, err)
	assert.Equal(t, "Enter a valid email address.", errs["email"])
	assert.Equal(t, "Ensure this field has at least 6 characters.", errs["password"])
	assert.Equal(t, "This field is required.", errs["full_name"])
	assert.Equal(t, "Role must be either Agent or Client.", errs["role"])
	assert.Contains(t, errs, "phone")
}

func TestValidate_SignupOK(t *testing.T) {
	v := New()

	err := v.Validate(&dto.SignupRequest{
		Email:    "agent@example.com",
		Password: "secret1",
		FullName: "Jane Agent",
		Role:     "Agent",
		Phone:    strPtr("+77011234567"),
		Website:  "https://example.com",
	})
	assert.NoError(t, err)
}

func TestValidate_OTP(t *testing.T) {
	v := New()

	errs := validationErrors(t, v.Validate(&dto.VerifyOTPRequest{OTP: "12ab56"}))
	assert.Equal(t, "OTP must be exactly 6 digits.", errs["otp"])

	assert.NoError(t, v.Validate(&dto.VerifyOTPRequest{OTP: "012345"}))
	assert.NoError(t, v.Validate(&dto.VerifyOTPRequest{OTP: "012345", Email: "a@b.co"}))
}

func TestValidate_TalentDatesAndGender(t *testing.T) {
	v := New()

	errs := validationErrors(t, v.Validate(&dto.CreateTalentRequest{
		Name:   "Anna",
		DOB:    "31/12/1999",
		Gender: "unknown",
	}))
	assert.Equal(t, "Date must be in YYYY-MM-DD format.", errs["dob"])
	assert.Equal(t, "Gender must be one of: male, female, other.", errs["gender"])

	assert.NoError(t, v.Validate(&dto.CreateTalentRequest{Name: "Anna", DOB: "1999-12-31", Gender: "female"}))
}

func TestValidate_JobStatusAndSocialProvider(t *testing.T) {
	v := New()

	errs := validationErrors(t, v.Validate(&dto.CreateJobRequest{Title: "Shoot", Status: "open"}))
	assert.Contains(t, errs["status"], "draft")

	errs = validationErrors(t, v.Validate(&dto.SocialLoginRequest{Provider: "github", Token: "t"}))
	assert.Equal(t, "Provider must be one of: apple, google, facebook, microsoft.", errs["provider"])
}

func TestValidate_FormTagNames(t *testing.T) {
	v := New()

	errs := validationErrors(t, v.Validate(&dto.AddTalentImageRequest{SortOrder: -1}))
	assert.Equal(t, "Ensure this value is greater than or equal to 0.", errs["sort_order"])
}
