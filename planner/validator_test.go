package planner_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/kitchenscan/models"
	"github.com/use-agent/kitchenscan/planner"
)

const host = "kitchen.planner.ikea.com"

func errCode(t *testing.T, err error) string {
	t.Helper()
	var xe *models.ExtractError
	require.True(t, errors.As(err, &xe), "expected *models.ExtractError, got %T", err)
	return xe.Code
}

func TestValidate_Accepts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "lowercase uuid",
			url:  "https://kitchen.planner.ikea.com/plan/3fa85f64-5717-4562-b3fc-2c963f66afa6",
			want: "3FA85F64-5717-4562-B3FC-2C963F66AFA6",
		},
		{
			name: "uppercase uuid",
			url:  "https://kitchen.planner.ikea.com/plan/3FA85F64-5717-4562-B3FC-2C963F66AFA6",
			want: "3FA85F64-5717-4562-B3FC-2C963F66AFA6",
		},
		{
			name: "mixed case in query string",
			url:  "https://kitchen.planner.ikea.com/fr/fr/?planId=3Fa85F64-5717-4562-b3FC-2c963f66AFA6&x=1",
			want: "3FA85F64-5717-4562-B3FC-2C963F66AFA6",
		},
		{
			name: "subdomain",
			url:  "https://fr.kitchen.planner.ikea.com/plan/3fa85f64-5717-4562-b3fc-2c963f66afa6",
			want: "3FA85F64-5717-4562-B3FC-2C963F66AFA6",
		},
		{
			name: "host case and fragment",
			url:  "https://KITCHEN.Planner.IKEA.com/#/3fa85f64-5717-4562-b3fc-2c963f66afa6",
			want: "3FA85F64-5717-4562-B3FC-2C963F66AFA6",
		},
	}

	v := planner.NewValidator(host)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ref, err := v.Validate(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref.ID)
			assert.Equal(t, tt.url, ref.URL)
		})
	}
}

func TestValidate_InvalidDomain(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://example.com/plan/3fa85f64-5717-4562-b3fc-2c963f66afa6",
		"https://evilkitchen.planner.ikea.com/plan/3fa85f64-5717-4562-b3fc-2c963f66afa6",
		"https://kitchen.planner.ikea.com.evil.io/plan/3fa85f64-5717-4562-b3fc-2c963f66afa6",
		"ftp://kitchen.planner.ikea.com/plan/3fa85f64-5717-4562-b3fc-2c963f66afa6",
		"not a url",
		"",
	}

	v := planner.NewValidator(host)
	for _, u := range urls {
		_, err := v.Validate(u)
		require.Error(t, err, u)
		assert.Equal(t, models.ErrCodeInvalidDomain, errCode(t, err), u)
	}
}

func TestValidate_MissingPlannerID(t *testing.T) {
	t.Parallel()

	v := planner.NewValidator(host)
	for _, u := range []string{
		"https://kitchen.planner.ikea.com/plan/",
		"https://kitchen.planner.ikea.com/plan/3fa85f64-5717-4562-b3fc",
		"https://kitchen.planner.ikea.com/plan/zzzzzzzz-5717-4562-b3fc-2c963f66afa6",
	} {
		_, err := v.Validate(u)
		require.Error(t, err, u)
		assert.Equal(t, models.ErrCodeMissingPlannerID, errCode(t, err), u)
	}
}

func TestValidate_TrimsSurroundingSpace(t *testing.T) {
	t.Parallel()

	v := planner.NewValidator(host)
	ref, err := v.Validate("  https://kitchen.planner.ikea.com/plan/3fa85f64-5717-4562-b3fc-2c963f66afa6\n")
	require.NoError(t, err)
	assert.Equal(t, "https://kitchen.planner.ikea.com/plan/3fa85f64-5717-4562-b3fc-2c963f66afa6", ref.URL)
	assert.Equal(t, "3FA85F64-5717-4562-B3FC-2C963F66AFA6", ref.ID)
}
