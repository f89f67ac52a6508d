package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dateQuery struct {
	From   string `form:"from" binding:"omitempty,iso_date"`
	Months int    `form:"months" binding:"omitempty,min=1,max=12"`
}

func bindDateQuery(t *testing.T, rawQuery string) error {
	t.Helper()
	SetupValidator()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)

	var q dateQuery
	return c.ShouldBindQuery(&q)
}

func TestSetupValidator_ISODate(t *testing.T) {
	tests := []struct {
		query string
		valid bool
	}{
		{"", true},
		{"from=2026-02-28", true},
		{"from=2024-02-29", true},
		{"from=2026-02-29", false},
		{"from=2026-13-01", false},
		{"from=28/02/2026", false},
		{"from=2026-02-28T00:00:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			err := bindDateQuery(t, tt.query)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	t.Run("field errors use form names", func(t *testing.T) {
		err := bindDateQuery(t, "from=yesterday&months=13")
		require.Error(t, err)

		resp := FormatValidationErrors(err, "req-1")

		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-1", resp.Error.RequestID)
		assert.ElementsMatch(t, []dto.ValidationDetail{
			{Field: "from", Message: "Must be a date in YYYY-MM-DD format"},
			{Field: "months", Message: "Must be at most 12"},
		}, resp.Error.Details)
	})

	t.Run("other errors become a query detail", func(t *testing.T) {
		resp := FormatValidationErrors(errors.New("strconv.ParseInt: parsing \"x\": invalid syntax"), "")

		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "query", resp.Error.Details[0].Field)
	})
}
