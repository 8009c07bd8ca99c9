// Package workflows_test provides unit tests for detail message parsing.
package workflows_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/services/workflows"
)

var clock = time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

func TestParseBooking_Success(t *testing.T) {
	details, err := workflows.ParseBooking("John Doe, 25/05/2026, 10:00 AM, Laptop repair", clock)

	require.NoError(t, err)
	assert.Equal(t, "John Doe", details.Name)
	assert.Equal(t, "25/05/2026", details.Date)
	assert.Equal(t, "10:00 AM", details.Time)
	assert.Equal(t, "Laptop repair", details.Description)
	assert.Equal(t, time.Date(2026, time.May, 25, 10, 0, 0, 0, time.UTC), details.StartsAt)
}

func TestParseBooking_DescriptionKeepsExtraCommas(t *testing.T) {
	details, err := workflows.ParseBooking("Jane, 25/05/2026, 14:30, Laptop repair, urgent, bring charger", clock)

	require.NoError(t, err)
	assert.Equal(t, "Laptop repair, urgent, bring charger", details.Description)
}

func TestParseBooking_TooFewFields(t *testing.T) {
	_, err := workflows.ParseBooking("John Doe, 25/05/2026, 10:00 AM", clock)

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestParseBooking_UnparseableDateRejected(t *testing.T) {
	// A date that does not parse is a hard failure, never stored as text.
	_, err := workflows.ParseBooking("John Doe, next Tuesday, 10:00 AM, Laptop repair", clock)

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestParseBooking_PastDateRejected(t *testing.T) {
	_, err := workflows.ParseBooking("John Doe, 01/01/2020, 10:00 AM, Laptop repair", clock)

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestParseBooking_EmptyNameRejected(t *testing.T) {
	_, err := workflows.ParseBooking(", 25/05/2026, 10:00 AM, Laptop repair", clock)

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestParseQuote_MinimalFields(t *testing.T) {
	details, err := workflows.ParseQuote("Jane Smith, office network for 10 PCs")

	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", details.Name)
	assert.Equal(t, "office network for 10 PCs", details.Requirements)
	assert.Empty(t, details.Timeline)
	assert.Empty(t, details.Budget)
}

func TestParseQuote_OptionalFields(t *testing.T) {
	details, err := workflows.ParseQuote("Jane, new website, 2 weeks, $500, negotiable")

	require.NoError(t, err)
	assert.Equal(t, "2 weeks", details.Timeline)
	assert.Equal(t, "$500, negotiable", details.Budget)
}

func TestParseQuote_TooFewFields(t *testing.T) {
	_, err := workflows.ParseQuote("Jane Smith")

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestParseProductQuote_Success(t *testing.T) {
	details, err := workflows.ParseProductQuote("Acme Ltd, 25, ticket routing, WhatsApp and email, 1 month, $1000")

	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", details.Company)
	assert.Equal(t, "25", details.Users)
	assert.Equal(t, "ticket routing", details.Features)
	assert.Equal(t, "WhatsApp and email", details.Integrations)
	assert.Equal(t, "1 month", details.Timeline)
	assert.Equal(t, "$1000", details.Budget)
}

func TestParseProductQuote_TooFewFields(t *testing.T) {
	_, err := workflows.ParseProductQuote("Acme Ltd, 25")

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestParseDemo_Success(t *testing.T) {
	details, err := workflows.ParseDemo("John, Acme Ltd, 25/05/2026 2pm, 12 agents")

	require.NoError(t, err)
	assert.Equal(t, "John", details.Name)
	assert.Equal(t, "Acme Ltd", details.Company)
	assert.Equal(t, "25/05/2026 2pm", details.DateTime)
	assert.Equal(t, "12 agents", details.Users)
}

func TestParseDemo_EmptyFieldRejected(t *testing.T) {
	_, err := workflows.ParseDemo("John, , 25/05/2026 2pm")

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestParseDateTime_TwelveHourClock(t *testing.T) {
	ts, err := workflows.ParseDateTime("25/05/2026", "2:30 pm")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.May, 25, 14, 30, 0, 0, time.UTC), ts)
}

func TestParseDateTime_TwentyFourHourClock(t *testing.T) {
	ts, err := workflows.ParseDateTime("25/05/2026", "14:30")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.May, 25, 14, 30, 0, 0, time.UTC), ts)
}

func TestParseDateTime_InvalidTime(t *testing.T) {
	_, err := workflows.ParseDateTime("25/05/2026", "half past two")

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestNewReference_Format(t *testing.T) {
	ref := workflows.NewReference("PQ")

	// PQ-YYYYMMDD-XXXXXXXX
	require.Len(t, ref, 20)
	assert.Equal(t, "PQ-", ref[:3])
	assert.Equal(t, byte('-'), ref[11])
	assert.NotEqual(t, ref, workflows.NewReference("PQ"))
}
