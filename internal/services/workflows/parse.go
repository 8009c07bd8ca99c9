// Package workflows parses and validates the comma-separated detail
// messages users send during booking, quotation and demo flows.
//
// Detail messages are positional: "Name, 25/05/2025, 10:00 AM, Laptop
// repair". Fields are split on commas, trimmed, and validated strictly. A
// date or time that fails to parse rejects the whole message rather than
// being stored as an opaque string.
package workflows

import (
	"fmt"
	"strings"
	"time"

	"github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/domain/models"
)

// Minimum positional field counts per flow.
const (
	MinBookingFields      = 4
	MinQuoteFields        = 2
	MinProductQuoteFields = 3
	MinDemoFields         = 3
)

// Accepted layouts for booking dates and times.
const (
	DateLayout     = "02/01/2006"
	TimeLayout12Hr = "3:04 PM"
	TimeLayout24Hr = "15:04"
)

// splitFields splits a detail message on commas and trims each field.
// Empty fields are kept so positions stay stable.
func splitFields(input string) []string {
	parts := strings.Split(input, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// ParseBooking parses a booking detail message. Expected fields, in order:
// name, date, time, service description.
func ParseBooking(input string, now time.Time) (*models.BookingDetails, error) {
	fields := splitFields(input)
	if len(fields) < MinBookingFields {
		return nil, errors.NewValidationError(
			"booking needs name, date, time and service description",
			fmt.Sprintf("expected %d fields, received %d", MinBookingFields, len(fields)),
		)
	}

	name, date, timeOfDay := fields[0], fields[1], fields[2]
	description := strings.Join(fields[3:], ", ")
	if name == "" || description == "" {
		return nil, errors.NewValidationError("name and service description cannot be empty", "")
	}

	startsAt, err := ParseDateTime(date, timeOfDay)
	if err != nil {
		return nil, err
	}
	if !startsAt.After(now) {
		return nil, errors.NewValidationError(
			"booking date must be in the future",
			fmt.Sprintf("%s %s", date, timeOfDay),
		)
	}

	return &models.BookingDetails{
		Name:        name,
		Date:        date,
		Time:        timeOfDay,
		Description: description,
		StartsAt:    startsAt,
	}, nil
}

// ParseQuote parses a service quotation detail message. Expected fields, in
// order: name, requirements, then optional timeline and budget.
func ParseQuote(input string) (*models.QuoteDetails, error) {
	fields := splitFields(input)
	if len(fields) < MinQuoteFields {
		return nil, errors.NewValidationError(
			"quotation needs at least your name and requirements",
			fmt.Sprintf("expected %d fields, received %d", MinQuoteFields, len(fields)),
		)
	}

	details := &models.QuoteDetails{
		Name:         fields[0],
		Requirements: fields[1],
	}
	if details.Name == "" || details.Requirements == "" {
		return nil, errors.NewValidationError("name and requirements cannot be empty", "")
	}
	if len(fields) > 2 {
		details.Timeline = fields[2]
	}
	if len(fields) > 3 {
		details.Budget = strings.Join(fields[3:], ", ")
	}
	return details, nil
}

// ParseProductQuote parses a product quotation detail message. Expected
// fields, in order: company, number of users, required features, then
// optional integrations, timeline and budget.
func ParseProductQuote(input string) (*models.ProductQuoteDetails, error) {
	fields := splitFields(input)
	if len(fields) < MinProductQuoteFields {
		return nil, errors.NewValidationError(
			"product quotation needs company, number of users and required features",
			fmt.Sprintf("expected %d fields, received %d", MinProductQuoteFields, len(fields)),
		)
	}

	details := &models.ProductQuoteDetails{
		Company:  fields[0],
		Users:    fields[1],
		Features: fields[2],
	}
	if details.Company == "" || details.Users == "" || details.Features == "" {
		return nil, errors.NewValidationError("company, users and features cannot be empty", "")
	}
	if len(fields) > 3 {
		details.Integrations = fields[3]
	}
	if len(fields) > 4 {
		details.Timeline = fields[4]
	}
	if len(fields) > 5 {
		details.Budget = strings.Join(fields[5:], ", ")
	}
	return details, nil
}

// ParseDemo parses a demo request detail message. Expected fields, in
// order: name, company, preferred date/time, then optional team size.
func ParseDemo(input string) (*models.DemoDetails, error) {
	fields := splitFields(input)
	if len(fields) < MinDemoFields {
		return nil, errors.NewValidationError(
			"demo request needs name, company and a preferred date and time",
			fmt.Sprintf("expected %d fields, received %d", MinDemoFields, len(fields)),
		)
	}

	details := &models.DemoDetails{
		Name:     fields[0],
		Company:  fields[1],
		DateTime: fields[2],
	}
	if details.Name == "" || details.Company == "" || details.DateTime == "" {
		return nil, errors.NewValidationError("name, company and date/time cannot be empty", "")
	}
	if len(fields) > 3 {
		details.Users = strings.Join(fields[3:], ", ")
	}
	return details, nil
}

// ParseDateTime parses a date and a time of day into a single timestamp.
// Dates must be DD/MM/YYYY; times may be 12-hour ("10:00 AM") or 24-hour
// ("14:30").
func ParseDateTime(date, timeOfDay string) (time.Time, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, errors.NewValidationError(
			fmt.Sprintf("could not understand the date %q, please use DD/MM/YYYY", date),
			date,
		)
	}

	clock, err := time.Parse(TimeLayout12Hr, strings.ToUpper(timeOfDay))
	if err != nil {
		clock, err = time.Parse(TimeLayout24Hr, timeOfDay)
		if err != nil {
			return time.Time{}, errors.NewValidationError(
				fmt.Sprintf("could not understand the time %q, please use HH:MM or HH:MM AM/PM", timeOfDay),
				timeOfDay,
			)
		}
	}

	return time.Date(
		day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0,
		time.UTC,
	), nil
}
