package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"portal/apperrors"
	"portal/models"

	"github.com/samber/lo"
)

type ExportType string

const (
	ExportUsers         ExportType = "users"
	ExportApplications  ExportType = "applications"
	ExportOpportunities ExportType = "opportunities"
	ExportNewsletter    ExportType = "newsletter"
)

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportFilename names an export file, e.g. users_export_1700000000000.csv.
func ExportFilename(kind ExportType, at time.Time) string {
	return fmt.Sprintf("%s_export_%d.csv", kind, at.UnixMilli())
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// Export renders one collection as CSV with a header row.
func (s *Admin) Export(ctx context.Context, kind ExportType) (*ExportFile, error) {
	var (
		header []string
		rows   [][]string
	)

	switch kind {
	case ExportUsers:
		users, err := s.users.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		header = []string{"ID", "First Name", "Last Name", "Email", "Phone", "Date of Birth", "Gender", "Race", "Created At"}
		rows = lo.Map(users, func(u models.User, _ int) []string {
			dob := ""
			if u.DateOfBirth != nil {
				dob = u.DateOfBirth.UTC().Format("2006-01-02")
			}
			return []string{u.ID.String(), u.FirstName, u.LastName, u.Email, u.Phone, dob, u.Gender, u.Race, formatTime(u.CreatedAt)}
		})
	case ExportApplications:
		applications, err := s.applications.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		header = []string{"ID", "Applicant Name", "Applicant Email", "Opportunity", "Provider", "Category", "Status", "Application Date"}
		rows = lo.Map(applications, func(a models.Application, _ int) []string {
			var name, email, title, provider, category string
			if a.Applicant != nil {
				name, email = a.Applicant.FullName(), a.Applicant.Email
			}
			if a.Opportunity != nil {
				title, provider, category = a.Opportunity.Title, a.Opportunity.Provider, string(a.Opportunity.Category)
			}
			return []string{a.ID.String(), name, email, title, provider, category, string(a.Status), formatTime(a.ApplicationDate)}
		})
	case ExportOpportunities:
		opportunities, err := s.opportunities.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		header = []string{"ID", "Title", "Provider", "Category", "Field", "Location", "Deadline", "Applications", "Views", "Active", "Created At"}
		rows = lo.Map(opportunities, func(o models.Opportunity, _ int) []string {
			return []string{
				o.ID.String(), o.Title, o.Provider, string(o.Category), o.Field, o.Location,
				formatTime(o.ApplicationDeadline),
				strconv.FormatInt(o.ApplicationsCount, 10),
				strconv.FormatInt(o.Views, 10),
				yesNo(o.IsActive),
				formatTime(o.CreatedAt),
			}
		})
	case ExportNewsletter:
		subscriptions, err := s.newsletters.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		header = []string{"Email", "Subscribed", "Subscribed At"}
		rows = lo.Map(subscriptions, func(n models.Newsletter, _ int) []string {
			return []string{n.Email, yesNo(n.IsSubscribed), formatTime(n.SubscribedAt)}
		})
	default:
		return nil, apperrors.Validation("Invalid export type", map[string]string{
			"type": "must be users, applications, opportunities or newsletter",
		})
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return nil, apperrors.Internal("write csv header", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return nil, apperrors.Internal("write csv rows", err)
	}

	return &ExportFile{
		Filename:    ExportFilename(kind, s.now()),
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}
