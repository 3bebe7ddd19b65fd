package services

import (
	"context"
	"sort"
	"time"

	"portal/apperrors"
	"portal/models"
	"portal/repositories"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const (
	dashboardActivityLimit = 20
	dashboardRecentPerType = 5
	statsMonths            = 6
	topOpportunitiesLimit  = 10
)

type Activity struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Details   string    `json:"details"`
	Email     string    `json:"email,omitempty"`
	Applicant string    `json:"applicant,omitempty"`
	Status    string    `json:"status,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Bucket is a count for one period label, e.g. "2025-03" or "2025-03-14".
type Bucket struct {
	Period string `json:"period"`
	Count  int64  `json:"count"`
}

type DashboardStats struct {
	TotalUsers              int64                     `json:"totalUsers"`
	ActiveOpportunities     int64                     `json:"activeOpportunities"`
	TotalOpportunities      int64                     `json:"totalOpportunities"`
	InactiveOpportunities   int64                     `json:"inactiveOpportunities"`
	PendingApplications     int64                     `json:"pendingApplications"`
	TotalApplications       int64                     `json:"totalApplications"`
	TotalSubscribers        int64                     `json:"totalSubscribers"`
	ActiveSubscribers       int64                     `json:"activeSubscribers"`
	ApplicationsByStatus    map[models.Status]int64   `json:"applicationsByStatus"`
	OpportunitiesByCategory map[models.Category]int64 `json:"opportunitiesByCategory"`
	RecentActivity          []Activity                `json:"recentActivity"`
	MonthlyStats            MonthlyStats              `json:"monthlyStats"`
	SuccessRate             float64                   `json:"successRate"`
}

type MonthlyStats struct {
	Applications []Bucket `json:"applications"`
	Users        []Bucket `json:"users"`
}

type Analytics struct {
	Period             string                      `json:"period"`
	UserGrowth         []Bucket                    `json:"userGrowth"`
	ApplicationTrends  []Bucket                    `json:"applicationTrends"`
	TopOpportunities   []models.Opportunity        `json:"topOpportunities"`
	StatusDistribution []repositories.StatusCount  `json:"statusDistribution"`
	CategoryStats      []repositories.CategoryStat `json:"categoryStats"`
}

type BulkAction string

const (
	BulkActivate   BulkAction = "activate"
	BulkDeactivate BulkAction = "deactivate"
	BulkDelete     BulkAction = "delete"
)

type Admin struct {
	users         *repositories.Users
	opportunities *repositories.Opportunities
	applications  *repositories.Applications
	newsletters   *repositories.Newsletters
	counts        *CountCache
	now           func() time.Time
}

func NewAdmin(users *repositories.Users, opportunities *repositories.Opportunities,
	applications *repositories.Applications, newsletters *repositories.Newsletters, counts *CountCache) *Admin {
	return &Admin{
		users:         users,
		opportunities: opportunities,
		applications:  applications,
		newsletters:   newsletters,
		counts:        counts,
		now:           time.Now,
	}
}

func (s *Admin) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{ApplicationsByStatus: map[models.Status]int64{}}
	var err error

	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveOpportunities, err = s.opportunities.Count(ctx, true); err != nil {
		return nil, err
	}
	if stats.TotalOpportunities, err = s.opportunities.Count(ctx, false); err != nil {
		return nil, err
	}
	stats.InactiveOpportunities = stats.TotalOpportunities - stats.ActiveOpportunities
	if stats.TotalSubscribers, err = s.newsletters.Count(ctx, false); err != nil {
		return nil, err
	}
	if stats.ActiveSubscribers, err = s.newsletters.Count(ctx, true); err != nil {
		return nil, err
	}

	byStatus, err := s.applications.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, status := range models.Statuses {
		stats.ApplicationsByStatus[status] = 0
	}
	for _, row := range byStatus {
		stats.ApplicationsByStatus[row.Status] = row.Count
		stats.TotalApplications += row.Count
	}
	stats.PendingApplications = stats.ApplicationsByStatus[models.StatusPending]
	if stats.TotalApplications > 0 {
		rate := float64(stats.ApplicationsByStatus[models.StatusAccepted]) / float64(stats.TotalApplications) * 100
		stats.SuccessRate = float64(int(rate*10+0.5)) / 10
	}

	if stats.OpportunitiesByCategory, err = s.opportunities.CountByCategory(ctx); err != nil {
		return nil, err
	}
	if stats.RecentActivity, err = s.activity(ctx, dashboardRecentPerType, dashboardActivityLimit); err != nil {
		return nil, err
	}

	since := now.With(s.now().UTC()).BeginningOfMonth().AddDate(0, -(statsMonths - 1), 0)
	applicationDates, err := s.applications.SubmittedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	userDates, err := s.users.CreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	stats.MonthlyStats = MonthlyStats{
		Applications: monthlyBuckets(applicationDates, since, statsMonths),
		Users:        monthlyBuckets(userDates, since, statsMonths),
	}
	return stats, nil
}

// RecentActivity merges the latest users, applications and opportunities,
// newest first.
func (s *Admin) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	if limit < 1 {
		limit = dashboardActivityLimit
	}
	perType := limit / 3
	if perType < 1 {
		perType = 1
	}
	return s.activity(ctx, perType, limit)
}

func (s *Admin) activity(ctx context.Context, perType, limit int) ([]Activity, error) {
	users, err := s.users.Recent(ctx, perType)
	if err != nil {
		return nil, err
	}
	applications, err := s.applications.Recent(ctx, perType)
	if err != nil {
		return nil, err
	}
	opportunities, err := s.opportunities.Recent(ctx, perType)
	if err != nil {
		return nil, err
	}

	activity := make([]Activity, 0, len(users)+len(applications)+len(opportunities))
	for _, user := range users {
		activity = append(activity, Activity{
			Type:      "user",
			Message:   "New user registered",
			Details:   user.FullName(),
			Email:     user.Email,
			Timestamp: user.CreatedAt,
		})
	}
	for _, application := range applications {
		item := Activity{
			Type:      "application",
			Message:   "Application submitted",
			Status:    string(application.Status),
			Timestamp: application.ApplicationDate,
		}
		if application.Opportunity != nil {
			item.Details = application.Opportunity.Title
		}
		if application.Applicant != nil {
			item.Applicant = application.Applicant.FullName()
		}
		activity = append(activity, item)
	}
	for _, opportunity := range opportunities {
		activity = append(activity, Activity{
			Type:      "opportunity",
			Message:   "New opportunity added",
			Details:   opportunity.Title,
			Provider:  opportunity.Provider,
			Timestamp: opportunity.CreatedAt,
		})
	}

	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].Timestamp.After(activity[j].Timestamp)
	})
	if len(activity) > limit {
		activity = activity[:limit]
	}
	return activity, nil
}

// BulkOpportunities applies action to every id and returns the number of
// opportunities affected.
func (s *Admin) BulkOpportunities(ctx context.Context, ids []uuid.UUID, action BulkAction) (int64, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return 0, apperrors.Validation("Please provide opportunity IDs", map[string]string{"opportunityIds": "is required"})
	}

	var (
		affected int64
		err      error
	)
	switch action {
	case BulkActivate:
		affected, err = s.opportunities.SetActive(ctx, ids, true)
	case BulkDeactivate:
		affected, err = s.opportunities.SetActive(ctx, ids, false)
	case BulkDelete:
		affected, err = s.opportunities.DeleteMany(ctx, ids)
		s.counts.Invalidate(ids...)
	default:
		return 0, apperrors.Validation("Invalid action", map[string]string{"action": "must be activate, deactivate or delete"})
	}
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{"action": action, "affected": affected}).Info("Bulk opportunity operation completed")
	return affected, nil
}

// periodStart maps an analytics period to the start of its window.
func periodStart(period string, at time.Time) (time.Time, error) {
	day := now.With(at).BeginningOfDay()
	switch period {
	case "7d":
		return day.AddDate(0, 0, -7), nil
	case "30d", "":
		return day.AddDate(0, 0, -30), nil
	case "90d":
		return day.AddDate(0, 0, -90), nil
	case "1y":
		return day.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, apperrors.Validation("Invalid period", map[string]string{"period": "must be 7d, 30d, 90d or 1y"})
	}
}

func (s *Admin) Analytics(ctx context.Context, period string) (*Analytics, error) {
	start, err := periodStart(period, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = "30d"
	}

	userDates, err := s.users.CreatedSince(ctx, start)
	if err != nil {
		return nil, err
	}
	applicationDates, err := s.applications.SubmittedSince(ctx, start)
	if err != nil {
		return nil, err
	}
	top, err := s.opportunities.TopByApplications(ctx, topOpportunitiesLimit)
	if err != nil {
		return nil, err
	}
	distribution, err := s.applications.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.opportunities.CategoryStats(ctx)
	if err != nil {
		return nil, err
	}

	return &Analytics{
		Period:             period,
		UserGrowth:         dailyBuckets(userDates),
		ApplicationTrends:  dailyBuckets(applicationDates),
		TopOpportunities:   top,
		StatusDistribution: distribution,
		CategoryStats:      categories,
	}, nil
}

// monthlyBuckets counts dates per calendar month, emitting every month of
// the window including empty ones.
func monthlyBuckets(dates []time.Time, start time.Time, months int) []Bucket {
	counts := lo.CountValuesBy(dates, func(t time.Time) string {
		return now.With(t.UTC()).BeginningOfMonth().Format("2006-01")
	})
	buckets := make([]Bucket, 0, months)
	for i := 0; i < months; i++ {
		label := start.AddDate(0, i, 0).Format("2006-01")
		buckets = append(buckets, Bucket{Period: label, Count: int64(counts[label])})
	}
	return buckets
}

// dailyBuckets counts dates per UTC day, only for days that have any.
func dailyBuckets(dates []time.Time) []Bucket {
	counts := lo.CountValuesBy(dates, func(t time.Time) string {
		return now.With(t.UTC()).BeginningOfDay().Format("2006-01-02")
	})
	buckets := lo.MapToSlice(counts, func(label string, count int) Bucket {
		return Bucket{Period: label, Count: int64(count)}
	})
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Period < buckets[j].Period })
	return buckets
}

