package report

import (
	"context"
	"time"

	"github.com/gestor/backend/internal/domain/identity"
	"github.com/gestor/backend/internal/domain/ledger"
	"github.com/gestor/backend/internal/domain/report"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Report kinds, used for logging and metrics
const (
	KindRevenueAnalysis  = "revenue_analysis"
	KindDRE              = "dre"
	KindFinancialSummary = "financial_summary"
	KindConsolidated     = "consolidated"
)

// salesByMonthSpan is the number of trailing months in the financial summary chart
const salesByMonthSpan = 6

// ErrTenantRequired is returned when a single-tenant report is requested without a tenant
var ErrTenantRequired = shared.NewDomainError("VALIDATION_ERROR", "tenant_id is required")

// Recorder receives one observation per generated report
type Recorder interface {
	RecordReport(ctx context.Context, kind string, consolidated bool, buckets int, duration time.Duration, err error)
}

type noopRecorder struct{}

func (noopRecorder) RecordReport(context.Context, string, bool, int, time.Duration, error) {}

// ReportService provides application-level report operations
type ReportService struct {
	ledger      report.LedgerReader
	tenants     ledger.TenantRepository
	resolver    *report.ScopeResolver
	recorder    Recorder
	logger      *zap.Logger
	now         func() time.Time
	location    *time.Location
	maxParallel int
	maxMonths   int
}

// Option configures a ReportService
type Option func(*ReportService)

// WithClock sets the source of "now" used for trailing periods
func WithClock(now func() time.Time) Option {
	return func(s *ReportService) {
		s.now = now
	}
}

// WithLocation sets the timezone of report dates
func WithLocation(loc *time.Location) Option {
	return func(s *ReportService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithMaxParallel bounds concurrent aggregate queries per request
func WithMaxParallel(n int) Option {
	return func(s *ReportService) {
		if n > 0 {
			s.maxParallel = n
		}
	}
}

// WithMaxMonths bounds the number of monthly buckets a report may span
func WithMaxMonths(n int) Option {
	return func(s *ReportService) {
		if n > 0 {
			s.maxMonths = n
		}
	}
}

// WithRecorder sets the report metrics recorder
func WithRecorder(r Recorder) Option {
	return func(s *ReportService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *ReportService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewReportService creates a new ReportService
func NewReportService(ledgerReader report.LedgerReader, tenants ledger.TenantRepository, opts ...Option) *ReportService {
	s := &ReportService{
		ledger:      ledgerReader,
		tenants:     tenants,
		resolver:    report.NewScopeResolver(tenants),
		recorder:    noopRecorder{},
		logger:      zap.NewNop(),
		now:         time.Now,
		location:    time.UTC,
		maxParallel: 8,
		maxMonths:   report.DefaultMaxMonths,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ===================== KPI revenue analysis =====================

// GetRevenueAnalysis returns the monthly sales KPI report. Sales of every status count.
func (s *ReportService) GetRevenueAnalysis(ctx context.Context, caller identity.Caller, filter ReportFilter) (resp *RevenueAnalysisResponse, err error) {
	req, buckets, scope, err := s.prepare(ctx, caller, filter)
	if err != nil {
		return nil, err
	}
	defer s.observe(ctx, KindRevenueAnalysis, scope, len(buckets), time.Now(), &err)

	sales := make([]report.SalesAggregate, len(buckets))
	g, gctx := s.group(ctx)
	for i, b := range buckets {
		f := report.BucketFilter(scope, b)
		g.Go(func() error {
			agg, err := s.ledger.SumSales(gctx, f)
			sales[i] = agg
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := report.ComposeKPI(req.Bounds(buckets), scope, buckets, sales)
	return toRevenueAnalysisResponse(rep), nil
}

// ===================== DRE =====================

// GetDRE returns the monthly income statement built from paid sales,
// received revenues and paid expenses.
func (s *ReportService) GetDRE(ctx context.Context, caller identity.Caller, filter ReportFilter) (resp *DREResponse, err error) {
	req, buckets, scope, err := s.prepare(ctx, caller, filter)
	if err != nil {
		return nil, err
	}
	defer s.observe(ctx, KindDRE, scope, len(buckets), time.Now(), &err)

	inputs := make([]report.DREInput, len(buckets))
	g, gctx := s.group(ctx)
	for i, b := range buckets {
		f := report.BucketFilter(scope, b)
		in := &inputs[i]
		g.Go(func() (err error) {
			in.Sales, err = s.ledger.SumSales(gctx, f, ledger.SaleStatusPaid)
			return err
		})
		g.Go(func() error {
			rev, err := s.ledger.SumRevenues(gctx, f, ledger.RevenueStatusReceived)
			in.OtherRevenue = rev.Amount
			return err
		})
		g.Go(func() error {
			exp, err := s.ledger.SumExpenses(gctx, f, ledger.ExpenseStatusPaid)
			in.Expenses = exp.Amount
			return err
		})
		g.Go(func() (err error) {
			in.ExpenseByCategory, err = s.ledger.ExpensesByCategory(gctx, f, ledger.ExpenseStatusPaid)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := report.ComposeDRE(req.Bounds(buckets), scope, buckets, inputs)
	return toDREResponse(rep), nil
}

// ===================== Financial summary =====================

// GetFinancialSummary returns settled and pending totals of one tenant.
// Without dates the totals cover all time.
func (s *ReportService) GetFinancialSummary(ctx context.Context, caller identity.Caller, filter ReportFilter) (resp *FinancialSummaryResponse, err error) {
	period, err := s.optionalPeriod(filter)
	if err != nil {
		return nil, err
	}
	scope, err := s.resolve(ctx, caller, filter)
	if err != nil {
		return nil, err
	}
	if scope.Consolidated {
		return nil, ErrTenantRequired
	}
	tenant, err := s.tenants.FindByID(ctx, *scope.TenantID)
	if err != nil {
		return nil, err
	}

	trailing, err := report.TrailingMonths(s.now().In(s.location), salesByMonthSpan)
	if err != nil {
		return nil, err
	}
	defer s.observe(ctx, KindFinancialSummary, scope, len(trailing), time.Now(), &err)

	f := rangeFilter(scope, period)
	summary := report.FinancialSummary{
		Tenant:       *tenant,
		Period:       period,
		SalesByMonth: make([]report.MonthlyTotal, len(trailing)),
	}

	g, gctx := s.group(ctx)
	g.Go(func() error {
		paid, err := s.ledger.SumExpenses(gctx, f, ledger.ExpenseStatusPaid)
		summary.ExpensesPaid = paid.Amount
		return err
	})
	g.Go(func() error {
		pending, err := s.ledger.SumExpenses(gctx, f, ledger.ExpenseStatusPending)
		summary.ExpensesPending, summary.PendingExpenseCount = pending.Amount, pending.Count
		return err
	})
	g.Go(func() error {
		paid, err := s.ledger.SumSales(gctx, f, ledger.SaleStatusPaid)
		summary.SalesPaid = paid.Gross
		return err
	})
	g.Go(func() error {
		pending, err := s.ledger.SumSales(gctx, f, ledger.SaleStatusPending)
		summary.SalesPending = pending.Gross
		return err
	})
	g.Go(func() error {
		received, err := s.ledger.SumRevenues(gctx, f, ledger.RevenueStatusReceived)
		summary.RevenuesReceived = received.Amount
		return err
	})
	g.Go(func() error {
		expected, err := s.ledger.SumRevenues(gctx, f, ledger.RevenueStatusExpected)
		summary.RevenuesPending = expected.Amount
		return err
	})
	g.Go(func() (err error) {
		summary.ExpensesByCategory, err = s.ledger.ExpensesByCategory(gctx, f, ledger.ExpenseStatusPaid)
		return err
	})
	for i, b := range trailing {
		bf := report.BucketFilter(scope, b)
		g.Go(func() error {
			paid, err := s.ledger.SumSales(gctx, bf, ledger.SaleStatusPaid)
			summary.SalesByMonth[i] = report.MonthlyTotal{Bucket: b, Total: paid.Gross}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return toFinancialSummaryResponse(summary), nil
}

// ===================== Consolidated overview =====================

// GetConsolidatedOverview returns one row per active tenant with grand totals.
// Only chief admins may request it.
func (s *ReportService) GetConsolidatedOverview(ctx context.Context, caller identity.Caller, filter ReportFilter) (resp *ConsolidatedOverviewResponse, err error) {
	if !caller.IsChiefAdmin() {
		logger.L(ctx).Warn("consolidated overview denied", zap.String("role", caller.Role.String()))
		return nil, shared.ErrForbidden
	}
	period, err := s.optionalPeriod(filter)
	if err != nil {
		return nil, err
	}

	scope := report.AllActiveTenants()
	defer s.observe(ctx, KindConsolidated, scope, 0, time.Now(), &err)

	tenants, err := s.tenants.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(tenants))
	for _, t := range tenants {
		ids = append(ids, t.ID)
	}

	f := rangeFilter(scope, period)
	var in report.OverviewInput
	g, gctx := s.group(ctx)
	g.Go(func() (err error) {
		in.Users, err = s.tenants.CountActiveUsers(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		in.Sales, err = s.ledger.SumSalesByTenant(gctx, f, ledger.SaleStatusPaid)
		return err
	})
	g.Go(func() (err error) {
		in.Revenues, err = s.ledger.SumRevenuesByTenant(gctx, f, ledger.RevenueStatusReceived)
		return err
	})
	g.Go(func() (err error) {
		in.Expenses, err = s.ledger.SumExpensesByTenant(gctx, f, ledger.ExpenseStatusPaid)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return toConsolidatedOverviewResponse(report.ComposeOverview(period, tenants, in)), nil
}

// ===================== helpers =====================

// prepare validates the period before resolving the scope, so malformed
// input never reaches the store.
func (s *ReportService) prepare(ctx context.Context, caller identity.Caller, filter ReportFilter) (report.PeriodRequest, []report.Bucket, report.Scope, error) {
	req, err := s.periodRequest(filter)
	if err != nil {
		return req, nil, report.Scope{}, err
	}
	buckets, err := req.Resolve(s.now().In(s.location))
	if err != nil {
		return req, nil, report.Scope{}, err
	}
	scope, err := s.resolve(ctx, caller, filter)
	if err != nil {
		return req, nil, report.Scope{}, err
	}
	return req, buckets, scope, nil
}

func (s *ReportService) resolve(ctx context.Context, caller identity.Caller, filter ReportFilter) (report.Scope, error) {
	scope, err := s.resolver.Resolve(ctx, caller, report.ParseTenantSelector(filter.TenantID))
	if err != nil {
		logger.L(ctx).Warn("report scope rejected",
			zap.String("role", caller.Role.String()),
			zap.String("tenant_selector", filter.TenantID),
			zap.Error(err),
		)
		return report.Scope{}, err
	}
	return scope, nil
}

func (s *ReportService) periodRequest(filter ReportFilter) (report.PeriodRequest, error) {
	start, err := parseDate(filter.StartDate, s.location)
	if err != nil {
		return report.PeriodRequest{}, report.ErrInvalidPeriod
	}
	end, err := parseDate(filter.EndDate, s.location)
	if err != nil {
		return report.PeriodRequest{}, report.ErrInvalidPeriod
	}
	if filter.Months < 0 {
		return report.PeriodRequest{}, report.ErrInvalidMonths
	}
	return report.PeriodRequest{StartDate: start, EndDate: end, Months: filter.Months, MaxMonths: s.maxMonths}, nil
}

// optionalPeriod returns nil when no dates were given
func (s *ReportService) optionalPeriod(filter ReportFilter) (*report.Period, error) {
	req, err := s.periodRequest(filter)
	if err != nil {
		return nil, err
	}
	switch {
	case req.HasRange():
		if req.EndDate.Before(*req.StartDate) {
			return nil, report.ErrInvalidPeriod
		}
		return &report.Period{Start: *req.StartDate, End: *req.EndDate}, nil
	case req.StartDate != nil || req.EndDate != nil:
		return nil, report.ErrInvalidPeriod
	default:
		return nil, nil
	}
}

// rangeFilter turns an inclusive date period into a half-open filter
func rangeFilter(scope report.Scope, period *report.Period) report.AggregateFilter {
	f := report.AggregateFilter{Scope: scope}
	if period != nil {
		f.From = period.Start
		f.To = period.End.AddDate(0, 0, 1)
	}
	return f
}

func (s *ReportService) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	return g, gctx
}

func (s *ReportService) observe(ctx context.Context, kind string, scope report.Scope, buckets int, started time.Time, errp *error) {
	elapsed := time.Since(started)
	err := *errp
	s.recorder.RecordReport(ctx, kind, scope.Consolidated, buckets, elapsed, err)

	fields := []zap.Field{
		zap.String("report", kind),
		zap.Bool("consolidated", scope.Consolidated),
		zap.Int("buckets", buckets),
		zap.Duration("elapsed", elapsed),
	}
	if scope.TenantID != nil {
		fields = append(fields, zap.Int64("scope_tenant_id", *scope.TenantID))
	}
	if err != nil {
		s.logger.Error("report generation failed", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Debug("report generated", fields...)
}
