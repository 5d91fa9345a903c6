// Package businessflow contains the core business logic and use cases for payout workflows
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/recordflow/allocation-ledger/app/dto"
	"github.com/recordflow/allocation-ledger/config"
	"github.com/recordflow/allocation-ledger/models"
	"github.com/recordflow/allocation-ledger/repository"
	"github.com/recordflow/allocation-ledger/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// PayoutFlow computes and exports per-resource payout reports
type PayoutFlow interface {
	ComputePayout(ctx context.Context, req *dto.ComputePayoutRequest, metadata *ClientMetadata) (*dto.ComputePayoutResponse, error)
	ExportPayout(ctx context.Context, req *dto.ComputePayoutRequest, metadata *ClientMetadata) (string, []byte, error)
}

// PayoutFlowImpl implements the payout business flow. Reports read a ledger
// snapshot and are cached in Redis; mutations never go through this flow.
type PayoutFlowImpl struct {
	entryRepo   repository.AllocationEntryRepository
	processRepo repository.ProcessRepository
	actionRepo  repository.ActionLogRepository
	payoutCfg   models.PayoutConfig
	hoursPerDay int
	cacheConfig *config.CacheConfig
	rc          *redis.Client
}

// NewPayoutFlow creates a new payout flow instance
func NewPayoutFlow(
	entryRepo repository.AllocationEntryRepository,
	processRepo repository.ProcessRepository,
	actionRepo repository.ActionLogRepository,
	payoutCfg models.PayoutConfig,
	hoursPerDay int,
	cacheConfig *config.CacheConfig,
	rc *redis.Client,
) PayoutFlow {
	return &PayoutFlowImpl{
		entryRepo:   entryRepo,
		processRepo: processRepo,
		actionRepo:  actionRepo,
		payoutCfg:   payoutCfg,
		hoursPerDay: hoursPerDay,
		cacheConfig: cacheConfig,
		rc:          rc,
	}
}

// redisKey derives the namespaced cache key for the configured environment
func redisKey(cfg config.CacheConfig, key string) string {
	if cfg.RedisPrefix == "" {
		return key
	}
	return cfg.RedisPrefix + ":" + key
}

// ComputePayout builds the payout report for one client over a date window.
// The report is served from cache when present; refresh recomputes from the
// ledger and replaces the cached copy.
func (s *PayoutFlowImpl) ComputePayout(ctx context.Context, req *dto.ComputePayoutRequest, metadata *ClientMetadata) (*dto.ComputePayoutResponse, error) {
	profile, from, to, err := s.validatePayoutRequest(req)
	if err != nil {
		return nil, NewBusinessError("PAYOUT_VALIDATION_FAILED", "Payout validation failed", err)
	}

	cacheKey := s.reportCacheKey(profile.Client, req)

	// Try cache first
	if !req.Refresh && s.cacheReady() {
		if bs, err := s.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var out dto.ComputePayoutResponse
			if err := json.Unmarshal(bs, &out); err == nil {
				out.Message = "Payout report retrieved from cache"
				out.FromCache = true
				return &out, nil
			}
		}
	}

	entries, err := s.entryRepo.ListForPayout(ctx, profile.Client, from, to)
	if err != nil {
		return nil, NewBusinessError("PAYOUT_SNAPSHOT_FAILED", "Failed to load ledger snapshot", err)
	}
	if req.ResourceID != nil {
		scoped := make([]*models.AllocationEntry, 0, len(entries))
		for _, entry := range entries {
			if entry.ResourceID == *req.ResourceID {
				scoped = append(scoped, entry)
			}
		}
		entries = scoped
	}

	processes, err := s.processRepo.ListByClient(ctx, profile.Client)
	if err != nil {
		return nil, NewBusinessError("PAYOUT_SNAPSHOT_FAILED", "Failed to load process catalog", err)
	}
	catalog := models.BuildProcessCatalog(processes)

	now := utils.UTCNow()
	days := models.WorkingDaysConfig{
		HoursPerDay: s.hoursPerDay,
		PeriodStart: from,
		PeriodEnd:   to,
		Today:       &now,
	}

	results, err := ComputePayout(entries, catalog, s.payoutCfg, days)
	if err != nil {
		return nil, NewBusinessError("PAYOUT_COMPUTATION_FAILED", "Payout computation failed", err)
	}

	resp := &dto.ComputePayoutResponse{
		Message:     "Payout report computed successfully",
		ClientType:  profile.Client.String(),
		PeriodStart: from.Format(allocationDateLayout),
		PeriodEnd:   to.Format(allocationDateLayout),
		ComputedAt:  now.Format(time.RFC3339),
		Results:     toPayoutResultDTOs(results),
		Totals:      buildPayoutTotals(results),
	}

	// Cache the report
	if s.cacheReady() {
		if bs, err := json.Marshal(resp); err == nil {
			_ = s.rc.Set(ctx, cacheKey, bs, s.cacheConfig.DefaultTTL).Err()
		}
	}

	msg := fmt.Sprintf("Payout computed for %s %s..%s (%d resources)",
		profile.Client, resp.PeriodStart, resp.PeriodEnd, len(resp.Results))
	_ = createActionLog(ctx, s.actionRepo, actorRef{ID: req.AdminID, Name: req.AdminName, Role: "admin"},
		models.ActionPayoutComputed, msg, true, nil, &profile.Client, nil, metadata)

	return resp, nil
}

// ExportPayout renders the payout report as an XLSX workbook. The report
// itself goes through ComputePayout, so exports and API reads always agree.
func (s *PayoutFlowImpl) ExportPayout(ctx context.Context, req *dto.ComputePayoutRequest, metadata *ClientMetadata) (string, []byte, error) {
	report, err := s.ComputePayout(ctx, req, metadata)
	if err != nil {
		return "", nil, err
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := sanitizeSheetName(fmt.Sprintf("%s %s", report.ClientType, report.PeriodStart))
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{
		"resource_id", "resource_name", "weekday_days_worked", "total_hours",
		"logging_cases", "processing_cases", "complete_logging_cases",
		"avg_cases_per_hour", "slab_rate", "basic_payout", "bonus",
		"total_payout", "billed_amount",
	}
	var targets []float64
	if len(report.Results) > 0 {
		for _, progress := range report.Results[0].ToAchieve {
			targets = append(targets, progress.Target)
			header = append(header, fmt.Sprintf("to_achieve_%s", strconv.FormatFloat(progress.Target, 'f', -1, 64)))
		}
	}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, row := range report.Results {
		record := []string{
			strconv.FormatUint(uint64(row.ResourceID), 10),
			row.ResourceName,
			strconv.Itoa(row.WeekdayDaysWorked),
			strconv.FormatFloat(row.TotalHours, 'f', -1, 64),
			strconv.Itoa(row.LoggingCases),
			strconv.Itoa(row.ProcessingCases),
			strconv.Itoa(row.CompleteLoggingCases),
			strconv.FormatFloat(row.AvgCasesPerHour, 'f', 4, 64),
			row.SlabRate.String(),
			row.BasicPayout.String(),
			row.Bonus.String(),
			row.TotalPayout.String(),
			row.BilledAmount.String(),
		}
		for _, target := range targets {
			needed := ""
			for _, progress := range row.ToAchieve {
				if progress.Target == target {
					needed = strconv.Itoa(progress.CasesNeeded)
					break
				}
			}
			record = append(record, needed)
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	// Totals row
	totalsRef, _ := excelize.CoordinatesToCellName(1, len(report.Results)+3)
	totals := []string{
		"totals",
		strconv.Itoa(report.Totals.Resources) + " resources",
		"", "",
		strconv.Itoa(report.Totals.LoggingCases),
		strconv.Itoa(report.Totals.ProcessingCases),
		"", "", "", "", "",
		report.Totals.TotalPayout.String(),
		report.Totals.BilledAmount.String(),
	}
	_ = xl.SetSheetRow(sheet, totalsRef, &totals)

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("payout_%s_%s_to_%s.xlsx", report.ClientType, report.PeriodStart, report.PeriodEnd)

	msg := fmt.Sprintf("Payout exported: %s", filename)
	clientType := models.ClientType(report.ClientType)
	_ = createActionLog(ctx, s.actionRepo, actorRef{ID: req.AdminID, Name: req.AdminName, Role: "admin"},
		models.ActionPayoutExported, msg, true, nil, &clientType, nil, metadata)

	return filename, buf.Bytes(), nil
}

// validatePayoutRequest resolves the client profile and the date window
func (s *PayoutFlowImpl) validatePayoutRequest(req *dto.ComputePayoutRequest) (*models.ClientProfile, time.Time, time.Time, error) {
	profile, ok := models.ProfileFor(models.ClientType(req.ClientType))
	if !ok {
		return nil, time.Time{}, time.Time{}, ErrInvalidClientType
	}

	from, err := time.Parse(allocationDateLayout, req.PeriodStart)
	if err != nil {
		return nil, time.Time{}, time.Time{}, ErrInvalidAllocationDate
	}
	to, err := time.Parse(allocationDateLayout, req.PeriodEnd)
	if err != nil {
		return nil, time.Time{}, time.Time{}, ErrInvalidAllocationDate
	}

	from = utils.DateOnly(from)
	to = utils.DateOnly(to)
	if from.After(to) {
		return nil, time.Time{}, time.Time{}, ErrStartDateAfterEndDate
	}

	return profile, from, to, nil
}

// reportCacheKey scopes the cached report by client, window, and resource
func (s *PayoutFlowImpl) reportCacheKey(clientType models.ClientType, req *dto.ComputePayoutRequest) string {
	key := fmt.Sprintf("%s:%s:%s:%s", utils.PayoutReportCacheKey, clientType, req.PeriodStart, req.PeriodEnd)
	if req.ResourceID != nil {
		key = fmt.Sprintf("%s:resource:%d", key, *req.ResourceID)
	}
	if s.cacheConfig == nil {
		return key
	}
	return redisKey(*s.cacheConfig, key)
}

func (s *PayoutFlowImpl) cacheReady() bool {
	return s.rc != nil && s.cacheConfig != nil && s.cacheConfig.Enabled
}

func toPayoutResultDTOs(results []models.PerResourceResult) []dto.PayoutResultDTO {
	out := make([]dto.PayoutResultDTO, 0, len(results))
	for _, r := range results {
		item := dto.PayoutResultDTO{
			ResourceID:           r.ResourceID,
			ResourceName:         r.ResourceName,
			WeekdayDaysWorked:    r.WeekdayDaysWorked,
			TotalHours:           float64(r.TotalHours),
			LoggingCases:         r.LoggingCases,
			ProcessingCases:      r.ProcessingCases,
			CompleteLoggingCases: r.CompleteLoggingCases,
			AvgCasesPerHour:      r.AvgCasesPerHour,
			SlabRate:             r.SlabRate,
			BasicPayout:          r.BasicPayout,
			Bonus:                r.Bonus,
			TotalPayout:          r.TotalPayout,
			BilledAmount:         r.BilledAmount,
			WorkingDaysRemaining: r.WorkingDaysRemaining,
		}
		item.ToAchieve = make([]dto.TargetProgressDTO, 0, len(r.ToAchieve))
		for _, progress := range r.ToAchieve {
			item.ToAchieve = append(item.ToAchieve, dto.TargetProgressDTO{
				Target:      progress.Target,
				CasesNeeded: progress.CasesNeeded,
			})
		}
		out = append(out, item)
	}
	return out
}

func buildPayoutTotals(results []models.PerResourceResult) dto.PayoutTotalsDTO {
	totals := dto.PayoutTotalsDTO{
		Resources:    len(results),
		TotalPayout:  decimal.Zero,
		BilledAmount: decimal.Zero,
	}
	for _, r := range results {
		totals.LoggingCases += r.LoggingCases
		totals.ProcessingCases += r.ProcessingCases
		totals.TotalPayout = totals.TotalPayout.Add(r.TotalPayout)
		totals.BilledAmount = totals.BilledAmount.Add(r.BilledAmount)
	}
	return totals
}

func sanitizeSheetName(name string) string {
	// Excel sheet names cannot contain: : \ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	safe := replacer.Replace(name)
	return truncateSheetName(strings.TrimSpace(safe))
}

func truncateSheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	if name == "" {
		return "Sheet"
	}
	return name
}
