package service

import (
	"context"

	"research-proposal-backend/app/repository"
)

// ReportSummary adalah ringkasan proposal untuk dashboard admin.
type ReportSummary struct {
	TotalProposal int64                    `json:"totalProposal"`
	PerStatus     []repository.StatusCount `json:"perStatus"`
	PerSkema      []repository.SkemaCount  `json:"perSkema"`
	PerTahun      []repository.TahunCount  `json:"perTahun"`
}

// ReportService menyajikan agregasi proposal (khusus admin).
type ReportService interface {
	Summary(ctx context.Context) (*ReportSummary, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
}

func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

func (s *reportService) Summary(ctx context.Context) (*ReportSummary, error) {
	total, err := s.reportRepo.CountTotal()
	if err != nil {
		return nil, err
	}
	perStatus, err := s.reportRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	perSkema, err := s.reportRepo.CountBySkema()
	if err != nil {
		return nil, err
	}
	perTahun, err := s.reportRepo.CountByTahun()
	if err != nil {
		return nil, err
	}

	return &ReportSummary{
		TotalProposal: total,
		PerStatus:     perStatus,
		PerSkema:      perSkema,
		PerTahun:      perTahun,
	}, nil
}
