package services

import (
	"context"
	"fmt"
)

type Stats struct {
	ActiveWorkshops int64 `json:"activeWorkshops"`
	Submissions     int64 `json:"submissions"`
	Certificates    int64 `json:"certificates"`
}

// StatsService feeds the admin dashboard counters.
type StatsService struct {
	workshops WorkshopRepository
	subs      SubmissionRepository
	certs     CertificateRepository
}

func NewStatsService(workshops WorkshopRepository, subs SubmissionRepository, certs CertificateRepository) *StatsService {
	return &StatsService{workshops: workshops, subs: subs, certs: certs}
}

func (s *StatsService) Get(ctx context.Context) (Stats, error) {
	const op = "StatsService.Get"

	var (
		st  Stats
		err error
	)
	if st.ActiveWorkshops, err = s.workshops.CountActive(ctx); err != nil {
		return st, fmt.Errorf("%s: %w", op, err)
	}
	if st.Submissions, err = s.subs.Count(ctx); err != nil {
		return st, fmt.Errorf("%s: %w", op, err)
	}
	if st.Certificates, err = s.certs.Count(ctx); err != nil {
		return st, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}
