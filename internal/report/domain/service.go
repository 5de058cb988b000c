package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidPeriod   = errors.New("invalid_report_period")
	ErrInvalidKind     = errors.New("invalid_report_kind")
	ErrSnapshotMissing = errors.New("report_snapshot_not_found")
)

type Service interface {
	// Each build recomputes from live data and overwrites the stored
	// snapshot for (kind, month, year); calling twice with unchanged
	// data yields the same single row and the same totals.
	BuildClientReport(ctx context.Context, month, year int, generatedBy string) (*ClientReport, error)
	BuildEmployeeReport(ctx context.Context, month, year int, generatedBy string) (*EmployeeReport, error)
	BuildFinanceReport(ctx context.Context, month, year int, generatedBy string) (*FinanceReport, error)

	GetSnapshot(ctx context.Context, kind Kind, month, year int) (*Snapshot, error)
}

type Repository interface {
	UpsertSnapshot(ctx context.Context, snapshot *Snapshot) error
	FindSnapshot(ctx context.Context, kind Kind, month, year int) (*Snapshot, error)
}
