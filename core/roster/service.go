package roster

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrRowNotFound        = errors.New("row not found")
	ErrInvalidWeek        = errors.New("invalid week number")
	ErrUnknownParticipant = errors.New("participant not found")
)

// SubmissionFetchError reports an unreachable or failing submission source.
// The whole reconciliation is aborted; nothing is committed.
type SubmissionFetchError struct {
	Err error
}

func (e *SubmissionFetchError) Error() string {
	return fmt.Sprintf("fetching submissions: %v", e.Err)
}

type (
	// Repository is the process-wide roster table. Implementations own
	// their locking; callers never see the mutex.
	Repository interface {
		// Snapshot returns a copy of every row in table order.
		Snapshot() []Row
		// WeekRows returns a copy of the rows recorded for one week, in table order.
		WeekRows(week int) []Row
		// UpsertRows replaces each row with a matching (name, week) in
		// place and appends the rest. The sole mutation entry point.
		UpsertRows(rows ...Row) error
		// RemoveRow drops the row matching (name, mail, week) and reports
		// whether anything was removed.
		RemoveRow(name, mail string, week int) (bool, error)
	}

	// SubmissionFetcher pulls one week's assignment submissions from the
	// external classroom source.
	SubmissionFetcher interface {
		FetchSubmissions(ctx context.Context, week int) ([]Assignment, error)
	}

	// Directory resolves an external account identifier to a participant
	// name; ErrUnknownParticipant when there is no match.
	Directory interface {
		ResolveName(ctx context.Context, githubUsername string) (string, error)
	}

	// Archiver mirrors the table to durable storage, replacing prior
	// contents. Must be called with a stabilized snapshot.
	Archiver interface {
		Flush(ctx context.Context, rows []Row) error
	}

	Service struct {
		repo      Repository
		fetcher   SubmissionFetcher
		directory Directory
		archiver  Archiver
		logger    core.Logger
		conf      core.RosterConfig
	}
)

func NewService(
	repo Repository,
	fetcher SubmissionFetcher,
	directory Directory,
	archiver Archiver,
	logger core.Logger,
	conf core.RosterConfig,
) *Service {
	return &Service{
		repo:      repo,
		fetcher:   fetcher,
		directory: directory,
		archiver:  archiver,
		logger:    logger,
		conf:      conf,
	}
}

// Reconcile derives the roster for a week from the prior week's roster,
// merges in anything already recorded for the target week, enriches rows
// with submission status and commits the result. Week 0 is a passthrough of
// the recorded week-0 rows. The table is only flushed to durable storage
// when a row was newly derived or a submission changed an exercise field.
//
// All reads happen against one snapshot taken under the store's lock and
// the derived rows are committed in one batch, so two concurrent
// reconciliations cannot interleave partial states.
func (svc *Service) Reconcile(ctx context.Context, week int) ([]Row, error) {
	if week < 0 {
		return nil, ErrInvalidWeek
	}
	if week == 0 {
		// week 0 is seeded by hand before the course starts; an empty
		// table here means the tracker was never initialized. A populated
		// table with no week-0 rows still answers, with an empty subset.
		if len(svc.repo.Snapshot()) == 0 {
			return nil, ErrInvalidWeek
		}
		return svc.repo.WeekRows(0), nil
	}

	// all external I/O happens before any table access
	assignments, err := svc.fetcher.FetchSubmissions(ctx, week)
	if err != nil {
		return nil, &SubmissionFetchError{Err: err}
	}
	submissions := svc.mapSubmissions(ctx, assignments)

	prev := svc.repo.WeekRows(week - 1)
	SortRows(prev)

	existing := make(map[string]Row)
	for _, row := range svc.repo.WeekRows(week) {
		existing[row.Name] = row
	}

	alloc := NewAllocator(week, RotationPool(), svc.conf)
	result := make([]Row, 0, len(prev))
	var changed bool

	for _, row := range prev {
		alloc.Next(&row)
		row.Week = week

		if cur, ok := existing[row.Name]; ok {
			row.carryOver(cur)
		} else {
			row.seedDefaults()
			changed = true
		}

		if enr, ok := Enrich(row.Name, week, submissions); ok {
			if enr.Apply(&row) {
				svc.logger.Info(fmt.Sprintf("exercise data changed for %s in week %d", row.Name, week))
				changed = true
			}
		}

		result = append(result, row)
	}

	if err := svc.repo.UpsertRows(result...); err != nil {
		return nil, errors.Wrap(err, "committing derived rows")
	}
	if changed {
		svc.logger.Info(fmt.Sprintf("data changed - flushing roster for week %d", week))
		if err := svc.archiver.Flush(ctx, svc.repo.Snapshot()); err != nil {
			return nil, errors.Wrap(err, "flushing roster")
		}
	} else {
		svc.logger.Info(fmt.Sprintf("no data changes detected for week %d - skipping flush", week))
	}
	return result, nil
}

// mapSubmissions resolves submitted assignments to participant names.
// Last writer wins when two submissions resolve to the same name.
func (svc *Service) mapSubmissions(ctx context.Context, assignments []Assignment) map[string]Assignment {
	submissions := make(map[string]Assignment, len(assignments))
	for _, a := range assignments {
		if !a.IsSubmitted() {
			continue
		}
		name, err := svc.directory.ResolveName(ctx, a.GithubUsername)
		if err != nil {
			if errors.Cause(err) != ErrUnknownParticipant {
				svc.logger.Warn(fmt.Sprintf("resolving %s: %v", a.GithubUsername, err))
			}
			continue
		}
		submissions[name] = a
	}
	return submissions
}

// Record upserts client-submitted rows and mirrors the table unconditionally.
func (svc *Service) Record(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return core.NewValidationError(errors.New("no student data provided"))
	}
	if err := svc.repo.UpsertRows(rows...); err != nil {
		return errors.Wrap(err, "upserting rows")
	}
	return errors.Wrap(svc.archiver.Flush(ctx, svc.repo.Snapshot()), "flushing roster")
}

// Delete removes the row matching (name, mail, week), if any, and mirrors
// the table when something was actually removed. A missing row is not an
// error; the caller reports it as a no-op.
func (svc *Service) Delete(ctx context.Context, name, mail string, week int) (bool, error) {
	removed, err := svc.repo.RemoveRow(name, mail, week)
	if err != nil || !removed {
		return false, err
	}
	if err := svc.archiver.Flush(ctx, svc.repo.Snapshot()); err != nil {
		return true, errors.Wrap(err, "flushing roster")
	}
	return true, nil
}
