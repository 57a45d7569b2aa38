// Package dummyclassroom provides a canned submission source for tests.
package dummyclassroom

import (
	"context"

	"github.com/trezcool/darasa/core/roster"
)

type Service struct {
	Assignments []roster.Assignment
	Err         error // returned by FetchSubmissions when set
}

var _ roster.SubmissionFetcher = (*Service)(nil)

func (svc *Service) FetchSubmissions(context.Context, int) ([]roster.Assignment, error) {
	if svc.Err != nil {
		return nil, svc.Err
	}
	return svc.Assignments, nil
}
