// Package classroomsvc fetches assignment submissions from the GitHub
// Classroom API.
package classroomsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/roster"
)

type service struct {
	client  *http.Client
	baseURL string
	token   string
	logger  core.Logger
}

var _ roster.SubmissionFetcher = (*service)(nil)

func NewService(conf *core.Config, logger core.Logger) roster.SubmissionFetcher {
	return &service{
		client:  &http.Client{Timeout: conf.Classroom.Timeout},
		baseURL: conf.Classroom.BaseURL,
		token:   conf.Classroom.Token,
		logger:  logger,
	}
}

func (svc *service) FetchSubmissions(ctx context.Context, week int) ([]roster.Assignment, error) {
	url := fmt.Sprintf("%s/assignments/week-%d/grades", svc.baseURL, week)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building grades request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if svc.token != "" {
		req.Header.Set("Authorization", "Bearer "+svc.token)
	}

	resp, err := svc.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching grades for week %d", week)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching grades for week %d: %s", week, resp.Status)
	}

	var assignments []roster.Assignment
	if err = json.NewDecoder(resp.Body).Decode(&assignments); err != nil {
		return nil, errors.Wrapf(err, "decoding grades for week %d", week)
	}
	svc.logger.Debug(fmt.Sprintf("fetched %d submissions for week %d", len(assignments), week))
	return assignments, nil
}
