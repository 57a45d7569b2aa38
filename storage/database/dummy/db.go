// Package dummydb provides in-memory stand-ins for the durable storage
// collaborators, for use in tests.
package dummydb

import (
	"context"
	"strings"
	"sync"

	"github.com/trezcool/darasa/core/roster"
)

// Archive records every flush it receives.
type Archive struct {
	mutex   sync.Mutex
	Rows    []roster.Row
	Flushes int
	Err     error // returned by Flush when set
}

var _ roster.Archiver = (*Archive)(nil)

func (a *Archive) Flush(_ context.Context, rows []roster.Row) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.Err != nil {
		return a.Err
	}
	a.Rows = append([]roster.Row(nil), rows...)
	a.Flushes++
	return nil
}

// Directory resolves names from a fixed github -> name mapping, matching
// by suffix like the participants table lookup does.
type Directory struct {
	Participants map[string]string
}

var _ roster.Directory = (*Directory)(nil)

func (d *Directory) ResolveName(_ context.Context, githubUsername string) (string, error) {
	for github, name := range d.Participants {
		if strings.HasSuffix(github, githubUsername) {
			return name, nil
		}
	}
	return "", roster.ErrUnknownParticipant
}
