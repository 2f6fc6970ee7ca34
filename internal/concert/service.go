// Package concert turns free-text concert searches into candidate events and
// resolves the supporting acts of a chosen event, using the setlist API.
//
// Neither operation returns an error.  Every failure is logged and reduced to
// an empty result whose Status and Err say what happened, so callers can show
// a notice without handling transport errors themselves.
package concert

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/charlelisefouasse/concert-tickets/internal/config"
	"github.com/charlelisefouasse/concert-tickets/internal/setlist"
)

const defaultSearchLimit = 15

var (
	// ErrNoCredential means the service was built without an API key.
	ErrNoCredential = errors.New("concert: no listing API credential configured")
	// ErrNoCriteria means every input of the request was blank.
	ErrNoCriteria = errors.New("concert: no search criteria")
	// ErrInvalidDate means the event date could not be read.
	ErrInvalidDate = errors.New("concert: invalid event date")
)

// Status is the outcome of a search or detail lookup.
type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"
	StatusNoData Status = "no_data"
	StatusFailed Status = "failed"
)

// SetlistSearcher is the part of the setlist client the service needs.
type SetlistSearcher interface {
	SearchSetlists(ctx context.Context, q setlist.Query) ([]setlist.Setlist, error)
}

type Service struct {
	api   SetlistSearcher
	limit int
	log   logrus.FieldLogger
}

// NewService wires a service around an already built client.  A nil api
// yields a service whose calls all fail with ErrNoCredential.
func NewService(api SetlistSearcher, limit int, log logrus.FieldLogger) *Service {
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{api: api, limit: limit, log: log.WithField("component", "concert")}
}

// New builds the setlist client from configuration.  The missing credential
// case is decided here once instead of on every call.
func New(cfg config.SetlistConfig, log logrus.FieldLogger) *Service {
	var api SetlistSearcher
	if cfg.APIKey != "" {
		api = setlist.NewClient(setlist.Config{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey, Timeout: cfg.Timeout})
	}
	s := NewService(api, cfg.SearchLimit, log)
	if api == nil {
		s.log.Warn("SETLIST_FM_KEY is not set; concert search and detail lookup are disabled")
	}
	return s
}

// Enabled reports whether a credential was configured.
func (s *Service) Enabled() bool { return s.api != nil }

// reason renders an outcome error for JSON responses.
func reason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
