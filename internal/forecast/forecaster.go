package forecast

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/pipeline"
	"github.com/theirongolddev/runway/internal/store"
)

// Cache stores raw forecast responses by request hash.
type Cache interface {
	Get(hash string, maxAge time.Duration) (store.Entry, bool, error)
	Put(hash string, response []byte) error
}

// Forecaster produces runway forecasts: cached, then remote, then local.
type Forecaster struct {
	client *Client
	cache  Cache
	ttl    time.Duration
	log    *logrus.Logger
}

// NewForecaster wires a forecaster. client and cache may be nil.
func NewForecaster(client *Client, cache Cache, ttl time.Duration, log *logrus.Logger) *Forecaster {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Forecaster{client: client, cache: cache, ttl: ttl, log: log}
}

// Forecast never fails: any remote or cache problem degrades to the local
// simulation, with the remote error recorded on the result.
func (f *Forecaster) Forecast(ctx context.Context, b model.Baseline, impact model.HiringImpact, months int) Result {
	if months <= 0 {
		months = model.ProjectionMonths
	}

	local := func(err error) Result {
		s := pipeline.Run(b, impact, months)
		return Result{Summary: s, FetchedAt: time.Now(), Error: err}
	}
	if f.client == nil {
		return local(nil)
	}

	req := Request{
		Baseline: b,
		Payroll:  pipeline.ImpactByMonth(impact, months),
		Months:   months,
	}
	hash, err := RequestHash(req)
	if err != nil {
		return local(err)
	}
	log := f.log.WithFields(logrus.Fields{"hash": hash[:12], "months": months})

	if f.cache != nil {
		entry, ok, err := f.cache.Get(hash, f.ttl)
		switch {
		case err != nil:
			log.WithError(err).Warn("forecast cache read failed")
		case ok:
			if resp, err := DecodeResponse(entry.Response, months); err == nil {
				log.Debug("forecast cache hit")
				return f.result(b, impact, resp, model.SourceCache, entry.FetchedAt)
			}
			log.Warn("discarding unreadable cached forecast")
		}
	}

	body, err := f.client.Fetch(ctx, req)
	if err != nil {
		log.WithError(err).Warn("remote forecast failed, using local simulation")
		return local(err)
	}
	resp, err := DecodeResponse(body, months)
	if err != nil {
		log.WithError(err).Warn("remote forecast rejected, using local simulation")
		return local(err)
	}

	if f.cache != nil {
		if err := f.cache.Put(hash, body); err != nil {
			log.WithError(err).Warn("forecast cache write failed")
		}
	}
	log.Debug("remote forecast fetched")
	return f.result(b, impact, resp, model.SourceRemote, time.Now())
}

func (f *Forecaster) result(b model.Baseline, impact model.HiringImpact, resp Response, source string, at time.Time) Result {
	s := pipeline.Summarize(b, impact, resp.Projections)
	s.Source = source
	return Result{Summary: s, Model: resp.Model, FetchedAt: at}
}
