package services

import (
	"context"
	"fmt"

	"github.com/voatnetwork/voat/internal/client/client"
	"github.com/voatnetwork/voat/internal/client/models"
	"github.com/voatnetwork/voat/internal/common"
)

// FetchPortfolioStatus asks the API for the review status. On failure it
// tries the cached status, then whether a portfolio record exists, and
// settles on PortfolioNone.
func (d *Dashboard) FetchPortfolioStatus(ctx context.Context) models.PortfolioStatus {
	uid, err := d.userID()
	if err != nil {
		return models.PortfolioNone
	}
	d.mu.Lock()
	seq := d.statusSeq.next()
	d.mu.Unlock()

	st, err := d.client.GetPortfolioStatus(ctx, uid)
	if err == nil {
		d.cacheMu.Lock()
		defer d.cacheMu.Unlock()
		d.mu.Lock()
		if !d.statusSeq.apply(seq) {
			cur := d.status
			d.mu.Unlock()
			return cur
		}
		if d.followUp != nil {
			d.followUp.Stop()
			d.followUp = nil
		}
		d.status = st
		d.mu.Unlock()

		if err := d.store.SavePortfolioStatus(ctx, uid, st); err != nil {
			d.log.Warn(ctx, "write portfolio status cache", "error", err)
		}
		return st
	}

	d.log.Warn(ctx, "fetch portfolio status, falling back", "error", err)
	st = d.inferPortfolioStatus(ctx, uid)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.statusSeq.apply(seq) {
		d.status = st
	}
	return d.status
}

func (d *Dashboard) inferPortfolioStatus(ctx context.Context, uid string) models.PortfolioStatus {
	cached, ok, err := d.store.PortfolioStatus(ctx, uid)
	if err != nil {
		d.log.Warn(ctx, "read portfolio status cache", "error", err)
	}
	if ok && cached != models.PortfolioNone {
		return cached
	}

	rec, err := d.client.GetUserPortfolio(ctx, uid)
	if err != nil {
		d.log.Debug(ctx, "portfolio record lookup failed", "error", err)
		return models.PortfolioNone
	}
	if rec.HasPortfolio {
		return rec.Status
	}
	return models.PortfolioNone
}

// SubmitPortfolio validates and sends a portfolio. Validation errors are
// kept in state for ErrorClearDelay; a newer failure replaces the pending
// clear. On success the status becomes pending at once and is refetched
// after StatusRefetchDelay. The service, if named, is then registered on a
// best-effort basis.
func (d *Dashboard) SubmitPortfolio(ctx context.Context, form models.PortfolioForm, grid []models.GridRow, tags []string) error {
	d.mu.Lock()
	user := d.user
	if !user.HasID() {
		d.mu.Unlock()
		return common.ErrNoSession
	}
	sub := models.PortfolioSubmission{
		Form:         form,
		UserID:       string(user.ID),
		UserName:     user.Name,
		ProfileImage: user.Image(),
		Tags:         tags,
		Grid:         grid,
	}
	if errs := d.validate.Portfolio(sub); !errs.Empty() {
		d.showPortfolioErrorsLocked(errs)
		d.mu.Unlock()
		return &models.ValidationError{Fields: errs}
	}
	if d.submitting {
		d.mu.Unlock()
		return ErrBusy
	}
	d.stopErrorClearLocked()
	d.portfolioErrs = models.ErrorMap{}
	d.portfolioErr = ""
	d.submitting = true
	d.mu.Unlock()

	err := d.client.SubmitPortfolio(ctx, sub)

	d.cacheMu.Lock()
	d.mu.Lock()
	d.submitting = false
	if err != nil {
		d.portfolioErr = client.UserMessage(err, MsgPortfolioFailed)
		d.mu.Unlock()
		d.cacheMu.Unlock()
		d.log.Warn(ctx, "submit portfolio", "error", err)
		return fmt.Errorf("submit portfolio: %w", err)
	}
	d.statusSeq.local()
	d.status = models.PortfolioPending
	if d.followUp != nil {
		d.followUp.Stop()
	}
	d.followUp = nil
	if !d.closed {
		d.followUp = d.sched.AfterFunc(d.opts.StatusRefetchDelay, d.refetchStatus)
	}
	d.mu.Unlock()
	if err := d.store.SavePortfolioStatus(ctx, sub.UserID, models.PortfolioPending); err != nil {
		d.log.Warn(ctx, "write portfolio status cache", "error", err)
	}
	d.cacheMu.Unlock()

	d.notify(NotifyPortfolio, "Your portfolio has been submitted for review!")
	d.log.Info(ctx, "portfolio submitted", "user_id", sub.UserID)

	if form.ServiceName != "" {
		svc := sub.Service()
		svc.UserID = sub.UserID
		if err := d.client.AddService(ctx, svc); err != nil {
			d.log.Warn(ctx, "add service", "error", err)
		}
	}
	return nil
}

func (d *Dashboard) refetchStatus() {
	d.mu.Lock()
	d.followUp = nil
	d.mu.Unlock()
	if ctx := d.liveContext(); ctx != nil {
		d.FetchPortfolioStatus(ctx)
	}
}

func (d *Dashboard) showPortfolioErrorsLocked(errs models.ErrorMap) {
	d.stopErrorClearLocked()
	d.portfolioErrs = errs
	if d.closed {
		return
	}
	d.clearGen++
	gen := d.clearGen
	d.clearErrs = d.sched.AfterFunc(d.opts.ErrorClearDelay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.closed || gen != d.clearGen {
			return
		}
		d.portfolioErrs = models.ErrorMap{}
		d.clearErrs = nil
	})
}

func (d *Dashboard) stopErrorClearLocked() {
	if d.clearErrs != nil {
		d.clearErrs.Stop()
		d.clearErrs = nil
	}
	d.clearGen++
}
