package availability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lastcall/internal/model"
	"lastcall/internal/notify"
	"lastcall/internal/schedule"
)

// State is the monitor's position in its per-view-session state machine.
//
// The machine is monotonic: there is no transition out of StateUnavailable.
// A viewer whose offer came back would have to re-open the view, which
// starts a fresh monitor.
type State int

const (
	// StateAvailable: the offer was purchasable at the last evaluation.
	StateAvailable State = iota

	// StateUnavailable: some source reported the offer gone; the one-shot
	// notice is about to be emitted.
	StateUnavailable

	// StateUnavailableNotified: the notice was emitted. Terminal; further
	// trigger firings are ignored.
	StateUnavailableNotified
)

// Update is one availability verdict delivered to the viewing session.
type Update struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// MonitorConfig tunes a Monitor.
type MonitorConfig struct {
	// Interval between time-window re-evaluations. Default 10s.
	Interval time.Duration

	// Now supplies the current time. Default time.Now; injected for tests.
	Now func() time.Time
}

// DefaultMonitorConfig returns the default monitor configuration.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Interval: 10 * time.Second,
		Now:      time.Now,
	}
}

// Monitor keeps one viewed offer's availability verdict fresh for the
// duration of a view session.
//
// Two independent triggers feed one reduction: a ticker re-evaluates only
// the time-window component against the descriptor fetched at view start
// (no I/O), and a push subscription delivers the persisted vendor flag
// whenever the backing record changes. The push channel is authoritative
// for the flag component, the ticker only for the window component, and any
// source reporting unavailable wins.
//
// Updates are delivered on the Updates channel: one initial verdict, then
// at most one "no longer available" notice, after which the machine is
// terminal. Stop releases the ticker and the subscription and waits for the
// loop to exit, so no update is observable after Stop returns.
type Monitor struct {
	offer  model.Offer
	broker notify.Subscriber
	cfg    MonitorConfig
	logger zerolog.Logger

	mu    sync.Mutex
	state State

	updates  chan Update
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMonitor creates a monitor for one view session of the given offer. The
// offer carries the flag and schedule descriptor as fetched at view start.
func NewMonitor(offer model.Offer, broker notify.Subscriber, cfg MonitorConfig, logger zerolog.Logger) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultMonitorConfig().Interval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Monitor{
		offer:  offer,
		broker: broker,
		cfg:    cfg,
		logger: logger.With().Str("component", "availability-monitor").Str("offer_id", offer.ID).Logger(),
		// Initial verdict plus at most one terminal notice.
		updates: make(chan Update, 2),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Updates returns the channel availability verdicts are delivered on. It is
// closed when the monitor stops.
func (m *Monitor) Updates() <-chan Update {
	return m.updates
}

// State returns the monitor's current state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start computes the initial verdict, subscribes to flag updates, and
// launches the evaluation loop. The caller must call Stop when the view
// session ends.
func (m *Monitor) Start(ctx context.Context) error {
	flagUpdates, cancel, err := m.broker.SubscribeFlag(ctx, m.offer.ID)
	if err != nil {
		close(m.done)
		close(m.updates)
		return fmt.Errorf("failed to subscribe to flag updates: %w", err)
	}

	// Initial state, computed once at view start.
	if ok, reason := Check(m.offer, m.cfg.Now()); ok {
		m.state = StateAvailable
		m.updates <- Update{Available: true, Reason: reason}
	} else {
		m.becomeUnavailable(reason)
	}

	go m.run(ctx, flagUpdates, cancel)

	return nil
}

// Stop ends the view session: it releases the ticker and the subscription
// and waits for the loop to exit. Idempotent.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	<-m.done
}

func (m *Monitor) run(ctx context.Context, flagUpdates <-chan notify.FlagUpdate, cancel func()) {
	ticker := time.NewTicker(m.cfg.Interval)

	defer func() {
		ticker.Stop()
		cancel()
		close(m.updates)
		close(m.done)
		m.logger.Debug().Msg("monitor stopped")
	}()

	for {
		select {
		case <-m.stop:
			return

		case <-ctx.Done():
			return

		case <-ticker.C:
			m.onTick()

		case update, ok := <-flagUpdates:
			if !ok {
				// Subscription dropped; the ticker keeps the window portion
				// fresh until the session ends.
				flagUpdates = nil
				continue
			}
			m.onFlagUpdate(update)
		}
	}
}

// onTick re-evaluates only the time-window component against the descriptor
// fetched at view start. No network call happens here.
func (m *Monitor) onTick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAvailable {
		return
	}

	if v := schedule.Evaluate(m.offer.ScheduleDescriptor, m.cfg.Now()); !v.Available {
		m.becomeUnavailableLocked(v.Reason)
	}
}

// onFlagUpdate applies a pushed vendor-flag value. The push channel is
// authoritative for the flag: false forces unavailable regardless of the
// window. A non-false flag re-resolves against the current window, which
// can only move the machine downward.
func (m *Monitor) onFlagUpdate(update notify.FlagUpdate) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAvailable {
		// Unavailable is monotonic within a view session.
		return
	}

	if !update.Available {
		m.becomeUnavailableLocked("withdrawn by vendor")
		return
	}

	if v := schedule.Evaluate(m.offer.ScheduleDescriptor, m.cfg.Now()); !v.Available {
		m.becomeUnavailableLocked(v.Reason)
	}
}

func (m *Monitor) becomeUnavailable(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.becomeUnavailableLocked(reason)
}

// becomeUnavailableLocked performs the one-shot Unavailable transition:
// emit a single notice, then park in the terminal state.
func (m *Monitor) becomeUnavailableLocked(reason string) {
	m.state = StateUnavailable

	select {
	case m.updates <- Update{Available: false, Reason: reason}:
	default:
		// Consumer lagging with a full buffer; the session is ending anyway.
	}

	m.state = StateUnavailableNotified

	m.logger.Info().
		Str("reason", reason).
		Msg("offer became unavailable during view session")
}
