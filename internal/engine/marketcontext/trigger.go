package marketcontext

import (
	"sync"
	"time"
)

// TriggerReason explains a trigger decision.
type TriggerReason string

const (
	TriggerExplicit           TriggerReason = "explicit_user_action"
	TriggerFingerprintChanged TriggerReason = "fingerprint_changed"
	TriggerCooldownElapsed    TriggerReason = "cooldown_elapsed"
	SkipCooldownActive        TriggerReason = "cooldown_active"
	SkipDailyCapReached       TriggerReason = "daily_cap_reached"
)

// Decision is the outcome of one trigger evaluation.
type Decision struct {
	Run    bool
	Reason TriggerReason
}

// TriggerConfig holds the trigger policy knobs.
type TriggerConfig struct {
	Cooldown time.Duration
	DailyCap int

	// CapCountsExplicit makes explicit user actions consume the daily cap.
	// Off by default: explicit user intent is not rate-limited the way
	// background polling is.
	CapCountsExplicit bool
}

// TriggerStore decides when enrichment may run for a ticker. State lives in
// memory for the process lifetime; after a restart the worst case is one
// extra enrichment burst.
type TriggerStore struct {
	mu     sync.Mutex
	states map[string]*triggerState
	cfg    TriggerConfig
	now    func() time.Time
}

type triggerState struct {
	mu                sync.Mutex
	lastTriggeredAt   time.Time
	lastFingerprint   string
	triggerCountToday int
	dayKey            string
}

// NewTriggerStore creates a trigger store with the given policy.
func NewTriggerStore(cfg TriggerConfig) *TriggerStore {
	return &TriggerStore{
		states: make(map[string]*triggerState),
		cfg:    cfg,
		now:    time.Now,
	}
}

// Evaluate decides whether enrichment should run now for the given ticker,
// signal fingerprint, and caller. When it decides to run it records the
// attempt immediately, so a fetch that later times out still advances the
// cooldown clock and cannot hot-loop.
//
// Transitions are checked in strict priority order: explicit override,
// fingerprint change, cooldown elapsed, otherwise skip. The daily cap
// applies to every branch except explicit override (unless configured
// otherwise).
func (s *TriggerStore) Evaluate(ticker, fingerprint, callerID string, explicit bool) Decision {
	st := s.state(ticker + "|" + callerID)
	st.mu.Lock()
	defer st.mu.Unlock()

	now := s.now()
	day := now.Format("2006-01-02")
	if st.dayKey != day {
		st.dayKey = day
		st.triggerCountToday = 0
	}

	capReached := s.cfg.DailyCap > 0 && st.triggerCountToday >= s.cfg.DailyCap

	if explicit {
		if s.cfg.CapCountsExplicit && capReached {
			return Decision{Reason: SkipDailyCapReached}
		}
		st.lastTriggeredAt = now
		st.lastFingerprint = fingerprint
		if s.cfg.CapCountsExplicit {
			st.triggerCountToday++
		}
		return Decision{Run: true, Reason: TriggerExplicit}
	}

	if capReached {
		return Decision{Reason: SkipDailyCapReached}
	}

	if st.lastFingerprint != fingerprint {
		st.lastTriggeredAt = now
		st.lastFingerprint = fingerprint
		st.triggerCountToday++
		return Decision{Run: true, Reason: TriggerFingerprintChanged}
	}

	if now.Sub(st.lastTriggeredAt) >= s.cfg.Cooldown {
		st.lastTriggeredAt = now
		st.triggerCountToday++
		return Decision{Run: true, Reason: TriggerCooldownElapsed}
	}

	return Decision{Reason: SkipCooldownActive}
}

func (s *TriggerStore) state(key string) *triggerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[key]
	if !ok {
		st = &triggerState{}
		s.states[key] = st
	}
	return st
}
