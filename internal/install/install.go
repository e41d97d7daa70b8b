// Package install tracks whether the app runs installed and whether the
// hosting environment currently offers a native install affordance. The
// environment is reached only through the injected Probe, so the state
// machine stays deterministic under test.
package install

import "sync"

// PlatformClass is determined once at startup and never changes.
type PlatformClass int

const (
	PlatformOther PlatformClass = iota
	PlatformIOS
)

func (p PlatformClass) String() string {
	if p == PlatformIOS {
		return "iOS"
	}
	return "Other"
}

type State int

const (
	StateUnknown State = iota
	StateNotEligible
	StateEligible
	StateInstalled
)

func (s State) String() string {
	switch s {
	case StateNotEligible:
		return "NotEligible"
	case StateEligible:
		return "Eligible"
	case StateInstalled:
		return "Installed"
	}
	return "Unknown"
}

// Probe reports the platform facts the advisor cannot observe itself.
type Probe interface {
	Platform() PlatformClass
	RunningInstalled() bool
}

// Advisor is the install-eligibility state machine. Installed is
// terminal; dismissing an offer falls back to the non-installed state.
type Advisor struct {
	platform PlatformClass

	mu    sync.Mutex
	state State
}

func New(probe Probe) *Advisor {
	a := &Advisor{platform: probe.Platform()}
	if probe.RunningInstalled() {
		a.state = StateInstalled
	} else {
		a.state = StateNotEligible
	}
	return a
}

func (a *Advisor) Platform() PlatformClass { return a.platform }

func (a *Advisor) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Advisor) IsEligible() bool {
	return a.State() == StateEligible
}

// OfferInstall is the external affordance event. iOS never receives a
// native affordance and an installed app has nothing to offer.
func (a *Advisor) OfferInstall() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateInstalled || a.platform == PlatformIOS {
		return
	}
	a.state = StateEligible
}

// Accept takes the pending affordance. It only succeeds from Eligible
// and transitions terminally to Installed.
func (a *Advisor) Accept() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateEligible {
		return false
	}
	a.state = StateInstalled
	return true
}

// Dismiss declines the pending affordance without consuming it; the
// environment may offer again.
func (a *Advisor) Dismiss() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateEligible {
		a.state = StateNotEligible
	}
}
