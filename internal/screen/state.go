package screen

// State is where a screen is in its fetch/submit cycle.
type State string

const (
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateSubmitting State = "submitting"
	StateError      State = "error"
)

type Trigger string

const (
	// TriggerLoad starts the on-mount fetch, or a manual refresh from Ready or Error.
	TriggerLoad           Trigger = "load"
	TriggerFetchSucceeded Trigger = "fetch_succeeded"
	TriggerFetchFailed    Trigger = "fetch_failed"
	TriggerSubmit         Trigger = "submit"
	TriggerSubmitDone     Trigger = "submit_done"
)

// Next is the transition table shared by every screen. ok is false when the trigger is not valid in
// the current state, in which case the state is returned unchanged.
func Next(current State, trigger Trigger) (State, bool) {
	switch trigger {
	case TriggerLoad:
		if current == StateLoading || current == StateReady || current == StateError {
			return StateLoading, true
		}
	case TriggerFetchSucceeded:
		if current == StateLoading {
			return StateReady, true
		}
	case TriggerFetchFailed:
		if current == StateLoading {
			return StateError, true
		}
	case TriggerSubmit:
		if current == StateReady || current == StateError {
			return StateSubmitting, true
		}
	case TriggerSubmitDone:
		if current == StateSubmitting {
			return StateReady, true
		}
	}

	return current, false
}

// completion is the trigger that closes an action started with start.
func completion(start Trigger, err error) Trigger {
	if start == TriggerSubmit {
		return TriggerSubmitDone
	}
	if err != nil {
		return TriggerFetchFailed
	}

	return TriggerFetchSucceeded
}
