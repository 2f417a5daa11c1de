package engine

// PauseState holds the independent pause switches.
type PauseState struct {
	GameUpdate bool
	Audio      bool
	Script     bool
	Scroll     bool
	Console    bool
}

// SetAll sets every switch to on.
func (p *PauseState) SetAll(on bool) {
	*p = PauseState{GameUpdate: on, Audio: on, Script: on, Scroll: on, Console: on}
}
