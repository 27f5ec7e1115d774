package planservice

// MaxMicroActionsPerDay caps accepted micro-action suggestions.
const MaxMicroActionsPerDay = 2

// ActionKind groups micro actions by when they make sense.
type ActionKind string

// Micro action kinds.
const (
	KindClosing ActionKind = "closing"
	KindPrep    ActionKind = "prep"
	KindReset   ActionKind = "reset"
)

// MicroAction is a sub-two-minute follow-up suggested after a completion.
type MicroAction struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Steps      string     `json:"steps"`
	ETASeconds int        `json:"eta_seconds"`
	Kind       ActionKind `json:"type"`
}

var microActions = []MicroAction{
	{"log_result", "Log the result", "Write down the outcome (confirmation number, key info) in state", 60, KindClosing},
	{"open_doc", "Open tomorrow's doc", "Open the document you'll need tomorrow. Just open it, don't edit.", 45, KindPrep},
	{"copy_phone", "Copy phone number", "Copy the phone number you need to call to the top of state", 30, KindPrep},
	{"write_first_step", "Write the first step", "Break one task into its first step. Write just one sentence.", 60, KindPrep},
	{"drink_water", "Drink water", "Stand up, pour a glass of water, drink it", 60, KindReset},
	{"stretch", "Stretch for 60 sec", "Stand up, stretch your neck and shoulders", 60, KindReset},
	{"walk", "Take a short walk", "Leave your seat, walk around, come back in 60 seconds", 60, KindReset},
	{"close_tabs", "Close extra tabs", "Close browser tabs related to the finished task", 45, KindClosing},
	{"note_blocker", "Note the blocker", "If something is stuck, write one line about it at top of state", 45, KindClosing},
	{"set_reminder", "Set a reminder", "If there's a deadline tomorrow, set an alarm on your phone", 60, KindPrep},
}

// microCandidates lists closing actions, then prep actions when work
// remains for today, then reset actions.
func microCandidates(tasksRemain bool) []MicroAction {
	kinds := []ActionKind{KindClosing}
	if tasksRemain {
		kinds = append(kinds, KindPrep)
	}
	kinds = append(kinds, KindReset)

	var out []MicroAction
	for _, k := range kinds {
		for _, a := range microActions {
			if a.Kind == k {
				out = append(out, a)
			}
		}
	}
	return out
}

func (s *Service) selectMicro(tasksRemain bool) *MicroAction {
	candidates := microCandidates(tasksRemain)
	if len(candidates) == 0 {
		return nil
	}
	a := candidates[s.pick(len(candidates))]
	return &a
}
