package planservice

import "github.com/starford/braindump/internal/meta"

// HintType classifies the hint returned after a parking item is completed.
type HintType string

// Parking hint types.
const (
	HintNone      HintType = ""
	HintMainFirst HintType = "main_first"
	HintAllDone   HintType = "all_done"
	HintBonus     HintType = "bonus"
)

const askMicro = "Want to do a quick micro-action?"

var praisePools = map[meta.Style][]string{
	meta.StyleSnarky: {
		"Well, you actually moved.",
		"Wow, you finished. A miracle.",
		"Fine. Don't get cocky.",
		"Done. Don't push it.",
		"Alright, barely acceptable.",
		"Finally did something useful.",
		"See? That wasn't so hard.",
		"Good. Now stop.",
	},
	meta.StyleNeutral: {
		"Done.",
		"Completed.",
		"One down.",
		"Checked off.",
		"Done. Next.",
		"Finished.",
		"OK.",
		"Complete.",
	},
	meta.StyleWarm: {
		"Great job! Take a breather.",
		"Done! You're doing great.",
		"Nice progress!",
		"You did it! Rest a bit.",
		"Good work. You can relax now.",
		"Completed! Give yourself a pat.",
		"One more done. Keep it up!",
		"Nice! You're making progress.",
	},
}

var safetyNotes = map[meta.Style]string{
	meta.StyleSnarky:  "Stop here. Don't be greedy.",
	meta.StyleNeutral: "That's enough for now.",
	meta.StyleWarm:    "Take it easy. Don't overdo it.",
}

var shutdownNotes = map[meta.Style]string{
	meta.StyleSnarky:  "Enough for today. Stop grinding.",
	meta.StyleNeutral: "Daily recommendations used up. Wrap it up.",
	meta.StyleWarm:    "You've worked hard today. Time to rest.",
}

var parkingHints = map[meta.Style]map[HintType]string{
	meta.StyleSnarky: {
		HintMainFirst: "Main tasks aren't done yet. Maybe do those first?",
		HintAllDone:   "All done?! You're a god today.",
		HintBonus:     "Main tasks cleared. This is a bonus.",
	},
	meta.StyleNeutral: {
		HintMainFirst: "Main tasks not complete. Consider doing those first.",
		HintAllDone:   "Congrats! All tasks completed today.",
		HintBonus:     "Main tasks done. This is extra credit.",
	},
	meta.StyleWarm: {
		HintMainFirst: "Your main tasks are waiting! Want to check on them?",
		HintAllDone:   "Amazing! You went above and beyond today!",
		HintBonus:     "Main tasks done! This is a bonus achievement!",
	},
}

// Praise for clearing everything, optional items included.
var superPraise = map[meta.Style]string{
	meta.StyleSnarky:  "All clear?! What did you eat today? Beast mode.",
	meta.StyleNeutral: "Congrats! All tasks (including optional) completed.",
	meta.StyleWarm:    "Amazing!! You finished absolutely everything! You're incredible today! 🎉",
}

func (s *Service) praise(style meta.Style) string {
	pool := praisePools[style]
	return pool[s.pick(len(pool))]
}
