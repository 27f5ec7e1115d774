package generator

import (
	"strings"
	"time"

	"github.com/starford/braindump/internal/reconcile"
)

// UserMessage builds the human turn: known completions, the cleaned body
// and the required output format.
func UserMessage(req reconcile.Request, now time.Time) string {
	var b strings.Builder
	if len(req.Known) > 0 {
		b.WriteString("(Already archived, don't list again)\n")
		b.WriteString(strings.Join(req.Known, "\n"))
		b.WriteString("\n\n")
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		body = "(empty)"
	}
	b.WriteString("[User's brain dump / current state]\n\n")
	b.WriteString(body)
	b.WriteString("\n\n---\n\n")
	b.WriteString(strings.ReplaceAll(outputFormat, "{today}", now.Format("2006-01-02")))
	return b.String()
}

const outputFormat = `Based on the above:

1. **Identify what the user said they completed** (e.g. "finished", "done", "completed")
   - If user mentioned completing something, output a ` + "`## Just Completed`" + ` section at the end

2. **Generate a new task list** in this format:

## Today's Tasks

1. **Task name**  
   → How to start (can begin within 15 min)

(Max 3-5, pick the easiest to start)

---

## Can Skip Today

- Task — Reason why it can wait

(**Important: All tasks mentioned but not in "Today" must go here. Don't lose any tasks.**)

---

## If You Have Extra Energy

- Optional task

## Just Completed
- [x] {today} — xxx (if user said they completed something)

**Key rules (must follow):**
1. Don't lose any tasks the user mentioned
2. "Today" max 3-5 items, prioritize easiest to start
3. Remaining tasks must all go to "Can Skip Today" with reasons
4. If user said they completed something, put it in "Just Completed"
5. Only output the format above, no explanations`
