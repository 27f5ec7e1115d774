package mcpserver

// PlanFormatContract describes the plan document layout that LLM clients
// should expect when reading state.md or proposing edits.
const PlanFormatContract = `# Braindump Plan Format

The plan lives in a single Markdown file, state.md. It is rewritten after
every capture or completion, so treat task IDs as valid for one read only.

## Structure

` + "```" + `markdown
[2026-10-14 09:30] free-form note captured from the user

## Today's Tasks

1. **Write report**
   → Open the draft

2. **Call dentist**
   → Find the number

---

## Can Skip Today

- Taxes — Due next month

---

## If You Have Extra Energy

- Tidy desk

## Done Archive

- [x] 2026-10-13 — sent the invoice
<!-- meta: {"praise_style":"warm"} -->
` + "```" + `

## Rules

1. **Headings** are matched by title, any level, case-insensitive. Today:
   "Today's Tasks", "Today", "Today's Plan", "Do These Today". Parking:
   "Can Skip Today", "Parking", "Parking Lot", "Not Today". Extra: "If You
   Have Extra Energy", "If You Have Energy", "Extra", "Bonus".
2. **Today tasks** are numbered with a bold name; an optional ` + "`→`" + ` line
   below carries the first step.
3. **Parking items** are ` + "`- name — reason`" + ` (em dash separator).
4. **Completions** are ` + "`- [x] text`" + ` lines. They are moved into the
   Done Archive with today's date and never listed again.
5. **Done Archive** entries read ` + "`- [x] YYYY-MM-DD — text`" + `; undated legacy
   lines are kept as-is. The archive is append-only and deduplicated.
6. **Metadata** is one trailing ` + "`<!-- meta: {json} -->`" + ` line. Do not edit it.

## Tools

- ` + "`get_plan`" + ` returns the parsed plan with task IDs.
- ` + "`capture`" + ` adds a note and replans.
- ` + "`complete_task`" + ` marks a Today task done by ID or name.
- ` + "`complete_all`" + ` archives tasks without a replan.
- ` + "`search_done`" + ` searches the archive; ` + "`get_weekly_summary`" + ` reads a
  week's rollup (` + "`YYYY-Www`" + `).
`
