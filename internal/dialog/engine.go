package dialog

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"headache-tracker/internal/episode"
	"headache-tracker/internal/report"
	"headache-tracker/internal/session"
)

const (
	invalidTimeMsg  = "Invalid format. Please enter time as HH:MM (e.g., 14:30)."
	reportFileName  = "headache_report.pdf"
	saveFailedMsg   = "Failed to save your record, please try again."
	exportFailedMsg = "Failed to build the report, please try again."
)

// EpisodeRepository persists completed episodes. Save is all-or-nothing;
// QueryRange returns episodes within [from, to] ascending by date, with an
// empty result being a valid non-error outcome.
type EpisodeRepository interface {
	Save(ctx context.Context, ep episode.Episode) (int64, error)
	QueryRange(ctx context.Context, userID int64, from, to time.Time) ([]episode.Episode, error)
}

// ReportBuilder turns a slice of episodes into a finished document.
type ReportBuilder interface {
	Build(episodes []episode.Episode, period report.Period) ([]byte, error)
}

// Engine walks one user at a time through the recording dialog and serves
// export requests. All per-user state lives in the session store; the engine
// itself is stateless and safe for concurrent use across users.
type Engine struct {
	sessions *session.Store
	episodes EpisodeRepository
	reports  ReportBuilder
	loc      *time.Location
	now      func() time.Time
}

func NewEngine(sessions *session.Store, episodes EpisodeRepository, reports ReportBuilder, loc *time.Location) *Engine {
	return &Engine{
		sessions: sessions,
		episodes: episodes,
		reports:  reports,
		loc:      loc,
		now:      time.Now,
	}
}

// Greet handles the start command: greeting plus idle menu.
func (e *Engine) Greet(r Replier) error {
	if err := r.SendText("Hello! I'm your headache tracking bot."); err != nil {
		return err
	}
	return e.sendMenu(r)
}

// Reset discards any in-progress draft, at any state, and re-shows the menu.
func (e *Engine) Reset(userID int64, r Replier) error {
	e.sessions.Delete(userID)
	return e.sendMenu(r)
}

func (e *Engine) sendMenu(r Replier) error {
	return r.SendPrompt("Choose an option:", [][]Button{
		{{Label: "Record Headache", Token: tokenRecord}},
		{{Label: "Export Report in PDF", Token: tokenExportMenu}},
	})
}

// HandleAction advances the dialog for one decoded callback token. Tokens
// that don't belong to the user's current step are ignored without feedback,
// so stale buttons from earlier prompts stay harmless.
func (e *Engine) HandleAction(ctx context.Context, userID int64, act Action, r Replier) error {
	switch a := act.(type) {
	case ActionRecord:
		e.sessions.Create(userID)
		return r.SendPrompt("Which day?", [][]Button{
			{{Label: "Today", Token: tokenDayToday}},
			{{Label: "Yesterday", Token: tokenDayYesterday}},
		})

	case ActionExportMenu:
		return r.SendPrompt("Choose report period:", [][]Button{
			{{Label: "Last Week", Token: tokenExportWeek}},
			{{Label: "Last Month", Token: tokenExportMonth}},
		})

	case ActionExport:
		return e.export(ctx, userID, a.Period, r)

	case ActionPickDay:
		if !e.advance(userID, session.StepDayChoice, func(d *session.Draft) {
			day := e.today()
			if a.Yesterday {
				day = day.AddDate(0, 0, -1)
			}
			d.Date = day
			d.Step = session.StepStartTimeChoice
		}) {
			return nil
		}
		return e.askStartTime(r)

	case ActionStartNow:
		if !e.advance(userID, session.StepStartTimeChoice, func(d *session.Draft) {
			t := episode.At(e.now().In(e.loc))
			d.Start = &t
			d.Step = session.StepMedicationChoice
		}) {
			return nil
		}
		return e.askMedication(r)

	case ActionStartManual:
		if !e.advance(userID, session.StepStartTimeChoice, func(d *session.Draft) {
			d.Step = session.StepStartTimeText
		}) {
			return nil
		}
		return r.SendText("Please enter the start time in HH:MM format.")

	case ActionMedsYes:
		if !e.advance(userID, session.StepMedicationChoice, func(d *session.Draft) {
			d.Step = session.StepMedicationName
		}) {
			return nil
		}
		return e.askMedicationName(r)

	case ActionMedsNo:
		if !e.advance(userID, session.StepMedicationChoice, func(d *session.Draft) {
			d.Step = session.StepRating
		}) {
			return nil
		}
		return e.askRating(r)

	case ActionMedAddAnother:
		if !e.advance(userID, session.StepMedicationContinueChoice, func(d *session.Draft) {
			d.Step = session.StepMedicationName
		}) {
			return nil
		}
		return e.askMedicationName(r)

	case ActionMedDone:
		if !e.advance(userID, session.StepMedicationContinueChoice, func(d *session.Draft) {
			d.Step = session.StepRating
		}) {
			return nil
		}
		return e.askRating(r)

	case ActionRating:
		if !e.advance(userID, session.StepRating, func(d *session.Draft) {
			d.Rating = a.Value
			d.Step = session.StepStopTimeChoice
		}) {
			return nil
		}
		return e.askStopTime(r)

	case ActionStopNow:
		if !e.advance(userID, session.StepStopTimeChoice, func(d *session.Draft) {
			t := episode.At(e.now().In(e.loc))
			d.Stop = &t
			d.Step = session.StepCommentChoice
		}) {
			return nil
		}
		return e.askComments(r)

	case ActionStopManual:
		if !e.advance(userID, session.StepStopTimeChoice, func(d *session.Draft) {
			d.Step = session.StepStopTimeText
		}) {
			return nil
		}
		return r.SendText("Please enter the stop time in HH:MM format.")

	case ActionCommentsYes:
		if !e.advance(userID, session.StepCommentChoice, func(d *session.Draft) {
			d.Step = session.StepCommentText
		}) {
			return nil
		}
		return r.SendText("Please write your comment")

	case ActionCommentsNo:
		if d, ok := e.sessions.Get(userID); !ok || d.Step != session.StepCommentChoice {
			return nil
		}
		return e.save(ctx, userID, r)
	}
	return nil
}

// HandleText consumes free text. It only ever applies while the draft is in
// one of the awaiting-text steps; stray text has no active question to
// answer and is dropped silently.
func (e *Engine) HandleText(ctx context.Context, userID int64, text string, r Replier) error {
	draft, ok := e.sessions.Get(userID)
	if !ok {
		return nil
	}

	switch draft.Step {
	case session.StepStartTimeText:
		t, err := episode.ParseTimeOfDay(text)
		if err != nil {
			return r.SendText(invalidTimeMsg)
		}
		if !e.advance(userID, session.StepStartTimeText, func(d *session.Draft) {
			d.Start = &t
			d.Step = session.StepMedicationChoice
		}) {
			return nil
		}
		return e.askMedication(r)

	case session.StepStopTimeText:
		t, err := episode.ParseTimeOfDay(text)
		if err != nil {
			return r.SendText(invalidTimeMsg)
		}
		if !e.advance(userID, session.StepStopTimeText, func(d *session.Draft) {
			d.Stop = &t
			d.Step = session.StepCommentChoice
		}) {
			return nil
		}
		return e.askComments(r)

	case session.StepMedicationName:
		name := strings.TrimSpace(text)
		if name == "" {
			return e.askMedicationName(r)
		}
		if !e.advance(userID, session.StepMedicationName, func(d *session.Draft) {
			d.Medications = append(d.Medications, episode.Medication{Name: name})
			d.Step = session.StepMedicationTime
		}) {
			return nil
		}
		return r.SendText("Please enter the time you took this medication (e.g., 14:30):")

	case session.StepMedicationTime:
		t, err := episode.ParseTimeOfDay(text)
		if err != nil {
			return r.SendText(invalidTimeMsg)
		}
		var name string
		if !e.advance(userID, session.StepMedicationTime, func(d *session.Draft) {
			last := &d.Medications[len(d.Medications)-1]
			last.Time = t
			name = last.Name
			d.Step = session.StepMedicationContinueChoice
		}) {
			return nil
		}
		if err := r.SendText(fmt.Sprintf("Added %s at %s.", name, t)); err != nil {
			return err
		}
		return r.SendPrompt("Would you like to add another medication?", [][]Button{
			{{Label: "Yes, add another", Token: tokenAddAnother}},
			{{Label: "No, I'm done", Token: tokenDoneAdding}},
		})

	case session.StepCommentText:
		if !e.advance(userID, session.StepCommentText, func(d *session.Draft) {
			d.Comments = strings.TrimSpace(text)
		}) {
			return nil
		}
		return e.save(ctx, userID, r)
	}
	return nil
}

// save persists the draft. A draft without a stop time is unrecoverable: the
// session is cleared regardless and the user returns to the menu. On a
// repository failure the session is kept untouched so the save can be
// retried.
func (e *Engine) save(ctx context.Context, userID int64, r Replier) error {
	draft, ok := e.sessions.Get(userID)
	if !ok {
		return nil
	}

	if draft.Start == nil || draft.Stop == nil {
		e.sessions.Delete(userID)
		if err := r.SendText("Error saving data. Please make sure you entered all required details."); err != nil {
			return err
		}
		return e.sendMenu(r)
	}

	comments := draft.Comments
	if comments == "" {
		comments = episode.NoComments
	}
	ep := episode.Episode{
		UserID:      userID,
		Date:        draft.Date,
		Start:       *draft.Start,
		Stop:        *draft.Stop,
		Medications: episode.FormatMedications(draft.Medications),
		Rating:      draft.Rating,
		Comments:    comments,
	}

	if _, err := e.episodes.Save(ctx, ep); err != nil {
		log.Printf("failed to save episode for user %d: %v", userID, err)
		return r.SendText(saveFailedMsg)
	}

	e.sessions.Delete(userID)
	if err := r.SendText("Your headache record has been saved."); err != nil {
		return err
	}
	return e.sendMenu(r)
}

// export queries the inclusive window [today-N, now], builds the PDF and
// delivers it. An empty window is reported as plain text, never as a file.
func (e *Engine) export(ctx context.Context, userID int64, p report.Period, r Replier) error {
	now := e.now().In(e.loc)
	from := e.today().AddDate(0, 0, -p.Days())

	episodes, err := e.episodes.QueryRange(ctx, userID, from, now)
	if err != nil {
		log.Printf("failed to query episodes for user %d: %v", userID, err)
		return r.SendText(exportFailedMsg)
	}
	if len(episodes) == 0 {
		return r.SendText(fmt.Sprintf("No records for the last %s.", p))
	}

	data, err := e.reports.Build(episodes, p)
	if err != nil {
		log.Printf("failed to build %s report for user %d: %v", p, userID, err)
		return r.SendText(exportFailedMsg)
	}
	if err := r.SendDocument(reportFileName, data); err != nil {
		return err
	}

	e.sessions.Delete(userID)
	return e.sendMenu(r)
}

// advance mutates the draft only when it is at the expected step and reports
// whether it did. Everything else is the no-op contract for stale input.
func (e *Engine) advance(userID int64, at session.Step, fn func(*session.Draft)) bool {
	advanced := false
	e.sessions.Mutate(userID, func(d *session.Draft) {
		if d.Step != at {
			return
		}
		fn(d)
		advanced = true
	})
	return advanced
}

func (e *Engine) today() time.Time {
	now := e.now().In(e.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, e.loc)
}

func (e *Engine) askStartTime(r Replier) error {
	return r.SendPrompt("When did it start?", [][]Button{
		{{Label: "Now", Token: tokenStartNow}},
		{{Label: "Enter Time", Token: tokenStartSpecify}},
	})
}

func (e *Engine) askMedication(r Replier) error {
	return r.SendPrompt("Did you take medication?", [][]Button{
		{{Label: "Yes", Token: tokenMedsYes}},
		{{Label: "No", Token: tokenMedsNo}},
	})
}

func (e *Engine) askMedicationName(r Replier) error {
	return r.SendText("Please enter the name of the medication you took:")
}

func (e *Engine) askRating(r Replier) error {
	rows := make([][]Button, 0, 10)
	for i := 1; i <= 10; i++ {
		rows = append(rows, []Button{{
			Label: strconv.Itoa(i),
			Token: tokenRatingPrefix + strconv.Itoa(i),
		}})
	}
	return r.SendPrompt("Rate your pain from 1 (low) to 10 (high)", rows)
}

func (e *Engine) askStopTime(r Replier) error {
	return r.SendPrompt("When did the headache stop?", [][]Button{
		{{Label: "Now", Token: tokenStopNow}},
		{{Label: "Enter Time", Token: tokenStopSpecify}},
	})
}

func (e *Engine) askComments(r Replier) error {
	return r.SendPrompt("Do you have any comments?", [][]Button{
		{{Label: "Yes", Token: tokenCommentsYes}},
		{{Label: "No", Token: tokenCommentsNo}},
	})
}
