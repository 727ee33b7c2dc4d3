package dialog

import (
	"strconv"
	"strings"

	"headache-tracker/internal/report"
)

// Callback tokens carried by inline buttons. The vocabulary is fixed;
// anything else arriving on the wire is dropped by ParseAction.
const (
	tokenRecord       = "record"
	tokenExportMenu   = "export"
	tokenDayToday     = "day_today"
	tokenDayYesterday = "day_yesterday"
	tokenStartNow     = "start_time_now"
	tokenStartSpecify = "start_time_specify"
	tokenMedsYes      = "medication_yes"
	tokenMedsNo       = "medication_no"
	tokenAddAnother   = "add_another"
	tokenDoneAdding   = "done_adding"
	tokenRatingPrefix = "rating_"
	tokenStopNow      = "stop_time_now"
	tokenStopSpecify  = "stop_time_specify"
	tokenCommentsYes  = "comments_specify"
	tokenCommentsNo   = "comments_no"
	tokenExportWeek   = "export_week"
	tokenExportMonth  = "export_month"
)

// Action is a decoded callback token. The set is closed: every variant is
// declared here and produced only by ParseAction.
type Action interface{ isAction() }

type (
	// ActionRecord starts a new recording, replacing any draft in progress.
	ActionRecord struct{}
	// ActionExportMenu opens the report period prompt.
	ActionExportMenu struct{}
	// ActionPickDay answers the day prompt.
	ActionPickDay struct{ Yesterday bool }
	// ActionStartNow stamps the start time with the current wall clock.
	ActionStartNow struct{}
	// ActionStartManual switches to free-text start time entry.
	ActionStartManual struct{}
	// ActionMedsYes enters the medication sub-loop.
	ActionMedsYes struct{}
	// ActionMedsNo skips medications entirely.
	ActionMedsNo struct{}
	// ActionMedAddAnother loops back to medication name entry.
	ActionMedAddAnother struct{}
	// ActionMedDone leaves the medication sub-loop.
	ActionMedDone struct{}
	// ActionRating answers the pain rating prompt, Value in [1,10].
	ActionRating struct{ Value int }
	// ActionStopNow stamps the stop time with the current wall clock.
	ActionStopNow struct{}
	// ActionStopManual switches to free-text stop time entry.
	ActionStopManual struct{}
	// ActionCommentsYes switches to free-text comment entry.
	ActionCommentsYes struct{}
	// ActionCommentsNo declines comments and triggers the save.
	ActionCommentsNo struct{}
	// ActionExport requests a report for the chosen period.
	ActionExport struct{ Period report.Period }
)

func (ActionRecord) isAction()        {}
func (ActionExportMenu) isAction()    {}
func (ActionPickDay) isAction()       {}
func (ActionStartNow) isAction()      {}
func (ActionStartManual) isAction()   {}
func (ActionMedsYes) isAction()       {}
func (ActionMedsNo) isAction()        {}
func (ActionMedAddAnother) isAction() {}
func (ActionMedDone) isAction()       {}
func (ActionRating) isAction()        {}
func (ActionStopNow) isAction()       {}
func (ActionStopManual) isAction()    {}
func (ActionCommentsYes) isAction()   {}
func (ActionCommentsNo) isAction()    {}
func (ActionExport) isAction()        {}

// ParseAction decodes a raw callback token once, at the transport boundary.
// Unknown tokens report false and never reach the engine.
func ParseAction(token string) (Action, bool) {
	switch token {
	case tokenRecord:
		return ActionRecord{}, true
	case tokenExportMenu:
		return ActionExportMenu{}, true
	case tokenDayToday:
		return ActionPickDay{}, true
	case tokenDayYesterday:
		return ActionPickDay{Yesterday: true}, true
	case tokenStartNow:
		return ActionStartNow{}, true
	case tokenStartSpecify:
		return ActionStartManual{}, true
	case tokenMedsYes:
		return ActionMedsYes{}, true
	case tokenMedsNo:
		return ActionMedsNo{}, true
	case tokenAddAnother:
		return ActionMedAddAnother{}, true
	case tokenDoneAdding:
		return ActionMedDone{}, true
	case tokenStopNow:
		return ActionStopNow{}, true
	case tokenStopSpecify:
		return ActionStopManual{}, true
	case tokenCommentsYes:
		return ActionCommentsYes{}, true
	case tokenCommentsNo:
		return ActionCommentsNo{}, true
	case tokenExportWeek:
		return ActionExport{Period: report.PeriodWeek}, true
	case tokenExportMonth:
		return ActionExport{Period: report.PeriodMonth}, true
	}
	if v, ok := strings.CutPrefix(token, tokenRatingPrefix); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 10 {
			return ActionRating{Value: n}, true
		}
	}
	return nil, false
}

// Button is one labeled inline button carrying its callback token.
type Button struct {
	Label string
	Token string
}

// Replier is what the engine needs from the chat transport: plain text,
// a button grid, or a named file. Implemented once per transport.
type Replier interface {
	SendText(text string) error
	SendPrompt(text string, rows [][]Button) error
	SendDocument(name string, data []byte) error
}
