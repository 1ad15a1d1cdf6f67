/*
Package calendar turns an effective supplement routine into calendar output:
an iCal document with one recurring daily event per item, or a Google
Calendar deep link for the first item.
*/
package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"vitaplan/internal/routine"
)

// Filename and MIME type of the downloadable calendar document.
const (
	ICSFilename = "supplement-routine.ics"
	ICSMIMEType = "text/calendar"
)

// eventDuration is how long each intake event blocks on the calendar.
const eventDuration = 15 * time.Minute

// Options carries the reminder preferences from the sync panel.
type Options struct {
	Reminder15Min        bool `json:"reminder15Min"`
	ReminderNotification bool `json:"reminderNotification"`
}

// BuildICS synthesizes the downloadable calendar document: one unbounded
// daily-recurring event per routine item, anchored to today at the item's
// time, with an optional display alarm 15 minutes before.
//
// The operation is all-or-nothing. An empty routine or a single unparsable
// time string fails the whole document rather than silently desynchronizing
// the user's calendar with a partial schedule.
func BuildICS(items []routine.Item, opts Options, now time.Time) ([]byte, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no routine items to export")
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName("Supplement Routine")
	cal.SetXWRTimezone("UTC")

	for _, item := range items {
		clock, err := routine.ParseClock(item.Time)
		if err != nil {
			log.Error().Err(err).Str("supplement", item.Supplement).Msg("Calendar export aborted on unparsable item time")
			return nil, fmt.Errorf("routine item %q: %w", item.Supplement, err)
		}

		start := clock.At(now)
		end := start.Add(eventDuration)

		event := cal.AddEvent(uuid.New().String())
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("Take %s", item.Supplement))
		event.SetDescription(fmt.Sprintf("%s\n\n%s", item.Instructions, item.Reasoning))
		event.AddRrule("FREQ=DAILY")

		if opts.Reminder15Min {
			alarm := event.AddAlarm()
			alarm.SetAction(ics.ActionDisplay)
			alarm.SetTrigger("-PT15M")
			alarm.SetProperty(ics.ComponentPropertyDescription, fmt.Sprintf("Take %s", item.Supplement))
		}
	}

	return []byte(cal.Serialize()), nil
}
