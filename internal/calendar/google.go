package calendar

import (
	"fmt"
	"net/url"
	"time"

	"vitaplan/internal/routine"
)

const googleCalendarBase = "https://www.google.com/calendar/render?action=TEMPLATE"

// basicTimestamp is ISO-8601 basic (no punctuation) UTC, the format Google
// Calendar expects in the dates parameter.
const basicTimestamp = "20060102T150405Z"

// GoogleCalendarURL builds a Google Calendar event-creation deep link.
//
// Only the FIRST routine item is linked: the external-calendar path covers a
// single event, not the whole day's schedule, unlike the iCal export. Callers
// surfacing this link must make that limitation visible to the user.
func GoogleCalendarURL(items []routine.Item, opts Options, now time.Time) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no routine items to add to calendar")
	}

	first := items[0]
	clock, err := routine.ParseClock(first.Time)
	if err != nil {
		return "", fmt.Errorf("routine item %q: %w", first.Supplement, err)
	}

	start := clock.At(now)
	end := start.Add(eventDuration)

	title := fmt.Sprintf("Take %s", first.Supplement)
	details := fmt.Sprintf("%s\n\n%s", first.Instructions, first.Reasoning)

	link := googleCalendarBase
	link += "&text=" + url.QueryEscape(title)
	link += "&dates=" + start.UTC().Format(basicTimestamp) + "/" + end.UTC().Format(basicTimestamp)
	link += "&details=" + url.QueryEscape(details)
	if opts.Reminder15Min {
		link += "&reminder=15"
	}

	return link, nil
}
