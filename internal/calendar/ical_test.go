package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitaplan/internal/routine"
)

var testNow = time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)

func testItems() []routine.Item {
	return []routine.Item{
		{TimeOfDay: routine.Morning, Supplement: "Vitamin D3 (1000 IU)", Instructions: "With breakfast", Reasoning: "Bone health", Time: "7:30 AM"},
		{TimeOfDay: routine.Midday, Supplement: "Fish Oil (1000mg)", Instructions: "With lunch", Reasoning: "Omega-3s", Time: "12:30 PM"},
		{TimeOfDay: routine.Evening, Supplement: "Magnesium Glycinate (400mg)", Instructions: "Before bed", Reasoning: "Sleep quality", Time: "9:30 PM"},
	}
}

func TestBuildICSOneEventPerItem(t *testing.T) {
	data, err := BuildICS(testItems(), Options{Reminder15Min: true}, testNow)
	require.NoError(t, err)

	doc := string(data)
	assert.Equal(t, 3, strings.Count(doc, "BEGIN:VEVENT"))
	assert.Equal(t, 3, strings.Count(doc, "BEGIN:VALARM"))
	assert.Equal(t, 3, strings.Count(doc, "RRULE:FREQ=DAILY"))
	assert.Contains(t, doc, "SUMMARY:Take Vitamin D3 (1000 IU)")
	assert.Contains(t, doc, "TRIGGER:-PT15M")
	assert.Contains(t, doc, "X-WR-CALNAME:Supplement Routine")
}

func TestBuildICSWithoutReminderHasNoAlarms(t *testing.T) {
	data, err := BuildICS(testItems(), Options{}, testNow)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "BEGIN:VALARM")
}

func TestBuildICSEventsAnchoredToToday(t *testing.T) {
	items := testItems()[:1]
	data, err := BuildICS(items, Options{}, testNow)
	require.NoError(t, err)

	// 7:30 AM on the reference day, 15 minutes long.
	doc := string(data)
	assert.Contains(t, doc, "DTSTART:20250614T073000Z")
	assert.Contains(t, doc, "DTEND:20250614T074500Z")
}

func TestBuildICSEmptyRoutineFails(t *testing.T) {
	_, err := BuildICS(nil, Options{}, testNow)
	require.Error(t, err)
}

func TestBuildICSOneBadTimeFailsWholeDocument(t *testing.T) {
	items := testItems()
	items[1].Time = "half past noon"

	_, err := BuildICS(items, Options{}, testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Fish Oil")
}
