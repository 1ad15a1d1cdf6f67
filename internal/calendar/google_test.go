package calendar

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleCalendarURLLinksFirstItemOnly(t *testing.T) {
	link, err := GoogleCalendarURL(testItems(), Options{}, testNow)
	require.NoError(t, err)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	q := parsed.Query()

	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "Take Vitamin D3 (1000 IU)", q.Get("text"))
	assert.Equal(t, "With breakfast\n\nBone health", q.Get("details"))
	assert.Equal(t, "20250614T073000Z/20250614T074500Z", q.Get("dates"))
	assert.Empty(t, q.Get("reminder"))
}

func TestGoogleCalendarURLReminderFlag(t *testing.T) {
	link, err := GoogleCalendarURL(testItems(), Options{Reminder15Min: true}, testNow)
	require.NoError(t, err)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "15", parsed.Query().Get("reminder"))
}

func TestGoogleCalendarURLEmptyRoutineFails(t *testing.T) {
	_, err := GoogleCalendarURL(nil, Options{}, testNow)
	require.Error(t, err)
}

func TestGoogleCalendarURLBadTimeFails(t *testing.T) {
	items := testItems()
	items[0].Time = "sunrise"

	_, err := GoogleCalendarURL(items, Options{}, testNow)
	require.Error(t, err)
}
