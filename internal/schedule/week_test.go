package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardchase/location-portal/pkg/db/models"
	"github.com/cardchase/location-portal/pkg/enums"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekStartNormalisesToSunday(t *testing.T) {
	start := WeekStart(time.Date(2024, 3, 13, 18, 45, 0, 0, time.UTC))
	assert.Equal(t, date(2024, 3, 10), start)
	assert.Equal(t, start, WeekStart(start))

	for offset := 0; offset < 7; offset++ {
		assert.Equal(t, date(2024, 3, 10), WeekStart(date(2024, 3, 10+offset)))
	}
}

func TestNavigateMovesWholeWeeks(t *testing.T) {
	anchor := date(2024, 3, 13)
	assert.Equal(t, date(2024, 3, 17), Navigate(anchor, 1))
	assert.Equal(t, date(2024, 3, 3), Navigate(anchor, -1))
	assert.Equal(t, date(2024, 3, 10), Navigate(anchor, 0))
}

func TestBuildWeekSpansSundayToSaturday(t *testing.T) {
	week := BuildWeek(date(2024, 3, 13), nil, nil)
	require.Len(t, week.Days, 7)
	assert.Equal(t, "2024-03-10", week.Start)
	assert.Equal(t, "2024-03-16", week.End)
	assert.Equal(t, "2024-03-03", week.Prev)
	assert.Equal(t, "2024-03-17", week.Next)
	assert.Equal(t, "Sunday", week.Days[0].Weekday)
	assert.Equal(t, "2024-03-16", week.Days[6].Date)
	assert.Equal(t, "Saturday", week.Days[6].Weekday)
}

func TestBuildWeekGroupsConfirmedTradesByTime(t *testing.T) {
	trades := []TradeDTO{
		{ID: uuid.New(), Date: "2024-03-12", Time: "18:30", Status: enums.TradeStatusConfirmed},
		{ID: uuid.New(), Date: "2024-03-12", Time: "09:15", Status: enums.TradeStatusConfirmed},
		{ID: uuid.New(), Date: "2024-03-12", Time: "18:30", Status: enums.TradeStatusConfirmed},
		{ID: uuid.New(), Date: "2024-03-12", Time: "", Status: enums.TradeStatusConfirmed},
		{ID: uuid.New(), Date: "2024-03-12", Time: "11:00", Status: enums.TradeStatusCancelled},
	}

	week := BuildWeek(date(2024, 3, 13), trades, nil)
	tuesday := week.Days[2]
	require.Equal(t, "2024-03-12", tuesday.Date)
	assert.Equal(t, 4, tuesday.TradeCount)
	require.Len(t, tuesday.Slots, 3)

	assert.Equal(t, "", tuesday.Slots[0].Time)
	assert.Equal(t, "TBD", tuesday.Slots[0].Label)
	assert.Equal(t, "09:15", tuesday.Slots[1].Time)
	assert.Equal(t, "9:15 AM", tuesday.Slots[1].Label)
	assert.Equal(t, "18:30", tuesday.Slots[2].Time)
	assert.Equal(t, "6:30 PM", tuesday.Slots[2].Label)
	assert.Len(t, tuesday.Slots[2].Trades, 2)
}

func TestBuildWeekAllDayBlockHidesTrades(t *testing.T) {
	reason := "Inventory"
	start, end := "12:00:00", "14:00:00"
	blocks := []models.LocationBlockedTime{
		{ID: uuid.New(), Date: date(2024, 3, 14), AllDay: true, Reason: &reason},
		{ID: uuid.New(), Date: date(2024, 3, 15), StartTime: &start, EndTime: &end},
	}
	trades := []TradeDTO{
		{ID: uuid.New(), Date: "2024-03-14", Time: "10:00", Status: enums.TradeStatusConfirmed},
		{ID: uuid.New(), Date: "2024-03-15", Time: "10:00", Status: enums.TradeStatusConfirmed},
	}

	week := BuildWeek(date(2024, 3, 10), trades, blocks)

	thursday := week.Days[4]
	assert.True(t, thursday.Blocked)
	require.NotNil(t, thursday.BlockReason)
	assert.Equal(t, "Inventory", *thursday.BlockReason)
	assert.Empty(t, thursday.Slots)
	assert.Zero(t, thursday.TradeCount)

	friday := week.Days[5]
	assert.False(t, friday.Blocked)
	require.Len(t, friday.Windows, 1)
	assert.Equal(t, "12:00 PM - 2:00 PM", friday.Windows[0].Label)
	assert.Len(t, friday.Slots, 1)
}
