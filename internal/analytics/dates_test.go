// internal/analytics/dates_test.go
package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"recruit-analytics/internal/models"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Date
	}{
		{"full date", "2025/11/4", models.NewDate(2025, time.November, 4)},
		{"full date in noise", "予約済 2025/1/9 10:00〜", models.NewDate(2025, time.January, 9)},
		{"first full date wins", "2025/11/4 → 2025/12/1", models.NewDate(2025, time.November, 4)},
		{"month day in season", "9月3日", models.NewDate(2025, time.September, 3)},
		{"month day rolls over", "1月15日", models.NewDate(2026, time.January, 15)},
		{"march rolls over", "3月31日（火）", models.NewDate(2026, time.March, 31)},
		{"april stays", "4月1日", models.NewDate(2025, time.April, 1)},
		{"full-width digits", "１１月４日", models.NewDate(2025, time.November, 4)},
		{"full date preferred over month day", "11月5日 (2024/11/5)", models.NewDate(2024, time.November, 5)},
		{"empty", "", models.NoDate},
		{"blank", "   ", models.NoDate},
		{"garbage", "未定", models.NoDate},
		{"impossible day", "2025/2/30", models.NoDate},
		{"impossible month", "13月1日", models.NoDate},
		{"month zero", "2025/0/10", models.NoDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDate(tt.text, 2025))
		})
	}
}

func TestParseDate_CanonicalRoundTrip(t *testing.T) {
	for _, text := range []string{"2025/11/4", "1月15日", "12月31日", "2024/2/29"} {
		d := ParseDate(text, 2025)
		assert.True(t, d.Valid, text)
		assert.Equal(t, d, ParseDate(d.String(), 2025), text)
	}
}

func TestParseDate_ReferenceYear(t *testing.T) {
	parser := DateParser{ReferenceYear: 2030}

	assert.Equal(t, models.NewDate(2031, time.February, 1), parser.Parse("2月1日"))
	assert.Equal(t, models.NewDate(2030, time.October, 1), parser.Parse("10月1日"))
}

func TestElapsedDays(t *testing.T) {
	now := time.Date(2025, time.November, 20, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, 0, ElapsedDays(now, models.NewDate(2025, time.November, 20)))
	assert.Equal(t, 10, ElapsedDays(now, models.NewDate(2025, time.November, 10)))
	assert.Equal(t, -1, ElapsedDays(now, models.NewDate(2025, time.November, 21)))
	assert.Equal(t, -3, ElapsedDays(now, models.NewDate(2025, time.November, 23)))
	assert.Equal(t, -4, ElapsedDays(now, models.NewDate(2025, time.November, 24)))
}

func TestElapsedDays_UsesWallClock(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	now := time.Date(2025, time.November, 20, 1, 0, 0, 0, jst)

	assert.Equal(t, 0, ElapsedDays(now, models.NewDate(2025, time.November, 20)))
	assert.True(t, isPast(now, models.NewDate(2025, time.November, 20)))
	assert.False(t, isPast(now, models.NewDate(2025, time.November, 21)))
	assert.False(t, isPast(now, models.NoDate))
}

func TestIsUpcoming(t *testing.T) {
	now := time.Date(2025, time.November, 20, 10, 0, 0, 0, time.UTC)

	assert.False(t, isUpcoming(now, models.NewDate(2025, time.November, 20), 3))
	assert.True(t, isUpcoming(now, models.NewDate(2025, time.November, 21), 3))
	assert.True(t, isUpcoming(now, models.NewDate(2025, time.November, 23), 3))
	assert.False(t, isUpcoming(now, models.NewDate(2025, time.November, 24), 3))
	assert.False(t, isUpcoming(now, models.NoDate, 3))

	midnight := time.Date(2025, time.November, 20, 0, 0, 0, 0, time.UTC)
	today := models.NewDate(2025, time.November, 20)
	assert.True(t, isUpcoming(midnight, today, 3))
	assert.False(t, isPast(midnight, today))
}
