// internal/analytics/funnel_test.go
package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-analytics/internal/common/config"
	"recruit-analytics/internal/common/errors"
	"recruit-analytics/internal/models"
)

func funnelRoster(t *testing.T) *Roster {
	return prepare(t, testTable(
		// attended, wanted, interviewed, passed, offer accepted
		row(map[string]string{"姓": "A", "説明会予約日": "11月1日", "説明会参加状態": "参加", "選考希望状態": "希望",
			"一次選考日程": "11月20日", "一次選考結果": "合格", "内定状況": "内定承諾"}),
		// attended, wanted, interviewed, failed
		row(map[string]string{"姓": "B", "説明会予約日": "11月1日", "説明会参加状態": "参加", "選考希望状態": "希望",
			"一次選考日程": "11月21日", "一次選考結果": "不合格"}),
		// attended, wanted, scheduled but withdrew
		row(map[string]string{"姓": "C", "説明会予約日": "11月2日", "説明会参加状態": "出席", "選考希望状態": "希望",
			"一次選考日程": "11月22日", "一次選考結果": "辞退"}),
		// attended, not interested
		row(map[string]string{"姓": "D", "説明会予約日": "11月2日", "説明会参加状態": "参加", "選考希望状態": "検討中"}),
		// reserved, absent
		row(map[string]string{"姓": "E", "説明会予約日": "11月3日", "説明会参加状態": "欠席"}),
		// never reserved
		row(map[string]string{"姓": "F"}),
	))
}

func TestCompute_Table(t *testing.T) {
	roster := funnelRoster(t)

	tests := []struct {
		stage       models.Stage
		metric      models.MetricKind
		numerator   int
		denominator int
		display     string
	}{
		{models.StageSeminarReservation, models.MetricAttendanceRate, 4, 5, "80.0%"},
		{models.StageSeminarReservation, models.MetricAbsenceRate, 1, 5, "20.0%"},
		{models.StageBriefingAttendance, models.MetricInterestRate, 2, 4, "50.0%"},
		{models.StageBriefingAttendance, models.MetricWithdrawalRate, 1, 4, "25.0%"},
		{models.StageFirstInterview, models.MetricInterviewRate, 2, 2, "100.0%"},
		{models.StageFirstInterview, models.MetricPassRate, 1, 2, "50.0%"},
		{models.StageFirstInterview, models.MetricWithdrawalRate, 1, 3, "33.3%"},
		{models.StageOfferAcceptance, models.MetricOfferRate, 1, 1, "100.0%"},
		{models.StageOfferAcceptance, models.MetricAcceptanceRate, 1, 1, "100.0%"},
	}

	for _, tt := range tests {
		sel := models.Selection{Stage: tt.stage, Metric: tt.metric}
		t.Run(sel.Label(), func(t *testing.T) {
			res, err := roster.Metric(sel)
			require.NoError(t, err)

			assert.Equal(t, tt.numerator, res.Numerator)
			assert.Equal(t, tt.denominator, res.Denominator)
			assert.Equal(t, tt.display, res.Display())
			assert.Equal(t, sel.Label(), res.Label)
		})
	}
}

func TestCompute_ReservationDenominatorAll(t *testing.T) {
	records := funnelRoster(t).Records
	opts := FunnelOptions{ReservationDenominator: config.ReservationDenominatorAll, Mapping: testMapping()}

	attend, err := Compute(models.Selection{Stage: models.StageSeminarReservation, Metric: models.MetricAttendanceRate}, records, opts)
	require.NoError(t, err)
	absent, err := Compute(models.Selection{Stage: models.StageSeminarReservation, Metric: models.MetricAbsenceRate}, records, opts)
	require.NoError(t, err)

	assert.Equal(t, 6, attend.Denominator)
	assert.Equal(t, attend.Denominator, attend.Numerator+absent.Numerator)
}

func TestCompute_AttendanceAndAbsenceAddUp(t *testing.T) {
	rosters := [][]map[string]string{
		{{"姓": "A", "説明会予約日": "x", "説明会参加状態": "参加"}},
		{{"姓": "A", "説明会予約日": "x"}, {"姓": "B", "説明会予約日": "y", "説明会参加状態": "不参加"}},
		// attended without a reservation cell is outside the population
		{{"姓": "A", "説明会参加状態": "参加"}, {"姓": "B", "説明会予約日": "y", "説明会参加状態": "出席"}},
	}

	for _, cells := range rosters {
		var rows [][]string
		for _, c := range cells {
			rows = append(rows, row(c))
		}
		roster := prepare(t, testTable(rows...))

		attend, err := roster.Metric(models.Selection{Stage: models.StageSeminarReservation, Metric: models.MetricAttendanceRate})
		require.NoError(t, err)
		absent, err := roster.Metric(models.Selection{Stage: models.StageSeminarReservation, Metric: models.MetricAbsenceRate})
		require.NoError(t, err)

		require.Positive(t, attend.Denominator)
		assert.Equal(t, attend.Denominator, attend.Numerator+absent.Numerator)
	}
}

func TestCompute_EmptyRosterIsInsufficient(t *testing.T) {
	for _, stage := range models.Stages {
		for _, metric := range MetricOptions(stage) {
			sel := models.Selection{Stage: stage, Metric: metric}
			res, err := Compute(sel, nil, FunnelOptions{ReservationDenominator: config.ReservationDenominatorReserved, Mapping: testMapping()})
			require.NoError(t, err)

			assert.False(t, res.Sufficient(), sel.Label())
			assert.Nil(t, res.Percentage)
			assert.Equal(t, models.InsufficientData, res.Display())
		}
	}
}

func TestCompute_InvalidSelection(t *testing.T) {
	_, err := Compute(models.Selection{Stage: models.StageSeminarReservation, Metric: models.MetricPassRate}, nil, FunnelOptions{})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidMetricSelection))

	_, err = Compute(models.Selection{Stage: "hiring", Metric: models.MetricOfferRate}, nil, FunnelOptions{})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidMetricSelection))
}

func TestCompute_OfferNeedsFinalStatus(t *testing.T) {
	mapping := testMapping()
	mapping.FinalStatus = ""

	_, err := Compute(models.Selection{Stage: models.StageOfferAcceptance, Metric: models.MetricOfferRate}, nil, FunnelOptions{Mapping: mapping})
	assert.True(t, errors.HasCode(err, errors.ErrCodeMissingColumn))
}

func TestCompute_NotClamped(t *testing.T) {
	// wanted counts over the whole roster, so it may exceed the attended denominator
	roster := prepare(t, testTable(
		row(map[string]string{"姓": "A", "説明会参加状態": "参加", "選考希望状態": "希望"}),
		row(map[string]string{"姓": "B", "選考希望状態": "希望"}),
	))

	res, err := roster.Metric(models.Selection{Stage: models.StageBriefingAttendance, Metric: models.MetricInterestRate})
	require.NoError(t, err)
	assert.Equal(t, "200.0%", res.Display())
}

func TestMetricOptions(t *testing.T) {
	assert.Equal(t, []models.MetricKind{models.MetricPassRate}, MetricOptions(models.StageFirstInterview)[1:2])
	assert.Len(t, MetricOptions(models.StageFirstInterview), 3)
	assert.Nil(t, MetricOptions("unknown"))
}
