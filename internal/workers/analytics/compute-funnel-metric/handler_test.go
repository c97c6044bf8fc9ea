// internal/workers/analytics/compute-funnel-metric/handler_test.go
package computefunnelmetric

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"recruit-analytics/internal/analytics"
	"recruit-analytics/internal/common/config"
	"recruit-analytics/internal/common/errors"
	"recruit-analytics/internal/common/logger"
	"recruit-analytics/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

const testRoster = `姓,名,説明会予約日,説明会参加状態,選考希望状態,一次選考日程,一次選考結果,内定状況
山田,太郎,2025/11/1,参加,希望,11月10日,合格,内定承諾
佐藤,花子,11月2日,欠席,,,,
鈴木,一郎,11月3日,参加,辞退,,,
,名無し,11月4日,参加,,,,
田中,,,,,,,
`

func createTestConfig() *Config {
	return &Config{
		Analytics: analytics.DefaultOptions(),
		Timeout:   10 * time.Second,
	}
}

func createTestMapping() models.ColumnMapping {
	return models.ColumnMapping{
		LastName:             "姓",
		FirstName:            "名",
		ReservationDate:      "説明会予約日",
		BriefingStatus:       "説明会参加状態",
		SelectionStatus:      "選考希望状態",
		FirstInterviewDate:   "一次選考日程",
		FirstInterviewResult: "一次選考結果",
	}
}

func createTestInput(stage models.Stage, metric models.MetricKind) *Input {
	return &Input{
		RosterSource:  analytics.RosterSource{RosterCSV: testRoster},
		ColumnMapping: createTestMapping(),
		Stage:         stage,
		Metric:        metric,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name        string
		input       func() *Input
		numerator   int
		denominator int
		display     string
	}{
		{
			name: "attendance over reserved candidates",
			input: func() *Input {
				return createTestInput(models.StageSeminarReservation, models.MetricAttendanceRate)
			},
			numerator:   2,
			denominator: 3,
			display:     "66.7%",
		},
		{
			name: "attendance over every candidate",
			input: func() *Input {
				in := createTestInput(models.StageSeminarReservation, models.MetricAttendanceRate)
				in.ReservationDenominator = config.ReservationDenominatorAll
				return in
			},
			numerator:   2,
			denominator: 4,
			display:     "50.0%",
		},
		{
			name: "interest among attendees",
			input: func() *Input {
				return createTestInput(models.StageBriefingAttendance, models.MetricInterestRate)
			},
			numerator:   1,
			denominator: 2,
			display:     "50.0%",
		},
		{
			name: "pass rate",
			input: func() *Input {
				return createTestInput(models.StageFirstInterview, models.MetricPassRate)
			},
			numerator:   1,
			denominator: 1,
			display:     "100.0%",
		},
		{
			name: "acceptance with final status mapped",
			input: func() *Input {
				in := createTestInput(models.StageOfferAcceptance, models.MetricAcceptanceRate)
				in.ColumnMapping.FinalStatus = "内定状況"
				return in
			},
			numerator:   1,
			denominator: 1,
			display:     "100.0%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), tt.input())

			require.NoError(t, err)
			assert.Equal(t, tt.numerator, output.Numerator)
			assert.Equal(t, tt.denominator, output.Denominator)
			assert.Equal(t, tt.display, output.Display)
			assert.True(t, output.Sufficient)
			assert.Equal(t, 5, output.Rows)
			assert.Equal(t, 1, output.DroppedRows)
			assert.NotEmpty(t, output.RunID)
		})
	}
}

func TestHandler_Execute_InsufficientData(t *testing.T) {
	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	input := createTestInput(models.StageOfferAcceptance, models.MetricOfferRate)
	input.ColumnMapping.FinalStatus = "内定状況"
	input.ColumnMapping.FirstName = ""
	input.RosterCSV = "姓,説明会予約日,説明会参加状態,選考希望状態,一次選考日程,一次選考結果,内定状況\n"

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 0, output.Denominator)
	assert.Nil(t, output.Percentage)
	assert.False(t, output.Sufficient)
	assert.Equal(t, models.InsufficientData, output.Display)
}

func TestHandler_Execute_ShiftJISUpload(t *testing.T) {
	sjis, err := japanese.ShiftJIS.NewEncoder().String(
		"姓,説明会予約日,説明会参加状態,選考希望状態,一次選考日程,一次選考結果\n山田,11月1日,参加,,,\n")
	require.NoError(t, err)
	mapping := createTestMapping()
	mapping.FirstName = ""

	handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{
		RosterSource:  analytics.RosterSource{RosterBase64: base64.StdEncoding.EncodeToString([]byte(sjis))},
		ColumnMapping: mapping,
		Stage:         models.StageSeminarReservation,
		Metric:        models.MetricAttendanceRate,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.Numerator)
	assert.Equal(t, 1, output.Denominator)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input func() *Input
		code  errors.ErrorCode
	}{
		{
			name: "metric not offered for stage",
			input: func() *Input {
				return createTestInput(models.StageSeminarReservation, models.MetricPassRate)
			},
			code: errors.ErrCodeInvalidMetricSelection,
		},
		{
			name: "final status unmapped",
			input: func() *Input {
				return createTestInput(models.StageOfferAcceptance, models.MetricOfferRate)
			},
			code: errors.ErrCodeMissingColumn,
		},
		{
			name: "mapped header absent",
			input: func() *Input {
				in := createTestInput(models.StageSeminarReservation, models.MetricAttendanceRate)
				in.ColumnMapping.BriefingStatus = "参加区分"
				return in
			},
			code: errors.ErrCodeMissingColumn,
		},
		{
			name: "empty upload",
			input: func() *Input {
				in := createTestInput(models.StageSeminarReservation, models.MetricAttendanceRate)
				in.RosterCSV = "\n"
				return in
			},
			code: errors.ErrCodeMalformedRoster,
		},
		{
			name: "reference year override out of range",
			input: func() *Input {
				in := createTestInput(models.StageSeminarReservation, models.MetricAttendanceRate)
				in.ReferenceYear = 12
				return in
			},
			code: errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(createTestConfig(), logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), tt.input())

			assert.Nil(t, output)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		valid     bool
	}{
		{
			name:      "valid",
			variables: `{"rosterCsv":"姓\n山田\n","stage":"first_interview","metric":"pass_rate","otherProcessVar":1}`,
			valid:     true,
		},
		{
			name:      "unknown stage",
			variables: `{"rosterCsv":"姓\n","stage":"final","metric":"pass_rate"}`,
		},
		{
			name:      "missing metric",
			variables: `{"rosterCsv":"姓\n","stage":"first_interview"}`,
		},
		{
			name:      "no roster",
			variables: `{"stage":"first_interview","metric":"pass_rate"}`,
		},
		{
			name:      "bad denominator",
			variables: `{"rosterCsv":"姓\n","stage":"first_interview","metric":"pass_rate","reservationDenominator":"attended"}`,
		},
		{
			name:      "not json",
			variables: `{`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := parseInput(tt.variables)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, models.StageFirstInterview, input.Stage)
				assert.Equal(t, models.MetricPassRate, input.Metric)
				return
			}
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput), "got %v", err)
		})
	}
}

func TestGetInputSchema_OffersEveryMetric(t *testing.T) {
	schema := GetInputSchema()
	assert.Len(t, schema.Properties["stage"].Enum, len(models.Stages))
	assert.ElementsMatch(t, []string{
		"attendance_rate", "absence_rate", "interest_rate", "withdrawal_rate",
		"interview_rate", "pass_rate", "offer_rate", "acceptance_rate",
	}, schema.Properties["metric"].Enum)
}
