// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"recruit-analytics/internal/analytics"
	"recruit-analytics/internal/common/camunda"
	"recruit-analytics/internal/common/config"
	"recruit-analytics/internal/common/logger"
	"recruit-analytics/internal/models"
	"recruit-analytics/pkg/registry"

	computefunnelmetric "recruit-analytics/internal/workers/analytics/compute-funnel-metric"
	detectfollowupalerts "recruit-analytics/internal/workers/analytics/detect-followup-alerts"
	suggestcolumnmapping "recruit-analytics/internal/workers/analytics/suggest-column-mapping"
	sendalertdigest "recruit-analytics/internal/workers/communication/send-alert-digest"
)

const roster = `姓,説明会予約日,説明会参加状態,選考希望状態,一次選考日程,一次選考結果
欠席,2025/11/10,,,,
遅延,2025/10/31,参加,希望,,
直前,2025/11/21,,,,
合格,11月1日,出席,希望,11/12,合格
`

const asOf = "2025-11-20T09:30:00Z"

type recordingSES struct {
	inputs []*ses.SendEmailInput
}

func (r *recordingSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	r.inputs = append(r.inputs, params)
	return &ses.SendEmailOutput{}, nil
}

type recordingSNS struct {
	inputs []*sns.PublishInput
}

func (r *recordingSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	r.inputs = append(r.inputs, params)
	return &sns.PublishOutput{}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{Analytics: config.DefaultAnalytics()}
	cfg.Notifications.Email.Enabled = true
	cfg.Notifications.Email.FromEmail = "alerts@example.com"
	cfg.Notifications.Email.Recipients = []string{"recruiting@example.com"}
	cfg.Notifications.SMS.Enabled = true
	cfg.Notifications.SMS.PhoneNumbers = []string{"+819012345678"}
	return cfg
}

// handOver passes one worker's output to the next the way the broker does,
// as JSON process variables.
func handOver(t *testing.T, from interface{}, to interface{}) {
	t.Helper()
	data, err := json.Marshal(from)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, to))
}

// TestPipeline runs suggest, compute, detect and digest in process with the
// delivery clients recorded instead of sent.
func TestPipeline(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	log := logger.NewTestLogger(t)
	source := analytics.RosterSource{RosterCSV: roster}

	// 1. suggest-column-mapping
	suggest := suggestcolumnmapping.NewHandler(suggestcolumnmapping.LoadConfig(cfg), log)
	suggested, err := suggest.Execute(ctx, &suggestcolumnmapping.Input{RosterSource: source})
	require.NoError(t, err)
	require.True(t, suggested.Complete, "unresolved: %v", suggested.UnresolvedRoles)
	assert.Equal(t, "一次選考日程", suggested.ColumnMapping.FirstInterviewDate)

	// 2. compute-funnel-metric with the suggested mapping
	compute := computefunnelmetric.NewHandler(computefunnelmetric.LoadConfig(cfg), log)
	var metricInput computefunnelmetric.Input
	handOver(t, suggested, &metricInput)
	metricInput.RosterSource = source
	metricInput.Stage = models.StageSeminarReservation
	metricInput.Metric = models.MetricAttendanceRate

	metric, err := compute.Execute(ctx, &metricInput)
	require.NoError(t, err)
	assert.Equal(t, 2, metric.Numerator)
	assert.Equal(t, 4, metric.Denominator)
	assert.Equal(t, "50.0%", metric.Display)

	// 3. detect-followup-alerts pinned to asOf
	detect := detectfollowupalerts.NewHandler(detectfollowupalerts.LoadConfig(cfg), log)
	var detectInput detectfollowupalerts.Input
	handOver(t, suggested, &detectInput)
	detectInput.RosterSource = source
	detectInput.AsOf = asOf

	detected, err := detect.Execute(ctx, &detectInput)
	require.NoError(t, err)
	assert.Equal(t, asOf, detected.AsOf)
	assert.Equal(t, 3, detected.TotalFlagged)

	// 4. send-alert-digest
	email := &recordingSES{}
	sms := &recordingSNS{}
	digest := sendalertdigest.NewHandlerWithClients(sendalertdigest.LoadConfig(cfg), log, email, sms)
	var digestInput sendalertdigest.Input
	handOver(t, detected, &digestInput)

	sent, err := digest.Execute(ctx, &digestInput)
	require.NoError(t, err)
	assert.Equal(t, sendalertdigest.StatusSent, sent.Status)
	assert.Equal(t, 3, sent.TotalAlerts)
	assert.Equal(t, 1, sent.EmailsSent)
	assert.Equal(t, 1, sent.SMSSent)

	require.Len(t, email.inputs, 1)
	assert.Equal(t, "[採用フォローアップ] 要対応 3件 (2025/11/20)", *email.inputs[0].Message.Subject.Data)
	body := *email.inputs[0].Message.Body.Text.Data
	assert.Contains(t, body, "欠席 (行 2)")
	assert.Contains(t, body, "遅延 (行 3)")
	assert.Contains(t, body, "直前 (行 4)")
	assert.NotContains(t, body, "合格 (行 5)")
	require.Len(t, sms.inputs, 1)
}

// TestPipeline_ShiftJISUpload checks an export saved by a Japanese
// spreadsheet gives the same figures as its UTF-8 copy.
func TestPipeline_ShiftJISUpload(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	log := logger.NewTestLogger(t)

	encoded, err := japanese.ShiftJIS.NewEncoder().String(roster)
	require.NoError(t, err)
	sjis := analytics.RosterSource{RosterBase64: base64.StdEncoding.EncodeToString([]byte(encoded))}
	utf8 := analytics.RosterSource{RosterCSV: roster}

	detect := detectfollowupalerts.NewHandler(detectfollowupalerts.LoadConfig(cfg), log)
	mapping, _ := analytics.SuggestMapping([]string{"姓", "説明会予約日", "説明会参加状態", "選考希望状態", "一次選考日程", "一次選考結果"})

	fromSJIS, err := detect.Execute(ctx, &detectfollowupalerts.Input{RosterSource: sjis, ColumnMapping: mapping, AsOf: asOf})
	require.NoError(t, err)
	fromUTF8, err := detect.Execute(ctx, &detectfollowupalerts.Input{RosterSource: utf8, ColumnMapping: mapping, AsOf: asOf})
	require.NoError(t, err)

	assert.Equal(t, fromUTF8.Alerts, fromSJIS.Alerts)
	assert.Equal(t, fromUTF8.TotalFlagged, fromSJIS.TotalFlagged)
}

// TestBroker_Topology needs a running gateway; set ZEEBE_ADDRESS to enable it.
func TestBroker_Topology(t *testing.T) {
	address := os.Getenv("ZEEBE_ADDRESS")
	if address == "" {
		t.Skip("ZEEBE_ADDRESS not set")
	}

	client, err := camunda.NewClient(address)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, client.HealthCheck(ctx))

	reg := registry.Default()
	for _, taskType := range []string{
		computefunnelmetric.TaskType,
		detectfollowupalerts.TaskType,
		suggestcolumnmapping.TaskType,
		sendalertdigest.TaskType,
	} {
		_, ok := reg.Find(taskType)
		assert.True(t, ok, taskType)
	}
}
