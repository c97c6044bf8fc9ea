// internal/common/aws/aws_test.go
package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextEmail(t *testing.T) {
	input := TextEmail("noreply@example.com", []string{"hr@example.com"}, "フォローアップ", "本文")

	assert.Equal(t, "noreply@example.com", *input.Source)
	assert.Equal(t, []string{"hr@example.com"}, input.Destination.ToAddresses)
	assert.Equal(t, "フォローアップ", *input.Message.Subject.Data)
	assert.Equal(t, "UTF-8", *input.Message.Subject.Charset)
	require.NotNil(t, input.Message.Body.Text)
	assert.Equal(t, "本文", *input.Message.Body.Text.Data)
	assert.Nil(t, input.Message.Body.Html)
}

func TestTextSMS(t *testing.T) {
	input := TextSMS("+819012345678", "3 alerts", "")

	assert.Equal(t, "+819012345678", *input.PhoneNumber)
	assert.Equal(t, "3 alerts", *input.Message)
	assert.Contains(t, input.MessageAttributes, "AWS.SNS.SMS.SMSType")
	assert.NotContains(t, input.MessageAttributes, "AWS.SNS.SMS.SenderID")

	withSender := TextSMS("+819012345678", "3 alerts", "Recruit")
	assert.Equal(t, "Recruit", *withSender.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue)
}
