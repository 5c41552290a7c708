package service

import (
	"context"
	"testing"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWithoutMailer(t *testing.T) {
	s := NewEmailService(nil, logger.Nop())
	assert.False(t, s.Configured())
	err := s.Send(context.Background(), dto.EmailRequest{To: "a@b.c", Subject: "s", HTML: "<p>x</p>"})
	assert.ErrorIs(t, err, errorz.ErrEmailNotConfigured)
}

func TestSendRequiresFields(t *testing.T) {
	mail := &fakeMailer{}
	s := NewEmailService(mail, logger.Nop())
	err := s.Send(context.Background(), dto.EmailRequest{To: "a@b.c", HTML: "<p>x</p>"})
	var verr *errorz.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Missing required fields: to, subject, html", verr.Message)
	assert.Empty(t, mail.messages())
}

func TestSendDerivesText(t *testing.T) {
	mail := &fakeMailer{}
	s := NewEmailService(mail, logger.Nop())
	require.NoError(t, s.Send(context.Background(), dto.EmailRequest{
		To:      "a@b.c",
		Subject: "Hello",
		HTML:    "<h1>Hi</h1><p>there</p>",
	}))
	sent := mail.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Hithere", sent[0].Text)

	require.NoError(t, s.Send(context.Background(), dto.EmailRequest{
		To:      "a@b.c",
		Subject: "Hello",
		HTML:    "<p>x</p>",
		Text:    "plain",
	}))
	assert.Equal(t, "plain", mail.messages()[1].Text)
}

func TestRegistrationConfirmationBody(t *testing.T) {
	mail := &fakeMailer{}
	s := NewEmailService(mail, logger.Nop())
	event := futureEvent("e1")
	event.Time = "13:05"

	require.NoError(t, s.SendRegistrationConfirmation(context.Background(), "a@b.c", event))
	sent := mail.messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].HTML, "Registration Confirmed!")
	assert.Contains(t, sent[0].HTML, "1:05 PM")
	assert.Contains(t, sent[0].HTML, "Hall B")
}
