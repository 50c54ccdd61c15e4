// sms отправляет SMS-уведомления.
// Twilio — боевая отправка через twilio-go; Discard — заглушка, когда
// учётные данные не заданы.
package sms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/pribylovaa/go-travel-warnings/internal/config"
	"github.com/pribylovaa/go-travel-warnings/pkg/log"
	"github.com/pribylovaa/go-travel-warnings/pkg/redact"
)

// ErrEmptyPhone — пустой номер получателя.
var ErrEmptyPhone = errors.New("empty phone number")

// messageAPI — часть клиента Twilio, нужная для отправки.
type messageAPI interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Twilio отправляет SMS через REST API Twilio.
type Twilio struct {
	api  messageAPI
	from string
}

// NewTwilio создаёт отправителя по учётным данным из cfg.
func NewTwilio(cfg config.SMSConfig) (*Twilio, error) {
	const op = "sms/sms/NewTwilio"

	if !cfg.Enabled() {
		return nil, fmt.Errorf("%s: twilio credentials are not configured", op)
	}

	if cfg.From == "" {
		return nil, fmt.Errorf("%s: empty sender number", op)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &Twilio{api: client.Api, from: cfg.From}, nil
}

// Send отправляет text на phone. Повторов нет.
func (t *Twilio) Send(ctx context.Context, phone, text string) error {
	const op = "sms/sms/Send"

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyPhone)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(t.from)
	params.SetBody(text)

	msg, err := t.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("%s: create message: %w", op, err)
	}

	var sid string
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}

	log.From(ctx).Debug("sms_sent",
		slog.String("op", op),
		slog.String("to", redact.Phone(phone)),
		slog.String("sid", sid),
	)

	return nil
}

// Discard принимает сообщения и никуда их не отправляет.
type Discard struct{}

func (Discard) Send(ctx context.Context, phone, text string) error {
	const op = "sms/sms/Discard"

	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyPhone)
	}

	log.From(ctx).Debug("sms_discarded",
		slog.String("op", op),
		slog.String("to", redact.Phone(phone)),
		slog.Int("len", len(text)),
	)

	return nil
}
