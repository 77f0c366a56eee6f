package notifier

import (
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/boss-scraper/internal/events"
	"github.com/maxaizer/boss-scraper/internal/logger"
	log "github.com/sirupsen/logrus"
	"strings"
	"time"
)

type apiInterface interface {
	Send(chattable botApi.Chattable) (botApi.Message, error)
}

// Telegram posts a summary of every finished run to a single chat.
type Telegram struct {
	api    apiInterface
	chatID int64
}

func NewTelegram(token string, chatID int64, bus EventBus.Bus) (*Telegram, error) {

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	if err = botApi.SetLogger(log.StandardLogger()); err != nil {
		return nil, err
	}

	return subscribe(&Telegram{api: api, chatID: chatID}, bus)
}

func subscribe(t *Telegram, bus EventBus.Bus) (*Telegram, error) {
	if err := bus.Subscribe(events.RunFinishedTopic, t.onRunFinished); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Telegram) onRunFinished(event events.RunFinished) {
	msg := botApi.NewMessage(t.chatID, FormatRunSummary(event))
	if _, err := t.api.Send(msg); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).Errorf("error occurred while sending message: %v", err)
	}
}

func FormatRunSummary(event events.RunFinished) string {

	var sb strings.Builder

	status := "finished"
	if !event.Success {
		status = "failed"
	}
	sb.WriteString(fmt.Sprintf("%s run %s in %v\n", event.Kind, status, event.Duration.Round(time.Second)))

	unit := "pages"
	if event.Kind == events.ImportRun {
		unit = "files"
	}
	sb.WriteString(fmt.Sprintf("%s: %d\n", unit, event.Pages))
	sb.WriteString(fmt.Sprintf("imported: %d/%d", event.Imported, event.Total))

	if event.Err != nil {
		sb.WriteString(fmt.Sprintf("\nerror: %v", event.Err))
	}
	return sb.String()
}
