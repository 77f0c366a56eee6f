package notifier

import (
	"errors"
	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/boss-scraper/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type mockApi struct {
	SentMessages []botApi.Chattable
	err          error
}

func (m *mockApi) Send(chattable botApi.Chattable) (botApi.Message, error) {
	m.SentMessages = append(m.SentMessages, chattable)
	return botApi.Message{}, m.err
}

func Test_RunFinished_SendsSummary(t *testing.T) {

	api := &mockApi{}
	bus := EventBus.New()
	_, err := subscribe(&Telegram{api: api, chatID: 42}, bus)
	require.NoError(t, err)

	bus.Publish(events.RunFinishedTopic, events.RunFinished{
		Kind:     events.ScrapeRun,
		Success:  true,
		Pages:    3,
		Imported: 88,
		Total:    90,
		Duration: 95 * time.Second,
	})

	require.Len(t, api.SentMessages, 1)
	msg := api.SentMessages[0].(botApi.MessageConfig)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "scrape run finished in 1m35s\npages: 3\nimported: 88/90", msg.Text)
}

func Test_RunFinished_SendFailureIsLogged(t *testing.T) {

	api := &mockApi{err: errors.New("forbidden")}
	bus := EventBus.New()
	_, err := subscribe(&Telegram{api: api, chatID: 1}, bus)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		bus.Publish(events.RunFinishedTopic, events.RunFinished{Kind: events.ImportRun})
	})
	assert.Len(t, api.SentMessages, 1)
}

func Test_FormatRunSummary_Failure(t *testing.T) {

	text := FormatRunSummary(events.RunFinished{
		Kind:  events.ImportRun,
		Pages: 2,
		Err:   errors.New("no json files found"),
	})

	assert.Equal(t, "import run failed in 0s\nfiles: 2\nimported: 0/0\nerror: no json files found", text)
}
