package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/plastinin/doctext/internal/domain"
	"github.com/plastinin/doctext/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConversation struct {
	mu         sync.Mutex
	starts     []int64
	uploads    []usecase.UploadInput
	selections []usecase.SelectionInput
	err        error
	panicOn    string
}

func (f *fakeConversation) HandleStart(_ context.Context, chatID int64) (*usecase.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, chatID)
	return &usecase.Result{Outcome: domain.OutcomeGreeted, States: []domain.State{domain.StateIdle}}, f.err
}

func (f *fakeConversation) HandleUpload(_ context.Context, in usecase.UploadInput) (*usecase.Result, error) {
	if f.panicOn == "upload" {
		panic("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, in)
	return &usecase.Result{Outcome: domain.OutcomeExtracted, States: []domain.State{domain.StateIdle, domain.StateExtracting, domain.StateAwaitingFormatChoice}}, f.err
}

func (f *fakeConversation) HandleSelection(_ context.Context, in usecase.SelectionInput) (*usecase.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selections = append(f.selections, in)
	return &usecase.Result{Outcome: domain.OutcomeExported, States: []domain.State{domain.StateAwaitingFormatChoice, domain.StateExporting, domain.StateIdle}}, f.err
}

type fakeAnswerer struct {
	answered []string
	err      error
}

func (f *fakeAnswerer) AnswerCallback(_ context.Context, id string) error {
	f.answered = append(f.answered, id)
	return f.err
}

func newTestDispatcher() (*Dispatcher, *fakeConversation, *fakeAnswerer) {
	conv := &fakeConversation{}
	answerer := &fakeAnswerer{}
	return NewDispatcher(conv, answerer, zap.NewNop()), conv, answerer
}

func startCommand(chatID int64) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{ID: chatID},
		Text: "/start",
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len("/start")},
		},
	}
}

func TestDispatch_StartCommand(t *testing.T) {
	d, conv, _ := newTestDispatcher()

	err := d.Dispatch(context.Background(), tgbotapi.Update{UpdateID: 1, Message: startCommand(42)})

	require.NoError(t, err)
	assert.Equal(t, []int64{42}, conv.starts)
}

func TestDispatch_OtherCommandIgnored(t *testing.T) {
	d, conv, _ := newTestDispatcher()
	msg := startCommand(42)
	msg.Text = "/help"
	msg.Entities[0].Length = len("/help")

	require.NoError(t, d.Dispatch(context.Background(), tgbotapi.Update{Message: msg}))
	assert.Empty(t, conv.starts)
	assert.Empty(t, conv.uploads)
}

func TestDispatch_Document(t *testing.T) {
	d, conv, _ := newTestDispatcher()

	err := d.Dispatch(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 100},
		From: &tgbotapi.User{ID: 7},
		Document: &tgbotapi.Document{
			FileID:   "doc-file-id",
			FileName: "Scan.PDF",
			FileSize: 2048,
		},
	}})

	require.NoError(t, err)
	require.Len(t, conv.uploads, 1)
	assert.Equal(t, usecase.UploadInput{
		OwnerID:  7,
		ChatID:   100,
		FileName: "Scan.PDF",
		FileRef:  "doc-file-id",
		FileSize: 2048,
	}, conv.uploads[0])
}

func TestDispatch_PhotoUsesLargestSize(t *testing.T) {
	d, conv, _ := newTestDispatcher()

	err := d.Dispatch(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 5},
		From: &tgbotapi.User{ID: 5},
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", FileUniqueID: "u-small", Width: 90, Height: 90, FileSize: 1000},
			{FileID: "large", FileUniqueID: "u-large", Width: 1280, Height: 1280, FileSize: 90000},
		},
	}})

	require.NoError(t, err)
	require.Len(t, conv.uploads, 1)
	assert.Equal(t, "large", conv.uploads[0].FileRef)
	assert.Equal(t, "photo_u-large.jpg", conv.uploads[0].FileName)
	assert.Equal(t, int64(90000), conv.uploads[0].FileSize)
	assert.Equal(t, domain.FileKindImage, domain.ClassifyFileName(conv.uploads[0].FileName))
}

func TestDispatch_PlainTextIgnored(t *testing.T) {
	d, conv, _ := newTestDispatcher()

	err := d.Dispatch(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 5},
		Text: "hello",
	}})

	require.NoError(t, err)
	assert.Empty(t, conv.uploads)
	assert.Empty(t, conv.starts)
}

func TestDispatch_Callback(t *testing.T) {
	d, conv, answerer := newTestDispatcher()

	err := d.Dispatch(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: 7},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 100}},
		Data:    domain.FormatDOCX.Token(),
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{"cb-1"}, answerer.answered)
	require.Len(t, conv.selections, 1)
	assert.Equal(t, usecase.SelectionInput{OwnerID: 7, ChatID: 100, Token: "save_docx"}, conv.selections[0])
}

func TestDispatch_CallbackAnswerFailureDoesNotStopSelection(t *testing.T) {
	d, conv, answerer := newTestDispatcher()
	answerer.err = errors.New("query is too old")

	err := d.Dispatch(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-2",
		From: &tgbotapi.User{ID: 7},
		Data: "save_txt",
	}})

	require.NoError(t, err)
	require.Len(t, conv.selections, 1)
	// Без сообщения отвечаем в личный чат
	assert.Equal(t, int64(7), conv.selections[0].ChatID)
}

func TestDispatch_UnknownSaveTokenStillReachesConversation(t *testing.T) {
	d, conv, _ := newTestDispatcher()

	err := d.Dispatch(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-3",
		From: &tgbotapi.User{ID: 7},
		Data: "save_odt",
	}})

	require.NoError(t, err)
	require.Len(t, conv.selections, 1)
	assert.Equal(t, "save_odt", conv.selections[0].Token)
}

func TestDispatch_ForeignCallbackIgnored(t *testing.T) {
	d, conv, answerer := newTestDispatcher()

	err := d.Dispatch(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-4",
		From: &tgbotapi.User{ID: 7},
		Data: "something_else",
	}})

	require.NoError(t, err)
	assert.Empty(t, conv.selections)
	assert.Empty(t, answerer.answered)
}

func TestDispatch_PropagatesInternalError(t *testing.T) {
	d, conv, _ := newTestDispatcher()
	conv.err = errors.New("send failed")

	err := d.Dispatch(context.Background(), tgbotapi.Update{Message: startCommand(1)})

	assert.ErrorIs(t, err, conv.err)
}

func TestDispatch_RecoversPanic(t *testing.T) {
	d, conv, _ := newTestDispatcher()
	conv.panicOn = "upload"

	err := d.Dispatch(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 1},
		Document: &tgbotapi.Document{FileID: "x", FileName: "a.png"},
	}})

	assert.ErrorIs(t, err, ErrPanic)
}
