package web

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notevault/internal/actions"
	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/config"
	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/models"
	"github.com/dmitrijs2005/notevault/internal/services"
	"github.com/dmitrijs2005/notevault/internal/taxonomy"
	"github.com/dmitrijs2005/notevault/internal/telegram"
)

// Chat is the outbound side of a conversation. *telegram.Client satisfies
// it; tests substitute a recorder.
type Chat interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
}

const (
	msgWelcome        = "Welcome to NoteVault. Press a note link to open its content."
	msgWelcomeAdmin   = "Welcome to NoteVault. Send /new to upload a note, /mynotes to manage your notes."
	msgNotAllowed     = "This action is available to administrators only."
	msgChooseFolder   = "Choose a folder:"
	msgChooseCategory = "Choose a category:"
	msgPromptTitle    = "Send a title for the note."
	msgPromptDesc     = "Send a description."
	msgPromptFile     = "Send the note as an .html file."
	msgCancelled      = "Upload cancelled."
	msgNoNotes        = "You have no notes yet."
	msgUnknownCommand = "Unknown command. Send /start for help."

	msgExpired      = "This dialogue has expired. Send /new to start over."
	msgEmptyInput   = "The message is empty. Please send some text."
	msgBadFile      = "Only .html files are accepted. Please send the note as an .html file."
	msgBadOption    = "That option is not available. Send /new to start over."
	msgStaleButton  = "This button is no longer valid."
	msgStartFirst   = "Send /start first."
	msgUnavailable  = "This note is not available."
	msgNotFound     = "Note not found."
	msgInternal     = "Something went wrong. Please try again later."
	msgUploadFailed = "The upload failed. Send /new to try again."
)

// Bot routes inbound chat updates into the services and renders replies.
// Every update is handled in isolation: the bot itself holds no
// conversation state.
type Bot struct {
	chat      Chat
	contacts  *services.ContactService
	upload    *services.UploadService
	lifecycle *services.LifecycleService
	tax       *taxonomy.Taxonomy
	cfg       *config.Config
	metrics   *Metrics
	logger    logging.Logger
}

func NewBot(
	chat Chat,
	contacts *services.ContactService,
	upload *services.UploadService,
	lifecycle *services.LifecycleService,
	tax *taxonomy.Taxonomy,
	cfg *config.Config,
	metrics *Metrics,
	logger logging.Logger,
) *Bot {
	return &Bot{
		chat:      chat,
		contacts:  contacts,
		upload:    upload,
		lifecycle: lifecycle,
		tax:       tax,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
	}
}

// HandleUpdate dispatches one inbound update. Errors are translated into
// chat replies here; the caller only sees the ones worth logging.
func (b *Bot) HandleUpdate(ctx context.Context, upd *telegram.Update) {
	switch {
	case upd.CallbackQuery != nil:
		b.metrics.RecordUpdate("callback")
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.From != nil:
		b.handleMessage(ctx, upd.Message)
	default:
		b.logger.Debug(ctx, "update ignored", "update_id", upd.UpdateID)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *telegram.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if _, err := b.contacts.RegisterContact(ctx, userID, msg.From.DisplayName(), b.cfg.IsAdmin(userID)); err != nil {
		b.logger.Error(ctx, "contact registration failed", "user_id", userID, "error", err)
		b.send(ctx, chatID, msgInternal, nil)
		return
	}

	switch {
	case msg.Document != nil:
		b.metrics.RecordUpdate("document")
		b.handleDocument(ctx, userID, chatID, msg.Document)
	case strings.HasPrefix(msg.Text, "/"):
		b.metrics.RecordUpdate("command")
		b.handleCommand(ctx, userID, chatID, msg.Text)
	case msg.Text != "":
		b.metrics.RecordUpdate("text")
		b.handleText(ctx, userID, chatID, msg.Text)
	}
}

func (b *Bot) handleCommand(ctx context.Context, userID, chatID int64, text string) {
	fields := strings.Fields(text)
	cmd := fields[0]
	// commands arrive as /cmd@botname when sent from a group
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}

	switch cmd {
	case "/start":
		if len(fields) > 1 {
			b.openRecord(ctx, userID, chatID, fields[1])
			return
		}
		if b.cfg.IsAdmin(userID) {
			b.send(ctx, chatID, msgWelcomeAdmin, nil)
			return
		}
		b.send(ctx, chatID, msgWelcome, nil)

	case "/new":
		if !b.cfg.IsAdmin(userID) {
			b.send(ctx, chatID, msgNotAllowed, nil)
			return
		}
		b.startUpload(ctx, userID, chatID)

	case "/cancel":
		if err := b.upload.Cancel(ctx, userID); err != nil {
			b.logger.Error(ctx, "cancel failed", "user_id", userID, "error", err)
			b.send(ctx, chatID, msgInternal, nil)
			return
		}
		b.send(ctx, chatID, msgCancelled, nil)

	case "/mynotes":
		if !b.cfg.IsAdmin(userID) {
			b.send(ctx, chatID, msgNotAllowed, nil)
			return
		}
		b.listRecords(ctx, userID, chatID)

	default:
		b.send(ctx, chatID, msgUnknownCommand, nil)
	}
}

func (b *Bot) handleText(ctx context.Context, userID, chatID int64, text string) {
	state, err := b.upload.SubmitText(ctx, userID, text)
	if err != nil {
		b.send(ctx, chatID, userMessage(err), nil)
		return
	}

	switch state {
	case models.StateAwaitingDescription:
		b.send(ctx, chatID, msgPromptDesc, nil)
	case models.StateAwaitingFile:
		b.send(ctx, chatID, msgPromptFile, nil)
	}
}

func (b *Bot) handleDocument(ctx context.Context, userID, chatID int64, doc *telegram.Document) {
	rec, err := b.upload.AttachFile(ctx, userID, doc)
	if err != nil {
		b.send(ctx, chatID, userMessage(err), nil)
		return
	}

	text := fmt.Sprintf("Note %q uploaded.\nShare link: %s", rec.Title, b.lifecycle.ShareLink(rec.ID))
	b.send(ctx, chatID, text, b.recordKeyboard(rec))
}

func (b *Bot) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	userID := cb.From.ID
	chatID := userID
	if cb.Message != nil {
		chatID = cb.Message.Chat.ID
	}

	if _, err := b.contacts.RegisterContact(ctx, userID, cb.From.DisplayName(), b.cfg.IsAdmin(userID)); err != nil {
		b.logger.Error(ctx, "contact registration failed", "user_id", userID, "error", err)
		b.ack(ctx, cb.ID, "")
		return
	}

	action, err := actions.Decode(cb.Data)
	if err != nil {
		b.logger.Warn(ctx, "unrecognized callback", "user_id", userID, "data", cb.Data)
		b.ack(ctx, cb.ID, msgStaleButton)
		return
	}

	if action.Kind != actions.KindOpen && !b.cfg.IsAdmin(userID) {
		b.ack(ctx, cb.ID, msgNotAllowed)
		return
	}

	b.ack(ctx, cb.ID, b.dispatchAction(ctx, userID, chatID, action))
}

// dispatchAction executes a decoded action and returns the short text to
// acknowledge the button press with.
func (b *Bot) dispatchAction(ctx context.Context, userID, chatID int64, action actions.Action) string {
	switch action.Kind {
	case actions.KindNew:
		b.startUpload(ctx, userID, chatID)
		return ""

	case actions.KindCancel:
		if err := b.upload.Cancel(ctx, userID); err != nil {
			b.logger.Error(ctx, "cancel failed", "user_id", userID, "error", err)
			return msgInternal
		}
		b.send(ctx, chatID, msgCancelled, nil)
		return ""

	case actions.KindFolder:
		cats, err := b.upload.SelectFolder(ctx, userID, action.ID)
		if err != nil {
			b.send(ctx, chatID, userMessage(err), nil)
			return ""
		}
		b.send(ctx, chatID, msgChooseCategory, categoryKeyboard(cats))
		return ""

	case actions.KindCategory:
		if err := b.upload.SelectCategory(ctx, userID, action.ID); err != nil {
			b.send(ctx, chatID, userMessage(err), nil)
			return ""
		}
		b.send(ctx, chatID, msgPromptTitle, nil)
		return ""

	case actions.KindRevoke:
		if err := b.lifecycle.Revoke(ctx, userID, action.ID); err != nil {
			return userMessage(err)
		}
		return "Note revoked"

	case actions.KindActivate:
		if err := b.lifecycle.Activate(ctx, userID, action.ID); err != nil {
			return userMessage(err)
		}
		return "Note activated"

	case actions.KindRegenerate:
		url, err := b.lifecycle.RegenerateLink(ctx, userID, action.ID)
		if err != nil {
			return userMessage(err)
		}
		b.send(ctx, chatID, "New content link: "+url, nil)
		return ""

	case actions.KindShare:
		b.send(ctx, chatID, b.lifecycle.ShareLink(action.ID), nil)
		return ""

	case actions.KindOpen:
		b.openRecord(ctx, userID, chatID, action.ID)
		return ""

	case actions.KindDelete:
		if err := b.lifecycle.Delete(ctx, userID, action.ID); err != nil {
			return userMessage(err)
		}
		return "Note deleted"

	default:
		return msgStaleButton
	}
}

func (b *Bot) startUpload(ctx context.Context, userID, chatID int64) {
	if err := b.upload.Start(ctx, userID); err != nil {
		b.logger.Error(ctx, "upload start failed", "user_id", userID, "error", err)
		b.send(ctx, chatID, msgInternal, nil)
		return
	}
	b.send(ctx, chatID, msgChooseFolder, folderKeyboard(b.tax))
}

func (b *Bot) openRecord(ctx context.Context, userID, chatID int64, recordID string) {
	url, err := b.lifecycle.Open(ctx, userID, recordID)
	if err != nil {
		b.send(ctx, chatID, userMessage(err), nil)
		return
	}
	b.send(ctx, chatID, url, nil)
}

func (b *Bot) listRecords(ctx context.Context, userID, chatID int64) {
	recs, err := b.lifecycle.OwnerRecords(ctx, userID)
	if err != nil {
		b.logger.Error(ctx, "listing records failed", "user_id", userID, "error", err)
		b.send(ctx, chatID, msgInternal, nil)
		return
	}

	if len(recs) == 0 {
		b.send(ctx, chatID, msgNoNotes, nil)
		return
	}

	for _, rec := range recs {
		b.send(ctx, chatID, recordSummary(rec), b.recordKeyboard(rec))
	}
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) {
	if err := b.chat.SendMessage(ctx, chatID, text, keyboard); err != nil {
		b.logger.Error(ctx, "sending message failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) ack(ctx context.Context, callbackID, text string) {
	if err := b.chat.AnswerCallbackQuery(ctx, callbackID, text); err != nil {
		b.logger.Error(ctx, "answering callback failed", "callback_id", callbackID, "error", err)
	}
}

func folderKeyboard(tax *taxonomy.Taxonomy) *telegram.InlineKeyboardMarkup {
	var rows [][]telegram.InlineKeyboardButton
	for _, f := range tax.Folders() {
		rows = append(rows, []telegram.InlineKeyboardButton{
			{Text: f.Name, CallbackData: actions.Encode(actions.KindFolder, f.ID)},
		})
	}
	rows = append(rows, cancelRow())

	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func categoryKeyboard(cats []taxonomy.Category) *telegram.InlineKeyboardMarkup {
	var rows [][]telegram.InlineKeyboardButton
	for _, c := range cats {
		rows = append(rows, []telegram.InlineKeyboardButton{
			{Text: c.Name, CallbackData: actions.Encode(actions.KindCategory, c.ID)},
		})
	}
	rows = append(rows, cancelRow())

	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func cancelRow() []telegram.InlineKeyboardButton {
	return []telegram.InlineKeyboardButton{
		{Text: "Cancel", CallbackData: actions.Encode(actions.KindCancel, "")},
	}
}

func (b *Bot) recordKeyboard(rec *models.Record) *telegram.InlineKeyboardMarkup {
	visibility := telegram.InlineKeyboardButton{
		Text:         "Revoke",
		CallbackData: actions.Encode(actions.KindRevoke, rec.ID),
	}
	if !rec.Active {
		visibility = telegram.InlineKeyboardButton{
			Text:         "Activate",
			CallbackData: actions.Encode(actions.KindActivate, rec.ID),
		}
	}

	return &telegram.InlineKeyboardMarkup{InlineKeyboard: [][]telegram.InlineKeyboardButton{
		{
			{Text: "Open", CallbackData: actions.Encode(actions.KindOpen, rec.ID)},
			{Text: "Share", CallbackData: actions.Encode(actions.KindShare, rec.ID)},
		},
		{
			visibility,
			{Text: "New link", CallbackData: actions.Encode(actions.KindRegenerate, rec.ID)},
			{Text: "Delete", CallbackData: actions.Encode(actions.KindDelete, rec.ID)},
		},
	}}
}

func recordSummary(rec *models.Record) string {
	status := "active"
	if !rec.Active {
		status = "revoked"
	}
	return fmt.Sprintf("%s\n%s\n%s / %s\nviews: %d, %s",
		rec.Title, rec.Description, rec.FolderID, rec.CategoryID, rec.Views, status)
}

// userMessage translates a service error into the reply shown in chat.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrSessionExpired):
		return msgExpired
	case errors.Is(err, common.ErrEmptyInput):
		return msgEmptyInput
	case errors.Is(err, common.ErrUnsupportedFile):
		return msgBadFile
	case errors.Is(err, common.ErrUnknownFolder), errors.Is(err, common.ErrCategoryMismatch):
		return msgBadOption
	case errors.Is(err, common.ErrUnrecognizedEvent):
		return msgStaleButton
	case errors.Is(err, common.ErrorUnauthorized):
		return msgStartFirst
	case errors.Is(err, common.ErrRecordInactive):
		return msgUnavailable
	case errors.Is(err, common.ErrorNotFound):
		return msgNotFound
	case errors.Is(err, common.ErrTransferFetch), errors.Is(err, common.ErrTransferStore),
		errors.Is(err, common.ErrRecordStore):
		return msgUploadFailed
	default:
		return msgInternal
	}
}
