package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/plastinin/doctext/internal/domain"
	"github.com/plastinin/doctext/pkg/logger"
	"go.uber.org/zap"
)

// ConversationUseCase ведёт диалог: загрузка файла → распознавание →
// выбор формата → выгрузка документа.
type ConversationUseCase struct {
	router    *ExtractorRouter
	renderer  DocumentRenderer
	sessions  SessionStore
	storage   FileStorage
	files     FileSource
	messenger Messenger
	journal   *journal
	policy    Policy
	logger    *zap.Logger
}

// NewConversationUseCase создаёт новый экземпляр ConversationUseCase.
// jobs может быть nil, тогда журнал не ведётся.
func NewConversationUseCase(
	router *ExtractorRouter,
	renderer DocumentRenderer,
	sessions SessionStore,
	storage FileStorage,
	files FileSource,
	messenger Messenger,
	jobs JobRepository,
	policy Policy,
	logger *zap.Logger,
) *ConversationUseCase {
	return &ConversationUseCase{
		router:    router,
		renderer:  renderer,
		sessions:  sessions,
		storage:   storage,
		files:     files,
		messenger: messenger,
		journal:   newJournal(jobs, logger),
		policy:    policy,
		logger:    logger,
	}
}

// HandleStart отвечает на команду /start
func (uc *ConversationUseCase) HandleStart(ctx context.Context, chatID int64) (*Result, error) {
	res := newResult(domain.StateIdle).finish(domain.OutcomeGreeted, domain.StateIdle)
	return res, uc.reply(ctx, chatID, msgGreeting)
}

// HandleUpload обрабатывает присланный файл
func (uc *ConversationUseCase) HandleUpload(ctx context.Context, in UploadInput) (*Result, error) {
	log := logger.ForOwner(uc.logger, in.OwnerID, in.ChatID).With(zap.String("file_name", in.FileName))
	res := newResult(domain.StateIdle)

	extractor, kind, err := uc.router.Route(in.FileName)
	if err != nil {
		log.Info("Unsupported file type")
		return res.finish(domain.OutcomeUnsupported, domain.StateIdle), uc.reply(ctx, in.ChatID, msgUnsupported)
	}

	if uc.policy.MaxFileSize > 0 && in.FileSize > uc.policy.MaxFileSize {
		log.Info("File is too large", zap.Int64("file_size", in.FileSize))
		return res.finish(domain.OutcomeTooLarge, domain.StateIdle), uc.reply(ctx, in.ChatID, msgTooLarge)
	}

	res.enter(domain.StateExtracting)

	job := domain.NewJob(domain.JobKindExtraction, in.OwnerID)
	job.FileName = in.FileName
	uc.journal.start(ctx, job)

	startTime := time.Now()
	text, err := uc.extract(ctx, extractor, in)
	if err != nil && !errors.Is(err, domain.ErrEmptyExtraction) {
		outcome, msg := classifyExtractionError(err)
		log.Warn("Extraction failed",
			zap.String("kind", kind.String()),
			zap.String("outcome", outcome.String()),
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(err),
		)
		uc.journal.fail(ctx, job, outcome, err)
		return res.finish(outcome, domain.StateIdle), uc.reply(ctx, in.ChatID, msg)
	}

	if strings.TrimSpace(text) == "" {
		log.Info("No text found", zap.String("kind", kind.String()))
		uc.journal.complete(ctx, job, domain.OutcomeEmpty, 0)
		return res.finish(domain.OutcomeEmpty, domain.StateIdle), uc.reply(ctx, in.ChatID, msgEmpty)
	}

	err = uc.sessions.Put(ctx, in.OwnerID, &domain.ExtractionResult{
		OwnerID:   in.OwnerID,
		Text:      text,
		Source:    kind,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Error("Failed to store extraction result", zap.Error(err))
		uc.journal.fail(ctx, job, domain.OutcomeExtractionFailed, err)
		return res.finish(domain.OutcomeExtractionFailed, domain.StateIdle), uc.reply(ctx, in.ChatID, msgExtractionFailed)
	}

	uc.journal.complete(ctx, job, domain.OutcomeExtracted, len(text))
	log.Info("Text extracted",
		zap.String("kind", kind.String()),
		zap.Int("text_length", len(text)),
		zap.Duration("duration", time.Since(startTime)),
	)

	// Текст уже сохранён: повторная доставка обновления распознавала бы файл заново,
	// а выбрать формат можно и по кнопкам из прошлого ответа
	res.finish(domain.OutcomeExtracted, domain.StateAwaitingFormatChoice)
	if err := uc.messenger.SendChoice(ctx, in.ChatID, previewMessage(kind, text), domain.FormatChoices()); err != nil {
		log.Error("Failed to send format choice", zap.Error(err))
	}

	return res, nil
}

// HandleSelection обрабатывает выбор формата выгрузки
func (uc *ConversationUseCase) HandleSelection(ctx context.Context, in SelectionInput) (*Result, error) {
	log := logger.ForOwner(uc.logger, in.OwnerID, in.ChatID).With(zap.String("token", in.Token))
	res := newResult(domain.StateAwaitingFormatChoice)

	format, err := domain.ParseFormatToken(in.Token)
	if err != nil {
		log.Warn("Unknown format token")
		return res.finish(domain.OutcomeUnknownToken, domain.StateAwaitingFormatChoice), uc.reply(ctx, in.ChatID, msgUnknownToken)
	}
	log = log.With(zap.String("format", format.String()))

	job := domain.NewJob(domain.JobKindExport, in.OwnerID)
	job.Format = format.String()
	uc.journal.start(ctx, job)

	session, err := uc.sessions.Get(ctx, in.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			log.Info("Export requested without stored text")
			uc.journal.fail(ctx, job, domain.OutcomeStale, domain.ErrStaleSession)
			return res.finish(domain.OutcomeStale, domain.StateIdle), uc.reply(ctx, in.ChatID, msgStale)
		}
		log.Error("Failed to read extraction result", zap.Error(err))
		uc.journal.fail(ctx, job, domain.OutcomeExportFailed, err)
		return res.finish(domain.OutcomeExportFailed, domain.StateIdle), uc.reply(ctx, in.ChatID, msgExportFailed)
	}

	res.enter(domain.StateExporting)

	startTime := time.Now()
	if err := uc.export(ctx, session.Text, format, in.ChatID); err != nil {
		outcome, msg := domain.OutcomeExportFailed, msgExportFailed
		if errors.Is(err, context.DeadlineExceeded) {
			outcome, msg = domain.OutcomeTimeout, msgExportTimeout
		}
		log.Warn("Export failed",
			zap.String("outcome", outcome.String()),
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(err),
		)
		uc.journal.fail(ctx, job, outcome, err)
		return res.finish(outcome, domain.StateIdle), uc.reply(ctx, in.ChatID, msg)
	}

	if uc.policy.ClearAfterExport {
		if err := uc.sessions.Remove(ctx, in.OwnerID); err != nil {
			log.Warn("Failed to clear session after export", zap.Error(err))
		}
	}

	uc.journal.complete(ctx, job, domain.OutcomeExported, len(session.Text))
	log.Info("Document exported", zap.Duration("duration", time.Since(startTime)))

	return res.finish(domain.OutcomeExported, domain.StateIdle), nil
}

// extract скачивает файл во временное хранилище и распознаёт его.
// Временный файл удаляется при любом исходе.
func (uc *ConversationUseCase) extract(ctx context.Context, extractor TextExtractor, in UploadInput) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.policy.ExtractTimeout)
	defer cancel()

	reader, err := uc.files.Fetch(ctx, in.FileRef)
	if err != nil {
		return "", fmt.Errorf("failed to fetch file: %w", err)
	}

	fileKey, err := uc.storage.Save(ctx, in.FileName, reader)
	reader.Close()
	if err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	defer uc.removeTemp(fileKey)

	return extractor.Extract(ctx, fileKey)
}

// export рендерит документ во временный файл и отправляет его.
// Временный файл удаляется при любом исходе.
func (uc *ConversationUseCase) export(ctx context.Context, text string, format domain.ExportFormat, chatID int64) error {
	ctx, cancel := context.WithTimeout(ctx, uc.policy.ExportTimeout)
	defer cancel()

	fileKey, err := uc.storage.Reserve(ctx, format.FileName())
	if err != nil {
		return fmt.Errorf("%w: failed to reserve file: %w", domain.ErrExportFailure, err)
	}
	defer uc.removeTemp(fileKey)

	if err := uc.renderer.Render(ctx, text, format, fileKey); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExportFailure, err)
	}

	file, err := uc.storage.Open(ctx, fileKey)
	if err != nil {
		return fmt.Errorf("%w: failed to open rendered file: %w", domain.ErrExportFailure, err)
	}
	defer file.Close()

	if err := uc.messenger.SendDocument(ctx, chatID, format.FileName(), file); err != nil {
		return fmt.Errorf("%w: failed to send document: %w", domain.ErrExportFailure, err)
	}

	return nil
}

func (uc *ConversationUseCase) removeTemp(fileKey string) {
	if err := uc.storage.Delete(context.Background(), fileKey); err != nil {
		uc.logger.Warn("Failed to remove temporary file",
			zap.String("file_key", fileKey),
			zap.Error(err),
		)
	}
}

func (uc *ConversationUseCase) reply(ctx context.Context, chatID int64, text string) error {
	if err := uc.messenger.SendText(ctx, chatID, text); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// classifyExtractionError выбирает исход и сообщение пользователю
func classifyExtractionError(err error) (domain.Outcome, string) {
	switch {
	case errors.Is(err, domain.ErrDecode):
		return domain.OutcomeDecodeError, msgDecodeError
	case errors.Is(err, domain.ErrDocumentOpen):
		return domain.OutcomeDocumentError, msgDocumentError
	case errors.Is(err, domain.ErrFileTooLarge):
		return domain.OutcomeTooLarge, msgTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return domain.OutcomeTimeout, msgExtractTimeout
	default:
		return domain.OutcomeExtractionFailed, msgExtractionFailed
	}
}
