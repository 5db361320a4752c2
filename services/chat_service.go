package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"
	"unicode/utf8"

	"munaybol/constants"
	"munaybol/errors"
	"munaybol/models"
	"munaybol/permissions"
	"munaybol/repository"
	"munaybol/services/chat"
	"munaybol/services/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxPromptRunes = 2000
	maxTitleRunes  = 60
)

// ChatReply is returned by SendMessage and Generate
type ChatReply struct {
	Reply        string              `json:"reply"`
	ChatID       string              `json:"chat_id"`
	Source       string              `json:"source"`
	Format       string              `json:"format"`
	Departamento string              `json:"departamento,omitempty"`
	Session      *models.ChatSession `json:"session,omitempty"`
}

// MessagesPage is a window over a session history, oldest first
type MessagesPage struct {
	Session *models.ChatSession  `json:"session"`
	Page    int                  `json:"page"`
	Limit   int                  `json:"limit"`
	Total   int                  `json:"total"`
	Items   []models.ChatMessage `json:"items"`
}

type SessionFilter struct {
	Archived *bool
	Page     int
	Limit    int
}

type ChatService struct {
	db       *gorm.DB
	composer *chat.Composer
	logger   logger.Logger
	now      func() time.Time
}

func NewChatService(db *gorm.DB, composer *chat.Composer, log logger.Logger) *ChatService {
	return &ChatService{db: db, composer: composer, logger: log, now: time.Now}
}

func ownerOf(s *models.ChatSession) permissions.Resource {
	if s.UsuarioID == nil {
		return permissions.Resource{Kind: permissions.ChatSession}
	}
	return permissions.Owned(permissions.ChatSession, *s.UsuarioID)
}

func (s *ChatService) CreateSession(ctx context.Context, actor permissions.Actor, title string) (*models.ChatSession, error) {
	if !permissions.Can(actor, permissions.Create, permissions.Collection(permissions.ChatSession)) {
		return nil, errors.Forbidden()
	}
	session := &models.ChatSession{
		ID:    uuid.NewString(),
		Title: clip(strings.TrimSpace(title), 200),
	}
	if actor.Authenticated() {
		id := actor.UserID
		session.UsuarioID = &id
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, errors.DB(err)
	}
	return session, nil
}

func (s *ChatService) ListSessions(ctx context.Context, actor permissions.Actor, f SessionFilter) ([]models.ChatSession, int64, error) {
	if !permissions.Can(actor, permissions.List, permissions.Collection(permissions.ChatSession)) {
		return nil, 0, errors.Unauthorized()
	}
	q := s.db.WithContext(ctx).Model(&models.ChatSession{}).Scopes(repository.OwnedBy(actor, "usuario_id"))
	if f.Archived != nil {
		q = q.Where("archived = ?", *f.Archived)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.DB(err)
	}
	var out []models.ChatSession
	if err := q.Scopes(repository.Paginate(f.Page, f.Limit)).
		Order("updated_at DESC").Find(&out).Error; err != nil {
		return nil, 0, errors.DB(err)
	}
	return out, total, nil
}

func (s *ChatService) GetSession(ctx context.Context, actor permissions.Actor, id string) (*models.ChatSession, error) {
	session, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !permissions.Can(actor, permissions.Read, ownerOf(session)) {
		return nil, errors.NotFound("Sesión de chat no encontrada.")
	}
	return session, nil
}

func (s *ChatService) UpdateSession(ctx context.Context, actor permissions.Actor, id string, title *string, archived *bool) (*models.ChatSession, error) {
	session, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !permissions.Can(actor, permissions.Update, ownerOf(session)) {
		return nil, errors.Forbidden()
	}
	updates := map[string]interface{}{}
	if title != nil {
		session.Title = clip(strings.TrimSpace(*title), 200)
		updates["title"] = session.Title
	}
	if archived != nil {
		session.Archived = *archived
		updates["archived"] = session.Archived
	}
	if len(updates) == 0 {
		return session, nil
	}
	if err := s.db.WithContext(ctx).Model(session).Updates(updates).Error; err != nil {
		return nil, errors.DB(err)
	}
	return session, nil
}

func (s *ChatService) DeleteSession(ctx context.Context, actor permissions.Actor, id string) error {
	session, err := s.load(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !permissions.Can(actor, permissions.Delete, ownerOf(session)) {
		return errors.Forbidden()
	}
	if err := s.db.WithContext(ctx).Delete(&models.ChatSession{}, "id = ?", id).Error; err != nil {
		return errors.DB(err)
	}
	return nil
}

// Messages returns a page of the history. Assistant turns are rendered in format.
func (s *ChatService) Messages(ctx context.Context, actor permissions.Actor, id string, page, limit int, format string) (*MessagesPage, error) {
	session, err := s.GetSession(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	page, limit = repository.NormalizePage(page, limit)
	total := len(session.History)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	items := make([]models.ChatMessage, 0, end-start)
	for _, m := range session.History[start:end] {
		if m.Role == constants.ChatRoleAssistant {
			m.Content = chat.Render(m.Content, format)
		}
		items = append(items, m)
	}
	return &MessagesPage{Session: session, Page: page, Limit: limit, Total: total, Items: items}, nil
}

// SendMessage composes an answer and appends both turns to the session
func (s *ChatService) SendMessage(ctx context.Context, actor permissions.Actor, id, prompt, format string) (*ChatReply, error) {
	prompt = strings.TrimSpace(prompt)
	if err := validatePrompt(prompt); err != nil {
		return nil, err
	}
	session, err := s.GetSession(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !permissions.Can(actor, permissions.Update, ownerOf(session)) {
		return nil, errors.Forbidden()
	}

	format = chat.NormalizeFormat(format)
	reply := s.composer.Compose(ctx, chat.Request{
		SessionKey: session.ID,
		Prompt:     prompt,
		History:    session.Tail(10),
		Format:     format,
	})

	asked := s.now().UTC()
	turns := []models.ChatMessage{
		{Role: constants.ChatRoleUser, Content: prompt, Ts: asked},
		{Role: constants.ChatRoleAssistant, Content: reply.Markdown, Ts: s.now().UTC()},
	}

	var saved *models.ChatSession
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.load(ctx, repository.ForUpdate(tx), session.ID)
		if err != nil {
			return err
		}
		current.Append(turns...)
		if current.Title == "" {
			current.Title = clip(prompt, maxTitleRunes)
		}
		if err := tx.Model(current).Updates(map[string]interface{}{
			"history":         current.History,
			"messages_count":  current.MessagesCount,
			"last_message_at": current.LastMessageAt,
			"title":           current.Title,
		}).Error; err != nil {
			return errors.DB(err)
		}
		saved = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("chat %s: respuesta %s (%d mensajes)", saved.ID, reply.Source, saved.MessagesCount)
	return &ChatReply{
		Reply:        reply.Content,
		ChatID:       saved.ID,
		Source:       reply.Source,
		Format:       format,
		Departamento: reply.Departamento,
		Session:      saved,
	}, nil
}

// Generate answers a prompt, continuing chatID when it names a reachable session
// and starting a new one otherwise
func (s *ChatService) Generate(ctx context.Context, actor permissions.Actor, prompt, chatID, format string) (*ChatReply, error) {
	if err := validatePrompt(strings.TrimSpace(prompt)); err != nil {
		return nil, err
	}
	if chatID != "" {
		if _, err := s.GetSession(ctx, actor, chatID); err == nil {
			return s.SendMessage(ctx, actor, chatID, prompt, format)
		} else if !errors.HasCode(err, errors.ErrCodeDBNotFound) {
			return nil, err
		}
	}
	session, err := s.CreateSession(ctx, actor, "")
	if err != nil {
		return nil, err
	}
	return s.SendMessage(ctx, actor, session.ID, prompt, format)
}

// ArchiveIdleSessions archives sessions whose last message is older than idle
func (s *ChatService) ArchiveIdleSessions(ctx context.Context, idle time.Duration) (int64, error) {
	cutoff := s.now().Add(-idle)
	res := s.db.WithContext(ctx).Model(&models.ChatSession{}).
		Where("archived = ? AND last_message_at IS NOT NULL AND last_message_at < ?", false, cutoff).
		Update("archived", true)
	if res.Error != nil {
		return 0, errors.DB(res.Error)
	}
	if res.RowsAffected > 0 {
		s.logger.Info("%d sesiones de chat archivadas", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

func (s *ChatService) load(ctx context.Context, db *gorm.DB, id string) (*models.ChatSession, error) {
	var session models.ChatSession
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.NotFound("Sesión de chat no encontrada.")
	}
	if err := db.WithContext(ctx).Where("id = ?", id).Take(&session).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Sesión de chat no encontrada.")
		}
		return nil, errors.DB(err)
	}
	return &session, nil
}

func validatePrompt(prompt string) error {
	if prompt == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "El campo prompt es obligatorio.", nil)
	}
	if utf8.RuneCountInString(prompt) > maxPromptRunes {
		return errors.Validation("El prompt es demasiado largo.")
	}
	return nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
