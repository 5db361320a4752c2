package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"munaybol/constants"
	"munaybol/models"
	"munaybol/services/logger"
)

// FallbackMessage is answered whenever the model fails
const FallbackMessage = "Hubo un problema generando la respuesta. Por favor intenta de nuevo."

const (
	SourceDataset  = "dataset"
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

const defaultHistoryTurns = 10

const systemPrompt = `Eres MunayBot, un guía turístico experto en Bolivia.
Responde siempre en español, con un tono cálido y preciso.
Usa estas secciones cuando apliquen:
## 📍 Lugares Turísticos
## 🏨 Hoteles Recomendados
## 🏛️ Historia Breve
## 🍽️ Gastronomía Típica
## 🎭 Cultura y Festividades
## 💡 Dato Curioso
Usa únicamente los datos oficiales que se te entregan cuando existan.
NUNCA mezcles geografía: no menciones lugares ni hoteles de otros departamentos.`

const itineraryPrompt = `Eres MunayBot, un guía turístico experto en Bolivia.
Arma un itinerario de %d días para %s.
Usa un encabezado "## Día N" por cada día con actividades de mañana, tarde y noche.
No escribas más de %d días.
Recomienda solo hoteles y lugares de los datos oficiales cuando existan.
NUNCA mezcles geografía: no menciones lugares ni hoteles de otros departamentos.`

// Request is one user prompt with its session context
type Request struct {
	SessionKey string
	Prompt     string
	History    []models.ChatMessage
	Format     string
}

// Reply carries the markdown answer and its rendering
type Reply struct {
	Markdown     string
	Content      string
	Source       string
	Departamento string
	Itinerary    bool
}

type ComposerOptions struct {
	Dataset      *Dataset
	Generator    Generator
	Store        ContextStore
	Logger       logger.Logger
	HistoryTurns int
	Timeout      time.Duration
}

// Composer answers tourism prompts from the dataset, falling back to the model
type Composer struct {
	ds           *Dataset
	gen          Generator
	store        ContextStore
	logger       logger.Logger
	historyTurns int
	timeout      time.Duration
}

func NewComposer(opts ComposerOptions) *Composer {
	c := &Composer{
		ds:           opts.Dataset,
		gen:          opts.Generator,
		store:        opts.Store,
		logger:       opts.Logger,
		historyTurns: opts.HistoryTurns,
		timeout:      opts.Timeout,
	}
	if c.ds == nil {
		c.ds = NewDataset(RawDataset{})
	}
	if c.store == nil {
		c.store = NopContextStore{}
	}
	if c.logger == nil {
		c.logger = logger.Nop{}
	}
	if c.historyTurns <= 0 {
		c.historyTurns = defaultHistoryTurns
	}
	return c
}

func (c *Composer) Dataset() *Dataset {
	return c.ds
}

// Compose never returns an error: model failures become FallbackMessage
func (c *Composer) Compose(ctx context.Context, req Request) Reply {
	det := c.ds.Detect(req.Prompt)
	itinerary := IsItinerary(req.Prompt)
	remembered := false

	if det.Found() {
		if req.SessionKey != "" {
			if err := c.store.SaveLastDepartment(ctx, req.SessionKey, det.DepartmentName()); err != nil {
				c.logger.Error("chat: save context %s: %v", req.SessionKey, err)
			}
		}
	} else if req.SessionKey != "" {
		name, err := c.store.GetLastDepartment(ctx, req.SessionKey)
		if err != nil {
			c.logger.Error("chat: load context %s: %v", req.SessionKey, err)
		}
		if d, ok := c.ds.Department(name); ok {
			det.Department = &d
			remembered = true
		}
	}

	reply := Reply{Departamento: det.DepartmentName(), Itinerary: itinerary}

	if det.Found() && !itinerary && !remembered {
		reply.Markdown = c.ds.StaticPayload(det).Markdown()
		reply.Source = SourceDataset
		reply.Content = Render(reply.Markdown, req.Format)
		return reply
	}

	days := RequestedDays(req.Prompt)
	text, err := c.generate(ctx, c.buildMessages(det, itinerary, days, req))
	if err != nil {
		c.logger.Error("chat: generation failed: %v", err)
		reply.Markdown = FallbackMessage
		reply.Content = FallbackMessage
		reply.Source = SourceFallback
		return reply
	}

	reply.Markdown = PostProcess(text, c.ds.DepartmentNames(), det.DepartmentName(), itinerary, days)
	if reply.Markdown == "" {
		reply.Markdown = FallbackMessage
		reply.Content = FallbackMessage
		reply.Source = SourceFallback
		return reply
	}
	reply.Source = SourceLLM
	reply.Content = Render(reply.Markdown, req.Format)
	return reply
}

func (c *Composer) generate(ctx context.Context, messages []Message) (string, error) {
	if c.gen == nil {
		return "", fmt.Errorf("no generator configured")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.gen.Chat(ctx, messages)
}

func (c *Composer) buildMessages(det Detection, itinerary bool, days int, req Request) []Message {
	system := systemPrompt
	if itinerary {
		dest := det.DepartmentName()
		if dest == "" {
			dest = "Bolivia"
		}
		system = fmt.Sprintf(itineraryPrompt, days, dest, days)
	}
	if block := c.ds.contextBlock(det); block != "" {
		system += "\n\n" + block
	}

	messages := []Message{{Role: constants.ChatRoleSystem, Content: system}}
	history := req.History
	if len(history) > c.historyTurns {
		history = history[len(history)-c.historyTurns:]
	}
	for _, h := range history {
		if h.Role != constants.ChatRoleUser && h.Role != constants.ChatRoleAssistant {
			continue
		}
		messages = append(messages, Message{Role: h.Role, Content: h.Content})
	}
	messages = append(messages, Message{Role: constants.ChatRoleUser, Content: strings.TrimSpace(req.Prompt)})
	return messages
}
