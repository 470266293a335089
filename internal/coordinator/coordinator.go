// Package coordinator routes UI panel messages through the generation
// pipeline and reports progress and failures back to the panel.
package coordinator

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/figgen/figgen-cli/internal/errhandler"
	"github.com/figgen/figgen-cli/internal/framemanager"
	"github.com/figgen/figgen-cli/internal/gemini"
	"github.com/figgen/figgen-cli/internal/i18n"
	"github.com/figgen/figgen-cli/internal/layout"
	"github.com/figgen/figgen-cli/internal/preset"
	"github.com/figgen/figgen-cli/internal/prompt"
	"github.com/figgen/figgen-cli/internal/scene"
	"github.com/figgen/figgen-cli/internal/validation"
)

const generateOperation = "Error generating design"

type Generator interface {
	Generate(ctx context.Context, userPrompt, modelID string, deviceType preset.DeviceType) (*layout.Response, error)
}

// GeneratorFactory creates the generation client for one request.
type GeneratorFactory func(apiKey string, onRetry gemini.RetryFunc) Generator

type Coordinator struct {
	*Broker

	lock         sync.Mutex
	reg          *preset.Registry
	frames       *framemanager.Manager
	errHandler   *errhandler.Handler
	newGenerator GeneratorFactory
	strict       bool
	logger       *slog.Logger
}

type Option func(*Coordinator)

func WithGeneratorFactory(fn GeneratorFactory) Option {
	return func(c *Coordinator) { c.newGenerator = fn }
}

// WithStrictValidation makes an invalid generated layout abort the request
// instead of being materialized with a warning.
func WithStrictValidation(strict bool) Option {
	return func(c *Coordinator) { c.strict = strict }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

func New(reg *preset.Registry, frames *framemanager.Manager, errs *errhandler.Handler, opts ...Option) *Coordinator {
	c := &Coordinator{
		Broker:     NewBroker(),
		reg:        reg,
		frames:     frames,
		errHandler: errs,
		logger:     slog.Default(),
	}
	c.newGenerator = func(apiKey string, onRetry gemini.RetryFunc) Generator {
		return gemini.NewClient(apiKey, reg, gemini.WithRetryHook(onRetry), gemini.WithLogger(c.logger))
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle processes one inbound message against doc. Outbound messages go to
// send and to every subscriber. The returned error has already been reported
// to the peer.
func (c *Coordinator) Handle(ctx context.Context, doc scene.Document, req Request, send SendFunc) error {
	switch req.Type {
	case TypeGetContext:
		c.SelectionChanged(doc, send)
		return nil
	case TypeGenerate:
		return c.handleGenerate(ctx, doc, req, send)
	default:
		c.logger.WarnContext(ctx, "Unknown message type", slog.String("type", string(req.Type)))
		return nil
	}
}

// SelectionChanged sends the description of the current selection.
func (c *Coordinator) SelectionChanged(doc scene.Document, send SendFunc) {
	c.emit(doc, send, Message{
		Type:  TypeContextUpdate,
		Frame: framemanager.AnalyzeSelection(doc.Selection()),
	})
}

func (c *Coordinator) handleGenerate(ctx context.Context, doc scene.Document, req Request, send SendFunc) error {
	ctx = errhandler.WithRequestID(ctx, uuid.NewString())
	if !c.lock.TryLock() {
		c.fail(ctx, doc, send, errhandler.ErrOperationInProgress)
		return errhandler.ErrOperationInProgress
	}
	defer c.lock.Unlock()

	if err := c.generate(ctx, doc, req, send); err != nil {
		c.fail(ctx, doc, send, err)
		return err
	}
	return nil
}

func (c *Coordinator) generate(ctx context.Context, doc scene.Document, req Request, send SendFunc) error {
	req.Prompt = validation.SanitizePrompt(req.Prompt)
	req.APIKey = validation.SanitizeAPIKey(req.APIKey)
	res := validation.ValidateGenerateRequest(validation.GenerateRequest{
		Prompt:     req.Prompt,
		APIKey:     req.APIKey,
		Model:      req.Model,
		DeviceType: req.DeviceType,
	}, c.reg)
	if !res.IsValid {
		return &errhandler.ValidationError{Errors: res.Errors}
	}

	model := c.ModelDisplayName(req.Model)
	doc.Notify(i18n.Tr("🤖 Generating with %s...", model))
	c.emit(doc, send, Message{Type: TypeSuccess, AlertType: AlertSuccess, Message: i18n.Tr("Generating design with %s...", model)})

	contextual, err := prompt.Contextual(contextualRequest(req))
	if err != nil {
		return err
	}

	generator := c.newGenerator(req.APIKey, func(attempt, maxAttempts int) {
		msg := "⏳ " + i18n.Tr("Retrying... (%d/%d)", attempt, maxAttempts)
		doc.Notify(msg)
		c.emit(doc, send, Message{Type: TypeProgress, AlertType: AlertInfo, Message: msg})
	})
	resp, err := generator.Generate(ctx, contextual, req.Model, preset.DeviceType(req.DeviceType))
	if err != nil {
		return err
	}
	c.logger.DebugContext(ctx, "Layout generated",
		slog.String("device", req.DeviceType),
		slog.Int("frames", len(resp.Frames)),
		slog.String("request_id", errhandler.RequestID(ctx)),
	)

	if res := validation.ValidateResponse(resp); !res.IsValid {
		if c.strict {
			return &errhandler.ValidationError{Errors: res.Errors}
		}
		c.logger.WarnContext(ctx, "Generated layout has issues", slog.Any("issues", res.Errors))
		c.emit(doc, send, Message{
			Type:      TypeAlert,
			AlertType: AlertWarning,
			Message:   i18n.Tr("The generated layout has issues: %s", strings.Join(res.Errors, "; ")),
		})
	}

	if req.SelectedFrame != nil {
		err = c.frames.MaterializeInto(ctx, doc, resp.Frames, req.SelectedFrame.ID)
	} else {
		err = c.frames.Materialize(ctx, doc, resp.Frames)
	}
	if err != nil {
		return err
	}

	doc.Notify(i18n.Tr("✅ Design generated successfully!"))
	c.emit(doc, send, Message{Type: TypeSuccess, AlertType: AlertSuccess, Message: i18n.Tr("Design generated successfully!")})
	return nil
}

func contextualRequest(req Request) prompt.Request {
	r := prompt.Request{
		Prompt:         req.Prompt,
		IsAdaptation:   req.IsAdaptation,
		HasCustomRules: req.HasCustomRules,
	}
	if f := req.SelectedFrame; f != nil {
		r.Target = &prompt.Target{Name: f.Name, Width: f.Width, Height: f.Height}
	}
	return r
}

func (c *Coordinator) fail(ctx context.Context, doc scene.Document, send SendFunc, err error) {
	c.errHandler.Report(ctx, err, generateOperation)
	msg := c.errHandler.Message(err)
	doc.Notify(i18n.Tr("⚠️ Error: %s", msg))
	c.emit(doc, send, Message{
		Type:        TypeAlert,
		AlertType:   AlertError,
		Message:     msg,
		Suggestions: c.errHandler.Suggestions(err),
	})
}

// ModelDisplayName returns the registry name of the model, or a title cased
// version of its id for models the registry does not know.
func (c *Coordinator) ModelDisplayName(id string) string {
	if m, ok := c.reg.GetModelByID(id); ok {
		return m.Name
	}
	return cases.Title(language.English).String(strings.ReplaceAll(id, "-", " "))
}

type namedDocument interface {
	Name() string
}

func (c *Coordinator) emit(doc scene.Document, send SendFunc, msg Message) {
	if d, ok := doc.(namedDocument); ok {
		msg.Document = d.Name()
	}
	if send != nil {
		send(msg)
	}
	c.Publish(msg)
}
