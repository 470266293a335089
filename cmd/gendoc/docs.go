package main

import (
	"log/slog"
	"net/http"
	"reflect"

	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
	"go.bug.st/f"

	"github.com/figgen/figgen-cli/internal/api/models"
	"github.com/figgen/figgen-cli/internal/coordinator"
)

type Tag string

const (
	DocumentTag Tag = "Document"
	PresetTag   Tag = "Preset"
	SystemTag   Tag = "System"
)

var validTags = []Tag{DocumentTag, PresetTag, SystemTag}

var messageTypes = []coordinator.MessageType{
	coordinator.TypeGetContext,
	coordinator.TypeGenerate,
	coordinator.TypeContextUpdate,
	coordinator.TypeSuccess,
	coordinator.TypeAlert,
	coordinator.TypeProgress,
}

type Generator struct {
	reflector *openapi3.Reflector
}

func errorResponse(description, message string) openapi3.ResponseOrRef {
	return openapi3.ResponseOrRef{
		Response: &openapi3.Response{
			Description: description,
			Content: map[string]openapi3.MediaType{
				"application/json": {
					Example: f.Ptr(any(map[string]any{
						"details": message,
					})),
					Schema: &openapi3.SchemaOrRef{
						SchemaReference: &openapi3.SchemaReference{
							Ref: "#/components/schemas/ErrorResponse",
						},
					},
				},
			},
		},
	}
}

func NewOpenApiGenerator(version string) *Generator {
	reflector := openapi3.NewReflector()
	reflector.Spec.Info.WithTitle("figgen").WithVersion(version)
	reflector.Spec.Info.WithDescription("API of the figgen daemon, serving the design plugin panels")
	reflector.Spec.Servers = append(reflector.Spec.Servers, openapi3.Server{
		URL:         "http://localhost:8800",
		Description: f.Ptr("local daemon"),
	})

	reflector.Spec.Components = &openapi3.Components{}
	reflector.Spec.Components.Schemas = &openapi3.ComponentsSchemas{}
	reflector.Spec.Components.Schemas.WithMapOfSchemaOrRefValuesItem(
		"MessageType",
		openapi3.SchemaOrRef{
			Schema: &openapi3.Schema{
				UniqueItems: f.Ptr(true),
				Enum:        f.Map(messageTypes, func(v coordinator.MessageType) any { return v }),
				Type:        f.Ptr(openapi3.SchemaTypeString),
				Description: f.Ptr("Plugin message type"),
				ReflectType: reflect.TypeOf(coordinator.MessageType("")),
			},
		},
	)

	reflector.Spec.Components.Schemas.WithMapOfSchemaOrRefValuesItem(
		"ErrorResponse",
		openapi3.SchemaOrRef{
			Schema: &openapi3.Schema{
				Type: f.Ptr(openapi3.SchemaTypeObject),
				Properties: map[string]openapi3.SchemaOrRef{
					"details": {Schema: &openapi3.Schema{Type: f.Ptr(openapi3.SchemaTypeString)}},
				},
				ReflectType: reflect.TypeOf(models.ErrorResponse{}),
			},
		},
	)

	reflector.Spec.Components.WithResponses(
		openapi3.ComponentsResponses{
			MapOfResponseOrRefValues: map[string]openapi3.ResponseOrRef{
				"BadRequest":          errorResponse("Bad Request", "invalid document name: \"???\""),
				"NotFound":            errorResponse("Not Found", "document not found: Home"),
				"Conflict":            errorResponse("Conflict", "document is being modified by another process"),
				"InternalServerError": errorResponse("Internal Server Error", "internal server error"),
			},
		},
	)
	// Openapi-go automatically add as prefix the package name. We use this hook
	// to manually remove the pkg prefix.
	reflector.DefaultOptions = append(reflector.DefaultOptions,
		jsonschema.InterceptSchema(func(params jsonschema.InterceptSchemaParams) (stop bool, err error) {
			if params.Value.Type() == reflect.TypeOf(coordinator.MessageType("")) {
				params.Schema.WithRef("#/components/schemas/MessageType")
				return true, nil
			}
			return false, nil
		}),
		jsonschema.InterceptDefName(stripPackagePrefix),
	)
	return &Generator{reflector: reflector}
}

func (g *Generator) GetDocs() *openapi3.Spec {
	return g.reflector.Spec
}

type OperationConfig struct {
	OperationId    string
	Method         string
	Path           string
	Parameters     any
	Request        any
	Description    string
	Summary        string
	Tags           []Tag
	PossibleErrors []ErrorResponse

	CustomSuccessResponse *CustomResponseDef
}

type CustomResponseDef struct {
	ContentType   string
	Description   string
	DataStructure any
	StatusCode    int
}

type ErrorResponse struct {
	StatusCode int    `json:"code"`
	Reference  string `json:"message"`
}

type documentParam struct {
	Name string `path:"name" description:"document name, matched case-insensitively through its slug."`
}

var (
	errBadRequest = ErrorResponse{StatusCode: http.StatusBadRequest, Reference: "#/components/responses/BadRequest"}
	errNotFound   = ErrorResponse{StatusCode: http.StatusNotFound, Reference: "#/components/responses/NotFound"}
	errConflict   = ErrorResponse{StatusCode: http.StatusConflict, Reference: "#/components/responses/Conflict"}
	errInternal   = ErrorResponse{StatusCode: http.StatusInternalServerError, Reference: "#/components/responses/InternalServerError"}
)

const messageStreamDescription = `A stream of Server-Sent Events (SSE) carrying the messages for the plugin panel.
The event name is the message type and the data is the JSON message:

**Event 'progress'**:
'event: progress'
'data: {"type":"progress","message":"Creating frames...","document":"Home"}'

**Event 'alert'**:
'event: alert'
'data: {"type":"alert","alertType":"error","message":"Invalid API key","suggestions":["Check the key in the settings"]}'

**Event 'contextUpdate'**:
'event: contextUpdate'
'data: {"type":"contextUpdate","frame":{"id":"...","name":"Login","width":375,"height":812}}'

**Event 'error'**:
'event: error'
'data: {"code":"INTERNAL_SERVER_ERROR","message":"An error occurred during operation"}'
`

func (g *Generator) InitOperations() {
	operations := []OperationConfig{
		{
			OperationId: "getVersion",
			Method:      http.MethodGet,
			Path:        "/v1/version",
			CustomSuccessResponse: &CustomResponseDef{
				ContentType:   "application/json",
				DataStructure: models.VersionResponse{},
				Description:   "Successful response",
				StatusCode:    http.StatusOK,
			},
			Description:    "returns the daemon current version",
			Summary:        "daemon version",
			Tags:           []Tag{SystemTag},
			PossibleErrors: []ErrorResponse{errInternal},
		},
		{
			OperationId: "listDevices",
			Method:      http.MethodGet,
			Path:        "/v1/presets/devices",
			CustomSuccessResponse: &CustomResponseDef{
				ContentType:   "application/json",
				DataStructure: models.DeviceListResponse{},
				Description:   "Successful response",
				StatusCode:    http.StatusOK,
			},
			Description: "Returns the device presets: frame size, layout and typography constraints.",
			Summary:     "List the device presets",
			Tags:        []Tag{PresetTag},
		},
		{
			OperationId: "listModels",
			Method:      http.MethodGet,
			Path:        "/v1/presets/models",
			CustomSuccessResponse: &CustomResponseDef{
				ContentType:   "application/json",
				DataStructure: models.ModelListResponse{},
				Description:   "Successful response",
				StatusCode:    http.StatusOK,
			},
			Description: "Returns the generation models that can be requested, and the default one.",
			Summary:     "List the generation models",
			Tags:        []Tag{PresetTag},
		},
		{
			OperationId: "listDocuments",
			Method:      http.MethodGet,
			Path:        "/v1/documents",
			CustomSuccessResponse: &CustomResponseDef{
				ContentType:   "application/json",
				DataStructure: models.DocumentListResponse{},
				Description:   "Successful response",
				StatusCode:    http.StatusOK,
			},
			Description:    "Returns the stored documents, sorted by name.",
			Summary:        "List the documents",
			Tags:           []Tag{DocumentTag},
			PossibleErrors: []ErrorResponse{errInternal},
		},
		{
			OperationId: "getDocument",
			Method:      http.MethodGet,
			Path:        "/v1/documents/{name}",
			Request:     (*documentParam)(nil),
			CustomSuccessResponse: &CustomResponseDef{
				ContentType:   "application/json",
				DataStructure: models.DocumentResponse{},
				Description:   "Successful response",
				StatusCode:    http.StatusOK,
			},
			Description:    "Returns the node tree of the document page and the ids of the selected nodes.",
			Summary:        "Get a document",
			Tags:           []Tag{DocumentTag},
			PossibleErrors: []ErrorResponse{errBadRequest, errNotFound, errConflict, errInternal},
		},
		{
			OperationId: "deleteDocument",
			Method:      http.MethodDelete,
			Path:        "/v1/documents/{name}",
			Request:     (*documentParam)(nil),
			CustomSuccessResponse: &CustomResponseDef{
				Description: "Successful response",
				StatusCode:  http.StatusNoContent,
			},
			Description:    "Removes the document file.",
			Summary:        "Delete a document",
			Tags:           []Tag{DocumentTag},
			PossibleErrors: []ErrorResponse{errBadRequest, errNotFound, errConflict, errInternal},
		},
		{
			OperationId: "updateSelection",
			Method:      http.MethodPut,
			Path:        "/v1/documents/{name}/selection",
			Request:     models.SelectionRequest{},
			Parameters:  (*documentParam)(nil),
			CustomSuccessResponse: &CustomResponseDef{
				ContentType:   "application/json",
				DataStructure: models.DocumentResponse{},
				Description:   "Successful response",
				StatusCode:    http.StatusOK,
			},
			Description:    "Replaces the selection of the document. Every connected panel receives a contextUpdate message.",
			Summary:        "Select nodes",
			Tags:           []Tag{DocumentTag},
			PossibleErrors: []ErrorResponse{errBadRequest, errNotFound, errConflict, errInternal},
		},
		{
			OperationId: "sendMessage",
			Method:      http.MethodPost,
			Path:        "/v1/documents/{name}/messages",
			Request:     coordinator.Request{},
			Parameters:  (*documentParam)(nil),
			CustomSuccessResponse: &CustomResponseDef{
				ContentType:   "text/event-stream",
				DataStructure: coordinator.Message{},
				Description:   messageStreamDescription,
				StatusCode:    http.StatusOK,
			},
			Description: "Sends a plugin message (getContext or generate) for the document. " +
				"Missing API key, model and device fall back to the daemon configuration.",
			Summary:        "Send a plugin message",
			Tags:           []Tag{DocumentTag},
			PossibleErrors: []ErrorResponse{errBadRequest},
		},
		{
			OperationId: "pluginSocket",
			Method:      http.MethodGet,
			Path:        "/v1/documents/{name}/plugin",
			Request:     (*documentParam)(nil),
			CustomSuccessResponse: &CustomResponseDef{
				Description: "Upgrades to a websocket exchanging JSON plugin messages in both directions.",
				StatusCode:  http.StatusSwitchingProtocols,
			},
			Description:    "Bidirectional channel for a plugin panel bound to the document.",
			Summary:        "Plugin websocket",
			Tags:           []Tag{DocumentTag},
			PossibleErrors: []ErrorResponse{errBadRequest},
		},
		{
			OperationId: "streamEvents",
			Method:      http.MethodGet,
			Path:        "/v1/events",
			Request: (*struct {
				Document string `query:"document" description:"only stream the messages of this document."`
			})(nil),
			CustomSuccessResponse: &CustomResponseDef{
				ContentType:   "text/event-stream",
				DataStructure: coordinator.Message{},
				Description:   messageStreamDescription,
				StatusCode:    http.StatusOK,
			},
			Description: "Streams every message sent to the plugin panels.",
			Summary:     "Follow the plugin messages",
			Tags:        []Tag{SystemTag},
		},
	}

	for _, op := range operations {
		if err := g.AddOperation(op); err != nil {
			slog.Error(
				"failed to register OpenApi operation",
				"path", op.Path,
				"method", op.Method,
				"error", err,
			)
		}
	}

	g.reflector.Spec.WithTags(
		f.Map(validTags, func(t Tag) openapi3.Tag {
			return openapi3.Tag{Name: string(t)}
		})...,
	)
}

func (g *Generator) AddOperation(config OperationConfig) error {
	opCtx, err := g.reflector.NewOperationContext(config.Method, config.Path)
	if err != nil {
		return err
	}
	opCtx.SetDescription(config.Description)
	opCtx.SetTags(f.Map(config.Tags, func(t Tag) string { return string(t) })...)
	opCtx.SetSummary(config.Summary)
	opCtx.SetID(config.OperationId)
	if config.Request != nil {
		opCtx.AddReqStructure(config.Request)
	}
	if config.Parameters != nil {
		opCtx.AddReqStructure(config.Parameters)
	}

	opCtx.AddRespStructure(config.CustomSuccessResponse.DataStructure, func(cu *openapi.ContentUnit) {
		cu.HTTPStatus = config.CustomSuccessResponse.StatusCode
		cu.ContentType = config.CustomSuccessResponse.ContentType
		cu.Description = config.CustomSuccessResponse.Description
	})
	for _, e := range config.PossibleErrors {
		opCtx.AddRespStructure(e, func(cu *openapi.ContentUnit) {
			cu.Customize = func(cor openapi.ContentOrReference) {
				cor.SetReference(e.Reference)
			}
			cu.HTTPStatus = e.StatusCode
		})
	}

	return g.reflector.AddOperation(opCtx)
}
