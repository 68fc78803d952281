package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/talentview/recruit-backend/internal/dto"
	"github.com/talentview/recruit-backend/internal/errs"
	"github.com/talentview/recruit-backend/internal/models"
	"github.com/talentview/recruit-backend/internal/shapes"
	"github.com/talentview/recruit-backend/internal/widgets"
	"github.com/talentview/recruit-backend/pkg/logger"
)

type vertexClient interface {
	GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

type aiCatalog interface {
	GetAsset(ctx context.Context, assetKey string) (*models.DataAsset, error)
	ListActiveAssets(ctx context.Context, category string) ([]*models.DataAsset, error)
}

type aiExecutor interface {
	QueryDataAsset(ctx context.Context, params dto.QueryParameters) (dto.QueryResult, error)
}

type aiDashboards interface {
	AddWidget(ctx context.Context, uid, dashboardID string, req dto.CreateWidgetRequest) (*models.Widget, error)
	CompatibleWidgetTypes(ctx context.Context, assetKey string) ([]widgets.Entry, error)
}

type aiMessageStore interface {
	SaveMessage(ctx context.Context, uid, sessionID string, msg models.AIMessage) error
	ListMessages(ctx context.Context, uid, sessionID string, limit int) ([]models.AIMessage, error)
}

// AIService answers natural-language questions about recruitment metrics by
// driving Vertex function calling over the data asset catalog. Every number
// in an answer comes from a tool result; the model never computes metrics.
type AIService struct {
	vertex     vertexClient
	catalog    aiCatalog
	executor   aiExecutor
	dashboards aiDashboards
	store      aiMessageStore
	ttl        time.Duration
	clockNow   func() time.Time
}

func NewAIService(vertex vertexClient, catalog aiCatalog, executor aiExecutor, dashboards aiDashboards, store aiMessageStore, ttl time.Duration) *AIService {
	return &AIService{
		vertex:     vertex,
		catalog:    catalog,
		executor:   executor,
		dashboards: dashboards,
		store:      store,
		ttl:        ttl,
		clockNow:   time.Now,
	}
}

func (s *AIService) Query(ctx context.Context, uid, sessionID, message string) (dto.AIQueryResponse, error) {
	log := logger.FromContext(ctx)

	history, err := s.store.ListMessages(ctx, uid, sessionID, 8)
	if err != nil {
		return dto.AIQueryResponse{}, err
	}

	contents := convertMessagesToContents(history, message)
	req := dto.VertexGenerateRequest{
		System:   systemPrompt(s.clockNow()),
		Contents: contents,
		Tools:    toolSchemas(),
		ToolConfig: &dto.VertexToolConfig{
			Mode: dto.FunctionCallingModeAuto,
		},
	}

	resp, err := s.vertex.GenerateContent(ctx, req)
	if err != nil {
		var malformed *errs.MalformedFunctionCallError
		if errors.As(err, &malformed) {
			strictReq := req
			strictReq.System = strictSystemPrompt(s.clockNow())
			resp, err = s.vertex.GenerateContent(ctx, strictReq)
		}
	}
	if err != nil {
		return dto.AIQueryResponse{}, err
	}

	if len(resp.ToolCalls) == 0 {
		if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{
			Role:    "user",
			Content: message,
		}); err != nil {
			return dto.AIQueryResponse{}, err
		}
		if resp.Text != "" {
			if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{
				Role:    "assistant",
				Content: resp.Text,
			}); err != nil {
				return dto.AIQueryResponse{}, err
			}
		}
		log.Info("ai query completed", "session_id", sessionID)
		return dto.AIQueryResponse{Answer: resp.Text}, nil
	}

	if len(resp.ToolCalls) > 1 {
		log.Warn("received multiple tool calls, only processing the first", "count", len(resp.ToolCalls))
	}

	toolCall := resp.ToolCalls[0]
	if !isValidToolName(toolCall.Name) {
		return dto.AIQueryResponse{}, errs.NewValidationError(fmt.Sprintf("model requested unknown tool: %s", toolCall.Name))
	}

	log.Info("executing tool", "tool", toolCall.Name)

	toolResult, createdWidget, err := s.executeTool(ctx, uid, toolCall)
	if err != nil {
		return dto.AIQueryResponse{}, fmt.Errorf("failed to execute tool %s: %w", toolCall.Name, err)
	}

	if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{
		Role:    "user",
		Content: message,
	}); err != nil {
		return dto.AIQueryResponse{}, err
	}
	if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{
		Role:       "tool",
		ToolName:   toolCall.Name,
		ToolArgs:   toolCall.Args,
		ToolResult: toolResult.Response,
	}); err != nil {
		return dto.AIQueryResponse{}, err
	}

	contentsWithToolResult := append(contents, dto.VertexContent{
		Role: "model",
		Parts: []dto.VertexPart{
			{FunctionCall: &toolCall},
		},
	}, dto.VertexContent{
		Role: "user",
		Parts: []dto.VertexPart{
			{FunctionResponse: &toolResult},
		},
	})

	finalResp, err := s.vertex.GenerateContent(ctx, dto.VertexGenerateRequest{
		System:   systemPrompt(s.clockNow()),
		Contents: contentsWithToolResult,
		Tools:    toolSchemas(),
		ToolConfig: &dto.VertexToolConfig{
			Mode: dto.FunctionCallingModeNone,
		},
	})
	if err != nil {
		return dto.AIQueryResponse{}, err
	}

	if err := s.saveMessage(ctx, uid, sessionID, models.AIMessage{
		Role:    "assistant",
		Content: finalResp.Text,
	}); err != nil {
		return dto.AIQueryResponse{}, err
	}

	log.Info("ai query completed", "session_id", sessionID, "tool", toolCall.Name)
	return dto.AIQueryResponse{
		Answer: finalResp.Text,
		Widget: createdWidget,
		Debug: &dto.AIDebugInfo{
			Tool: toolCall.Name,
			Args: toolCall.Args,
		},
	}, nil
}

func convertMessagesToContents(history []models.AIMessage, currentMessage string) []dto.VertexContent {
	contents := make([]dto.VertexContent, 0, len(history)+1)

	for _, msg := range history {
		switch msg.Role {
		case "user":
			contents = append(contents, dto.VertexContent{
				Role: "user",
				Parts: []dto.VertexPart{
					{Text: &msg.Content},
				},
			})

		case "assistant":
			if msg.Content != "" {
				contents = append(contents, dto.VertexContent{
					Role: "model",
					Parts: []dto.VertexPart{
						{Text: &msg.Content},
					},
				})
			}

		case "tool":
			// Tool calls and results need explicit function call/response parts.
			if msg.ToolName != "" && msg.ToolArgs != nil {
				contents = append(contents, dto.VertexContent{
					Role: "model",
					Parts: []dto.VertexPart{
						{FunctionCall: &dto.VertexToolCall{
							Name: msg.ToolName,
							Args: msg.ToolArgs,
						}},
					},
				})
			}

			if msg.ToolName != "" && msg.ToolResult != nil {
				contents = append(contents, dto.VertexContent{
					Role: "user",
					Parts: []dto.VertexPart{
						{FunctionResponse: &dto.VertexToolResult{
							Name:     msg.ToolName,
							Response: msg.ToolResult,
						}},
					},
				})
			}
		}
	}

	contents = append(contents, dto.VertexContent{
		Role: "user",
		Parts: []dto.VertexPart{
			{Text: &currentMessage},
		},
	})

	return contents
}

func (s *AIService) saveMessage(ctx context.Context, uid, sessionID string, msg models.AIMessage) error {
	now := s.clockNow()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	if s.ttl > 0 {
		msg.ExpiresAt = now.Add(s.ttl)
	}
	return s.store.SaveMessage(ctx, uid, sessionID, msg)
}

// --- Tool argument types ---

type listAssetsArgs struct {
	Category string `mapstructure:"category"`
}

type queryAssetArgs struct {
	AssetKey           string `mapstructure:"assetKey"`
	Shape              string `mapstructure:"shape"`
	DateFrom           string `mapstructure:"dateFrom"`
	DateTo             string `mapstructure:"dateTo"`
	Dimension          string `mapstructure:"dimension"`
	SecondaryDimension string `mapstructure:"secondaryDimension"`
	Limit              int    `mapstructure:"limit"`
	ConsultantID       string `mapstructure:"consultantId"`
	TeamID             string `mapstructure:"teamId"`
	Region             string `mapstructure:"region"`
	ClientName         string `mapstructure:"clientName"`
	Stage              string `mapstructure:"stage"`
}

type compatibleTypesArgs struct {
	AssetKey string `mapstructure:"assetKey"`
}

type createWidgetArgs struct {
	DashboardID string `mapstructure:"dashboardId"`
	AssetKey    string `mapstructure:"assetKey"`
	WidgetType  string `mapstructure:"widgetType"`
	Title       string `mapstructure:"title"`
	Dimension   string `mapstructure:"dimension"`
	Limit       int    `mapstructure:"limit"`
}

func (s *AIService) executeTool(ctx context.Context, uid string, call dto.VertexToolCall) (dto.VertexToolResult, any, error) {
	switch call.Name {
	case "list_data_assets":
		args, err := decodeArgs[listAssetsArgs](call.Args)
		if err != nil {
			return dto.VertexToolResult{}, nil, err
		}
		assets, err := s.catalog.ListActiveAssets(ctx, args.Category)
		if err != nil {
			return dto.VertexToolResult{}, nil, err
		}
		summaries := make([]map[string]any, 0, len(assets))
		for _, a := range assets {
			summaries = append(summaries, map[string]any{
				"assetKey":            a.AssetKey,
				"displayName":         a.DisplayName,
				"description":         a.Description,
				"category":            a.Category,
				"outputShapes":        a.OutputShapes,
				"availableDimensions": a.AvailableDimensions,
				"availableFilters":    a.AvailableFilters,
			})
		}
		return dto.VertexToolResult{
			Name:     call.Name,
			Response: map[string]any{"assets": summaries},
		}, nil, nil

	case "query_data_asset":
		args, err := decodeArgs[queryAssetArgs](call.Args)
		if err != nil {
			return dto.VertexToolResult{}, nil, err
		}
		if args.AssetKey == "" || args.Shape == "" {
			return dto.VertexToolResult{}, nil, errs.NewValidationError("assetKey and shape are required")
		}
		params := dto.QueryParameters{
			AssetKey: args.AssetKey,
			Shape:    shapes.Kind(args.Shape),
			Limit:    args.Limit,
			Filters:  map[string]string{},
		}
		if args.DateFrom != "" && args.DateTo != "" {
			params.DateRange = &dto.DateRange{Start: args.DateFrom, End: args.DateTo}
		}
		if args.Dimension != "" {
			params.Dimensions = append(params.Dimensions, args.Dimension)
		}
		if args.SecondaryDimension != "" {
			params.Dimensions = append(params.Dimensions, args.SecondaryDimension)
		}
		putFilter(params.Filters, dto.FilterConsultantID, args.ConsultantID)
		putFilter(params.Filters, dto.FilterTeamID, args.TeamID)
		putFilter(params.Filters, dto.FilterRegion, args.Region)
		putFilter(params.Filters, dto.FilterClientName, args.ClientName)
		putFilter(params.Filters, dto.FilterStage, args.Stage)

		result, err := s.executor.QueryDataAsset(ctx, params)
		if err != nil {
			return dto.VertexToolResult{}, nil, err
		}
		payload, err := toMap(result)
		if err != nil {
			return dto.VertexToolResult{}, nil, err
		}
		return dto.VertexToolResult{Name: call.Name, Response: payload}, nil, nil

	case "compatible_widget_types":
		args, err := decodeArgs[compatibleTypesArgs](call.Args)
		if err != nil {
			return dto.VertexToolResult{}, nil, err
		}
		if args.AssetKey == "" {
			return dto.VertexToolResult{}, nil, errs.NewValidationError("assetKey is required")
		}
		entries, err := s.dashboards.CompatibleWidgetTypes(ctx, args.AssetKey)
		if err != nil {
			return dto.VertexToolResult{}, nil, err
		}
		payload, err := toMap(map[string]any{"widgetTypes": entries})
		if err != nil {
			return dto.VertexToolResult{}, nil, err
		}
		return dto.VertexToolResult{Name: call.Name, Response: payload}, nil, nil

	case "create_widget":
		args, err := decodeArgs[createWidgetArgs](call.Args)
		if err != nil {
			return dto.VertexToolResult{}, nil, err
		}
		if args.DashboardID == "" || args.AssetKey == "" || args.WidgetType == "" {
			return dto.VertexToolResult{}, nil, errs.NewValidationError("dashboardId, assetKey, and widgetType are required")
		}
		req := dto.CreateWidgetRequest{
			AssetKey:   args.AssetKey,
			WidgetType: args.WidgetType,
			Config:     models.WidgetConfig{Title: args.Title},
		}
		if args.Dimension != "" || args.Limit > 0 {
			req.Parameters = map[string]any{}
			if args.Dimension != "" {
				req.Parameters["dimension"] = args.Dimension
			}
			if args.Limit > 0 {
				req.Parameters["limit"] = args.Limit
			}
		}
		w, err := s.dashboards.AddWidget(ctx, uid, args.DashboardID, req)
		if err != nil {
			return dto.VertexToolResult{}, nil, err
		}
		payload, err := toMap(w)
		if err != nil {
			return dto.VertexToolResult{}, nil, err
		}
		return dto.VertexToolResult{Name: call.Name, Response: payload}, w, nil

	default:
		return dto.VertexToolResult{}, nil, errs.NewValidationError(fmt.Sprintf("unsupported tool: %s", call.Name))
	}
}

func putFilter(filters map[string]string, key, value string) {
	if value != "" {
		filters[key] = value
	}
}

func toolSchemas() []dto.VertexTool {
	shapeEnum := make([]string, 0, len(shapes.AllKinds()))
	for _, k := range shapes.AllKinds() {
		shapeEnum = append(shapeEnum, string(k))
	}

	return []dto.VertexTool{
		{
			Name: "list_data_assets",
			Description: "List the data assets available for querying, with their keys, " +
				"output shapes, dimensions, and filters. Call this first when unsure which asset answers a question.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"category": {Type: "string", Enum: models.AssetCategoryList, Description: "Optional category filter."},
				},
			},
		},
		{
			Name: "query_data_asset",
			Description: "Query one data asset for a payload in one of its output shapes. " +
				"All metric values must come from this tool. " +
				"Always provide dateFrom and dateTo; default to 30 days ago through today if the user does not specify.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"assetKey":           {Type: "string", Description: "Asset key from list_data_assets. Required."},
					"shape":              {Type: "string", Enum: shapeEnum, Description: "Requested payload shape; must be one of the asset's output shapes. Required."},
					"dateFrom":           {Type: "string", Description: "YYYY-MM-DD start of the window."},
					"dateTo":             {Type: "string", Description: "YYYY-MM-DD end of the window."},
					"dimension":          {Type: "string", Description: "Dimension to group by for categorical and matrix shapes."},
					"secondaryDimension": {Type: "string", Description: "Second grouping dimension for stacked or matrix shapes."},
					"limit":              {Type: "integer", Description: "Maximum categories or rows to return."},
					"consultantId":       {Type: "string", Description: "Filter to one consultant."},
					"teamId":             {Type: "string", Description: "Filter to one team."},
					"region":             {Type: "string", Description: "Filter to one region."},
					"clientName":         {Type: "string", Description: "Filter to one client."},
					"stage":              {Type: "string", Description: "Filter to one pipeline stage."},
				},
				Required: []string{"assetKey", "shape"},
			},
		},
		{
			Name: "compatible_widget_types",
			Description: "List the widget types that can visualize a data asset, " +
				"derived from the asset's output shapes. Use before create_widget.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"assetKey": {Type: "string", Description: "Asset key from list_data_assets. Required."},
				},
				Required: []string{"assetKey"},
			},
		},
		{
			Name: "create_widget",
			Description: "Add a widget to one of the user's dashboards. The widget type must be " +
				"compatible with the asset; check compatible_widget_types when unsure.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"dashboardId": {Type: "string", Description: "Target dashboard id. Required."},
					"assetKey":    {Type: "string", Description: "Asset key from list_data_assets. Required."},
					"widgetType":  {Type: "string", Description: "Widget type key from compatible_widget_types. Required."},
					"title":       {Type: "string", Description: "Optional widget title."},
					"dimension":   {Type: "string", Description: "Optional grouping dimension for chart widgets."},
					"limit":       {Type: "integer", Description: "Optional maximum categories or rows."},
				},
				Required: []string{"dashboardId", "assetKey", "widgetType"},
			},
		},
	}
}

func systemPrompt(now time.Time) string {
	today := now.Format("2006-01-02")
	weekday := now.Weekday().String()
	return "You are a recruitment analytics assistant for a staffing agency. Use tools for deterministic queries. " +
		"Make only one tool call per request. For multi-part questions, address the primary question first. " +
		"Calculate date ranges from natural language (e.g., 'last week', 'this month'). A week is defined as Monday to Sunday. " +
		"All metric values (call counts, placements, revenue) must come from tool results - never fabricate these. " +
		"If a query is ambiguous (e.g., which consultant?), ask for clarification. " +
		"Defaults: date range defaults to the last 30 days if not provided. " +
		"Today is " + today + " (" + weekday + ", UK)."
}

func strictSystemPrompt(now time.Time) string {
	return systemPrompt(now) + " You must respond with a valid tool call that matches the schema. " +
		"If required information is missing, ask a clarification question instead of calling a tool."
}

func decodeArgs[T any](args map[string]any) (T, error) {
	var out T
	if len(args) == 0 {
		return out, nil
	}
	config := &mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(args); err != nil {
		return out, errs.NewValidationError("invalid tool arguments: " + err.Error())
	}
	return out, nil
}

func toMap(value any) (map[string]any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func isValidToolName(name string) bool {
	validTools := map[string]bool{
		"list_data_assets":        true,
		"query_data_asset":        true,
		"compatible_widget_types": true,
		"create_widget":           true,
	}
	return validTools[name]
}
