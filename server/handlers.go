package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MehanazMI/tea-stall-bench/pipeline/catalog"
	contractx "github.com/MehanazMI/tea-stall-bench/pipeline/contract"
	"github.com/MehanazMI/tea-stall-bench/pipeline/director"
	statex "github.com/MehanazMI/tea-stall-bench/pipeline/state"
)

type PipelineRequest struct {
	Topic       string `json:"topic"`
	ContentType string `json:"content_type,omitempty"`
	Style       string `json:"style,omitempty"`
	Length      string `json:"length,omitempty"`
	Channel     string `json:"channel,omitempty"`
}

type PipelineResponse struct {
	Status          string                   `json:"status"`
	TraceID         string                   `json:"trace_id"`
	Topic           string                   `json:"topic"`
	ResearchData    string                   `json:"research_data,omitempty"`
	ResearchSources []string                 `json:"research_sources,omitempty"`
	Outline         *statex.Outline          `json:"outline,omitempty"`
	ArticleTitle    string                   `json:"article_title,omitempty"`
	ArticleContent  string                   `json:"article_content,omitempty"`
	WordCount       int                      `json:"word_count"`
	Compliance      *statex.ComplianceReport `json:"compliance,omitempty"`
	Errors          []string                 `json:"errors"`
	StartedAt       time.Time                `json:"started_at"`
	CompletedAt     *time.Time               `json:"completed_at,omitempty"`
}

func (s *Server) handlePipeline(c echo.Context) error {
	var req PipelineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	pc, err := s.director.RunPipeline(c.Request().Context(), director.Request{
		Topic:       req.Topic,
		ContentType: req.ContentType,
		Style:       req.Style,
		Length:      req.Length,
		Channel:     req.Channel,
	})
	if err != nil {
		return httpError(err)
	}

	if s.runs != nil {
		if err := s.runs.Save(c.Request().Context(), pc); err != nil {
			s.logger.Error().Err(err).Str("trace_id", pc.TraceID).Msg("archive save failed")
		}
	}

	resp := pipelineResponse(pc)

	// A run that never got past the writing stage has no article; report
	// it as a server-side failure but keep the full run context visible.
	status := http.StatusOK
	if !pc.Completed() {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, resp)
}

func pipelineResponse(pc *statex.PipelineContext) PipelineResponse {
	return PipelineResponse{
		Status:          string(pc.CurrentStage),
		TraceID:         pc.TraceID,
		Topic:           pc.Topic,
		ResearchData:    pc.ResearchData,
		ResearchSources: pc.ResearchSources,
		Outline:         pc.Outline,
		ArticleTitle:    pc.ArticleTitle,
		ArticleContent:  pc.ArticleContent,
		WordCount:       pc.WordCount,
		Compliance:      pc.Compliance,
		Errors:          pc.Errors,
		StartedAt:       pc.StartedAt,
		CompletedAt:     pc.CompletedAt,
	}
}

type GenerateRequest struct {
	Topic       string `json:"topic"`
	ContentType string `json:"content_type,omitempty"`
	Style       string `json:"style,omitempty"`
	Length      string `json:"length,omitempty"`
	Channel     string `json:"channel,omitempty"`
}

type GenerateResponse struct {
	Status    string `json:"status"`
	Topic     string `json:"topic"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Style     string `json:"style"`
	WordCount int    `json:"word_count"`
}

// handleGenerate runs a single write with no research or outline stage.
func (s *Server) handleGenerate(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	style := req.Style
	if style == "" {
		style = "storytelling"
	}

	result, err := s.writer.Write(c.Request().Context(), contractx.WriteRequest{
		Topic:       req.Topic,
		ContentType: req.ContentType,
		Style:       style,
		Length:      req.Length,
		Channel:     req.Channel,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, GenerateResponse{
		Status:    "success",
		Topic:     req.Topic,
		Title:     result.Title,
		Content:   result.Content,
		Style:     style,
		WordCount: result.WordCount,
	})
}

type PublishResponse struct {
	Status         string `json:"status"`
	PhoneNumber    string `json:"phone_number"`
	DeliveryMethod string `json:"delivery_method"`
	MessageLength  int    `json:"message_length"`
	SentAt         string `json:"sent_at,omitempty"`
}

func (s *Server) handlePublish(c echo.Context) error {
	var req contractx.PublishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.publisher.Publish(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, PublishResponse{
		Status:         result.Status,
		PhoneNumber:    result.PhoneNumber,
		DeliveryMethod: result.DeliveryMethod,
		MessageLength:  result.MessageLength,
		SentAt:         result.SentAt,
	})
}

type GenerateAndPublishRequest struct {
	Topic       string `json:"topic"`
	Style       string `json:"style,omitempty"`
	PhoneNumber string `json:"phone_number"`
	Title       string `json:"title,omitempty"`
	AutoSend    bool   `json:"auto_send"`
}

type GenerateAndPublishResponse struct {
	Status         string `json:"status"`
	Topic          string `json:"topic"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	WordCount      int    `json:"word_count"`
	PhoneNumber    string `json:"phone_number"`
	DeliveryMethod string `json:"delivery_method"`
	SentAt         string `json:"sent_at,omitempty"`
}

func (s *Server) handleGenerateAndPublish(c echo.Context) error {
	var req GenerateAndPublishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	style := req.Style
	if style == "" {
		style = "storytelling"
	}

	genResult, err := s.writer.Write(c.Request().Context(), contractx.WriteRequest{
		Topic: req.Topic,
		Style: style,
	})
	if err != nil {
		return httpError(err)
	}

	title := req.Title
	if title == "" {
		title = genResult.Title
	}

	pubResult, err := s.publisher.Publish(c.Request().Context(), contractx.PublishRequest{
		PhoneNumber: req.PhoneNumber,
		Content:     genResult.Content,
		Title:       title,
		AutoSend:    req.AutoSend,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, GenerateAndPublishResponse{
		Status:         "success",
		Topic:          req.Topic,
		Title:          genResult.Title,
		Content:        genResult.Content,
		WordCount:      genResult.WordCount,
		PhoneNumber:    pubResult.PhoneNumber,
		DeliveryMethod: pubResult.DeliveryMethod,
		SentAt:         pubResult.SentAt,
	})
}

type StyleInfo struct {
	Name        string  `json:"name"`
	Temperature float64 `json:"temperature"`
}

func (s *Server) handleStyles(c echo.Context) error {
	names := catalog.Styles()
	styles := make([]StyleInfo, 0, len(names))
	for _, name := range names {
		styles = append(styles, StyleInfo{
			Name:        name,
			Temperature: catalog.TemperatureForStyle(name),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"styles": styles})
}

func (s *Server) handleChannels(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"channels": catalog.Channels()})
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "tea-stall-bench",
	})
}

func (s *Server) handleRuns(c echo.Context) error {
	if s.runs == nil {
		return echo.NewHTTPError(http.StatusNotFound, "run archive is not configured")
	}

	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	runs, err := s.runs.Recent(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleRunByTraceID(c echo.Context) error {
	if s.runs == nil {
		return echo.NewHTTPError(http.StatusNotFound, "run archive is not configured")
	}

	pc, err := s.runs.ByTraceID(c.Request().Context(), c.Param("trace_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "run not found")
	}
	return c.JSON(http.StatusOK, pipelineResponse(pc))
}
