package http_handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/anthanhphan/gridstore/internal/config"
	"github.com/anthanhphan/gridstore/internal/domain"
	"github.com/anthanhphan/gridstore/internal/port"
	"github.com/anthanhphan/gridstore/pkg/resilience"
	sdklogger "github.com/anthanhphan/gosdk/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// uploadField is the multipart form field carrying the file.
const uploadField = "file"

const (
	uploadFailedMessage     = "Upload failed"
	storeUnavailableMessage = "Store unavailable"
)

type Server struct {
	app     *fiber.App
	cfg     *config.Config
	service port.FileService
	page    *template.Template
}

// NewServer builds the fiber app. A nil gatherer disables /metrics.
func NewServer(cfg *config.Config, service port.FileService, gatherer prometheus.Gatherer) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             int(cfg.App.MaxFileSize),
		StreamRequestBody:     true,
		IdleTimeout:           cfg.IdleTimeout(),
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${latency} ${method} ${path}\n",
	}))

	s := &Server{
		app:     app,
		cfg:     cfg,
		service: service,
		page:    template.Must(template.New("index").Funcs(pageFuncs).Parse(indexPage)),
	}

	s.registerRoutes(gatherer)

	return s
}

func (s *Server) registerRoutes(gatherer prometheus.Gatherer) {
	s.app.Get("/", s.handleIndex)
	s.app.Post("/upload", s.handleUpload)
	s.app.Get("/files", s.handleListFiles)
	s.app.Get("/files/:name", s.handleGetFile)
	s.app.Get("/image/:name", s.handleImage)
	s.app.Get("/download/:name", s.handleDownload)
	s.app.Get("/healthz", s.handleHealth)

	if gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

func (s *Server) Start() error {
	return s.app.Listen(s.cfg.Server.Addr)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) sendJSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"err": message,
	})
}

// sendServiceError maps a service error onto the HTTP error taxonomy.
// Server-side failures answer with failMessage and keep the detail in the log.
func (s *Server) sendServiceError(c *fiber.Ctx, err error, notFoundMessage, failMessage string) error {
	var openErr *resilience.CircuitOpenError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return s.sendJSONError(c, fiber.StatusNotFound, notFoundMessage)
	case errors.Is(err, domain.ErrValidation):
		return s.sendJSONError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &openErr):
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(openErr.RetryAfter.Seconds())+1))
		sdklogger.Warnw("Store circuit open", "path", c.Path(), "error", err.Error())
		return s.sendJSONError(c, fiber.StatusServiceUnavailable, storeUnavailableMessage)
	case errors.Is(err, domain.ErrNotReady):
		sdklogger.Warnw("Store not ready", "path", c.Path(), "error", err.Error())
		return s.sendJSONError(c, fiber.StatusServiceUnavailable, storeUnavailableMessage)
	default:
		sdklogger.Errorw("Request failed", "path", c.Path(), "error", err.Error())
		return s.sendJSONError(c, fiber.StatusInternalServerError, failMessage)
	}
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	files, err := s.service.ListFiles(c.UserContext())
	if err != nil {
		sdklogger.Warnw("Listing for index page failed", "error", err.Error())
		files = nil
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, files); err != nil {
		return s.sendJSONError(c, fiber.StatusInternalServerError, fmt.Sprintf("Failed to render page: %v", err))
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	contentType := c.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Content-Type must be multipart/form-data")
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Invalid Content-Type")
	}
	boundary, ok := params["boundary"]
	if !ok {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Missing boundary in Content-Type")
	}

	// Use raw request body stream
	bodyStream := c.Context().RequestBodyStream()
	if bodyStream == nil {
		bodyStream = bytes.NewReader(c.Body())
	}
	mr := multipart.NewReader(bodyStream, boundary)

	var part *multipart.Part
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return s.sendJSONError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to read multipart: %v", err))
		}
		if p.FormName() == uploadField && p.FileName() != "" {
			part = p
			break
		}
		_ = p.Close()
	}

	if part == nil {
		return s.sendJSONError(c, fiber.StatusBadRequest, "Missing 'file' part")
	}
	defer part.Close()

	record, err := s.service.UploadFile(c.UserContext(), port.UploadRequest{
		FileName:    part.FileName(),
		ContentType: part.Header.Get(fiber.HeaderContentType),
		Body:        part,
	})
	if err != nil {
		sdklogger.Errorw("Upload failed", "file_name", part.FileName(), "error", err.Error())
		return s.sendServiceError(c, err, uploadFailedMessage, uploadFailedMessage)
	}

	sdklogger.Infow("Upload stored", "file_id", record.ID, "display_name", record.DisplayName)
	return c.Redirect("/", fiber.StatusFound)
}

func (s *Server) handleListFiles(c *fiber.Ctx) error {
	files, err := s.service.ListFiles(c.UserContext())
	if err != nil {
		return s.sendServiceError(c, err, "No files exist", "Failed to list files")
	}
	if len(files) == 0 {
		return s.sendJSONError(c, fiber.StatusNotFound, "No files exist")
	}
	return c.JSON(files)
}

// fileWithContent is a record plus its base64 encoded content.
type fileWithContent struct {
	*domain.FileRecord
	Content string `json:"content"`
}

func (s *Server) handleGetFile(c *fiber.Ctx) error {
	name := c.Params("name")

	if !c.QueryBool("content") {
		record, err := s.service.GetFile(c.UserContext(), name)
		if err != nil {
			return s.sendServiceError(c, err, "No file exist", "Failed to read file")
		}
		return c.JSON(record)
	}

	record, data, err := s.service.ReadFile(c.UserContext(), name)
	if err != nil {
		sdklogger.Warnw("Buffered read failed", "display_name", name, "error", err.Error())
		return s.sendServiceError(c, err, "No file exist", "Failed to read file")
	}
	return c.JSON(fileWithContent{
		FileRecord: record,
		Content:    base64.StdEncoding.EncodeToString(data),
	})
}

func (s *Server) handleImage(c *fiber.Ctx) error {
	name := c.Params("name")

	record, stream, err := s.service.StreamImage(c.UserContext(), name)
	if errors.Is(err, domain.ErrUnsupportedMedia) {
		return s.sendJSONError(c, fiber.StatusNotFound, "Not an image")
	}
	if err != nil {
		return s.sendServiceError(c, err, "No file exist", "Failed to read file")
	}

	c.Set(fiber.HeaderContentType, record.ContentType)
	c.Context().SetBodyStream(stream, int(record.Length))
	return nil
}

func (s *Server) handleDownload(c *fiber.Ctx) error {
	name := c.Params("name")

	record, stream, err := s.service.StreamFile(c.UserContext(), name)
	if err != nil {
		return s.sendServiceError(c, err, "No file exist", "Failed to read file")
	}

	outFileName := record.OriginalName
	if outFileName == "" {
		outFileName = record.DisplayName
	}
	c.Attachment(outFileName)
	c.Set(fiber.HeaderContentType, record.ContentType)
	c.Context().SetBodyStream(stream, int(record.Length))
	return nil
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	if err := s.service.Ping(c.UserContext()); err != nil {
		sdklogger.Warnw("Health check failed", "error", err.Error())
		return s.sendJSONError(c, fiber.StatusServiceUnavailable, storeUnavailableMessage)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
