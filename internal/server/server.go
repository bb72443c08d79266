package server

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/casefile/internal/core"
	"github.com/agenthands/casefile/internal/core/community"
	"github.com/agenthands/casefile/internal/core/export"
	"github.com/agenthands/casefile/internal/core/model"
	"github.com/agenthands/casefile/internal/logger"
)

const defaultMaxUploadBytes = 32 << 20

type Server struct {
	Workspace      *core.Workspace
	MaxUploadBytes int64

	now func() time.Time
}

func NewServer(ws *core.Workspace, maxUploadBytes int64) *Server {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Server{
		Workspace:      ws,
		MaxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", s.Health)

	r.POST("/files", s.UploadFiles)
	r.GET("/files", s.ListFiles)
	r.GET("/files/:id", s.GetFile)

	r.GET("/entities", s.ListEntities)
	r.GET("/board", s.Board)
	r.GET("/timeline", s.Timeline)

	r.GET("/filters", s.Filters)
	r.POST("/filters/:category/toggle", s.ToggleFilter)

	r.POST("/chat", s.Chat)
	r.GET("/export", s.Export)
	r.POST("/reset", s.Reset)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UploadFiles registers every part named "files" and queues it for analysis.
// Bytes are read before the handler returns since multipart temp files do not
// outlive the request.
func (s *Server) UploadFiles(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.MaxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart upload"})
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}

	uploads := make([]core.Upload, len(headers))
	for i, fh := range headers {
		uploads[i] = bufferUpload(fh)
	}

	files := s.Workspace.Submit(uploads...)
	c.JSON(http.StatusAccepted, gin.H{"files": files})
}

func bufferUpload(fh *multipart.FileHeader) core.Upload {
	data, readErr := readPart(fh)
	return core.Upload{
		Name:     fh.Filename,
		MimeType: detectMimeType(fh),
		Open: func() (io.ReadCloser, error) {
			if readErr != nil {
				return nil, readErr
			}
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func detectMimeType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			return mt
		}
	}
	if mt := mime.TypeByExtension(filepath.Ext(fh.Filename)); mt != "" {
		if parsed, _, err := mime.ParseMediaType(mt); err == nil {
			return parsed
		}
	}
	return "application/octet-stream"
}

func (s *Server) ListFiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"files": s.Workspace.Files()})
}

func (s *Server) GetFile(c *gin.Context) {
	f, ok := s.Workspace.File(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) ListEntities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entities": s.Workspace.Entities()})
}

// Board serves the graph projection. communities=true (or lpa) clusters it
// with label propagation, communities=components with connected components.
func (s *Server) Board(c *gin.Context) {
	board := s.Workspace.Board()

	var detector community.Detector
	switch c.Query("communities") {
	case "", "false":
	case "true", "lpa":
		detector = community.NewLabelPropagationDetector()
	case "components":
		detector = community.NewComponentDetector()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown communities mode"})
		return
	}

	if detector != nil {
		annotated, err := community.Annotate(detector, board)
		if err != nil {
			logger.Error("community detection failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cluster board"})
			return
		}
		board = annotated
	}

	c.JSON(http.StatusOK, board)
}

func (s *Server) Timeline(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": s.Workspace.Timeline()})
}

func (s *Server) Filters(c *gin.Context) {
	c.JSON(http.StatusOK, s.Workspace.Filters())
}

func (s *Server) ToggleFilter(c *gin.Context) {
	category, ok := model.ParseCategory(c.Param("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}
	visible := s.Workspace.ToggleFilter(category)
	c.JSON(http.StatusOK, gin.H{"category": category, "visible": visible})
}

type ChatRequest struct {
	Query string `json:"query" binding:"required"`
}

func (s *Server) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	answer := s.Workspace.Ask(c.Request.Context(), req.Query)
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func (s *Server) Export(c *gin.Context) {
	now := s.now()
	doc := s.Workspace.Export(now)

	var (
		data        []byte
		err         error
		ext         string
		contentType string
	)
	switch c.DefaultQuery("format", "json") {
	case "json":
		data, err = doc.JSON()
		ext, contentType = "json", "application/json"
	case "msgpack":
		data, err = doc.Msgpack()
		ext, contentType = "msgpack", "application/msgpack"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown export format"})
		return
	}
	if err != nil {
		logger.Error("export failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export"})
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": export.FileName(now, ext),
	}))
	c.Data(http.StatusOK, contentType, data)
}

func (s *Server) Reset(c *gin.Context) {
	s.Workspace.Reset(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
