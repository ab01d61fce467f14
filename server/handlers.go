package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/TFMV/codereview/analysis"
	"github.com/TFMV/codereview/types"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// FileInfo describes an uploaded file.
type FileInfo struct {
	Filename string `json:"filename"`
	Size     int    `json:"size"`
}

// FileAnalysisResponse is a report annotated with the uploaded file's info.
type FileAnalysisResponse struct {
	*types.AnalysisReport
	FileInfo FileInfo `json:"file info"`
}

// FileError replaces a report for a file that could not be analyzed.
type FileError struct {
	Error string `json:"error"`
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Code *string `json:"code"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

func (s *Server) handleHealth(c *gin.Context) {
	deps := map[string]string{
		"code_analyzer": "healthy",
		"cache":         "disabled",
		"store":         "disabled",
	}
	if s.analyzer.Cache != nil {
		deps["cache"] = "healthy"
	}
	if s.analyzer.DB != nil {
		deps["store"] = "healthy"
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Dependencies: deps})
}

// handleAnalyzeCode handles POST /analyze with a JSON {"code": "..."} body.
func (s *Server) handleAnalyzeCode(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Request body must be JSON with a \"code\" field"})
		return
	}

	report, err := s.analyzer.AnalyzeSource(c.Request.Context(), *req.Code)
	if err != nil {
		analyses.WithLabelValues("failed").Inc()
		s.writeAnalysisError(c, err)
		return
	}
	analyses.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, report)
}

// handleAnalyzeFile handles POST /analyze-file with a multipart "file" field.
func (s *Server) handleAnalyzeFile(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "No file uploaded"})
		return
	}
	if !s.analyzer.IsSourceFile(fh.Filename) {
		analyses.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Only Python files are supported"})
		return
	}
	if fh.Size > s.maxUpload {
		analyses.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Detail: fmt.Sprintf("File exceeds %d bytes", s.maxUpload)})
		return
	}

	content, err := readUpload(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
		return
	}

	ctx := c.Request.Context()
	res := s.analyzer.AnalyzeFiles(ctx, []analysis.SourceFile{{Name: fh.Filename, Content: content}})[0]
	if res.Err != nil {
		analyses.WithLabelValues("failed").Inc()
		s.writeAnalysisError(c, res.Err)
		return
	}
	analyses.WithLabelValues("ok").Inc()
	s.store(c, []analysis.FileResult{res})

	c.JSON(http.StatusOK, FileAnalysisResponse{
		AnalysisReport: res.Report,
		FileInfo:       FileInfo{Filename: fh.Filename, Size: res.Size},
	})
}

// handleAnalyzeMultipleFiles handles POST /analyze-multiple-files with
// multipart "files" fields. Files without a source extension are skipped;
// a failing file reports its error without affecting the others.
func (s *Server) handleAnalyzeMultipleFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "No files uploaded"})
		return
	}

	response := make(map[string]any)
	var files []analysis.SourceFile
	for _, fh := range form.File["files"] {
		if !s.analyzer.IsSourceFile(fh.Filename) {
			analyses.WithLabelValues("rejected").Inc()
			continue
		}
		if fh.Size > s.maxUpload {
			analyses.WithLabelValues("rejected").Inc()
			response[fh.Filename] = FileError{Error: fmt.Sprintf("File exceeds %d bytes", s.maxUpload)}
			continue
		}
		content, err := readUpload(fh)
		if err != nil {
			response[fh.Filename] = FileError{Error: err.Error()}
			continue
		}
		files = append(files, analysis.SourceFile{Name: fh.Filename, Content: content})
	}

	results := s.analyzer.AnalyzeFiles(c.Request.Context(), files)
	for _, res := range results {
		if res.Err != nil {
			analyses.WithLabelValues("failed").Inc()
			response[res.Name] = FileError{Error: res.Err.Error()}
			continue
		}
		analyses.WithLabelValues("ok").Inc()
		response[res.Name] = res.Report
	}
	s.store(c, results)

	c.JSON(http.StatusOK, response)
}

func (s *Server) writeAnalysisError(c *gin.Context, err error) {
	s.logger.Warn("analysis failed",
		"path", c.Request.URL.Path,
		"error", err,
		"request_id", c.GetString("request_id"))

	if errors.Is(err, types.ErrInvalidText) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "File must be UTF-8 encoded text"})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: fmt.Sprintf("Analysis failed: %v", err)})
}

// store persists results when a report store is configured. Failures are
// logged and never fail the request.
func (s *Server) store(c *gin.Context, results []analysis.FileResult) {
	if err := s.analyzer.StoreResults(c.Request.Context(), results); err != nil {
		s.logger.Warn("failed to store analysis results",
			"error", err,
			"request_id", c.GetString("request_id"))
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
	}
	return content, nil
}
