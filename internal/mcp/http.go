package mcp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/kutbudev/aha-mcp/internal/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HTTPHandler serves streamable MCP on /mcp, a plain JSON tool endpoint on
// /v1/tools and a health check on /ping.
func (s *Server) HTTPHandler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	// Ping endpoint for health check
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
	r.Any("/mcp", gin.WrapH(streamable))

	v1 := r.Group("/v1")
	{
		v1.GET("/tools", s.listToolsHTTP)
		v1.POST("/tools/:name", s.callToolHTTP)
	}
	return r
}

// ListenAndServe serves HTTPHandler on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving MCP over HTTP", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) listToolsHTTP(c *gin.Context) {
	tools := make([]gin.H, 0, len(s.tools))
	for _, t := range s.tools {
		tools = append(tools, gin.H{
			"name":        t.def.Name,
			"description": t.def.Description,
		})
	}
	c.JSON(http.StatusOK, gin.H{"tools": tools, "count": len(tools)})
}

// callToolHTTP runs a tool with the request body as its arguments.
func (s *Server) callToolHTTP(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.Dispatch(c.Request.Context(), c.Param("name"), body)
	if err != nil {
		c.JSON(httpStatus(err), errorEnvelopeOf(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": ResultText(res)})
}

func httpStatus(err error) int {
	switch apierrors.CodeOf(err) {
	case apierrors.CodeInvalidParams:
		return http.StatusBadRequest
	case apierrors.CodeMethodNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func errorEnvelopeOf(err error) errorEnvelope {
	if te, ok := apierrors.As(err); ok {
		return errorEnvelope{Code: te.Code, Kind: te.Kind, Message: te.Message}
	}
	return errorEnvelope{Code: apierrors.CodeInternalError, Message: err.Error()}
}

// ResultText joins the text content of a tool result.
func ResultText(res *mcp.CallToolResult) string {
	if res == nil {
		return ""
	}
	var out string
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			out += tc.Text
		}
	}
	return out
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
