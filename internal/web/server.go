package web

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sandeepkv93/timetally/internal/commands"
	"github.com/sandeepkv93/timetally/internal/exchange"
	"github.com/sandeepkv93/timetally/internal/model"
	"github.com/sandeepkv93/timetally/internal/session"
	"github.com/sandeepkv93/timetally/internal/storage"
)

const mod = "api"

// Server exposes the session over HTTP under /api/v1.
type Server struct {
	session  *session.Session
	handlers commands.Handlers
	log      zerolog.Logger
	addr     string
	router   *gin.Engine
}

type commandRequest struct {
	Command string `json:"command" binding:"required"`
}

func NewServer(s *session.Session, addr string, log zerolog.Logger) *Server {
	handlers := commands.Bind(s)
	// file based import and export stay local; see /import and /export
	handlers.Import = nil
	handlers.Export = nil

	srv := &Server{
		session:  s,
		handlers: handlers,
		log:      log.With().Str("mod", mod).Logger(),
		addr:     addr,
	}
	srv.router = srv.routes()
	return srv
}

func (srv *Server) Handler() http.Handler {
	return srv.router
}

func (srv *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(srv.requestLogger())
	router.Use(gin.Recovery())

	v1 := router.Group("api").Group("/v1")
	{
		v1.GET("/state", srv.getState)
		v1.GET("/voices", srv.getVoices)
		v1.POST("/commands", srv.postCommand)
		v1.GET("/export", srv.getExport)
		v1.POST("/import", srv.postImport)
	}
	return router
}

// Serve listens on the configured address until ctx is done, then shuts
// down gracefully.
func (srv *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", srv.addr)
	if err != nil {
		return err
	}
	return srv.serve(ctx, ln)
}

func (srv *Server) serve(ctx context.Context, ln net.Listener) error {
	httpSrv := &http.Server{
		Handler:           srv.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	srv.log.Info().Str("addr", ln.Addr().String()).Msg("listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		srv.log.Error().Err(err).Msg("shutdown")
		return err
	}
	srv.log.Info().Msg("shutdown")
	return nil
}

func (srv *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, srv.session.Snapshot())
}

func (srv *Server) getVoices(c *gin.Context) {
	voices, err := srv.session.Voices()
	if err != nil {
		srv.fail(c, err)
		return
	}
	if voices == nil {
		voices = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"voices": voices})
}

func (srv *Server) postCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := commands.Run(req.Command, srv.handlers)
	if err != nil {
		srv.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": res.Message,
		"state":   srv.session.Snapshot(),
	})
}

func (srv *Server) getExport(c *gin.Context) {
	var buf bytes.Buffer
	name, err := srv.session.ExportXML(&buf)
	if err != nil {
		srv.fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+name+"\"")
	c.Data(http.StatusOK, "application/xml", buf.Bytes())
}

func (srv *Server) postImport(c *gin.Context) {
	mode, err := exchange.ParseMode(c.Query("mode"))
	if err != nil {
		srv.fail(c, err)
		return
	}
	res, err := srv.session.ImportXML(c.Request.Body, mode)
	if err != nil {
		srv.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mode":     res.Mode,
		"list":     res.List,
		"imported": res.Imported,
		"replaced": res.ReplacedList,
	})
}

func (srv *Server) fail(c *gin.Context, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		srv.log.Error().Err(err).Str("path", c.Request.URL.Path).Send()
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func errorStatus(err error) int {
	var ce *commands.CommandError
	switch {
	case errors.As(err, &ce):
		if ce.Code == commands.ErrCodeHandlerMissing {
			return http.StatusNotImplemented
		}
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrDuplicateName), errors.Is(err, model.ErrLastList):
		return http.StatusConflict
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrInvalidOrder),
		errors.Is(err, exchange.ErrMalformedImport), errors.Is(err, exchange.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (srv *Server) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		startTime := time.Now()
		ctx.Next()
		srv.log.
			Info().
			Int("code", ctx.Writer.Status()).
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.RequestURI).
			TimeDiff("latency", time.Now(), startTime).
			Send()
	}
}
