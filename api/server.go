package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/emulator"
)

// BODY_LIMIT is the largest request body accepted.
const BODY_LIMIT = "1M"

type ServerConfig struct {
	ListenerAddr string
	Logger       *zap.Logger
	Config       emulator.Config
}

type Server struct {
	ServerConfig
	machine Machine

	logger *zap.Logger
	echoer *echo.Echo
}

// NewServer creates a server. If machine is nil, one is built from the
// server's emulator configuration.
func NewServer(config ServerConfig, machine Machine) (*Server, error) {
	if config.Logger == nil {
		config.Logger, _ = zap.NewDevelopment()
	}

	if machine == nil {
		var err error
		machine, err = NewMachine(config.Config, config.Logger.Named("machine"))
		if err != nil {
			return nil, err
		}
	}

	s := &Server{
		ServerConfig: config,
		machine:      machine,
		logger:       config.Logger,
	}

	echoer := echo.New()
	echoer.HideBanner = true
	echoer.Use(middleware.BodyLimit(BODY_LIMIT))

	echoer.GET("/config", s.handleGetConfig)
	echoer.POST("/assemble", s.handleAssemble)
	echoer.POST("/execute", s.handleExecute)
	echoer.POST("/run", s.handleRun)

	s.echoer = echoer

	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.echoer
}

func (s *Server) Start() error {
	s.logger.Info("api server starting",
		zap.String("addr", s.ListenerAddr))

	return s.echoer.Start(s.ListenerAddr)
}

func (s *Server) body(ectx echo.Context) ([]byte, error) {
	return io.ReadAll(ectx.Request().Body)
}

func (s *Server) fail(ectx echo.Context, err error) error {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: err.Error()}

	var syntax *cpu.ErrSyntax
	var runtime *emulator.ErrRuntime
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Code
	case errors.As(err, &syntax):
		status = http.StatusBadRequest
		resp.Line = syntax.LineNo
	case errors.As(err, &runtime):
		status = http.StatusUnprocessableEntity
		resp.Line = runtime.LineNo
		resp.Offset = &runtime.Offset
	}

	s.logger.Debug("request failed",
		zap.String("path", ectx.Path()),
		zap.Int("status", status),
		zap.Error(err))

	return ectx.JSON(status, resp)
}

func (s *Server) handleGetConfig(ectx echo.Context) error {
	return ectx.JSON(http.StatusOK, s.Config)
}

func (s *Server) assemble(ectx echo.Context) (prog *cpu.Program, err error) {
	source, err := s.body(ectx)
	if err != nil {
		return
	}

	return s.machine.Assemble(bytes.NewReader(source))
}

func (s *Server) handleAssemble(ectx echo.Context) error {
	prog, err := s.assemble(ectx)
	if err != nil {
		return s.fail(ectx, err)
	}

	return ectx.JSON(http.StatusOK, AssembleResponse{
		Binary: prog.Binary(),
		Trace:  prog.Trace(),
	})
}

func (s *Server) handleExecute(ectx echo.Context) error {
	binary, err := s.body(ectx)
	if err != nil {
		return s.fail(ectx, err)
	}

	result, err := s.machine.Execute(binary)
	if err != nil {
		return s.fail(ectx, err)
	}

	return ectx.JSON(http.StatusOK, ExecuteResponse{Result: result})
}

func (s *Server) handleRun(ectx echo.Context) error {
	prog, err := s.assemble(ectx)
	if err != nil {
		return s.fail(ectx, err)
	}

	result, err := s.machine.Run(prog)
	if err != nil {
		return s.fail(ectx, err)
	}

	return ectx.JSON(http.StatusOK, RunResponse{
		AssembleResponse: AssembleResponse{Binary: prog.Binary(), Trace: prog.Trace()},
		ExecuteResponse:  ExecuteResponse{Result: result},
	})
}
