package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/scwportal/backend/core"
	"github.com/scwportal/backend/core/exam"
	"github.com/scwportal/backend/core/result"
	"github.com/scwportal/backend/core/student"
)

type (
	StudentService interface {
		Register(ctx context.Context, ns student.NewStudent) (student.Student, error)
	}

	ResultService interface {
		Ingest(ctx context.Context, sub result.Submission) (result.Receipt, error)
		List(ctx context.Context, studentID string) ([]result.Entry, error)
	}

	ExamService interface {
		List(ctx context.Context) ([]exam.Exam, error)
	}

	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		Translator ut.Translator
		StudentSvc StudentService
		ResultSvc  ResultService
		ExamSvc    ExamService
	}

	Server struct {
		addr     string
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

// NewServer builds the API. shutdown receives a signal whenever a core shutdown error is caught;
// a buffered channel is created when nil.
func NewServer(addr string, shutdown chan os.Signal, deps *Deps) *Server {
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
	}
	s := &Server{
		addr:     addr,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: shutdown,
	}
	s.setup(deps)
	return s
}

func (s *Server) setup(deps *Deps) {
	conf := deps.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(corsMiddleware)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(deps.Logger, deps.Translator, s.signalShutdown)

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerResultAPI(v1, "/results/webhook", deps.ResultSvc, deps.Logger)
	registerStudentAPI(v1, "/students/register", deps.StudentSvc, deps.Logger)
	registerResultQueryAPI(v1, "/results", deps.ResultSvc)
	registerExamAPI(v1, "/exams", deps.ExamSvc)

	// legacy serverless function paths, still called by deployed forms
	fn := s.app.Group("/functions/v1")
	registerResultAPI(fn, "/form-webhook", deps.ResultSvc, deps.Logger)
	registerStudentAPI(fn, "/register-student", deps.StudentSvc, deps.Logger)
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signaled
	}
}

// Start blocks until the server stops; failures are sent to Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.addr); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the SCW Portal API!")
}
