package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/go-theft-auto/triptych"
	"github.com/go-theft-auto/triptych/backend/opengl"
	"github.com/go-theft-auto/triptych/epub"
	"github.com/go-theft-auto/triptych/internal/config"
	"github.com/go-theft-auto/triptych/internal/pages"
)

var startPage int

var openCmd = &cobra.Command{
	Use:   "open <book>",
	Short: "Open a book in a reader window",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

func init() {
	openCmd.Flags().IntVarP(&startPage, "page", "p", 1, "chapter to open at (1-based)")
}

func runOpen(cmd *cobra.Command, args []string) error {
	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return err
	}
	cfg := cm.Get()
	triptych.SetVerbose(verbose || cfg.Verbose)

	logger := newLogger()
	if f := cm.ConfigFileUsed(); f != "" {
		logger.Debug("config loaded", "file", f)
	}

	book, err := epub.Open(args[0])
	if err != nil {
		return err
	}
	logger.Info("book opened",
		"title", book.Title,
		"chapters", book.Len(),
		"size", humanize.Bytes(uint64(book.ArchiveSize())))

	m, err := triptych.New(book.Len(), startPage-1,
		triptych.WithLogger(logger),
		triptych.WithSnapSpeed(float32(cfg.Reader.SnapSpeed)))
	if err != nil {
		return fmt.Errorf("open at chapter %d: %w", startPage, err)
	}

	// Reloads arrive on the watcher goroutine; the window loop applies the
	// latest outcome between frames.
	reloads := make(chan reload, 1)
	send := func(r reload) {
		select {
		case <-reloads:
		default:
		}
		reloads <- r
	}
	cm.OnChange(func(c *config.Config) { send(reload{cfg: c}) })
	cm.WatchConfig(func(err error) {
		logger.Warn("config reload rejected", "error", err)
		send(reload{err: err})
	})

	return runWindow(cmd.Context(), cfg, book, m, logger, reloads)
}

// reload is the outcome of a config file change.
type reload struct {
	cfg *config.Config
	err error
}

// session wires a book to a window for the lifetime of the loop.
type session struct {
	book     *epub.Book
	manager  *triptych.Manager
	reader   *triptych.Reader
	provider *pages.Provider
	logger   *slog.Logger
	title    string
	shown    int
}

func runWindow(ctx context.Context, cfg *config.Config, book *epub.Book, m *triptych.Manager, logger *slog.Logger, reloads <-chan reload) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1) // vsync

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	fbw, fbh := window.GetFramebufferSize()
	renderer, err := opengl.NewRenderer(fbw, fbh, triptych.BasicFace())
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer renderer.Delete()

	in := opengl.AttachInput(window)

	style, err := cfg.Style()
	if err != nil {
		return err
	}
	reader := triptych.NewReader(renderer, m,
		triptych.WithStyle(style),
		triptych.WithDragConfig(cfg.DragConfig()))

	loader := pages.NewLoader(book, cfg.Reader.CacheChapters, logger)
	provider := pages.NewProvider(ctx, loader, reader.Atlas(), style,
		pages.WithLogger(logger),
		pages.WithFailureHandler(func(index int, err error) {
			reader.Notify(fmt.Sprintf("chapter %d could not be loaded", index+1), triptych.NoticeWarning)
		}))
	m.SetProvider(provider)

	s := &session{
		book:     book,
		manager:  m,
		reader:   reader,
		provider: provider,
		logger:   logger,
		title:    cfg.Window.Title,
		shown:    -1,
	}

	last := glfw.GetTime()
	for !window.ShouldClose() && ctx.Err() == nil {
		input := in.NextFrame()
		glfw.PollEvents()

		now := glfw.GetTime()
		dt := float32(now - last)
		last = now

		select {
		case r := <-reloads:
			s.apply(r)
		default:
		}

		if input.KeyPressed(triptych.KeyEscape) {
			window.SetShouldClose(true)
		}
		s.pageColumns(input)

		w, h := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(w), int32(h))
		r, g, b, _ := triptych.UnpackRGBA(reader.Style().BackgroundColor)
		gl.ClearColor(float32(r)/255, float32(g)/255, float32(b)/255, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		reader.Begin(input, triptych.Vec2{X: float32(w), Y: float32(h)}, dt)
		if err := reader.End(); err != nil {
			return fmt.Errorf("render: %w", err)
		}

		if s.shown != m.Index() {
			s.shown = m.Index()
			window.SetTitle(s.windowTitle())
		}

		window.SwapBuffers()
	}

	logger.Info("reader closed", "chapter", m.Index()+1)
	return nil
}

// pageColumns moves through the columns of the current chapter. It only
// acts while the surface is at rest.
func (s *session) pageColumns(input *triptych.InputState) {
	if s.manager.Phase() != triptych.PhaseIdle || s.reader.Drag().IsSettling() {
		return
	}
	v, ok := s.manager.CurrentView().(*pages.PageView)
	if !ok {
		return
	}
	switch {
	case input.KeyPressed(triptych.KeyPageDown):
		v.NextColumn()
	case input.KeyPressed(triptych.KeyPageUp):
		v.PrevColumn()
	}
}

// apply installs a reloaded configuration.
func (s *session) apply(r reload) {
	if r.err != nil {
		s.reader.Notify("config not reloaded: "+r.err.Error(), triptych.NoticeWarning)
		return
	}
	c := r.cfg
	style, err := c.Style()
	if err != nil {
		s.logger.Warn("config reload rejected", "error", err)
		s.reader.Notify("config not reloaded: "+err.Error(), triptych.NoticeWarning)
		return
	}
	triptych.SetVerbose(verbose || c.Verbose)
	s.reader.SetStyle(style)
	s.reader.Drag().Config = c.DragConfig()
	s.provider.SetStyle(style)
	s.manager.Surface().SetSnapSpeed(float32(c.Reader.SnapSpeed))
	s.logger.Info("config reloaded", "theme", c.Theme.Name)
	s.reader.Notify("config reloaded", triptych.NoticeInfo)
}

func (s *session) windowTitle() string {
	return fmt.Sprintf("%s - %s (%d/%d)", s.title, s.book.Title, s.manager.Index()+1, s.manager.PageCount())
}
