package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vr/engine/viewmat"
	"github.com/Carmen-Shannon/oxy-vr/engine/window"
)

// RenderFunc draws one eye. The GL matrices are already loaded when a window is attached.
type RenderFunc func(viewportID int, eye common.Eye, deltaTime float32)

type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	window  window.Window
	viewmat viewmat.Viewmat

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback RenderFunc

	renderFrameLimit time.Duration
	lastRender       time.Time

	logger *log.Logger
}

// Engine runs a fixed-rate tick loop for input and camera updates alongside a render
// loop that draws every viewport of the display mode once per frame.
type Engine interface {
	// Window returns the attached window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Viewmat returns the per-viewport matrices the engine renders with.
	//
	// Returns:
	//   - viewmat.Viewmat: the viewmat
	Viewmat() viewmat.Viewmat

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick, on the tick goroutine.
	// Use it for input handling and camera movement.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function that draws one eye. It is called once per
	// viewport per frame, on the render goroutine.
	//
	// Parameters:
	//   - callback: the draw function
	SetRenderCallback(callback RenderFunc)

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Frame renders one frame synchronously: begin the frame on the display mode and the
	// camera, recompute the view matrices, draw every viewport, end the frame.
	// Run calls it in a loop; it is exported for driving the engine manually.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame
	Frame(deltaTime float32)

	// Run starts the tick goroutine and runs the render loop on the calling goroutine.
	// With a window it blocks until the window closes; headless it blocks until Quit.
	Run()

	// Quit signals all engine loops to stop. Safe to call multiple times.
	Quit()
}

// NewEngine creates an Engine. A viewmat must be supplied with WithViewmat.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		engineTickRate:  time.Second / 60,
		logger:          log.Default(),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.viewmat == nil {
		panic("engine: NewEngine requires a viewmat (use WithViewmat)")
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(
			profiler.WithLogger(e.logger),
			profiler.WithMismatchCounter(e.viewmat.Controller().Mismatches),
		)
	}

	if e.window != nil {
		display := e.viewmat.DisplayMode()
		display.Resize(e.window.Width(), e.window.Height())
		e.window.SetResizeCallback(func(width, height int) {
			display.Resize(width, height)
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Viewmat() viewmat.Viewmat {
	return e.viewmat
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.wg.Add(1)
	go e.handleEngine()

	e.lastRender = time.Now()
	if e.window != nil {
		e.window.SetUpdateCallback(e.renderStep)
		e.window.ProcessMessages()
		e.signalQuit()
		if err := e.window.Close(); err != nil {
			e.logger.Printf("[Engine] Window already closed: %v", err)
		}
	} else {
		e.handleHeadless()
	}
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel exactly once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handleEngine runs the fixed-rate tick loop until the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	e.mu.Lock()
	rate := e.engineTickRate
	e.mu.Unlock()
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.mu.Lock()
			cb := e.tickCallback
			e.mu.Unlock()
			if cb != nil {
				cb(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
		}
	}
}

// handleHeadless renders frames until Quit when no window is attached.
func (e *engine) handleHeadless() {
	for {
		select {
		case <-e.quitChannel:
			return
		default:
			e.renderStep()
		}
	}
}

// renderStep renders one frame and applies the frame limit. A panic while rendering is
// logged and stops the engine.
func (e *engine) renderStep() {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Printf("[Engine] Render loop recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	// GLFW calls must stay on the render goroutine, so the window is closed here
	// rather than in Quit.
	select {
	case <-e.quitChannel:
		if e.window != nil && e.window.IsRunning() {
			e.window.Close()
		}
		return
	default:
	}

	now := time.Now()
	dt := float32(now.Sub(e.lastRender).Seconds())
	e.lastRender = now

	e.Frame(dt)

	e.mu.Lock()
	profiling, limit := e.profilingEnabled, e.renderFrameLimit
	e.mu.Unlock()
	if profiling {
		e.profiler.Tick()
	}
	if limit > 0 {
		if remaining := limit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) Frame(deltaTime float32) {
	display := e.viewmat.DisplayMode()
	controller := e.viewmat.Controller()

	display.BeginFrame()
	controller.BeginFrame()
	e.viewmat.Update()

	e.mu.Lock()
	cb := e.renderCallback
	e.mu.Unlock()

	for id := range e.viewmat.NumViewports() {
		display.BeginEye(id)
		if e.window != nil {
			view, proj, _ := e.viewmat.Get(id)
			e.window.ApplyEye(e.viewmat.Viewport(id), proj, view)
		}
		if cb != nil {
			cb(id, e.viewmat.Eye(id), deltaTime)
		}
		display.EndEye(id)
	}

	display.EndFrame()
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate takes effect immediately when the engine is running.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	e.engineTickRate = newRate
	running := e.running
	e.mu.Unlock()
	if !running {
		return
	}

	// Replace any pending update with the newest rate.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback RenderFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
