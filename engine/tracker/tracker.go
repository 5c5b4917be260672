// Package tracker keeps the latest pose of externally tracked objects, such as a
// motion-capture rigid body attached to a head-mounted display.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"
)

// Pose is the last reported state of one tracked object.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Updated     time.Time
}

// Tracker stores tracked object poses and optionally receives them over UDP.
type Tracker interface {
	// Get returns the most recent pose of an object.
	//
	// Parameters:
	//   - object: the tracked object name
	//
	// Returns:
	//   - mgl32.Vec3: position in tracking space
	//   - mgl32.Mat4: orientation as a rotation-only matrix
	//   - bool: false if the object has never reported
	Get(object string) (mgl32.Vec3, mgl32.Mat4, bool)

	// Pose returns the raw stored pose of an object.
	//
	// Parameters:
	//   - object: the tracked object name
	//
	// Returns:
	//   - Pose: the stored pose
	//   - bool: false if the object has never reported
	Pose(object string) (Pose, bool)

	// Update stores a new pose for an object. The orientation is normalized.
	//
	// Parameters:
	//   - object: the tracked object name
	//   - position: position in tracking space
	//   - orientation: orientation quaternion
	Update(object string, position mgl32.Vec3, orientation mgl32.Quat)

	// Objects returns the names of all objects that have reported, sorted.
	//
	// Returns:
	//   - []string: object names
	Objects() []string

	// Listen opens a UDP socket on addr and serves pose datagrams until ctx is cancelled.
	//
	// Parameters:
	//   - ctx: cancellation context
	//   - addr: local UDP address, e.g. ":3883"
	//
	// Returns:
	//   - error: error if the socket cannot be opened or reading fails
	Listen(ctx context.Context, addr string) error

	// Serve reads pose datagrams from an already open connection until ctx is cancelled.
	// The connection is closed when Serve returns.
	//
	// Parameters:
	//   - ctx: cancellation context
	//   - conn: the packet connection to read from
	//
	// Returns:
	//   - error: error if reading fails for a reason other than cancellation
	Serve(ctx context.Context, conn net.PacketConn) error
}

type trackerImpl struct {
	mu *sync.Mutex

	poses map[string]Pose
	seqs  map[string]int

	workers    int
	decodePool worker.DynamicWorkerPool
	poolOnce   *sync.Once
	arrivals   int

	logger *log.Logger
}

var _ Tracker = &trackerImpl{}

// NewTracker creates an empty tracker.
//
// Parameters:
//   - options: functional options to configure the tracker
//
// Returns:
//   - Tracker: the tracker
func NewTracker(options ...TrackerBuilderOption) Tracker {
	t := &trackerImpl{
		mu:       &sync.Mutex{},
		poses:    make(map[string]Pose),
		seqs:     make(map[string]int),
		workers:  2,
		poolOnce: &sync.Once{},
		logger:   log.Default(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *trackerImpl) Get(object string) (mgl32.Vec3, mgl32.Mat4, bool) {
	p, ok := t.Pose(object)
	if !ok {
		return mgl32.Vec3{}, mgl32.Ident4(), false
	}
	return p.Position, p.Orientation.Mat4(), true
}

func (t *trackerImpl) Pose(object string) (Pose, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.poses[object]
	return p, ok
}

func (t *trackerImpl) Update(object string, position mgl32.Vec3, orientation mgl32.Quat) {
	t.update(t.nextSeq(), object, position, orientation)
}

// nextSeq allocates the next arrival sequence number.
func (t *trackerImpl) nextSeq() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	seq := t.arrivals
	t.arrivals++
	return seq
}

// update stores a pose unless a pose with a later arrival sequence is already stored.
// Decode workers can finish out of order, so seq is taken when the datagram arrives.
func (t *trackerImpl) update(seq int, object string, position mgl32.Vec3, orientation mgl32.Quat) {
	if orientation.Len() == 0 {
		orientation = mgl32.QuatIdent()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if last, ok := t.seqs[object]; ok && seq < last {
		return
	}
	t.seqs[object] = seq
	t.arrivals = max(t.arrivals, seq+1)
	t.poses[object] = Pose{
		Position:    position,
		Orientation: orientation.Normalize(),
		Updated:     time.Now(),
	}
}

func (t *trackerImpl) Objects() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.poses))
	for name := range t.poses {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (t *trackerImpl) Listen(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	conn, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		return fmt.Errorf("tracker: listen %s: %w", addr, err)
	}
	t.logger.Printf("[Tracker] Listening for poses on %s", conn.LocalAddr())
	return t.Serve(ctx, conn)
}

func (t *trackerImpl) Serve(ctx context.Context, conn net.PacketConn) error {
	t.poolOnce.Do(func() {
		t.decodePool = worker.NewDynamicWorkerPool(t.workers, 256, 1*time.Second)
	})

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		conn.Close()
	}()

	buf := make([]byte, MaxDatagramSize)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("tracker: read: %w", err)
		}

		packet := slices.Clone(buf[:n])
		seq := t.nextSeq()

		t.decodePool.SubmitTask(worker.Task{
			ID: seq,
			Do: func() (any, error) {
				name, pos, rot, err := DecodeDatagram(packet)
				if err != nil {
					t.logger.Printf("[Tracker] Dropping datagram from %s: %v", from, err)
					return nil, err
				}
				t.update(seq, name, pos, rot)
				return nil, nil
			},
		})
	}
}
