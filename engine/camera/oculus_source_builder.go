package camera

import (
	"log"

	"github.com/Carmen-Shannon/oxy-vr/engine/config"
	"github.com/Carmen-Shannon/oxy-vr/engine/sensorfuse"
	"github.com/Carmen-Shannon/oxy-vr/engine/tracker"
)

// OculusSourceOption is a functional option for configuring an OculusSource.
type OculusSourceOption func(*oculusSourceImpl)

// WithTracker fuses the HMD with an external tracker object. A "viewmat.vrpn.object"
// value in the config passed to WithConfig overrides object on every frame.
//
// Parameters:
//   - t: the tracker to read from
//   - object: the tracked object name ("" to rely on the config only)
//
// Returns:
//   - OculusSourceOption: functional option to set the tracker
func WithTracker(t tracker.Tracker, object string) OculusSourceOption {
	return func(src *oculusSourceImpl) {
		src.tracker = t
		src.object = object
	}
}

// WithFuser sets the orientation fuser. Defaults to sensorfuse.NewComplementary().
//
// Parameters:
//   - f: the fuser
//
// Returns:
//   - OculusSourceOption: functional option to set the fuser
func WithFuser(f sensorfuse.Fuser) OculusSourceOption {
	return func(src *oculusSourceImpl) {
		src.fuser = f
	}
}

// WithConfig sets the config queried for the tracker object name.
//
// Parameters:
//   - cfg: the config
//
// Returns:
//   - OculusSourceOption: functional option to set the config
func WithConfig(cfg config.Config) OculusSourceOption {
	return func(src *oculusSourceImpl) {
		src.cfg = cfg
	}
}

// WithSourceLogger sets the logger used for tracker diagnostics.
//
// Parameters:
//   - logger: the logger (nil keeps the default)
//
// Returns:
//   - OculusSourceOption: functional option to set the logger
func WithSourceLogger(logger *log.Logger) OculusSourceOption {
	return func(src *oculusSourceImpl) {
		if logger != nil {
			src.logger = logger
		}
	}
}
