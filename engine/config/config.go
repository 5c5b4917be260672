// Package config holds the string-keyed optional settings that the display modes and
// camera controllers query every frame (for example "viewmat.vrpn.object" or "ipd").
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Well-known keys.
const (
	KeyTrackerObject = "viewmat.vrpn.object"
	KeyTrackerListen = "tracker.listen"
	KeyIPD           = "ipd"
	KeyNearPlane     = "nearplane"
	KeyFarPlane      = "farplane"
	KeyDisplayMode   = "dispmode"
	KeyInitialPos    = "camera.initialpos"
)

type configImpl struct {
	mu     *sync.RWMutex
	values map[string]string
}

// Config is a flat key/value settings store. Lookups are cheap and safe to repeat every frame.
type Config interface {
	// Get returns the raw string value for key.
	//
	// Parameters:
	//   - key: dotted setting name
	//
	// Returns:
	//   - string: the value, or "" if unset
	//   - bool: true if the key is set
	Get(key string) (string, bool)

	// IsSet reports whether key has a value.
	//
	// Parameters:
	//   - key: dotted setting name
	//
	// Returns:
	//   - bool: true if the key is set
	IsSet(key string) bool

	// Float parses the value for key as a float32.
	// Returns def when the key is unset or does not parse.
	//
	// Parameters:
	//   - key: dotted setting name
	//   - def: fallback value
	//
	// Returns:
	//   - float32: the parsed value or def
	Float(key string, def float32) float32

	// Vec3 parses the value for key as three whitespace or comma separated floats.
	// Returns def when the key is unset or does not parse.
	//
	// Parameters:
	//   - key: dotted setting name
	//   - def: fallback value
	//
	// Returns:
	//   - mgl32.Vec3: the parsed vector or def
	Vec3(key string, def mgl32.Vec3) mgl32.Vec3

	// Set stores value under key, replacing any previous value.
	//
	// Parameters:
	//   - key: dotted setting name
	//   - value: the raw string value
	Set(key, value string)

	// Unset removes key.
	//
	// Parameters:
	//   - key: dotted setting name
	Unset(key string)

	// Keys returns all set keys in sorted order.
	//
	// Returns:
	//   - []string: sorted key names
	Keys() []string
}

var _ Config = &configImpl{}

// New creates a Config from an in-memory map. The map is copied.
//
// Parameters:
//   - values: initial key/value pairs (may be nil)
//
// Returns:
//   - Config: the new config
func New(values map[string]string) Config {
	c := &configImpl{
		mu:     &sync.RWMutex{},
		values: make(map[string]string, len(values)),
	}
	for k, v := range values {
		c.values[k] = v
	}
	return c
}

// Load reads a JSON config file. Nested objects are flattened into dotted keys, so
// {"viewmat": {"vrpn": {"object": "DK2"}}} and {"viewmat.vrpn.object": "DK2"} are equivalent.
// Numbers and booleans are stored in their JSON text form.
//
// Parameters:
//   - path: path of the JSON file
//
// Returns:
//   - Config: the loaded config
//   - error: error if the file cannot be read or parsed
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Config from JSON bytes. See Load for the accepted shape.
//
// Parameters:
//   - data: JSON document whose top level is an object
//
// Returns:
//   - Config: the parsed config
//   - error: error if the document is not a JSON object or holds arrays
func Parse(data []byte) (Config, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	values := make(map[string]string)
	if err := flatten("", raw, values); err != nil {
		return nil, err
	}
	return New(values), nil
}

func flatten(prefix string, in map[string]any, out map[string]string) error {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		case string:
			out[key] = val
		case float64:
			out[key] = strconv.FormatFloat(val, 'g', -1, 64)
		case bool:
			out[key] = strconv.FormatBool(val)
		case nil:
			// null leaves the key unset
		default:
			return fmt.Errorf("config: key %q: unsupported value type %T", key, v)
		}
	}
	return nil
}

func (c *configImpl) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *configImpl) IsSet(key string) bool {
	_, ok := c.Get(key)
	return ok
}

func (c *configImpl) Float(key string, def float32) float32 {
	v, ok := c.Get(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
	if err != nil {
		return def
	}
	return float32(f)
}

func (c *configImpl) Vec3(key string, def mgl32.Vec3) mgl32.Vec3 {
	v, ok := c.Get(key)
	if !ok {
		return def
	}
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 3 {
		return def
	}
	var out mgl32.Vec3
	for i, f := range fields {
		p, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return def
		}
		out[i] = float32(p)
	}
	return out
}

func (c *configImpl) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

func (c *configImpl) Unset(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}

func (c *configImpl) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
