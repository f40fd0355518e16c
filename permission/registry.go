package permission

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MrEthical07/selmaGate/session"
)

var (
	// ErrDuplicateFeature is returned when a feature key is registered twice.
	ErrDuplicateFeature = errors.New("feature already registered")
	// ErrEmptyFeature is returned for an empty feature key.
	ErrEmptyFeature = errors.New("feature key cannot be empty")
)

// MaxFeatures is the number of feature keys a [Registry] can hold.
const MaxFeatures = rootBit64

// Registry maps feature keys to bit positions in a [Mask64]. The highest bit
// is reserved for the admin super-role, leaving 63 feature slots.
type Registry struct {
	mu        sync.RWMutex
	nameToBit map[string]int
	bitToName map[int]string
	frozen    bool
}

// NewRegistry returns an empty, unfrozen [Registry].
func NewRegistry() *Registry {
	return &Registry{
		nameToBit: make(map[string]int),
		bitToName: make(map[int]string),
	}
}

// NewFeatureRegistry registers features in order and freezes the registry.
func NewFeatureRegistry(features []string) (*Registry, error) {
	r := NewRegistry()
	for _, name := range features {
		if _, err := r.Register(name); err != nil {
			return nil, fmt.Errorf("%w: %s", err, name)
		}
	}
	r.Freeze()
	return r, nil
}

// Register assigns the next available bit to name and returns it.
func (r *Registry) Register(name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return -1, errors.New("registry frozen")
	}
	if name == "" {
		return -1, ErrEmptyFeature
	}
	if _, exists := r.nameToBit[name]; exists {
		return -1, ErrDuplicateFeature
	}

	nextBit := len(r.nameToBit)
	if nextBit >= MaxFeatures {
		return -1, errors.New("feature limit exceeded (root bit reserved)")
	}

	r.nameToBit[name] = nextBit
	r.bitToName[nextBit] = name
	return nextBit, nil
}

// Bit returns the bit of name, or false if it is not registered.
func (r *Registry) Bit(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bit, ok := r.nameToBit[name]
	return bit, ok
}

// Name returns the feature key at bit, or false if unassigned.
func (r *Registry) Name(bit int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.bitToName[bit]
	return name, ok
}

// Freeze prevents further registrations.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Count returns the number of registered features.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nameToBit)
}

// Grants computes the grant set of rec. Admin records get the root bit. A
// malformed permissions string yields an empty mask and the decode error.
func (r *Registry) Grants(rec *session.Record) (Mask64, error) {
	var mask Mask64
	if rec == nil {
		return mask, nil
	}
	if IsAdmin(rec.Role()) {
		mask.Set(rootBit64)
		return mask, nil
	}

	perms, err := session.DecodePermissions(rec)
	if err != nil {
		if errors.Is(err, session.ErrPermissionsAbsent) {
			return mask, nil
		}
		return mask, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, bit := range r.nameToBit {
		if perms.Granted(name) {
			mask.Set(bit)
		}
	}
	return mask, nil
}

// Names lists the registered features allowed by mask, in registration order.
func (r *Registry) Names(mask Mask64) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.nameToBit))
	for bit := 0; bit < len(r.bitToName); bit++ {
		if mask.Has(bit, true) {
			out = append(out, r.bitToName[bit])
		}
	}
	return out
}
