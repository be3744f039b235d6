package field

import (
	"reflect"
	"time"

	"github.com/conduit-lang/bdo/internal/tracking"
)

// PropertyParams configures a Property.
type PropertyParams struct {
	// StoreTemporary is the lifetime of a written value. Zero keeps values
	// forever.
	StoreTemporary time.Duration
	// SaveInLocalStorage mirrors the field into the host's namespaced
	// storage.
	SaveInLocalStorage bool
	Nullable           bool
	DisableTypeGuard   bool
	Type               TypeFunc
}

// Property is a plain reactive value.
type Property struct {
	base
	params PropertyParams

	expires   time.Time
	timer     Timer
	resetting bool
}

// NewProperty creates a property of object.
func NewProperty(object Host, name string, params PropertyParams) *Property {
	p := &Property{base: newBase(object, name), params: params}
	p.guard = newGuard(params.Type, params.Nullable, params.DisableTypeGuard)
	return p
}

// Params returns the declaration parameters.
func (p *Property) Params() PropertyParams { return p.params }

// Expires returns when the current value expires. It is zero when no
// expiration is armed.
func (p *Property) Expires() time.Time { return p.expires }

// ValueOf returns the current value. Namespaced storage wins over memory and
// an expired temporary value reads as the field's fallback.
func (p *Property) ValueOf() any {
	v := p.value.get()
	if p.params.SaveInLocalStorage {
		if ns, ok := p.object.(NamespacedStorer); ok {
			if stored := ns.GetNamespacedStorage(p.name, "", ""); stored != nil && !sameData(v, stored) {
				v = stored
			}
		}
	}
	if v != nil && p.params.StoreTemporary > 0 {
		if !p.expires.IsZero() && p.expires.Before(p.clock().Now()) {
			return p.fallback()
		}
		if mem := p.value.get(); mem != nil {
			return mem
		}
	}
	return v
}

// SetValue validates and writes value.
func (p *Property) SetValue(value any) {
	if err := p.guardCheck(value, nil); err != nil {
		p.report(err)
		return
	}
	p.assign(value, p.ValueOf())
}

func (p *Property) assign(value, previous any) bool {
	v, forced := unwrap(value)
	if !forced && Same(previous, v) {
		return false
	}
	p.value.set(v)
	p.addExpiration(v)
	p.mirror()
	return true
}

// ProxyHandler mirrors in-place list mutations into namespaced storage.
func (p *Property) ProxyHandler(path string, changed, previous any, op string) {
	p.mirror()
}

// Dispose stops a pending expiration.
func (p *Property) Dispose() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// sameData reports whether a live value and its stored mirror hold the same
// data. The live value is then preferred so that tracked lists keep their
// identity.
func sameData(live, stored any) bool {
	if live == nil {
		return false
	}
	return reflect.DeepEqual(tracking.Normalize(Plain(live)), tracking.Normalize(stored))
}

func (p *Property) clock() Clock {
	if p.object != nil {
		if c := p.object.Clock(); c != nil {
			return c
		}
	}
	return SystemClock
}

func (p *Property) fallback() any {
	if p.params.Nullable || p.object == nil {
		return nil
	}
	return p.object.Meta().DefaultSettings[p.name]
}

func (p *Property) addExpiration(v any) {
	if v == nil || p.params.StoreTemporary <= 0 || p.resetting {
		return
	}
	clock := p.clock()
	p.expires = clock.Now().Add(p.params.StoreTemporary)
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = clock.AfterFunc(p.params.StoreTemporary, p.expire)
}

// expire resets the field through its host so that the outermost field
// (and any reactions on it) observes the reset.
func (p *Property) expire() {
	p.timer = nil
	p.resetting = true
	defer func() { p.resetting = false }()
	_ = p.object.Set(p.name, Modification{Value: p.fallback()})
}

func (p *Property) mirror() {
	if !p.shouldUpdateNsStorage() {
		return
	}
	p.object.(NamespacedStorer).SetUpdateNamespacedStorage(p.name, Plain(p.value.get()), "")
}

func (p *Property) shouldUpdateNsStorage() bool {
	if !p.params.SaveInLocalStorage || p.object == nil {
		return false
	}
	ns, ok := p.object.(NamespacedStorer)
	if !ok {
		return false
	}
	st := p.object.Meta()
	if st.KeyShouldBeUpdated[p.name] {
		return true
	}
	if ns.GetNamespacedStorage(p.name, "", "") == nil {
		st.KeyShouldBeUpdated[p.name] = true
		return true
	}
	return st.ConstructionComplete
}
