package typedi

import (
	"reflect"
	"sync"

	"github.com/inventex/typedi/internal/reflection"
)

// plan is the construction recipe for one service type: the selected
// constructor (nil for implicit construction) and the fields to inject.
type plan struct {
	descriptor  *Descriptor
	constructor *Constructor
	fields      []reflection.FieldInfo
}

// planCache memoizes plans per registered service type. Only successful
// plans are stored, so a failing selection is evaluated again on the next
// resolution.
// Plans are metadata and survive Reset.
type planCache struct {
	plans  sync.Map // map[reflect.Type]*plan
	policy MarkerPolicy
}

func newPlanCache(policy MarkerPolicy) *planCache {
	return &planCache{policy: policy}
}

// get returns the plan for a registered descriptor, building it on first use.
func (pc *planCache) get(d *Descriptor) (*plan, error) {
	if cached, ok := pc.plans.Load(d.Type); ok {
		return cached.(*plan), nil
	}

	p, err := pc.build(d)
	if err != nil {
		return nil, err
	}

	actual, _ := pc.plans.LoadOrStore(d.Type, p)
	return actual.(*plan), nil
}

// build computes a plan for d without caching it.
func (pc *planCache) build(d *Descriptor) (*plan, error) {
	constructor, err := selectConstructor(d)
	if err != nil {
		return nil, err
	}

	fields, err := injectableFields(d, pc.policy)
	if err != nil {
		return nil, err
	}

	return &plan{
		descriptor:  d,
		constructor: constructor,
		fields:      fields,
	}, nil
}

func (pc *planCache) has(t reflect.Type) bool {
	_, ok := pc.plans.Load(t)
	return ok
}

func (pc *planCache) size() int {
	count := 0
	pc.plans.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
