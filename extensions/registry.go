// extensions/registry.go
package extensions

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/finbourne/identity-sdk-go/api"
	"github.com/finbourne/identity-sdk-go/apiclient"
)

// ApiPackage is the package hosting every identity API type.
const ApiPackage = "github.com/finbourne/identity-sdk-go/api"

// Constructor builds an API instance around a client handle.
type Constructor func(apiclient.Handle) (any, error)

// Registry maps API types to their constructors. Only types declared in the registry's namespace
// can be registered. A type registered with a nil constructor is recognized but cannot be built.
type Registry struct {
	namespace string

	lock         sync.RWMutex
	constructors map[reflect.Type]Constructor
}

// NewRegistry creates an empty registry for the API types of the given package path.
func NewRegistry(namespace string) *Registry {
	return &Registry{
		namespace:    namespace,
		constructors: make(map[reflect.Type]Constructor),
	}
}

// DefaultRegistry returns a registry holding every identity API type.
func DefaultRegistry() *Registry {
	r := NewRegistry(ApiPackage)
	mustRegister(r, infallible(api.NewRolesApi))
	mustRegister(r, infallible(api.NewUsersApi))
	mustRegister(r, infallible(api.NewApplicationsApi))
	return r
}

// Register records ctor as the constructor for T. It fails if T is not declared in the registry's
// namespace or is already registered.
func Register[T any](r *Registry, ctor func(apiclient.Handle) (T, error)) error {
	apiType := reflect.TypeFor[T]()
	if packageOf(apiType) != r.namespace {
		return notInNamespace(typeName(apiType), r.namespace)
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if _, exists := r.constructors[apiType]; exists {
		return fmt.Errorf("%s is already registered", typeName(apiType))
	}
	if ctor == nil {
		r.constructors[apiType] = nil
		return nil
	}
	r.constructors[apiType] = func(h apiclient.Handle) (any, error) {
		instance, err := ctor(h)
		if err != nil {
			return nil, err
		}
		if v := reflect.ValueOf(instance); !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
			return nil, errors.New("constructor returned a nil instance")
		}
		return instance, nil
	}
	return nil
}

func mustRegister[T any](r *Registry, ctor func(apiclient.Handle) (T, error)) {
	if err := Register(r, ctor); err != nil {
		panic(err)
	}
}

func infallible[T any](ctor func(apiclient.Handle) T) func(apiclient.Handle) (T, error) {
	return func(h apiclient.Handle) (T, error) {
		return ctor(h), nil
	}
}

// Namespace returns the package path of the API types this registry accepts.
func (r *Registry) Namespace() string {
	return r.namespace
}

// Recognizes reports whether apiType has been registered.
func (r *Registry) Recognizes(apiType reflect.Type) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	_, ok := r.constructors[apiType]
	return ok
}

// constructor returns the constructor for apiType, or an UnsupportedOperationError.
func (r *Registry) constructor(apiType reflect.Type) (Constructor, error) {
	r.lock.RLock()
	ctor, ok := r.constructors[apiType]
	r.lock.RUnlock()

	switch {
	case !ok && packageOf(apiType) != r.namespace:
		return nil, notInNamespace(typeName(apiType), r.namespace)
	case !ok, ctor == nil:
		return nil, missingConstructor(typeName(apiType), r.namespace)
	}
	return ctor, nil
}

func packageOf(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath()
}

// typeName renders a type as "<package path>.<name>", ignoring pointer indirection.
func typeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
