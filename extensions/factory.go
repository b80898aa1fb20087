// extensions/factory.go
/* Package extensions builds ready-to-use identity API instances. ApiFactory hands out one instance per
API type, HttpClientFactory prepares the transport (including proxy authentication) and
RefreshingTokenApiClient keeps the Authorization header fresh before every call. */
package extensions

import (
	"reflect"
	"sync"

	"github.com/finbourne/identity-sdk-go/apiclient"
	"github.com/finbourne/identity-sdk-go/logger"
	"go.uber.org/zap"
)

// ApiFactory builds identity API instances bound to a single client handle. For each factory only
// one instance of every API type exists; instances are created on first request.
type ApiFactory struct {
	apiClient apiclient.Handle
	registry  *Registry
	Logger    logger.Logger

	lock            sync.Mutex
	initialisedApis map[reflect.Type]any
}

// FactoryOption configures an ApiFactory.
type FactoryOption func(*ApiFactory)

// WithRegistry replaces the default registry of identity API types.
func WithRegistry(registry *Registry) FactoryOption {
	return func(f *ApiFactory) {
		f.registry = registry
	}
}

// WithLogger sets the logger that records each API instance the factory creates.
func WithLogger(log logger.Logger) FactoryOption {
	return func(f *ApiFactory) {
		f.Logger = log
	}
}

// NewApiFactory creates a factory whose API instances dispatch through apiClient.
func NewApiFactory(apiClient apiclient.Handle, opts ...FactoryOption) *ApiFactory {
	f := &ApiFactory{
		apiClient:       apiClient,
		Logger:          logger.NewNopLogger(),
		initialisedApis: make(map[reflect.Type]any),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.registry == nil {
		f.registry = DefaultRegistry()
	}
	return f
}

// ApiClient returns the handle shared by every API built by this factory.
func (f *ApiFactory) ApiClient() apiclient.Handle {
	return f.apiClient
}

// Build returns this factory's instance of the API type T, e.g. Build[*api.RolesApi](factory).
//
// It fails with ErrUnsupportedConfiguration if T is not a registered identity API type or has no
// constructor, and with ErrConstructionFailure if the constructor fails.
func Build[T any](f *ApiFactory) (T, error) {
	var zero T
	apiType := reflect.TypeFor[T]()

	instance, err := f.BuildType(apiType)
	if err != nil {
		return zero, err
	}
	api, ok := instance.(T)
	if !ok {
		return zero, missingConstructor(typeName(apiType), f.registry.Namespace())
	}
	return api, nil
}

// BuildType is the untyped form of Build.
func (f *ApiFactory) BuildType(apiType reflect.Type) (any, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if instance, ok := f.initialisedApis[apiType]; ok {
		return instance, nil
	}

	ctor, err := f.registry.constructor(apiType)
	if err != nil {
		return nil, err
	}
	instance, err := ctor(f.apiClient)
	if err != nil {
		return nil, constructionFailed(typeName(apiType), f.registry.Namespace(), err)
	}

	f.initialisedApis[apiType] = instance
	f.Logger.Debug("Identity API initialised", zap.String("api", typeName(apiType)))
	return instance, nil
}
