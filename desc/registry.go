package desc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned (wrapped) when a service or method ID, or a
// method name, does not resolve to anything in the registry.
var ErrNotFound = errors.New("desc: not found")

// ErrInvalidName is returned when a method name is not of the form
// "package.Service/Method" or "package.Service.Method".
var ErrInvalidName = errors.New("desc: invalid method name")

// Registry is an immutable lookup from (service_id, method_id) to Method,
// built once at client construction and read concurrently thereafter.
type Registry struct {
	services []*Service
	byID     map[uint32]*Service
	byName   map[string]*Service
}

// NewRegistry builds a Registry from an ordered set of services. Service
// order is preserved for iteration (Services), matching how Client exposes
// services in registration order.
func NewRegistry(services ...*Service) *Registry {
	r := &Registry{
		services: append([]*Service(nil), services...),
		byID:     make(map[uint32]*Service, len(services)),
		byName:   make(map[string]*Service, len(services)),
	}
	for _, s := range services {
		if _, ok := r.byID[s.ID]; ok {
			panic(fmt.Sprintf("desc: two services share ID %d", s.ID))
		}
		if _, ok := r.byName[s.Name]; ok {
			panic(fmt.Sprintf("desc: two services share name %q", s.Name))
		}
		r.byID[s.ID] = s
		r.byName[s.Name] = s
	}
	return r
}

// Services returns the registered services in registration order.
func (r *Registry) Services() []*Service {
	return append([]*Service(nil), r.services...)
}

// ServiceByID looks up a service by its numeric ID.
func (r *Registry) ServiceByID(id uint32) (*Service, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: service ID %d", ErrNotFound, id)
	}
	return s, nil
}

// Method looks up a method by its (service_id, method_id) pair, as used by
// the dispatcher to resolve an inbound packet.
func (r *Registry) Method(serviceID, methodID uint32) (*Service, *Method, error) {
	s, err := r.ServiceByID(serviceID)
	if err != nil {
		return nil, nil, err
	}
	m, ok := s.Method(methodID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: method ID %d in service %s", ErrNotFound, methodID, s.Name)
	}
	return s, m, nil
}

// Resolve looks up a method by its canonical name, accepting either
// "package.Service/Method" or "package.Service.Method".
func (r *Registry) Resolve(name string) (*Service, *Method, error) {
	serviceName, methodName, err := splitMethodName(name)
	if err != nil {
		return nil, nil, err
	}
	s, ok := r.byName[serviceName]
	if !ok {
		return nil, nil, fmt.Errorf("%w: service %q", ErrNotFound, serviceName)
	}
	m, ok := s.MethodByName(methodName)
	if !ok {
		return nil, nil, fmt.Errorf("%w: method %q in service %s", ErrNotFound, methodName, s.Name)
	}
	return s, m, nil
}

// splitMethodName splits "package.Service/Method" or "package.Service.Method"
// into its service and method components.
func splitMethodName(name string) (service, method string, err error) {
	if slash := strings.LastIndexByte(name, '/'); slash >= 0 {
		service, method = name[:slash], name[slash+1:]
	} else if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		service, method = name[:dot], name[dot+1:]
	} else {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if service == "" || method == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return service, method, nil
}
