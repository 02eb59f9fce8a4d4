package runtime

import (
	"context"
	"fmt"
	"sync"
)

// MockRuntime is a mock implementation of Runtime for testing
type MockRuntime struct {
	mu sync.RWMutex

	// Containers tracks the state of mock containers
	Containers map[string]ContainerStatus

	// Images tracks built image tags
	Images map[string]bool

	// Errors allows injecting errors for specific operations
	Errors map[string]error

	// CallLog records all method calls for verification
	CallLog []MockCall
}

// MockCall represents a recorded method call
type MockCall struct {
	Method string
	Args   []any
}

// NewMockRuntime creates a new mock runtime
func NewMockRuntime() *MockRuntime {
	return &MockRuntime{
		Containers: make(map[string]ContainerStatus),
		Images:     make(map[string]bool),
		Errors:     make(map[string]error),
		CallLog:    make([]MockCall, 0),
	}
}

func (m *MockRuntime) record(method string, args ...any) {
	m.CallLog = append(m.CallLog, MockCall{Method: method, Args: args})
}

// SetError sets an error to be returned for a specific operation
func (m *MockRuntime) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[operation] = err
}

// AddContainer adds a container to the mock
func (m *MockRuntime) AddContainer(name string, status ContainerStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Containers[name] = status
}

// ContainerState returns the tracked state, StatusNotFound when absent.
func (m *MockRuntime) ContainerState(name string) ContainerStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.Containers[name]; ok {
		return s
	}
	return StatusNotFound
}

// GetCalls returns all recorded calls
func (m *MockRuntime) GetCalls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := make([]MockCall, len(m.CallLog))
	copy(calls, m.CallLog)
	return calls
}

// GetCallsFor returns all calls for a specific method
func (m *MockRuntime) GetCallsFor(method string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var calls []MockCall
	for _, call := range m.CallLog {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// Methods returns the recorded method names in call order.
func (m *MockRuntime) Methods() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	methods := make([]string, len(m.CallLog))
	for i, call := range m.CallLog {
		methods[i] = call.Method
	}
	return methods
}

// Reset clears all state
func (m *MockRuntime) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Containers = make(map[string]ContainerStatus)
	m.Images = make(map[string]bool)
	m.Errors = make(map[string]error)
	m.CallLog = make([]MockCall, 0)
}

// Name returns the runtime identifier
func (m *MockRuntime) Name() string {
	return "mock"
}

// Status returns the state of a container
func (m *MockRuntime) Status(ctx context.Context, name string) (ContainerStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Status", name)

	if err, ok := m.Errors["Status"]; ok {
		return StatusUnknown, err
	}
	if s, ok := m.Containers[name]; ok {
		return s, nil
	}
	return StatusNotFound, nil
}

// Build records an image build
func (m *MockRuntime) Build(ctx context.Context, opts BuildOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Build", opts)

	if err, ok := m.Errors["Build"]; ok {
		return err
	}
	m.Images[opts.Tag] = true
	return nil
}

// Run creates a running container
func (m *MockRuntime) Run(ctx context.Context, opts RunOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Run", opts)

	if err, ok := m.Errors["Run"]; ok {
		return err
	}
	if !m.Images[opts.Image] {
		return fmt.Errorf("image not found: %s", opts.Image)
	}
	if _, exists := m.Containers[opts.Name]; exists {
		return fmt.Errorf("container name %s is already in use", opts.Name)
	}
	m.Containers[opts.Name] = StatusRunning
	return nil
}

// Start starts an existing container
func (m *MockRuntime) Start(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Start", name)

	if err, ok := m.Errors["Start"]; ok {
		return err
	}
	if _, ok := m.Containers[name]; ok {
		m.Containers[name] = StatusRunning
		return nil
	}
	return fmt.Errorf("container not found: %s", name)
}

// Stop stops a running container
func (m *MockRuntime) Stop(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Stop", name)

	if err, ok := m.Errors["Stop"]; ok {
		return err
	}
	if _, ok := m.Containers[name]; ok {
		m.Containers[name] = StatusStopped
		return nil
	}
	return fmt.Errorf("container not found: %s", name)
}

// Remove deletes a stopped container
func (m *MockRuntime) Remove(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Remove", name)

	if err, ok := m.Errors["Remove"]; ok {
		return err
	}
	if m.Containers[name] == StatusRunning {
		return fmt.Errorf("cannot remove running container %s", name)
	}
	delete(m.Containers, name)
	return nil
}

// ExecInteractive records an interactive session
func (m *MockRuntime) ExecInteractive(ctx context.Context, name string, command []string, opts ExecOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ExecInteractive", name, command, opts)

	if err, ok := m.Errors["ExecInteractive"]; ok {
		return err
	}
	if m.Containers[name] != StatusRunning {
		return fmt.Errorf("container %s is not running", name)
	}
	return nil
}

var _ Runtime = (*MockRuntime)(nil)
